package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"

	fsm "github.com/stateforward/go-fsm"
	"github.com/stateforward/go-fsm/pkg/telemetry"
)

func names(spans []*telemetry.Span) []string {
	result := make([]string, len(spans))
	for i, span := range spans {
		result[i] = span.Name
	}
	return result
}

func TestTraceSpans(t *testing.T) {
	provider := telemetry.NewProvider()
	machine := fsm.New("S1", fsm.Config{Name: "traced", Id: "id-1", Trace: telemetry.New(provider.Tracer("test"))})
	require.NoError(t, machine.AddState(fsm.Define("S1",
		fsm.Entry(func(fsm.Context) error { return nil }),
		fsm.Activity(fsm.Do(func(fsm.Context) error { return nil })),
		fsm.On("go", fsm.Set("Nowhere")),
	)))

	require.NoError(t, machine.Execute(context.Background()))
	spans := provider.Spans()
	assert.Equal(t, []string{"fsm.enter", "fsm.execute", "fsm.tick"}, names(spans))

	enter := spans[0]
	assert.Equal(t, "fsm.tick", enter.Parent)
	assert.Equal(t, "test", enter.Scope)
	state, ok := enter.Attribute("fsm.state")
	require.True(t, ok)
	assert.Equal(t, "S1", state.AsString())
	id, ok := spans[2].Attribute("fsm.id")
	require.True(t, ok)
	assert.Equal(t, "id-1", id.AsString())
	assert.Equal(t, codes.Unset, spans[2].Status)

	provider.Reset()
	require.NoError(t, machine.Send("go"))
	err := machine.Execute(context.Background())
	require.Error(t, err)
	spans = provider.Spans()
	require.Equal(t, []string{"fsm.tick"}, names(spans))
	assert.Equal(t, codes.Error, spans[0].Status)
	assert.Equal(t, err.Error(), spans[0].Description)
	assert.Equal(t, []error{err}, spans[0].Errors)
}

func TestTraceFailingHook(t *testing.T) {
	provider := telemetry.NewProvider()
	machine := fsm.New("S1", fsm.Config{Trace: telemetry.New(provider.Tracer("test"))})
	require.NoError(t, machine.AddState(fsm.Define("S1", fsm.Entry(func(fsm.Context) error {
		return assert.AnError
	}))))

	err := machine.Execute(context.Background())
	require.ErrorIs(t, err, assert.AnError)
	spans := provider.Spans()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status)
	assert.Equal(t, codes.Error, spans[1].Status)
}

func TestGlobalTracerFallback(t *testing.T) {
	machine := fsm.New("S1", fsm.Config{Trace: telemetry.New()})
	require.NoError(t, machine.AddState(fsm.Define("S1")))
	assert.NoError(t, machine.Execute(context.Background()))
}
