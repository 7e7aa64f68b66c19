package clock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stateforward/go-fsm/clock"
)

func TestManual(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := clock.NewManual(start)
	require.NoError(t, c.Sleep(context.Background(), time.Second))
	c.Advance(time.Minute)
	assert.Equal(t, start.Add(time.Minute+time.Second), c.Now())
	assert.Equal(t, []time.Duration{time.Second}, c.Slept())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.Sleep(ctx, time.Second), context.Canceled)
	assert.Len(t, c.Slept(), 1)
}

func TestWallClock(t *testing.T) {
	c := clock.Make(clock.Config{Multiplier: 1000})
	began := time.Now()
	require.NoError(t, c.Sleep(context.Background(), time.Second))
	assert.Less(t, time.Since(began), 500*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, clock.Make().Sleep(ctx, time.Hour), context.Canceled)
}
