package fsm_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fsm "github.com/stateforward/go-fsm"
	"github.com/stateforward/go-fsm/kinds"
)

func TestCommands(t *testing.T) {
	tests := []struct {
		command fsm.Command
		kind    uint64
		text    string
	}{
		{fsm.Command{}, kinds.Stay, "Stay"},
		{fsm.Stay(), kinds.Stay, "Stay"},
		{fsm.Set("menu"), kinds.Set, "Set(menu)"},
		{fsm.Push("pause"), kinds.Push, "Push(pause)"},
		{fsm.Pop(), kinds.Pop, "Pop"},
		{fsm.PopPush("play"), kinds.PopPush, "PopPush(play)"},
		{fsm.SendEvent("hit", 2), kinds.SendEvent, "SendEvent(hit, 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.command.Kind())
			assert.Equal(t, tt.text, tt.command.String())
			assert.Equal(t, tt.kind == kinds.Stay, tt.command.IsStay())
		})
	}
	assert.Equal(t, fsm.StateKey("play"), fsm.PopPush("play").Target())
	assert.Equal(t, fsm.EventKey("hit"), fsm.SendEvent("hit").Event())
	assert.Equal(t, 0, fsm.SendEvent("hit").Weight())
}

func TestStaticCommand(t *testing.T) {
	command, ok := fsm.StaticCommand(fsm.Static(fsm.Push("pause")))
	require.True(t, ok)
	assert.Equal(t, fsm.Push("pause"), command)

	_, ok = fsm.StaticCommand(fsm.Dynamic(func(fsm.Context) fsm.Command { return fsm.Pop() }))
	assert.False(t, ok)
}

func TestDefine(t *testing.T) {
	noop := func(fsm.Context) error { return nil }
	first := func(fsm.Context) bool { return true }
	state := fsm.Define("play",
		fsm.Entry(noop),
		fsm.Awake(noop),
		fsm.Suspend(noop),
		fsm.Exit(noop),
		fsm.Activity(fsm.Do(noop)),
		fsm.When(first, fsm.Set("a")),
		fsm.WhenFunc(nil, func(fsm.Context) fsm.Command { return fsm.Set("b") }),
		fsm.Otherwise(fsm.Set("c")),
		fsm.On("pause", fsm.Push("pause")),
		fsm.OnFunc("quit", func(fsm.Context) fsm.Command { return fsm.Pop() }),
	)
	assert.Equal(t, fsm.StateKey("play"), state.Key)
	assert.NotNil(t, state.Enter)
	assert.NotNil(t, state.Awake)
	assert.NotNil(t, state.Suspend)
	assert.NotNil(t, state.Exit)
	assert.NotNil(t, state.Execute)
	require.Len(t, state.Conditions, 3)
	assert.NotNil(t, state.Conditions[0].Predicate)
	assert.Equal(t, fsm.Set("c"), state.Conditions[2].Outcome)
	rule, ok := state.Rule("pause")
	require.True(t, ok)
	assert.Equal(t, fsm.Push("pause"), rule.Outcome)
	_, ok = state.Rule("resume")
	assert.False(t, ok)

	var nothing *fsm.State
	_, ok = nothing.Rule("pause")
	assert.False(t, ok)
}

func TestDefinePanicsOnMisuse(t *testing.T) {
	noop := func(fsm.Context) error { return nil }
	assert.Panics(t, func() { fsm.Define("s", fsm.Entry(noop), fsm.Entry(noop)) })
	assert.Panics(t, func() { fsm.Define("s", fsm.Exit(noop), fsm.Exit(noop)) })
	assert.Panics(t, func() { fsm.Define("s", fsm.Activity(fsm.Do(noop)), fsm.Activity(fsm.Do(noop))) })
	assert.Panics(t, func() { fsm.Define("s", fsm.On("go", fsm.Pop()), fsm.On("go", fsm.Stay())) })
	assert.NotPanics(t, func() { fsm.Define("s", fsm.On("go", fsm.Pop()), fsm.On("stop", fsm.Stay())) })
}

func TestErrors(t *testing.T) {
	err := &fsm.Error{Op: "Push(x)", Key: "x", Err: fsm.ErrStateNotFound}
	assert.Equal(t, `Push(x): fsm: state not found "x"`, err.Error())
	assert.True(t, fsm.IsStateNotFoundError(err))
	assert.ErrorIs(t, err, fsm.ErrFsm)
	assert.False(t, fsm.IsHookError(err))

	err = &fsm.Error{Op: "Pop", Key: "s", Reason: "cannot pop the last state", Err: fsm.ErrInvalidState}
	assert.Equal(t, `Pop: fsm: invalid state "s": cannot pop the last state`, err.Error())

	assert.True(t, fsm.IsInvalidStateError(fsm.ErrBusy))
	assert.False(t, errors.Is(fsm.ErrInvalidState, fsm.ErrBusy))

	cause := errors.New("disk on fire")
	hookErr := &fsm.HookError{State: "s", Hook: "exit", Err: &fsm.PanicError{Value: cause}}
	wrapped := fmt.Errorf("tick: %w", hookErr)
	assert.True(t, fsm.IsHookError(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, `fsm: exit hook of state "s" failed: panic: disk on fire`, hookErr.Error())
	assert.NoError(t, (&fsm.PanicError{Value: "text"}).Unwrap())
}
