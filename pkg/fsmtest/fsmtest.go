// Package fsmtest records hook and listener calls so tests can assert on their order.
package fsmtest

import (
	"fmt"
	"slices"
	"sync"

	fsm "github.com/stateforward/go-fsm"
)

// Recorder is a Listener that also hands out recording hooks. It is safe for use from
// the goroutine running an AsyncFsm chain.
type Recorder struct {
	mu    sync.Mutex
	trace []string
}

func (r *Recorder) Record(step string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace = append(r.trace, step)
}

func (r *Recorder) Trace() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.trace)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace = nil
}

// Matches reports whether the recorded steps equal expected.
func (r *Recorder) Matches(expected ...string) bool {
	return slices.Equal(r.Trace(), expected)
}

func (r *Recorder) action(state fsm.StateKey, hook string) fsm.Action {
	return func(fsm.Context) error {
		r.Record(fmt.Sprintf("%s.%s", state, hook))
		return nil
	}
}

// Hooks returns partials recording enter, awake, suspend and exit of state as
// "<state>.<hook>".
func (r *Recorder) Hooks(state fsm.StateKey) []fsm.Partial {
	return []fsm.Partial{
		fsm.Entry(r.action(state, "enter")),
		fsm.Awake(r.action(state, "awake")),
		fsm.Suspend(r.action(state, "suspend")),
		fsm.Exit(r.action(state, "exit")),
	}
}

// Define is fsm.Define with the recording hooks of Hooks prepended.
func (r *Recorder) Define(key fsm.StateKey, partials ...fsm.Partial) fsm.State {
	return fsm.Define(key, append(r.Hooks(key), partials...)...)
}

// Listener records listener notifications as "on<Hook>(<from>-><to>)".
func (r *Recorder) Listener() fsm.Listener {
	record := func(name string) func(fsm.TransitionArgs) {
		return func(args fsm.TransitionArgs) {
			r.Record(fmt.Sprintf("%s(%s->%s)", name, args.From, args.To))
		}
	}
	return fsm.Listeners{
		Before:     func() { r.Record("onBefore") },
		After:      func() { r.Record("onAfter") },
		Enter:      record("onEnter"),
		Awake:      record("onAwake"),
		Suspend:    record("onSuspend"),
		Exit:       record("onExit"),
		Transition: record("onTransition"),
	}
}

// Register adds every state to machine, stopping at the first error.
func Register(machine interface{ AddState(fsm.State) error }, states ...fsm.State) error {
	for _, state := range states {
		if err := machine.AddState(state); err != nil {
			return err
		}
	}
	return nil
}
