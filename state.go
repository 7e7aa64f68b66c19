package fsm

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
)

type (
	StateKey string
	EventKey string
)

// Predicate decides whether a condition matches on this tick.
type Predicate func(ctx Context) bool

// Action is a lifecycle hook: Enter, Awake, Suspend or Exit.
type Action func(ctx Context) error

// Behavior is the Execute hook. It runs every tick the state is on top of the stack,
// and a non-Stay Command it returns is applied within the same tick.
type Behavior func(ctx Context) (Command, error)

// Condition is evaluated in declaration order while its state is current.
// A nil Predicate always matches.
type Condition struct {
	Predicate Predicate
	Outcome   Outcome
}

// EventRule maps a delivered event to a Command.
type EventRule struct {
	Outcome Outcome
}

// State is a node of the machine. It must not be modified once registered.
type State struct {
	Key        StateKey
	Conditions []Condition
	Events     map[EventKey]EventRule
	Enter      Action
	Awake      Action
	Execute    Behavior
	Suspend    Action
	Exit       Action
}

// Rule returns the state's own rule for event.
func (state *State) Rule(event EventKey) (EventRule, bool) {
	if state == nil {
		return EventRule{}, false
	}
	rule, ok := state.Events[event]
	return rule, ok
}

func (state *State) clone() *State {
	clone := *state
	clone.Conditions = slices.Clone(state.Conditions)
	clone.Events = maps.Clone(state.Events)
	return &clone
}

/******* Builder *******/

// Partial configures a State under construction.
type Partial func(state *State)

// Define builds a State from partials, keeping condition declaration order.
func Define(key StateKey, partials ...Partial) State {
	state := State{Key: key, Events: map[EventKey]EventRule{}}
	for _, partial := range partials {
		partial(&state)
	}
	return state
}

func hook(state *State, name string, exists bool) {
	if exists {
		slog.Error("hook declared twice", "state", state.Key, "hook", name)
		panic(fmt.Errorf("%s hook of state %q declared twice", name, state.Key))
	}
}

func Entry(fn Action) Partial {
	return func(state *State) {
		hook(state, "enter", state.Enter != nil)
		state.Enter = fn
	}
}

func Awake(fn Action) Partial {
	return func(state *State) {
		hook(state, "awake", state.Awake != nil)
		state.Awake = fn
	}
}

func Activity(fn Behavior) Partial {
	return func(state *State) {
		hook(state, "execute", state.Execute != nil)
		state.Execute = fn
	}
}

func Suspend(fn Action) Partial {
	return func(state *State) {
		hook(state, "suspend", state.Suspend != nil)
		state.Suspend = fn
	}
}

func Exit(fn Action) Partial {
	return func(state *State) {
		hook(state, "exit", state.Exit != nil)
		state.Exit = fn
	}
}

// When appends a condition. Conditions are evaluated in the order they are declared.
func When(predicate Predicate, outcome Outcome) Partial {
	return func(state *State) {
		state.Conditions = append(state.Conditions, Condition{Predicate: predicate, Outcome: outcome})
	}
}

// WhenFunc appends a condition whose command is computed when it matches.
func WhenFunc(predicate Predicate, fn func(ctx Context) Command) Partial {
	return When(predicate, Dynamic(fn))
}

// Otherwise appends a condition that always matches.
func Otherwise(outcome Outcome) Partial {
	return When(nil, outcome)
}

func On(event EventKey, outcome Outcome) Partial {
	return func(state *State) {
		if state.Events == nil {
			state.Events = map[EventKey]EventRule{}
		}
		if _, exists := state.Events[event]; exists {
			slog.Error("event rule declared twice", "state", state.Key, "event", event)
			panic(fmt.Errorf("event %q of state %q declared twice", event, state.Key))
		}
		state.Events[event] = EventRule{Outcome: outcome}
	}
}

func OnFunc(event EventKey, fn func(ctx Context) Command) Partial {
	return On(event, Dynamic(fn))
}

// Do adapts a hook that never changes state into a Behavior.
func Do(fn func(ctx Context) error) Behavior {
	return func(ctx Context) (Command, error) {
		return Stay(), fn(ctx)
	}
}
