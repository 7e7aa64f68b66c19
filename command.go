package fsm

import (
	"fmt"

	"github.com/stateforward/go-fsm/kinds"
)

// Command is the outcome of a condition or event rule for one tick.
// The zero Command is Stay.
type Command struct {
	kind   uint64
	target StateKey
	event  EventKey
	weight int
}

func Stay() Command {
	return Command{kind: kinds.Stay}
}

// Set replaces the top of the stack with target.
func Set(target StateKey) Command {
	return Command{kind: kinds.Set, target: target}
}

// Push suspends the top of the stack and enters target above it.
func Push(target StateKey) Command {
	return Command{kind: kinds.Push, target: target}
}

// Pop exits the top of the stack and awakes the state below it.
func Pop() Command {
	return Command{kind: kinds.Pop}
}

// PopPush exits the top of the stack and enters target in its place without
// awaking the state below.
func PopPush(target StateKey) Command {
	return Command{kind: kinds.PopPush, target: target}
}

// SendEvent queues event for the next tick instead of transitioning.
func SendEvent(event EventKey, maybeWeight ...int) Command {
	weight := 0
	if len(maybeWeight) > 0 {
		weight = maybeWeight[0]
	}
	return Command{kind: kinds.SendEvent, event: event, weight: weight}
}

func (c Command) Kind() uint64 {
	if c.kind == kinds.Null {
		return kinds.Stay
	}
	return c.kind
}

func (c Command) IsStay() bool {
	return c.kind == kinds.Null || c.kind == kinds.Stay
}

func (c Command) Target() StateKey {
	return c.target
}

func (c Command) Event() EventKey {
	return c.event
}

func (c Command) Weight() int {
	return c.weight
}

func (c Command) String() string {
	switch c.Kind() {
	case kinds.Set:
		return fmt.Sprintf("Set(%s)", c.target)
	case kinds.Push:
		return fmt.Sprintf("Push(%s)", c.target)
	case kinds.Pop:
		return "Pop"
	case kinds.PopPush:
		return fmt.Sprintf("PopPush(%s)", c.target)
	case kinds.SendEvent:
		return fmt.Sprintf("SendEvent(%s, %d)", c.event, c.weight)
	default:
		return "Stay"
	}
}

func (c Command) resolve(Context) Command {
	return c
}

// Outcome produces a Command. It is either a static Command or a Dynamic function.
type Outcome interface {
	resolve(ctx Context) Command
}

// Dynamic computes its Command from the machine context when it is resolved.
type Dynamic func(ctx Context) Command

func (fn Dynamic) resolve(ctx Context) Command {
	if fn == nil {
		return Stay()
	}
	return fn(ctx)
}

// Static wraps a fixed Command. A Command already is an Outcome; Static only reads better.
func Static(c Command) Outcome {
	return c
}

// StaticCommand returns the Command of a static outcome.
func StaticCommand(outcome Outcome) (Command, bool) {
	c, ok := outcome.(Command)
	return c, ok
}

func resolve(outcome Outcome, ctx Context) Command {
	if outcome == nil {
		return Stay()
	}
	return outcome.resolve(ctx)
}
