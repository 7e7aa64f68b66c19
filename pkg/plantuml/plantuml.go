// Package plantuml renders a machine's states and statically known transitions as a
// PlantUML state diagram.
package plantuml

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	fsm "github.com/stateforward/go-fsm"
	"github.com/stateforward/go-fsm/kinds"
)

// Model is the read-only view of a machine the generator needs. Fsm and AsyncFsm implement it.
type Model interface {
	Name() string
	Initial() fsm.StateKey
	States() []fsm.State
	EventRules() map[fsm.EventKey]fsm.EventRule
}

var replacer = strings.NewReplacer("-", "_", "/", ".", " ", "_", ":", "_")

func id(key fsm.StateKey) string {
	return replacer.Replace(string(key))
}

func generateState(builder *strings.Builder, state fsm.State) {
	name := id(state.Key)
	fmt.Fprintf(builder, "  state %s\n", name)
	for _, hook := range []struct {
		name   string
		exists bool
	}{
		{"entry", state.Enter != nil},
		{"awake", state.Awake != nil},
		{"execute", state.Execute != nil},
		{"suspend", state.Suspend != nil},
		{"exit", state.Exit != nil},
	} {
		if hook.exists {
			fmt.Fprintf(builder, "  state %s: %s\n", name, hook.name)
		}
	}
}

func generateTransition(builder *strings.Builder, source fsm.StateKey, label string, outcome fsm.Outcome) {
	if outcome == nil {
		return
	}
	command, ok := fsm.StaticCommand(outcome)
	if !ok {
		fmt.Fprintf(builder, "  state %s: %s / dynamic\n", id(source), label)
		return
	}
	kind := command.Kind()
	switch {
	case kinds.IsKind(kind, kinds.PopPush):
		fmt.Fprintf(builder, "  %s ----> %s : %s / pop push\n", id(source), id(command.Target()), label)
	case kinds.IsKind(kind, kinds.Push):
		fmt.Fprintf(builder, "  %s ----> %s : %s / push\n", id(source), id(command.Target()), label)
	case kinds.IsKind(kind, kinds.Set):
		fmt.Fprintf(builder, "  %s ----> %s : %s\n", id(source), id(command.Target()), label)
	case kinds.IsKind(kind, kinds.Pop):
		fmt.Fprintf(builder, "  %s ----> [H] : %s / pop\n", id(source), label)
	case kinds.IsKind(kind, kinds.SendEvent):
		fmt.Fprintf(builder, "  state %s: %s / send %s\n", id(source), label, command.Event())
	}
}

// Generate writes the diagram of model to writer. Conditions are labelled by their
// position, events by their key. Global rules are drawn from every state without its
// own rule for the event. Dynamic outcomes have no known target and are listed on the
// state instead.
func Generate(writer io.Writer, model Model) error {
	var builder strings.Builder
	name := model.Name()
	if name == "" {
		name = "fsm"
	}
	states := model.States()
	rules := model.EventRules()
	globals := slices.Sorted(maps.Keys(rules))

	fmt.Fprintf(&builder, "@startuml %s\n", id(fsm.StateKey(name)))
	for _, state := range states {
		generateState(&builder, state)
	}
	fmt.Fprintf(&builder, "  [*] --> %s\n", id(model.Initial()))
	for _, state := range states {
		for i, condition := range state.Conditions {
			label := fmt.Sprintf("[when %d]", i+1)
			if condition.Predicate == nil {
				label = "[otherwise]"
			}
			generateTransition(&builder, state.Key, label, condition.Outcome)
		}
		for _, event := range slices.Sorted(maps.Keys(state.Events)) {
			generateTransition(&builder, state.Key, string(event), state.Events[event].Outcome)
		}
		for _, event := range globals {
			if _, ok := state.Events[event]; !ok {
				generateTransition(&builder, state.Key, string(event), rules[event].Outcome)
			}
		}
	}
	fmt.Fprintln(&builder, "@enduml")
	_, err := io.WriteString(writer, builder.String())
	return err
}
