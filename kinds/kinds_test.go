package kinds_test

import (
	"testing"

	"github.com/stateforward/go-fsm/kinds"
)

func TestKinds(t *testing.T) {
	if !kinds.IsKind(kinds.Set, kinds.Transition) {
		t.Errorf("Set should be a Transition")
	}
	if !kinds.IsKind(kinds.Set, kinds.Command) {
		t.Errorf("Set should be a Command")
	}
	if kinds.IsKind(kinds.Stay, kinds.Transition) {
		t.Errorf("Stay should not be a Transition")
	}
	if !kinds.IsKind(kinds.PopPush, kinds.Pop) {
		t.Errorf("PopPush should be a Pop")
	}
	if !kinds.IsKind(kinds.PopPush, kinds.Push) {
		t.Errorf("PopPush should be a Push")
	}
	if !kinds.IsKind(kinds.PopPush, kinds.Transition) {
		t.Errorf("PopPush should be a Transition")
	}
	if kinds.IsKind(kinds.Pop, kinds.Push) {
		t.Errorf("Pop should not be a Push")
	}
	if kinds.IsKind(kinds.Set, kinds.Pop, kinds.Push) {
		t.Errorf("Set should be neither a Pop nor a Push")
	}
	if kinds.IsKind(kinds.SendEvent, kinds.Transition) {
		t.Errorf("SendEvent should not be a Transition")
	}
}

func TestBases(t *testing.T) {
	bases := kinds.Bases(kinds.Push)
	if bases[0] != kinds.Transition&0xff {
		t.Errorf("expected Transition as nearest base of Push, got %d", bases[0])
	}
	if bases[1] != kinds.Command&0xff {
		t.Errorf("expected Command as second base of Push, got %d", bases[1])
	}
}
