package fsm

//go:generate go run go.uber.org/mock/mockgen -destination=internal/mocks/mock_listener.go -package=mocks github.com/stateforward/go-fsm Listener

// TransitionArgs names the states on both sides of a hook invocation.
type TransitionArgs struct {
	From StateKey
	To   StateKey
}

// Listener receives lifecycle notifications from a machine. Calls are synchronous, in
// subscription order, on the goroutine running the tick.
type Listener interface {
	OnBefore()
	OnAfter()
	OnEnter(args TransitionArgs)
	OnAwake(args TransitionArgs)
	OnSuspend(args TransitionArgs)
	OnExit(args TransitionArgs)
	OnTransition(args TransitionArgs)
}

// Listeners implements Listener with optional funcs.
type Listeners struct {
	Before     func()
	After      func()
	Enter      func(args TransitionArgs)
	Awake      func(args TransitionArgs)
	Suspend    func(args TransitionArgs)
	Exit       func(args TransitionArgs)
	Transition func(args TransitionArgs)
}

func (l Listeners) OnBefore() {
	if l.Before != nil {
		l.Before()
	}
}

func (l Listeners) OnAfter() {
	if l.After != nil {
		l.After()
	}
}

func (l Listeners) OnEnter(args TransitionArgs) {
	if l.Enter != nil {
		l.Enter(args)
	}
}

func (l Listeners) OnAwake(args TransitionArgs) {
	if l.Awake != nil {
		l.Awake(args)
	}
}

func (l Listeners) OnSuspend(args TransitionArgs) {
	if l.Suspend != nil {
		l.Suspend(args)
	}
}

func (l Listeners) OnExit(args TransitionArgs) {
	if l.Exit != nil {
		l.Exit(args)
	}
}

func (l Listeners) OnTransition(args TransitionArgs) {
	if l.Transition != nil {
		l.Transition(args)
	}
}

type subscription struct {
	Listener
}
