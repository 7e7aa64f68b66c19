// Package fsm implements a pushdown finite-state machine driven one tick at a time.
//
// States live on a stack. Each tick the machine delivers at most one pending event,
// otherwise evaluates the current state's conditions, applies the resulting Command
// (Stay, Set, Push, Pop, PopPush or SendEvent) and runs the Execute hook of whichever
// state ends up on top.
package fsm

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/stateforward/go-fsm/kinds"
	"github.com/stateforward/go-fsm/pkg/set"
	"github.com/stateforward/go-fsm/queue"
)

// DefaultMaxChainedTransitions bounds the commands returned by Execute hooks within one tick.
const DefaultMaxChainedTransitions = 8

// PendingEvent is an event waiting for the next tick.
type PendingEvent = queue.Entry[EventKey]

// Trace starts a step and returns the context for the step and a func that ends it.
type Trace func(ctx context.Context, step string, attrs ...attribute.KeyValue) (context.Context, func(err error))

type Config struct {
	// Name is a diagnostic label.
	Name string
	// Id defaults to a random UUID.
	Id                    string
	Logger                *slog.Logger
	Trace                 Trace
	MaxChainedTransitions int
}

/******* Context *******/

// Context is handed to predicates, dynamic outcomes and hooks.
type Context struct {
	context.Context
	machine *machine
	args    TransitionArgs
}

// Transition returns the states on both sides of the hook being run. Predicates,
// outcomes and Execute hooks see From == To == the current state.
func (ctx Context) Transition() TransitionArgs {
	return ctx.args
}

func (ctx Context) Name() string {
	return ctx.machine.name
}

func (ctx Context) Current() StateKey {
	return ctx.machine.CurrentKey()
}

func (ctx Context) Stack() []StateKey {
	return ctx.machine.Stack()
}

func (ctx Context) IsState(key StateKey) bool {
	return ctx.machine.IsState(key)
}

// Send queues an event for the next tick.
func (ctx Context) Send(event EventKey, maybeWeight ...int) error {
	return ctx.machine.Send(event, maybeWeight...)
}

/******* Machine *******/

type machine struct {
	id         string
	name       string
	initial    StateKey
	logger     *slog.Logger
	trace      Trace
	maxChained int
	capture    bool

	mu          sync.Mutex
	states      map[StateKey]*State
	rules       map[EventKey]EventRule
	known       set.Set[EventKey]
	stack       []*State
	pending     *queue.Queue[EventKey]
	subscribers []*subscription

	available atomic.Bool
}

func newMachine(initial StateKey, maybeConfig ...Config) *machine {
	config := Config{}
	if len(maybeConfig) > 0 {
		config = maybeConfig[0]
	}
	if config.Id == "" {
		config.Id = uuid.NewString()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.MaxChainedTransitions <= 0 {
		config.MaxChainedTransitions = DefaultMaxChainedTransitions
	}
	m := &machine{
		id:         config.Id,
		name:       config.Name,
		initial:    initial,
		logger:     config.Logger.With("fsm", config.Name, "fsm_id", config.Id),
		trace:      config.Trace,
		maxChained: config.MaxChainedTransitions,
		states:     map[StateKey]*State{},
		rules:      map[EventKey]EventRule{},
		known:      set.New[EventKey](),
		pending:    queue.New[EventKey](),
	}
	m.available.Store(true)
	return m
}

func (m *machine) Name() string {
	return m.name
}

func (m *machine) ID() string {
	return m.id
}

func (m *machine) Initial() StateKey {
	return m.initial
}

// AddState registers state. A duplicate key leaves the registry untouched.
func (m *machine) AddState(state State) error {
	if state.Key == "" {
		return &Error{Op: "AddState", Reason: "empty state key", Err: ErrInvalidState}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.states[state.Key]; exists {
		return &Error{Op: "AddState", Key: string(state.Key), Err: ErrDuplicateState}
	}
	m.states[state.Key] = state.clone()
	for event := range state.Events {
		m.known.Add(event)
	}
	return nil
}

// AddEventRule registers a rule used by every state without its own rule for event.
func (m *machine) AddEventRule(event EventKey, rule EventRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rules[event]; exists {
		return &Error{Op: "AddEventRule", Key: string(event), Err: ErrDuplicateEvent}
	}
	m.rules[event] = rule
	m.known.Add(event)
	return nil
}

func (m *machine) IsState(key StateKey) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.states[key]
	return ok
}

// Current returns the state on top of the stack, nil before the first tick.
func (m *machine) Current() *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.top()
}

func (m *machine) CurrentKey() StateKey {
	if current := m.Current(); current != nil {
		return current.Key
	}
	return ""
}

// Stack returns the state keys from bottom to top.
func (m *machine) Stack() []StateKey {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]StateKey, len(m.stack))
	for i, state := range m.stack {
		keys[i] = state.Key
	}
	return keys
}

// States returns copies of the registered states ordered by key.
func (m *machine) States() []State {
	m.mu.Lock()
	defer m.mu.Unlock()
	states := make([]State, 0, len(m.states))
	for _, key := range slices.Sorted(maps.Keys(m.states)) {
		states = append(states, *m.states[key].clone())
	}
	return states
}

// EventRules returns a copy of the global event rules.
func (m *machine) EventRules() map[EventKey]EventRule {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.rules)
}

func (m *machine) Pending() []PendingEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending.Entries()
}

// Send queues event for the next tick. Only the heaviest pending event is delivered.
func (m *machine) Send(event EventKey, maybeWeight ...int) error {
	weight := 0
	if len(maybeWeight) > 0 {
		weight = maybeWeight[0]
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.known.Contains(event) {
		return &Error{Op: "Send", Key: string(event), Err: ErrEventNotFound}
	}
	m.pending.Push(event, weight)
	return nil
}

// Subscribe registers listener and returns a func that removes it.
func (m *machine) Subscribe(listener Listener) func() {
	sub := &subscription{Listener: listener}
	m.mu.Lock()
	m.subscribers = append(m.subscribers, sub)
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.subscribers = slices.DeleteFunc(m.subscribers, func(other *subscription) bool {
			return other == sub
		})
	}
}

// Reset collapses the stack to the initial state and drops pending events.
// No hooks fire. A machine that never ticked stays that way.
func (m *machine) Reset() error {
	if !m.available.CompareAndSwap(true, false) {
		return &Error{Op: "Reset", Err: ErrBusy}
	}
	defer m.available.Store(true)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending.Clear()
	if len(m.stack) == 0 {
		return nil
	}
	initial, ok := m.states[m.initial]
	if !ok {
		return &Error{Op: "Reset", Key: string(m.initial), Err: ErrStateNotFound}
	}
	clear(m.stack)
	m.stack = append(m.stack[:0], initial)
	return nil
}

/******* Tick *******/

func (m *machine) tick(ctx context.Context) (err error) {
	ctx, end := m.begin(ctx, "tick")
	defer func() { end(err) }()
	m.each(Listener.OnBefore)
	defer m.each(Listener.OnAfter)

	if m.Current() == nil {
		if err := m.start(ctx); err != nil {
			return err
		}
		return m.run(ctx)
	}
	command, err := m.resolve(ctx)
	if err != nil {
		return err
	}
	if err := m.apply(ctx, command); err != nil {
		return err
	}
	return m.run(ctx)
}

// start enters the initial state, the first tick's transition.
func (m *machine) start(ctx context.Context) error {
	m.mu.Lock()
	initial, ok := m.states[m.initial]
	m.mu.Unlock()
	if !ok {
		return &Error{Op: "Execute", Key: string(m.initial), Reason: "initial state", Err: ErrStateNotFound}
	}
	args := TransitionArgs{To: initial.Key}
	m.logger.Debug("start", "state", initial.Key)
	m.push(initial)
	if err := m.invoke(ctx, "enter", initial, initial.Enter, args, Listener.OnEnter); err != nil {
		return err
	}
	m.each(func(listener Listener) { listener.OnTransition(args) })
	return nil
}

// resolve picks this tick's command: the heaviest pending event if some rule handles
// it, otherwise the first matching condition of the current state.
func (m *machine) resolve(ctx context.Context) (Command, error) {
	m.mu.Lock()
	current := m.top()
	entry, delivered := m.pending.Drain()
	rule, matched := current.Rule(entry.Key)
	if delivered && !matched {
		rule, matched = m.rules[entry.Key]
	}
	known := m.known.Contains(entry.Key)
	m.mu.Unlock()

	c := m.context(ctx, TransitionArgs{From: current.Key, To: current.Key})
	if delivered {
		if matched {
			m.logger.Debug("event", "state", current.Key, "event", entry.Key, "weight", entry.Weight)
			return resolve(rule.Outcome, c), nil
		}
		if !known {
			return Command{}, &Error{Op: "Execute", Key: string(entry.Key), Err: ErrEventNotFound}
		}
		m.logger.Debug("event discarded", "state", current.Key, "event", entry.Key)
	}
	for _, condition := range current.Conditions {
		if condition.Predicate == nil || condition.Predicate(c) {
			return resolve(condition.Outcome, c), nil
		}
	}
	return Stay(), nil
}

// run invokes Execute on the top state, applying whatever it returns until a Stay.
func (m *machine) run(ctx context.Context) error {
	visited := set.New(m.CurrentKey())
	cycle := false
	for chained := 0; ; chained++ {
		current := m.Current()
		command, err := m.execute(ctx, current)
		if err != nil {
			return err
		}
		if command.IsStay() {
			return nil
		}
		if kinds.IsKind(command.Kind(), kinds.SendEvent) {
			return m.apply(ctx, command)
		}
		if chained >= m.maxChained {
			reason := fmt.Sprintf("chain too long, more than %d transitions in one tick", m.maxChained)
			if cycle {
				reason = fmt.Sprintf("transition cycle through %v", set.Sorted(visited))
			}
			m.logger.Error("transition chain aborted", "state", current.Key, "command", command.String(), "reason", reason)
			return &Error{Op: "Execute", Key: string(current.Key), Reason: reason, Err: ErrInvalidState}
		}
		if err := m.apply(ctx, command); err != nil {
			return err
		}
		if !visited.Insert(m.CurrentKey()) {
			cycle = true
		}
	}
}

// apply performs one command against the stack, firing hooks in stack order.
func (m *machine) apply(ctx context.Context, command Command) error {
	kind := command.Kind()
	if kinds.IsKind(kind, kinds.Stay) {
		return nil
	}
	if kinds.IsKind(kind, kinds.SendEvent) {
		return m.Send(command.Event(), command.Weight())
	}

	m.mu.Lock()
	from := m.top()
	var target *State
	if kinds.IsKind(kind, kinds.Set, kinds.Push) {
		var ok bool
		if target, ok = m.states[command.Target()]; !ok {
			m.mu.Unlock()
			return &Error{Op: command.String(), Key: string(command.Target()), Err: ErrStateNotFound}
		}
	}
	if kinds.IsKind(kind, kinds.Pop) && len(m.stack) < 2 {
		m.mu.Unlock()
		return &Error{Op: command.String(), Key: string(from.Key), Reason: "cannot pop the last state", Err: ErrInvalidState}
	}
	m.mu.Unlock()

	to := target
	if to == nil {
		to = m.below()
	}
	args := TransitionArgs{From: from.Key, To: to.Key}
	m.logger.Debug("transition", "command", command.String(), "from", args.From, "to", args.To)

	if kinds.IsKind(kind, kinds.Set, kinds.Pop) {
		if err := m.invoke(ctx, "exit", from, from.Exit, args, Listener.OnExit); err != nil {
			return err
		}
		m.pop()
	} else if err := m.invoke(ctx, "suspend", from, from.Suspend, args, Listener.OnSuspend); err != nil {
		return err
	}
	if target != nil {
		m.push(target)
		if err := m.invoke(ctx, "enter", target, target.Enter, args, Listener.OnEnter); err != nil {
			return err
		}
	} else if err := m.invoke(ctx, "awake", to, to.Awake, args, Listener.OnAwake); err != nil {
		return err
	}
	if args.From != args.To {
		m.each(func(listener Listener) { listener.OnTransition(args) })
	}
	return nil
}

func (m *machine) execute(ctx context.Context, state *State) (command Command, err error) {
	if state.Execute == nil {
		return Stay(), nil
	}
	ctx, end := m.begin(ctx, "execute", attribute.String("fsm.state", string(state.Key)))
	defer func() { end(err) }()
	err = m.guard(state, "execute", func() (err error) {
		command, err = state.Execute(m.context(ctx, TransitionArgs{From: state.Key, To: state.Key}))
		return err
	})
	return command, err
}

func (m *machine) invoke(ctx context.Context, hook string, state *State, action Action, args TransitionArgs, notify func(Listener, TransitionArgs)) (err error) {
	if action != nil {
		ctx, end := m.begin(ctx, hook,
			attribute.String("fsm.state", string(state.Key)),
			attribute.String("fsm.from", string(args.From)),
			attribute.String("fsm.to", string(args.To)),
		)
		err = m.guard(state, hook, func() error {
			return action(m.context(ctx, args))
		})
		end(err)
		if err != nil {
			return err
		}
	}
	m.each(func(listener Listener) { notify(listener, args) })
	return nil
}

// guard wraps hook failures. With capture set, panics are recovered and the stack of
// the failing goroutine is kept so the failure can be reported later.
func (m *machine) guard(state *State, hook string, fn func() error) (err error) {
	if m.capture {
		defer func() {
			if r := recover(); r != nil {
				err = &HookError{State: state.Key, Hook: hook, Err: &PanicError{Value: r}, Stack: debug.Stack()}
			}
		}()
	}
	if err = fn(); err != nil {
		hookErr := &HookError{State: state.Key, Hook: hook, Err: err}
		if m.capture {
			hookErr.Stack = debug.Stack()
		}
		return hookErr
	}
	return nil
}

func (m *machine) begin(ctx context.Context, step string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	if m.trace == nil {
		return ctx, func(error) {}
	}
	attrs = append(attrs, attribute.String("fsm.id", m.id), attribute.String("fsm.name", m.name))
	return m.trace(ctx, step, attrs...)
}

func (m *machine) context(ctx context.Context, args TransitionArgs) Context {
	return Context{Context: ctx, machine: m, args: args}
}

func (m *machine) each(fn func(Listener)) {
	m.mu.Lock()
	subscribers := slices.Clone(m.subscribers)
	m.mu.Unlock()
	for _, sub := range subscribers {
		fn(sub.Listener)
	}
}

// top must be called with mu held.
func (m *machine) top() *State {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

func (m *machine) below() *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack[len(m.stack)-2]
}

func (m *machine) push(state *State) {
	m.mu.Lock()
	m.stack = append(m.stack, state)
	m.mu.Unlock()
}

func (m *machine) pop() {
	m.mu.Lock()
	m.stack[len(m.stack)-1] = nil
	m.stack = m.stack[:len(m.stack)-1]
	m.mu.Unlock()
}

/******* Fsm *******/

// Fsm runs every hook synchronously inside Execute.
type Fsm struct {
	*machine
}

func New(initial StateKey, maybeConfig ...Config) *Fsm {
	return &Fsm{machine: newMachine(initial, maybeConfig...)}
}

// Execute advances the machine by one tick. Hook and engine errors are returned as is.
// A call made from inside one of the machine's own hooks is dropped.
func (fsm *Fsm) Execute(ctx context.Context) error {
	if !fsm.available.CompareAndSwap(true, false) {
		fsm.logger.Debug("tick dropped", "state", fsm.CurrentKey())
		return nil
	}
	defer fsm.available.Store(true)
	return fsm.tick(ctx)
}
