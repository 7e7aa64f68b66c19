package fsm

import (
	"errors"
	"fmt"
	"strconv"
)

// Every error raised by the engine itself wraps ErrFsm.
var (
	ErrFsm = errors.New("fsm")
	// ErrDuplicateState is returned by AddState when the key is already registered.
	ErrDuplicateState = fmt.Errorf("%w: duplicate state", ErrFsm)
	// ErrDuplicateEvent is returned by AddEventRule when a global rule already exists for the key.
	ErrDuplicateEvent = fmt.Errorf("%w: duplicate event rule", ErrFsm)
	// ErrStateNotFound is returned when a command or the initial key names an unregistered state.
	ErrStateNotFound = fmt.Errorf("%w: state not found", ErrFsm)
	// ErrEventNotFound is returned when an event key has no rule anywhere in the machine.
	ErrEventNotFound = fmt.Errorf("%w: event not found", ErrFsm)
	// ErrInvalidState is returned for illegal stack operations and runaway transition chains.
	ErrInvalidState = fmt.Errorf("%w: invalid state", ErrFsm)
	// ErrBusy is returned by Reset while a transition chain is in flight.
	ErrBusy = fmt.Errorf("%w: transition chain in flight", ErrInvalidState)
)

// Error describes a failed engine operation.
type Error struct {
	Op     string
	Key    string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Err.Error()
	if e.Key != "" {
		msg += " " + strconv.Quote(e.Key)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HookError wraps a failure raised by a lifecycle hook. Stack is only captured by AsyncFsm,
// where the failure surfaces one tick after it happened.
type HookError struct {
	State StateKey
	Hook  string
	Err   error
	Stack []byte
}

func (e *HookError) Error() string {
	return fmt.Sprintf("fsm: %s hook of state %q failed: %v", e.Hook, e.State, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// PanicError carries a value recovered from a panicking hook.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func IsDuplicateStateError(err error) bool {
	return errors.Is(err, ErrDuplicateState)
}

func IsStateNotFoundError(err error) bool {
	return errors.Is(err, ErrStateNotFound)
}

func IsEventNotFoundError(err error) bool {
	return errors.Is(err, ErrEventNotFound)
}

func IsInvalidStateError(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsHookError reports whether err came out of a lifecycle hook rather than the engine.
func IsHookError(err error) bool {
	var hookErr *HookError
	return errors.As(err, &hookErr)
}
