package fsm

import (
	"context"
	"sync"

	"github.com/stateforward/go-fsm/pkg/async"
)

// AsyncFsm runs each tick's transition chain on its own goroutine. Hooks may block;
// the machine waits for each one to finish before starting the next.
//
// While a chain is in flight Execute is a no-op. A failure inside the chain is kept
// and returned by the next Execute call, which then does nothing else.
type AsyncFsm struct {
	*machine

	slot     sync.Mutex
	inflight *async.Future[struct{}]
	failure  error
}

func NewAsync(initial StateKey, maybeConfig ...Config) *AsyncFsm {
	m := newMachine(initial, maybeConfig...)
	m.capture = true
	return &AsyncFsm{machine: m}
}

// Execute starts a tick unless one is still running, in which case the call is dropped.
// It returns the failure of the previous chain if there is one.
func (fsm *AsyncFsm) Execute(ctx context.Context) error {
	if !fsm.available.CompareAndSwap(true, false) {
		fsm.logger.Debug("tick dropped", "state", fsm.CurrentKey())
		return nil
	}
	fsm.slot.Lock()
	defer fsm.slot.Unlock()
	if err := fsm.failure; err != nil {
		fsm.failure = nil
		fsm.available.Store(true)
		return err
	}
	fsm.inflight = async.Async(context.WithoutCancel(ctx), struct{}{}, fsm.chain)
	return nil
}

func (fsm *AsyncFsm) chain(ctx context.Context, _ struct{}) (_ struct{}, err error) {
	defer fsm.available.Store(true)
	defer func() {
		if r := recover(); r != nil {
			err = &HookError{State: fsm.CurrentKey(), Hook: "tick", Err: &PanicError{Value: r}}
		}
		if err != nil {
			fsm.logger.Warn("tick failed, deferring error to next tick", "state", fsm.CurrentKey(), "error", err)
			fsm.slot.Lock()
			fsm.failure = err
			fsm.slot.Unlock()
		}
	}()
	return struct{}{}, fsm.tick(ctx)
}

// Available reports whether the next Execute call will be accepted.
func (fsm *AsyncFsm) Available() bool {
	return fsm.available.Load()
}

// Wait blocks until the chain in flight, if any, has completed. Chain failures are
// not returned here; they belong to the next Execute.
func (fsm *AsyncFsm) Wait(ctx context.Context) error {
	fsm.slot.Lock()
	inflight := fsm.inflight
	fsm.slot.Unlock()
	if inflight == nil {
		return nil
	}
	select {
	case <-inflight.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Failed reports whether a failure is waiting for the next Execute.
func (fsm *AsyncFsm) Failed() bool {
	fsm.slot.Lock()
	defer fsm.slot.Unlock()
	return fsm.failure != nil
}
