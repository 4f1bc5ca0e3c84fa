package pos

import (
	"context"
	"time"
)

// DefaultLockWait bounds how long a caller waits for an order's exclusive
// lock before the operation fails with ErrBusy.  The system is interactive,
// so a short bounded wait with an explicit failure beats silent queuing.
const DefaultLockWait = 250 * time.Millisecond

// timedMutex is a mutex with a bounded acquire.  It is implemented on a
// one-slot channel so acquisition can race against a timer and the caller's
// context.  Every mutating operation on an order runs under its order's
// timedMutex; reads take it briefly to copy a consistent snapshot out.
type timedMutex struct {
	ch   chan struct{}
	wait time.Duration
}

func newTimedMutex(wait time.Duration) *timedMutex {
	if wait <= 0 {
		wait = DefaultLockWait
	}
	return &timedMutex{ch: make(chan struct{}, 1), wait: wait}
}

// lock acquires the mutex, waiting at most the configured duration.  It
// returns ErrBusy on timeout and the context error if ctx is cancelled
// first.  A nil error means the caller holds the lock and must unlock.
func (m *timedMutex) lock(ctx context.Context) error {
	select {
	case m.ch <- struct{}{}:
		return nil
	default:
	}
	timer := time.NewTimer(m.wait)
	defer timer.Stop()
	select {
	case m.ch <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *timedMutex) unlock() {
	<-m.ch
}
