// Package lock serializes work on a single key across goroutines or, with the
// Redis backend, across service instances.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired is returned when the key stayed locked for the whole wait budget
var ErrNotAcquired = errors.New("lock not acquired")

// ReleaseFunc unlocks a key previously acquired. It is safe to call once.
type ReleaseFunc func(ctx context.Context) error

// Locker hands out exclusive locks on string keys. A lock expires after ttl
// even when it is never released.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error)
}

const retryInterval = 20 * time.Millisecond

// retry calls try until it reports success, wait elapses or ctx is done
func retry(ctx context.Context, wait time.Duration, try func() (bool, error)) error {
	deadline := time.Now().Add(wait)
	for {
		ok, err := try()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrNotAcquired
		}

		timer := time.NewTimer(retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
