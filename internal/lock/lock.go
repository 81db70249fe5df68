// Package lock provides per-transaction mutual exclusion for
// reconciliation. Locks are ephemeral: they exist only while a
// reconciliation is in flight and are identified by the gateway id and
// the remote transaction id.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrAcquireTimeout is returned when the acquire retry budget is
// exhausted without obtaining the lock.
var ErrAcquireTimeout = errors.New("lock: acquire retry budget exhausted")

// Coordinator hands out named locks. Acquire blocks until the lock is
// held, the context is cancelled, or the retry budget runs out. The
// returned release function is idempotent and must be called on every
// exit path; callers defer it immediately.
type Coordinator interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Key builds the lock name for a transaction.
func Key(gatewayID, remoteID string) string {
	return gatewayID + "__" + remoteID
}

// Options tunes the acquire loop. Each attempt waits up to WaitTimeout
// for the current holder to release, then backs off for Backoff before
// retrying. MaxAttempts bounds the loop.
type Options struct {
	WaitTimeout time.Duration
	Backoff     time.Duration
	MaxAttempts int
}

// DefaultOptions mirrors the production defaults: wait five seconds per
// attempt, back off one second, give up after thirty cycles.
func DefaultOptions() Options {
	return Options{
		WaitTimeout: 5 * time.Second,
		Backoff:     time.Second,
		MaxAttempts: 30,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.WaitTimeout <= 0 {
		o.WaitTimeout = d.WaitTimeout
	}
	if o.Backoff <= 0 {
		o.Backoff = d.Backoff
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = d.MaxAttempts
	}
	return o
}
