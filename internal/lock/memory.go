package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Memory is an in-process Coordinator. Waiters block on a channel closed
// by the holder's release, so a release wakes all waiters immediately
// instead of being observed on the next poll.
type Memory struct {
	logger *slog.Logger
	held   map[string]chan struct{}
	opts   Options
	mu     sync.Mutex
}

var _ Coordinator = (*Memory)(nil)

// NewMemory creates an in-process lock coordinator.
func NewMemory(opts Options, logger *slog.Logger) *Memory {
	return &Memory{
		logger: logger,
		held:   make(map[string]chan struct{}),
		opts:   opts.withDefaults(),
	}
}

// Acquire implements Coordinator.
func (m *Memory) Acquire(ctx context.Context, key string) (func(), error) {
	for attempt := 0; attempt < m.opts.MaxAttempts; attempt++ {
		holder, acquired := m.tryAcquire(key)
		if acquired {
			m.logger.Info("lock acquired", "lock", key)
			return m.releaseFunc(key), nil
		}

		m.logger.Info("waiting for lock to be released", "lock", key)

		// Wait up to WaitTimeout for the holder, then back off and retry.
		timer := time.NewTimer(m.opts.WaitTimeout)
		select {
		case <-holder:
			timer.Stop()
			continue
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}

		select {
		case <-time.After(m.opts.Backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, ErrAcquireTimeout
}

// tryAcquire takes the lock if free; otherwise it returns the current
// holder's release channel to wait on.
func (m *Memory) tryAcquire(key string) (chan struct{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if holder, ok := m.held[key]; ok {
		return holder, false
	}
	m.held[key] = make(chan struct{})
	return nil, true
}

func (m *Memory) releaseFunc(key string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			holder := m.held[key]
			delete(m.held, key)
			m.mu.Unlock()
			if holder != nil {
				close(holder)
			}
			m.logger.Info("lock released", "lock", key)
		})
	}
}
