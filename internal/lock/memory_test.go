package lock

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "vipps__order-123", Key("vipps", "order-123"))
}

func TestMemory_AcquireRelease(t *testing.T) {
	m := NewMemory(Options{WaitTimeout: 50 * time.Millisecond, Backoff: 10 * time.Millisecond, MaxAttempts: 3}, testLogger())
	ctx := context.Background()

	release, err := m.Acquire(ctx, "vipps__t1")
	require.NoError(t, err)
	release()

	// Reacquire after release succeeds immediately.
	release, err = m.Acquire(ctx, "vipps__t1")
	require.NoError(t, err)
	release()
}

func TestMemory_ReleaseIsIdempotent(t *testing.T) {
	m := NewMemory(Options{WaitTimeout: 50 * time.Millisecond, Backoff: 10 * time.Millisecond, MaxAttempts: 3}, testLogger())

	release, err := m.Acquire(context.Background(), "vipps__t1")
	require.NoError(t, err)
	release()
	release() // second call must not panic or release someone else's lock

	release2, err := m.Acquire(context.Background(), "vipps__t1")
	require.NoError(t, err)
	release()
	_, acquired := m.tryAcquire("vipps__t1")
	assert.False(t, acquired, "stale release must not free the new holder")
	release2()
}

func TestMemory_MutualExclusion(t *testing.T) {
	m := NewMemory(Options{WaitTimeout: time.Second, Backoff: 10 * time.Millisecond, MaxAttempts: 10}, testLogger())

	const workers = 8
	var inCritical, observedMax int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := m.Acquire(context.Background(), "vipps__t1")
			require.NoError(t, err)
			defer release()

			mu.Lock()
			inCritical++
			if inCritical > observedMax {
				observedMax = inCritical
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inCritical--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, observedMax, "at most one holder at a time")
}

func TestMemory_DifferentKeysDoNotContend(t *testing.T) {
	m := NewMemory(Options{WaitTimeout: 10 * time.Millisecond, Backoff: 10 * time.Millisecond, MaxAttempts: 1}, testLogger())

	releaseA, err := m.Acquire(context.Background(), "vipps__a")
	require.NoError(t, err)
	defer releaseA()

	// A held lock on another transaction must not block this one.
	releaseB, err := m.Acquire(context.Background(), "vipps__b")
	require.NoError(t, err)
	releaseB()
}

func TestMemory_BudgetExhausted(t *testing.T) {
	m := NewMemory(Options{WaitTimeout: 5 * time.Millisecond, Backoff: time.Millisecond, MaxAttempts: 2}, testLogger())

	release, err := m.Acquire(context.Background(), "vipps__t1")
	require.NoError(t, err)
	defer release()

	_, err = m.Acquire(context.Background(), "vipps__t1")
	assert.ErrorIs(t, err, ErrAcquireTimeout)
}

func TestMemory_WaiterWakesOnRelease(t *testing.T) {
	m := NewMemory(Options{WaitTimeout: 5 * time.Second, Backoff: time.Second, MaxAttempts: 2}, testLogger())

	release, err := m.Acquire(context.Background(), "vipps__t1")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r2, err := m.Acquire(context.Background(), "vipps__t1")
		assert.NoError(t, err)
		r2()
		close(acquired)
	}()

	time.Sleep(20 * time.Millisecond)
	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter did not wake promptly after release")
	}
}

func TestMemory_ContextCancelled(t *testing.T) {
	m := NewMemory(Options{WaitTimeout: time.Second, Backoff: time.Second, MaxAttempts: 5}, testLogger())

	release, err := m.Acquire(context.Background(), "vipps__t1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = m.Acquire(ctx, "vipps__t1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
