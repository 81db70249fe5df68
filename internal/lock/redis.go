package lock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// holdTTL guards against a crashed holder wedging a transaction forever.
// Critical sections are a single remote round trip plus a few writes, so
// thirty seconds is generous.
const holdTTL = 30 * time.Second

// Redis is a Coordinator backed by redis SET NX, for deployments running
// more than one gateway instance. The lock value is a random token so a
// release can only delete its own lock.
type Redis struct {
	client *redis.Client
	logger *slog.Logger
	opts   Options
}

var _ Coordinator = (*Redis)(nil)

// NewRedis creates a redis-backed lock coordinator.
func NewRedis(client *redis.Client, opts Options, logger *slog.Logger) *Redis {
	return &Redis{
		client: client,
		logger: logger,
		opts:   opts.withDefaults(),
	}
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Acquire implements Coordinator. Redis has no wait primitive, so the
// WaitTimeout window is spent polling at the backoff interval.
func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	redisKey := "payment_lock:" + key

	for attempt := 0; attempt < r.opts.MaxAttempts; attempt++ {
		deadline := time.Now().Add(r.opts.WaitTimeout)
		for {
			ok, err := r.client.SetNX(ctx, redisKey, token, holdTTL).Result()
			if err != nil {
				return nil, err
			}
			if ok {
				r.logger.Info("lock acquired", "lock", key)
				return r.releaseFunc(redisKey, key, token), nil
			}
			if time.Now().After(deadline) {
				break
			}
			select {
			case <-time.After(r.opts.Backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		r.logger.Info("waiting for lock to be released", "lock", key)
		select {
		case <-time.After(r.opts.Backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, ErrAcquireTimeout
}

func (r *Redis) releaseFunc(redisKey, key, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			// Release must succeed even when the caller's context is gone.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, r.client, []string{redisKey}, token).Err(); err != nil && err != redis.Nil {
				r.logger.Error("failed to release lock", "lock", key, "error", err)
				return
			}
			r.logger.Info("lock released", "lock", key)
		})
	}
}
