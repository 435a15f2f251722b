package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "opencaption/internal/app/errors"
)

var errLeaseLost = errors.New("lease expired or taken over")

// unlockScript deletes the key only if we still own it.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript extends the lease only if we still own it.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker is a Locker backed by SET NX leases, for deployments that run
// several API processes against one database.
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	poll   time.Duration
	logger *zap.Logger
}

var _ Locker = (*RedisLocker)(nil)

// NewRedisLocker creates a RedisLocker. The lease is renewed every ttl/3
// while the lock is held, so ttl only bounds how long a crashed holder can
// block others, not how long a render may run.
func NewRedisLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{client: client, prefix: "opencaption:lock:", ttl: ttl, poll: 200 * time.Millisecond, logger: logger}
}

// Lock polls SET NX until it wins or ctx is done.
func (r *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := r.prefix + key
	token := uuid.NewString()

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.KindPersistence, "acquire redis lock").WithMedia(key)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.poll):
		}
	}

	leaseCtx, stopRenewal := context.WithCancel(context.Background())
	renewed := make(chan struct{})
	go func() {
		defer close(renewed)
		keepAlive(leaseCtx, r.ttl/3, func(ctx context.Context) (bool, error) {
			n, err := renewScript.Run(ctx, r.client, []string{redisKey}, token, r.ttl.Milliseconds()).Int()
			return n == 1, err
		}, func(err error) {
			r.logger.Warn("redis lock lease lost", zap.String("key", redisKey), zap.Error(err))
		})
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			stopRenewal()
			<-renewed
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := unlockScript.Run(ctx, r.client, []string{redisKey}, token).Err(); err != nil {
				r.logger.Warn("failed to release redis lock", zap.String("key", redisKey), zap.Error(err))
			}
		})
	}, nil
}

// keepAlive calls renew every interval until ctx is done. It stops early and
// reports to lost once renew says the lease is gone. A failed call is retried
// on the next tick, since the lease is still valid for the rest of its ttl.
func keepAlive(ctx context.Context, interval time.Duration, renew func(context.Context) (bool, error), lost func(error)) {
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		ok, err := renew(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		if !ok {
			lost(errLeaseLost)
			return
		}
	}
}
