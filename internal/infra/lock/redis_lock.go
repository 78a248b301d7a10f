package lock

import (
	"context"
	"time"

	"parking-reservation/internal/pkg/config"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "distributed-lock:"

// Deletes the key only while it still carries the caller's token, so an owner whose
// lease already expired cannot release the next holder's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client        redis.Cmdable
	wait          time.Duration
	retryInterval time.Duration
}

func NewRedisLocker(client redis.Cmdable, cfg config.LockConfig) *RedisLocker {
	retry := cfg.RetryInterval
	if retry <= 0 {
		retry = 50 * time.Millisecond
	}
	return &RedisLocker{
		client:        client,
		wait:          cfg.Wait,
		retryInterval: retry,
	}
}

func (l *RedisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return "", false, errs.Wrapf(err, "failed to acquire lock %s", key)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Acquire polls until the lock is free or the configured wait elapses.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	deadline := time.Now().Add(l.wait)
	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		token, ok, err := l.TryAcquire(ctx, key, ttl)
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}
		if !time.Now().Before(deadline) {
			return "", errs.Wrapf(shared.ErrLockTimeout, "key %s", key)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) Release(ctx context.Context, key, token string) error {
	deleted, err := releaseScript.Run(ctx, l.client, []string{keyPrefix + key}, token).Int()
	if err != nil {
		return errs.Wrapf(err, "failed to release lock %s", key)
	}
	if deleted == 0 {
		return errs.Wrapf(shared.ErrLockNotHeld, "key %s", key)
	}
	return nil
}
