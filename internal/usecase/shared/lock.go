package shared

import (
	"context"
	"log/slog"
	"time"

	"parking-reservation/internal/pkg/errs"
)

var (
	ErrLockTimeout = errs.New("lock wait timed out")
	ErrLockNotHeld = errs.New("lock is not held by this owner")
)

// Locker is a lease-based mutex visible to every replica. Leases expire after ttl
// so a crashed holder cannot block a key forever.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (string, error)
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, key, token string) error
}

// WithLock runs fn while holding key. The lock is released on every exit path,
// including a panic in fn. A failed release is only logged; the lease expires on its own.
func WithLock[T any](
	ctx context.Context,
	locker Locker,
	logger *slog.Logger,
	key string,
	ttl time.Duration,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	var zero T

	token, err := locker.Acquire(ctx, key, ttl)
	if err != nil {
		return zero, err
	}

	defer func() {
		// released even when the caller's context is already canceled
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if relErr := locker.Release(releaseCtx, key, token); relErr != nil {
			logger.Warn("failed to release lock", "key", key, "error", relErr.Error())
		}
	}()

	return fn(ctx)
}

func ResourceLockKey(resourceID string) string {
	return "reservation:zone:" + resourceID
}
