//go:build unit || e2e

package memstore

import (
	"context"
	"sync"
	"time"

	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

// Locker is a process-local Locker. It records the highest number of holders seen
// inside any single key so tests can assert mutual exclusion.
type Locker struct {
	Wait time.Duration

	mu        sync.Mutex
	slots     map[string]chan struct{}
	holders   map[string]string
	inside    map[string]int
	maxInside int
}

func NewLocker(wait time.Duration) *Locker {
	return &Locker{
		Wait:    wait,
		slots:   make(map[string]chan struct{}),
		holders: make(map[string]string),
		inside:  make(map[string]int),
	}
}

func (l *Locker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *Locker) Acquire(ctx context.Context, key string, _ time.Duration) (string, error) {
	timer := time.NewTimer(l.Wait)
	defer timer.Stop()

	select {
	case l.slot(key) <- struct{}{}:
		return l.enter(key), nil
	case <-timer.C:
		return "", errs.Wrapf(shared.ErrLockTimeout, "key %s", key)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (l *Locker) TryAcquire(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	select {
	case l.slot(key) <- struct{}{}:
		return l.enter(key), true, nil
	default:
		return "", false, nil
	}
}

func (l *Locker) Release(_ context.Context, key, token string) error {
	ch := l.slot(key)

	l.mu.Lock()
	if l.holders[key] != token {
		l.mu.Unlock()
		return errs.Wrapf(shared.ErrLockNotHeld, "key %s", key)
	}
	delete(l.holders, key)
	l.inside[key]--
	l.mu.Unlock()

	<-ch
	return nil
}

func (l *Locker) MaxInside() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxInside
}

func (l *Locker) enter(key string) string {
	token := uuid.NewString()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.holders[key] = token
	l.inside[key]++
	if l.inside[key] > l.maxInside {
		l.maxInside = l.inside[key]
	}
	return token
}
