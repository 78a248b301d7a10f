package shared

import (
	"context"
	"time"

	"parking-reservation/internal/domain/waitlist"

	"github.com/google/uuid"
)

// WaitlistStore is a FIFO queue of requesters per (resource, window) key.
// Every operation is atomic with respect to the others on the same key.
type WaitlistStore interface {
	Enqueue(ctx context.Context, key waitlist.Key, requesterID uuid.UUID, now time.Time) (waitlist.JoinResult, error)
	DequeueHead(ctx context.Context, key waitlist.Key) (*waitlist.Entry, error)
	List(ctx context.Context, key waitlist.Key) ([]waitlist.Entry, error)
	Remove(ctx context.Context, key waitlist.Key, requesterID uuid.UUID) (bool, error)
	IsMember(ctx context.Context, key waitlist.Key, requesterID uuid.UUID) (bool, error)
	// Position is 1-based; ok is false when requesterID is not queued.
	Position(ctx context.Context, key waitlist.Key, requesterID uuid.UUID) (pos int, ok bool, err error)
	Size(ctx context.Context, key waitlist.Key) (int, error)
	FindByRequester(ctx context.Context, requesterID uuid.UUID) ([]waitlist.Membership, error)
	RemoveElapsed(ctx context.Context, now time.Time) (int, error)
}
