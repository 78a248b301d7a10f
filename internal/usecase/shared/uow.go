package shared

import (
	"context"
	"time"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/domain/resource"
	"parking-reservation/internal/domain/user"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Reservations() ReservationRepository
	CouponIssues() CouponIssueRepository
	Promotions() PromotionRepository
	Notifications() NotificationRepository
	Reads() CommandReads
}

// CommandReads resolves the external snapshots a command needs. Soft-deleted or
// inactive rows are reported as not found.
type CommandReads interface {
	ActiveUserByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	ActiveResourceByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// HasActiveOverlap reports a PENDING or CONFIRMED reservation on resourceID overlapping slot.
	// A non-nil userID restricts the check to that requester.
	HasActiveOverlap(ctx context.Context, resourceID uuid.UUID, slot reservation.TimeSlot, userID *uuid.UUID) (bool, error)
	// UpdateStatus writes res.Status() only if the stored status is still from.
	UpdateStatus(ctx context.Context, res *reservation.Reservation, from reservation.Status) (bool, error)
	// ListStalePendingIDs returns the oldest PENDING ids created before createdBefore, skipping skip.
	ListStalePendingIDs(ctx context.Context, createdBefore time.Time, skip []uuid.UUID, limit int) ([]uuid.UUID, error)
	ExpireIfStale(ctx context.Context, id uuid.UUID, createdBefore, now time.Time) (bool, error)
}

type CouponIssueRepository interface {
	Create(ctx context.Context, issue *coupon.Issue) error
	FindByID(ctx context.Context, id uuid.UUID) (*coupon.Issue, error)
	// MarkUsed is a guarded check-then-set: it succeeds only for an ISSUED, unexpired row.
	MarkUsed(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	// CancelUsage reverts a USED row that has not expired yet.
	CancelUsage(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	CountIssued(ctx context.Context, promotionID uuid.UUID) (int, error)
	CountIssuedForUser(ctx context.Context, promotionID, userID uuid.UUID) (int, error)
}

type PromotionRepository interface {
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*coupon.Promotion, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
