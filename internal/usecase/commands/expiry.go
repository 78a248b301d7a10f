package commands

import (
	"context"
	"log/slog"
	"time"

	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type PendingExpiryResult struct {
	Expired int
	Failed  int
}

// ExpiryCommands are the housekeeping passes run by the background sweeper.
// Each pass is idempotent: running it twice in a row changes nothing the second time.
type ExpiryCommands interface {
	ExpireStalePending(ctx context.Context) (PendingExpiryResult, error)
	ExpireDueCoupons(ctx context.Context) (int64, error)
	CleanupWaitlists(ctx context.Context) (int, error)
}

type expiryUseCaseImpl struct {
	uow            shared.UnitOfWork
	waitlist       shared.WaitlistStore
	clock          clock.Clock
	paymentTimeout time.Duration
	batchSize      int
	logger         *slog.Logger
}

func NewExpiryUseCase(
	uow shared.UnitOfWork,
	waitlistStore shared.WaitlistStore,
	clock clock.Clock,
	paymentTimeout time.Duration,
	batchSize int,
	logger *slog.Logger,
) ExpiryCommands {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &expiryUseCaseImpl{
		uow:            uow,
		waitlist:       waitlistStore,
		clock:          clock,
		paymentTimeout: paymentTimeout,
		batchSize:      batchSize,
		logger:         logger,
	}
}

// ExpireStalePending moves PENDING reservations older than the payment timeout to
// PAYMENT_EXPIRED. Every row gets its own transaction so one bad row does not hold
// back the rest. A row that fails is skipped for the rest of the run and retried on
// the next tick.
func (e *expiryUseCaseImpl) ExpireStalePending(ctx context.Context) (PendingExpiryResult, error) {
	var result PendingExpiryResult
	now := e.clock.Now()
	cutoff := now.Add(-e.paymentTimeout)

	// every listed id either leaves PENDING or lands here, so each batch is new rows
	var skip []uuid.UUID
	for {
		var ids []uuid.UUID
		err := e.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			var err error
			ids, err = tx.Reservations().ListStalePendingIDs(ctx, cutoff, skip, e.batchSize)
			return err
		})
		if err != nil {
			return result, err
		}

		for _, id := range ids {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			expired, err := e.expireOne(ctx, id, cutoff, now)
			if err != nil {
				result.Failed++
				skip = append(skip, id)
				e.logger.Error("failed to expire pending reservation",
					"reservation_id", id.String(),
					"error", err.Error())
				continue
			}
			if expired {
				result.Expired++
				continue
			}
			skip = append(skip, id)
		}

		if len(ids) < e.batchSize {
			return result, nil
		}
	}
}

func (e *expiryUseCaseImpl) expireOne(ctx context.Context, id uuid.UUID, cutoff, now time.Time) (bool, error) {
	var expired bool
	err := e.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		expired, err = tx.Reservations().ExpireIfStale(ctx, id, cutoff, now)
		return err
	})
	return expired, err
}

// ExpireDueCoupons flips ISSUED coupons past their expiry to EXPIRED in one statement.
func (e *expiryUseCaseImpl) ExpireDueCoupons(ctx context.Context) (int64, error) {
	var n int64
	err := e.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		n, err = tx.CouponIssues().ExpireDue(ctx, e.clock.Now())
		return err
	})
	return n, err
}

// CleanupWaitlists drops waitlists whose window has already ended.
func (e *expiryUseCaseImpl) CleanupWaitlists(ctx context.Context) (int, error) {
	return e.waitlist.RemoveElapsed(ctx, e.clock.Now())
}
