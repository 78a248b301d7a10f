package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/readmodel"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	JobKindReservationCanceled  = "reservation_canceled"
	JobKindReservationConfirmed = "reservation_confirmed"

	notificationTopic = "reservation"
)

const (
	cancelReasonRequester     = "requester_canceled"
	cancelReasonPaymentFailed = "payment_failed"
)

type ReservationCommands interface {
	Cancel(ctx context.Context, requesterID, reservationID uuid.UUID) (*readmodel.ReservationRM, error)
	Complete(ctx context.Context, requesterID, reservationID uuid.UUID) (*readmodel.ReservationRM, error)
	// ConfirmPayment and FailPayment are driven by the payment provider callback.
	ConfirmPayment(ctx context.Context, reservationID uuid.UUID) (*readmodel.ReservationRM, error)
	FailPayment(ctx context.Context, reservationID uuid.UUID) (*readmodel.ReservationRM, error)
}

type reservationUseCaseImpl struct {
	uow          shared.UnitOfWork
	clock        clock.Clock
	cancelCutoff time.Duration
	logger       *slog.Logger
}

func NewReservationUseCase(uow shared.UnitOfWork, clock clock.Clock, cancelCutoff time.Duration, logger *slog.Logger) ReservationCommands {
	return &reservationUseCaseImpl{
		uow:          uow,
		clock:        clock,
		cancelCutoff: cancelCutoff,
		logger:       logger,
	}
}

type slotReleasedPayload struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	ZoneID        uuid.UUID `json:"zone_id"`
	UserID        uuid.UUID `json:"user_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Reason        string    `json:"reason"`
}

func (u *reservationUseCaseImpl) Cancel(ctx context.Context, requesterID, reservationID uuid.UUID) (*readmodel.ReservationRM, error) {
	return u.transition(ctx, reservationID, &requesterID, func(ctx context.Context, tx shared.Tx, r *reservation.Reservation, now time.Time) error {
		if err := r.Cancel(now, u.cancelCutoff); err != nil {
			return err
		}
		return u.releaseSlot(ctx, tx, r, now, cancelReasonRequester)
	})
}

func (u *reservationUseCaseImpl) Complete(ctx context.Context, requesterID, reservationID uuid.UUID) (*readmodel.ReservationRM, error) {
	return u.transition(ctx, reservationID, &requesterID, func(_ context.Context, _ shared.Tx, r *reservation.Reservation, now time.Time) error {
		return r.Complete(now)
	})
}

func (u *reservationUseCaseImpl) ConfirmPayment(ctx context.Context, reservationID uuid.UUID) (*readmodel.ReservationRM, error) {
	return u.transition(ctx, reservationID, nil, func(ctx context.Context, tx shared.Tx, r *reservation.Reservation, now time.Time) error {
		if err := r.Confirm(now); err != nil {
			return err
		}
		payload, err := json.Marshal(map[string]any{
			"reservation_id": r.ID(),
			"user_id":        r.UserID(),
			"total_price":    r.Quote().Final().Amount(),
		})
		if err != nil {
			return errs.Wrap(err, "failed to marshal confirmation payload")
		}
		return tx.Notifications().CreateJob(ctx, JobKindReservationConfirmed, notificationTopic, payload, now)
	})
}

func (u *reservationUseCaseImpl) FailPayment(ctx context.Context, reservationID uuid.UUID) (*readmodel.ReservationRM, error) {
	return u.transition(ctx, reservationID, nil, func(ctx context.Context, tx shared.Tx, r *reservation.Reservation, now time.Time) error {
		if err := r.FailPayment(now); err != nil {
			return err
		}
		return u.releaseSlot(ctx, tx, r, now, cancelReasonPaymentFailed)
	})
}

type transitionFunc func(ctx context.Context, tx shared.Tx, r *reservation.Reservation, now time.Time) error

// transition locks the row, applies apply, and persists the new status guarded by the old one.
// A nil ownerID skips the ownership check.
func (u *reservationUseCaseImpl) transition(
	ctx context.Context,
	reservationID uuid.UUID,
	ownerID *uuid.UUID,
	apply transitionFunc,
) (*readmodel.ReservationRM, error) {
	var updated *reservation.Reservation
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := tx.Reservations().FindByIDForUpdate(ctx, reservationID)
		if err != nil {
			return shared.NotFoundAs(err, shared.ErrReservationNotFound)
		}
		if ownerID != nil && !r.IsOwnedBy(*ownerID) {
			return shared.ErrNotReservationOwner
		}

		from := r.Status()
		now := u.clock.Now()
		if err := apply(ctx, tx, r, now); err != nil {
			return err
		}

		ok, err := tx.Reservations().UpdateStatus(ctx, r, from)
		if err != nil {
			return err
		}
		if !ok {
			return reservation.ErrInvalidTransition
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("reservation status changed",
		"reservation_id", updated.ID().String(),
		"status", updated.Status().String())
	return toReservationRM(updated), nil
}

// releaseSlot gives the coupon back and records an outbox job so waitlisted
// requesters can be told the window opened up.
func (u *reservationUseCaseImpl) releaseSlot(ctx context.Context, tx shared.Tx, r *reservation.Reservation, now time.Time, reason string) error {
	if r.HasCoupon() {
		restored, err := tx.CouponIssues().CancelUsage(ctx, *r.CouponIssueID(), now)
		if err != nil {
			return err
		}
		if !restored {
			u.logger.Info("coupon not restored, already expired or not in use",
				"coupon_issue_id", r.CouponIssueID().String(),
				"reservation_id", r.ID().String())
		}
	}

	payload, err := json.Marshal(slotReleasedPayload{
		ReservationID: r.ID(),
		ZoneID:        r.ResourceID(),
		UserID:        r.UserID(),
		StartTime:     r.TimeSlot().Start(),
		EndTime:       r.TimeSlot().End(),
		Reason:        reason,
	})
	if err != nil {
		return errs.Wrap(err, "failed to marshal cancellation payload")
	}
	return tx.Notifications().CreateJob(ctx, JobKindReservationCanceled, notificationTopic, payload, now)
}
