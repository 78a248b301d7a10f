package commands

import (
	"context"
	"log/slog"
	"time"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/domain/resource"
	"parking-reservation/internal/domain/waitlist"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/readmodel"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrDuplicateSelfReservation = errs.New("requester already holds an overlapping reservation")
	ErrCouponNotFound           = errs.New("coupon not found")
	ErrNotYourCoupon            = errs.New("coupon belongs to another user")

	// internal signal: the window is held by someone else, fall back to the waitlist
	errSlotTaken = errs.New("slot already taken")
)

type AdmissionOutcome string

const (
	OutcomeCreated AdmissionOutcome = "CREATED"
	OutcomeQueued  AdmissionOutcome = "QUEUED"
)

type AdmitRequest struct {
	ResourceID    uuid.UUID
	StartTime     time.Time
	EndTime       time.Time
	CouponIssueID *uuid.UUID
}

// AdmissionResult is either a created PENDING reservation or a waitlist placement.
type AdmissionResult struct {
	Outcome     AdmissionOutcome
	Reservation *readmodel.ReservationRM

	Join     waitlist.JoinResult
	Waitlist *readmodel.WaitlistStatusRM
}

type AdmissionCommands interface {
	Admit(ctx context.Context, requesterID uuid.UUID, req AdmitRequest) (*AdmissionResult, error)
}

type admissionUseCaseImpl struct {
	uow      shared.UnitOfWork
	locker   shared.Locker
	waitlist shared.WaitlistStore
	factory  *reservation.Factory
	clock    clock.Clock
	lockTTL  time.Duration
	logger   *slog.Logger
}

func NewAdmissionUseCase(
	uow shared.UnitOfWork,
	locker shared.Locker,
	waitlistStore shared.WaitlistStore,
	factory *reservation.Factory,
	clock clock.Clock,
	lockTTL time.Duration,
	logger *slog.Logger,
) AdmissionCommands {
	return &admissionUseCaseImpl{
		uow:      uow,
		locker:   locker,
		waitlist: waitlistStore,
		factory:  factory,
		clock:    clock,
		lockTTL:  lockTTL,
		logger:   logger,
	}
}

// Admit serializes all admissions for one zone behind the zone lock. Either a PENDING
// reservation is written or, when the window is already held, the requester is queued.
func (a *admissionUseCaseImpl) Admit(ctx context.Context, requesterID uuid.UUID, req AdmitRequest) (*AdmissionResult, error) {
	reads := a.uow.CommandReads()
	if _, err := reads.ActiveUserByID(ctx, requesterID); err != nil {
		return nil, shared.NotFoundAs(err, shared.ErrUserNotFound)
	}
	res, err := reads.ActiveResourceByID(ctx, req.ResourceID)
	if err != nil {
		return nil, shared.NotFoundAs(err, shared.ErrResourceNotFound)
	}

	return shared.WithLock(ctx, a.locker, a.logger, shared.ResourceLockKey(res.ID().String()), a.lockTTL,
		func(ctx context.Context) (*AdmissionResult, error) {
			return a.admitLocked(ctx, requesterID, res, req)
		})
}

func (a *admissionUseCaseImpl) admitLocked(
	ctx context.Context,
	requesterID uuid.UUID,
	res *resource.Resource,
	req AdmitRequest,
) (*AdmissionResult, error) {
	slot, err := a.factory.ValidateWindow(res, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	var created *reservation.Reservation
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := a.createInTx(ctx, tx, requesterID, res, slot, req.CouponIssueID)
		if err != nil {
			return err
		}
		created = r
		return nil
	})

	switch {
	case err == nil:
		a.logger.Info("reservation admitted",
			"reservation_id", created.ID().String(),
			"zone_id", res.ID().String(),
			"slot", slot.String())
		return &AdmissionResult{Outcome: OutcomeCreated, Reservation: toReservationRM(created)}, nil
	case errs.Is(err, errSlotTaken):
		return a.enqueue(ctx, requesterID, res.ID(), slot)
	default:
		return nil, err
	}
}

func (a *admissionUseCaseImpl) createInTx(
	ctx context.Context,
	tx shared.Tx,
	requesterID uuid.UUID,
	res *resource.Resource,
	slot reservation.TimeSlot,
	couponIssueID *uuid.UUID,
) (*reservation.Reservation, error) {
	repo := tx.Reservations()

	mine, err := repo.HasActiveOverlap(ctx, res.ID(), slot, &requesterID)
	if err != nil {
		return nil, err
	}
	if mine {
		return nil, ErrDuplicateSelfReservation
	}

	taken, err := repo.HasActiveOverlap(ctx, res.ID(), slot, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errSlotTaken
	}

	issue, err := a.claimCoupon(ctx, tx, requesterID, couponIssueID)
	if err != nil {
		return nil, err
	}

	quote, err := a.factory.Quote(res, slot, issue)
	if err != nil {
		return nil, err
	}
	r, err := a.factory.CreatePending(res, requesterID, slot, quote, issue)
	if err != nil {
		return nil, err
	}

	if err := repo.Create(ctx, r); err != nil {
		// the exclusion constraint caught a writer that bypassed the zone lock
		if infra.IsKind(err, infra.KindConflict) {
			return nil, errs.Mark(err, errSlotTaken)
		}
		return nil, err
	}
	return r, nil
}

// claimCoupon consumes the coupon inside the admission transaction, so a rollback
// leaves it ISSUED.
func (a *admissionUseCaseImpl) claimCoupon(
	ctx context.Context,
	tx shared.Tx,
	requesterID uuid.UUID,
	couponIssueID *uuid.UUID,
) (*coupon.Issue, error) {
	if couponIssueID == nil {
		return nil, nil
	}

	issue, err := tx.CouponIssues().FindByID(ctx, *couponIssueID)
	if err != nil {
		return nil, shared.NotFoundAs(err, ErrCouponNotFound)
	}
	if !issue.IsOwnedBy(requesterID) {
		return nil, ErrNotYourCoupon
	}

	now := a.clock.Now()
	if err := issue.ValidateUsable(now); err != nil {
		return nil, err
	}

	ok, err := tx.CouponIssues().MarkUsed(ctx, issue.ID(), now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// lost the race to a concurrent admission holding a different zone lock
		return nil, coupon.ErrCouponAlreadyUsed
	}
	if err := issue.Use(now); err != nil {
		return nil, err
	}
	return issue, nil
}

func (a *admissionUseCaseImpl) enqueue(
	ctx context.Context,
	requesterID, resourceID uuid.UUID,
	slot reservation.TimeSlot,
) (*AdmissionResult, error) {
	key, err := waitlist.NewKey(resourceID, slot.Start(), slot.End())
	if err != nil {
		return nil, err
	}

	join, err := a.waitlist.Enqueue(ctx, key, requesterID, a.clock.Now())
	if err != nil {
		return nil, err
	}
	status, err := waitlistStatus(ctx, a.waitlist, key, requesterID)
	if err != nil {
		return nil, err
	}

	a.logger.Info("slot taken, requester queued",
		"zone_id", resourceID.String(),
		"slot", slot.String(),
		"join", string(join),
		"position", status.Position)
	return &AdmissionResult{Outcome: OutcomeQueued, Join: join, Waitlist: status}, nil
}
