package commands

import (
	"context"
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/domain/waitlist"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/readmodel"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrNotInWaitlist = errs.New("requester is not in this waitlist")

type WaitlistRequest struct {
	ResourceID uuid.UUID
	StartTime  time.Time
	EndTime    time.Time
}

type WaitlistJoinResult struct {
	Join   waitlist.JoinResult
	Status *readmodel.WaitlistStatusRM
}

type WaitlistCommands interface {
	Join(ctx context.Context, requesterID uuid.UUID, req WaitlistRequest) (*WaitlistJoinResult, error)
	Leave(ctx context.Context, requesterID uuid.UUID, req WaitlistRequest) error
}

type waitlistUseCaseImpl struct {
	uow   shared.UnitOfWork
	store shared.WaitlistStore
	clock clock.Clock
}

func NewWaitlistUseCase(uow shared.UnitOfWork, store shared.WaitlistStore, clock clock.Clock) WaitlistCommands {
	return &waitlistUseCaseImpl{uow: uow, store: store, clock: clock}
}

// Join queues the requester directly. Joining twice keeps the original position.
func (w *waitlistUseCaseImpl) Join(ctx context.Context, requesterID uuid.UUID, req WaitlistRequest) (*WaitlistJoinResult, error) {
	reads := w.uow.CommandReads()
	if _, err := reads.ActiveUserByID(ctx, requesterID); err != nil {
		return nil, shared.NotFoundAs(err, shared.ErrUserNotFound)
	}
	if _, err := reads.ActiveResourceByID(ctx, req.ResourceID); err != nil {
		return nil, shared.NotFoundAs(err, shared.ErrResourceNotFound)
	}

	now := w.clock.Now()
	if _, err := reservation.NewTimeSlot(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if !req.StartTime.After(now) {
		return nil, reservation.ErrInvalidTimeRange
	}

	key, err := waitlist.NewKey(req.ResourceID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, errs.Mark(err, reservation.ErrInvalidTimeRange)
	}

	join, err := w.store.Enqueue(ctx, key, requesterID, now)
	if err != nil {
		return nil, err
	}
	status, err := waitlistStatus(ctx, w.store, key, requesterID)
	if err != nil {
		return nil, err
	}
	return &WaitlistJoinResult{Join: join, Status: status}, nil
}

func (w *waitlistUseCaseImpl) Leave(ctx context.Context, requesterID uuid.UUID, req WaitlistRequest) error {
	key, err := waitlist.NewKey(req.ResourceID, req.StartTime, req.EndTime)
	if err != nil {
		return errs.Mark(err, reservation.ErrInvalidTimeRange)
	}

	removed, err := w.store.Remove(ctx, key, requesterID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotInWaitlist
	}
	return nil
}
