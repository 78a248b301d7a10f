package reservation

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTimeRange     = errors.New("invalid time range")
	ErrNegativePrice        = errors.New("price cannot be negative")
	ErrDiscountExceedsPrice = errors.New("discount cannot exceed original price")
	ErrInvalidStatus        = errors.New("invalid reservation status")
	ErrInvalidTransition    = errors.New("invalid reservation status transition")
	ErrCancelWindowClosed   = errors.New("reservation can no longer be canceled")
	ErrEmptyResourceName    = errors.New("resource name cannot be empty")
)

type Reservation struct {
	id            uuid.UUID
	userID        uuid.UUID
	resourceID    uuid.UUID
	resourceName  string
	timeSlot      TimeSlot
	quote         Quote
	couponIssueID *uuid.UUID
	status        Status
	createdAt     time.Time
	updatedAt     time.Time
}

type NewParams struct {
	UserID        uuid.UUID
	ResourceID    uuid.UUID
	ResourceName  string
	TimeSlot      TimeSlot
	Quote         Quote
	CouponIssueID *uuid.UUID
	CreatedAt     time.Time
}

func NewPending(p NewParams) (*Reservation, error) {
	if p.ResourceName == "" {
		return nil, ErrEmptyResourceName
	}
	return &Reservation{
		id:            uuid.New(),
		userID:        p.UserID,
		resourceID:    p.ResourceID,
		resourceName:  p.ResourceName,
		timeSlot:      p.TimeSlot,
		quote:         p.Quote,
		couponIssueID: p.CouponIssueID,
		status:        StatusPending,
		createdAt:     p.CreatedAt,
		updatedAt:     p.CreatedAt,
	}, nil
}

func ReconstructReservation(
	id, userID, resourceID uuid.UUID,
	resourceName string,
	timeSlot TimeSlot,
	quote Quote,
	couponIssueID *uuid.UUID,
	status Status,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:            id,
		userID:        userID,
		resourceID:    resourceID,
		resourceName:  resourceName,
		timeSlot:      timeSlot,
		quote:         quote,
		couponIssueID: couponIssueID,
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (r *Reservation) IsOwnedBy(userID uuid.UUID) bool {
	return r.userID == userID
}

func (r *Reservation) IsActive() bool {
	return r.status.IsActive()
}

func (r *Reservation) HasCoupon() bool {
	return r.couponIssueID != nil
}

func (r *Reservation) Confirm(now time.Time) error {
	return r.transitionTo(StatusConfirmed, now)
}

func (r *Reservation) Complete(now time.Time) error {
	return r.transitionTo(StatusCompleted, now)
}

// Cancel refuses once now is within cutoff of the start time.
func (r *Reservation) Cancel(now time.Time, cutoff time.Duration) error {
	if !r.status.CanTransitionTo(StatusCanceled) {
		return ErrInvalidTransition
	}
	if !now.Before(r.timeSlot.Start().Add(-cutoff)) {
		return ErrCancelWindowClosed
	}
	return r.transitionTo(StatusCanceled, now)
}

// FailPayment cancels a pending reservation without the cutoff check.
func (r *Reservation) FailPayment(now time.Time) error {
	if r.status != StatusPending {
		return ErrInvalidTransition
	}
	return r.transitionTo(StatusCanceled, now)
}

func (r *Reservation) ExpirePayment(now time.Time) error {
	return r.transitionTo(StatusPaymentExpired, now)
}

func (r *Reservation) IsPaymentOverdue(now time.Time, timeout time.Duration) bool {
	return r.status == StatusPending && r.createdAt.Before(now.Add(-timeout))
}

func (r *Reservation) transitionTo(next Status, now time.Time) error {
	if !r.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	r.status = next
	r.updatedAt = now
	return nil
}

func (r *Reservation) ID() uuid.UUID             { return r.id }
func (r *Reservation) UserID() uuid.UUID         { return r.userID }
func (r *Reservation) ResourceID() uuid.UUID     { return r.resourceID }
func (r *Reservation) ResourceName() string      { return r.resourceName }
func (r *Reservation) TimeSlot() TimeSlot        { return r.timeSlot }
func (r *Reservation) Quote() Quote              { return r.quote }
func (r *Reservation) CouponIssueID() *uuid.UUID { return r.couponIssueID }
func (r *Reservation) Status() Status            { return r.status }
func (r *Reservation) CreatedAt() time.Time      { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time      { return r.updatedAt }
