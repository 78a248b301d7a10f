//go:build unit || e2e

package builder

import (
	"time"

	"parking-reservation/internal/domain/reservation"

	"github.com/google/uuid"
)

type ReservationBuilder struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	ResourceID    uuid.UUID
	ResourceName  string
	Start         time.Time
	End           time.Time
	OriginalPrice int64
	DiscountPrice int64
	CouponIssueID *uuid.UUID
	Status        reservation.Status
	CreatedAt     time.Time
}

func NewReservationBuilder() *ReservationBuilder {
	start := time.Date(2030, 6, 1, 1, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		ResourceID:    uuid.New(),
		ResourceName:  "Z1",
		Start:         start,
		End:           start.Add(2 * time.Hour),
		OriginalPrice: 2000,
		Status:        reservation.StatusPending,
		CreatedAt:     time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(r)
	return r
}

func (r *ReservationBuilder) BuildDomain() (*reservation.Reservation, error) {
	slot, err := reservation.NewTimeSlot(r.Start, r.End)
	if err != nil {
		return nil, err
	}
	original, err := reservation.NewMoney(r.OriginalPrice)
	if err != nil {
		return nil, err
	}
	discount, err := reservation.NewMoney(r.DiscountPrice)
	if err != nil {
		return nil, err
	}
	quote, err := reservation.NewQuote(original, discount)
	if err != nil {
		return nil, err
	}
	return reservation.ReconstructReservation(
		r.ID, r.UserID, r.ResourceID, r.ResourceName, slot, quote,
		r.CouponIssueID, r.Status, r.CreatedAt, r.CreatedAt,
	), nil
}

func (r *ReservationBuilder) MustBuild() *reservation.Reservation {
	built, err := r.BuildDomain()
	if err != nil {
		panic(err)
	}
	return built
}

func (r *ReservationBuilder) OwnedBy(userID uuid.UUID) *ReservationBuilder {
	r.UserID = userID
	return r
}

func (r *ReservationBuilder) OnResource(resourceID uuid.UUID) *ReservationBuilder {
	r.ResourceID = resourceID
	return r
}

func (r *ReservationBuilder) Between(start, end time.Time) *ReservationBuilder {
	r.Start = start
	r.End = end
	return r
}

func (r *ReservationBuilder) WithStatus(status reservation.Status) *ReservationBuilder {
	r.Status = status
	return r
}

func (r *ReservationBuilder) CreatedAtTime(t time.Time) *ReservationBuilder {
	r.CreatedAt = t
	return r
}

func (r *ReservationBuilder) WithCoupon(issueID uuid.UUID, discount int64) *ReservationBuilder {
	r.CouponIssueID = &issueID
	r.DiscountPrice = discount
	return r
}
