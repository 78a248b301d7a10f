package reservation

import (
	"time"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/domain/resource"
	"parking-reservation/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock           clock.Clock
	PriceCalculator PriceCalculator
	Location        *time.Location
}

func NewFactory(clock clock.Clock, priceCalculator PriceCalculator, loc *time.Location) *Factory {
	if loc == nil {
		loc = time.UTC
	}
	return &Factory{
		Clock:           clock,
		PriceCalculator: priceCalculator,
		Location:        loc,
	}
}

// ValidateWindow runs the checks that do not need storage: the requested window itself,
// then the zone's availability and its opening hours.
func (f *Factory) ValidateWindow(res *resource.Resource, start, end time.Time) (TimeSlot, error) {
	slot, err := NewRequestedSlot(start, end, f.Clock.Now(), f.Location)
	if err != nil {
		return TimeSlot{}, err
	}
	if !res.IsAvailable() {
		return TimeSlot{}, resource.ErrResourceUnavailable
	}
	if !res.IsOpenDuring(slot.Start(), slot.End(), f.Location) {
		return TimeSlot{}, resource.ErrOutsideOperatingHours
	}
	return slot, nil
}

// Quote prices slot and applies issue when given. The caller is responsible for
// checking ownership and usability of issue first.
func (f *Factory) Quote(res *resource.Resource, slot TimeSlot, issue *coupon.Issue) (Quote, error) {
	hourly, err := NewMoney(res.HourlyPrice())
	if err != nil {
		return Quote{}, err
	}
	original, err := f.PriceCalculator.OriginalPrice(slot, hourly)
	if err != nil {
		return Quote{}, err
	}

	var discountAmount int64
	if issue != nil {
		discountAmount = issue.DiscountFor(original.Amount())
	}
	discount, err := NewMoney(discountAmount)
	if err != nil {
		return Quote{}, err
	}
	return NewQuote(original, discount)
}

func (f *Factory) CreatePending(
	res *resource.Resource,
	userID uuid.UUID,
	slot TimeSlot,
	quote Quote,
	issue *coupon.Issue,
) (*Reservation, error) {
	var issueID *uuid.UUID
	if issue != nil {
		id := issue.ID()
		issueID = &id
	}
	return NewPending(NewParams{
		UserID:        userID,
		ResourceID:    res.ID(),
		ResourceName:  res.Name(),
		TimeSlot:      slot,
		Quote:         quote,
		CouponIssueID: issueID,
		CreatedAt:     f.Clock.Now(),
	})
}
