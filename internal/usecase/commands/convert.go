package commands

import (
	"context"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/domain/waitlist"
	"parking-reservation/internal/usecase/readmodel"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

func toReservationRM(r *reservation.Reservation) *readmodel.ReservationRM {
	q := r.Quote()
	return &readmodel.ReservationRM{
		ID:            r.ID(),
		UserID:        r.UserID(),
		ResourceID:    r.ResourceID(),
		ResourceName:  r.ResourceName(),
		StartTime:     r.TimeSlot().Start(),
		EndTime:       r.TimeSlot().End(),
		OriginalPrice: q.Original().Amount(),
		DiscountPrice: q.Discount().Amount(),
		TotalPrice:    q.Final().Amount(),
		CouponIssueID: r.CouponIssueID(),
		Status:        r.Status().String(),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
}

func toCouponIssueRM(i *coupon.Issue) *readmodel.CouponIssueRM {
	return &readmodel.CouponIssueRM{
		ID:            i.ID(),
		PromotionID:   i.PromotionID(),
		UserID:        i.UserID(),
		DiscountType:  string(i.Discount().Type()),
		DiscountValue: i.Discount().Value(),
		IssuedAt:      i.IssuedAt(),
		ExpiresAt:     i.ExpiresAt(),
		UsedAt:        i.UsedAt(),
		Status:        i.Status().String(),
	}
}

func waitlistStatus(ctx context.Context, store shared.WaitlistStore, key waitlist.Key, requesterID uuid.UUID) (*readmodel.WaitlistStatusRM, error) {
	pos, _, err := store.Position(ctx, key, requesterID)
	if err != nil {
		return nil, err
	}
	size, err := store.Size(ctx, key)
	if err != nil {
		return nil, err
	}
	return &readmodel.WaitlistStatusRM{
		ResourceID: key.ResourceID(),
		StartTime:  key.Start(),
		EndTime:    key.End(),
		Position:   pos,
		Size:       size,
	}, nil
}
