package queries

import (
	"context"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/readmodel"

	"github.com/google/uuid"
)

var ErrInvalidCouponStatus = errs.New("invalid coupon status filter")

type CouponReadStore interface {
	ListCouponIssuesByUser(ctx context.Context, userID uuid.UUID, status string) ([]*readmodel.CouponIssueRM, error)
}

type CouponQueries interface {
	// MyCoupons filters by status when it is non-empty.
	MyCoupons(ctx context.Context, userID uuid.UUID, status string) ([]*readmodel.CouponIssueRM, error)
}

type couponQueriesImpl struct {
	repo CouponReadStore
}

func NewCouponQueries(repo CouponReadStore) CouponQueries {
	return &couponQueriesImpl{repo: repo}
}

func (q *couponQueriesImpl) MyCoupons(ctx context.Context, userID uuid.UUID, status string) ([]*readmodel.CouponIssueRM, error) {
	if status != "" && !coupon.IssueStatus(status).IsValid() {
		return nil, ErrInvalidCouponStatus
	}
	return q.repo.ListCouponIssuesByUser(ctx, userID, status)
}
