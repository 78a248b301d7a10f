package response

import (
	"time"

	"parking-reservation/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type CouponIssueResponse struct {
	ID            uuid.UUID  `json:"id"`
	PromotionID   uuid.UUID  `json:"promotionId"`
	UserID        uuid.UUID  `json:"userId"`
	DiscountType  string     `json:"discountType"`
	DiscountValue int64      `json:"discountValue"`
	IssuedAt      time.Time  `json:"issuedAt"`
	ExpiresAt     time.Time  `json:"expiresAt"`
	UsedAt        *time.Time `json:"usedAt,omitempty"`
	Status        string     `json:"status"`
}

func FromCouponIssueRM(rm *readmodel.CouponIssueRM) *CouponIssueResponse {
	res := &CouponIssueResponse{}
	mustCopy(res, rm)
	return res
}

func FromCouponIssues(items []*readmodel.CouponIssueRM) []*CouponIssueResponse {
	res := make([]*CouponIssueResponse, len(items))
	for i, rm := range items {
		res[i] = FromCouponIssueRM(rm)
	}
	return res
}
