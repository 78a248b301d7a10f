package readmodel

import (
	"time"

	"github.com/google/uuid"
)

type CouponIssueRM struct {
	ID            uuid.UUID  `json:"id"`
	PromotionID   uuid.UUID  `json:"promotion_id"`
	UserID        uuid.UUID  `json:"user_id"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue int64      `json:"discount_value"`
	IssuedAt      time.Time  `json:"issued_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	UsedAt        *time.Time `json:"used_at,omitempty"`
	Status        string     `json:"status"`
}
