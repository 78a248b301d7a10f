package readmodel

import (
	"time"

	"github.com/google/uuid"
)

type ReservationRM struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	ResourceID    uuid.UUID  `json:"resource_id"`
	ResourceName  string     `json:"resource_name"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       time.Time  `json:"end_time"`
	OriginalPrice int64      `json:"original_price"`
	DiscountPrice int64      `json:"discount_price"`
	TotalPrice    int64      `json:"total_price"`
	CouponIssueID *uuid.UUID `json:"coupon_issue_id,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Keyset is the last row of the previous page, ordered by (created_at DESC, id DESC).
type Keyset struct {
	CreatedAt time.Time
	ID        uuid.UUID
}
