package request

import (
	"time"

	"parking-reservation/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateReservationRequest struct {
	ResourceID    uuid.UUID  `json:"resourceId" binding:"required"`
	StartTime     time.Time  `json:"startTime" binding:"required,minuteAligned"`
	EndTime       time.Time  `json:"endTime" binding:"required,minuteAligned,gtfield=StartTime"`
	CouponIssueID *uuid.UUID `json:"couponIssueId,omitempty"`
}

func (r CreateReservationRequest) ToCommand() commands.AdmitRequest {
	return commands.AdmitRequest{
		ResourceID:    r.ResourceID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		CouponIssueID: r.CouponIssueID,
	}
}

type ListQuery struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=200"`
}
