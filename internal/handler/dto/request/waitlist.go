package request

import (
	"time"

	"parking-reservation/internal/usecase/commands"

	"github.com/google/uuid"
)

type WaitlistRequest struct {
	ResourceID uuid.UUID `json:"resourceId" binding:"required"`
	StartTime  time.Time `json:"startTime" binding:"required,minuteAligned"`
	EndTime    time.Time `json:"endTime" binding:"required,minuteAligned,gtfield=StartTime"`
}

func (r WaitlistRequest) ToCommand() commands.WaitlistRequest {
	return commands.WaitlistRequest{
		ResourceID: r.ResourceID,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
	}
}
