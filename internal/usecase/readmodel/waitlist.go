package readmodel

import (
	"time"

	"github.com/google/uuid"
)

type WaitlistStatusRM struct {
	ResourceID uuid.UUID `json:"resource_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Position   int       `json:"position"`
	Size       int       `json:"size"`
}
