package response

import (
	"time"

	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type WaitlistStatusResponse struct {
	ResourceID uuid.UUID `json:"resourceId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Position   int       `json:"position"`
	Size       int       `json:"size"`
}

type WaitlistJoinResponse struct {
	Join   string                  `json:"join"`
	Status *WaitlistStatusResponse `json:"status"`
}

func FromWaitlistStatusRM(rm *readmodel.WaitlistStatusRM) *WaitlistStatusResponse {
	if rm == nil {
		return nil
	}
	res := &WaitlistStatusResponse{}
	mustCopy(res, rm)
	return res
}

func FromWaitlistStatuses(items []*readmodel.WaitlistStatusRM) []*WaitlistStatusResponse {
	res := make([]*WaitlistStatusResponse, len(items))
	for i, rm := range items {
		res[i] = FromWaitlistStatusRM(rm)
	}
	return res
}

func FromWaitlistJoin(r *commands.WaitlistJoinResult) *WaitlistJoinResponse {
	return &WaitlistJoinResponse{
		Join:   string(r.Join),
		Status: FromWaitlistStatusRM(r.Status),
	}
}
