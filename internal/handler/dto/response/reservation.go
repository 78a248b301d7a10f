package response

import (
	"time"

	"parking-reservation/internal/pkg/ptr"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/queries"
	"parking-reservation/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"userId"`
	ResourceID    uuid.UUID  `json:"resourceId"`
	ResourceName  string     `json:"resourceName"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       time.Time  `json:"endTime"`
	OriginalPrice int64      `json:"originalPrice"`
	DiscountPrice int64      `json:"discountPrice"`
	TotalPrice    int64      `json:"totalPrice"`
	CouponIssueID *uuid.UUID `json:"couponIssueId,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type ReservationListResponse struct {
	Items      []*ReservationResponse `json:"items"`
	NextCursor *string                `json:"nextCursor,omitempty"`
}

// AdmissionResponse holds either the new reservation or the waitlist placement.
type AdmissionResponse struct {
	Outcome     string                  `json:"outcome"`
	Reservation *ReservationResponse    `json:"reservation,omitempty"`
	Join        string                  `json:"join,omitempty"`
	Waitlist    *WaitlistStatusResponse `json:"waitlist,omitempty"`
}

func FromReservationRM(rm *readmodel.ReservationRM) *ReservationResponse {
	if rm == nil {
		return nil
	}
	res := &ReservationResponse{}
	mustCopy(res, rm)
	return res
}

func FromReservationList(items []*readmodel.ReservationRM, next *queries.Cursor) *ReservationListResponse {
	res := &ReservationListResponse{Items: make([]*ReservationResponse, len(items))}
	for i, rm := range items {
		res.Items[i] = FromReservationRM(rm)
	}
	if next != nil {
		res.NextCursor = ptr.Of(next.After)
	}
	return res
}

func FromAdmissionResult(r *commands.AdmissionResult) *AdmissionResponse {
	res := &AdmissionResponse{Outcome: string(r.Outcome)}
	switch r.Outcome {
	case commands.OutcomeCreated:
		res.Reservation = FromReservationRM(r.Reservation)
	case commands.OutcomeQueued:
		res.Join = string(r.Join)
		res.Waitlist = FromWaitlistStatusRM(r.Waitlist)
	}
	return res
}

// copier only fails on nil or non-struct arguments, which callers never pass
func mustCopy(to, from any) {
	if err := copier.Copy(to, from); err != nil {
		panic(err)
	}
}
