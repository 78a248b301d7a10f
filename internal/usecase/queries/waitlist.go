package queries

import (
	"context"
	"sort"

	"parking-reservation/internal/usecase/readmodel"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type WaitlistQueries interface {
	// MyWaitlists lists every waitlist the requester is still in, soonest window first.
	MyWaitlists(ctx context.Context, requesterID uuid.UUID) ([]*readmodel.WaitlistStatusRM, error)
}

type waitlistQueriesImpl struct {
	store shared.WaitlistStore
}

func NewWaitlistQueries(store shared.WaitlistStore) WaitlistQueries {
	return &waitlistQueriesImpl{store: store}
}

func (q *waitlistQueriesImpl) MyWaitlists(ctx context.Context, requesterID uuid.UUID) ([]*readmodel.WaitlistStatusRM, error) {
	memberships, err := q.store.FindByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	out := make([]*readmodel.WaitlistStatusRM, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, &readmodel.WaitlistStatusRM{
			ResourceID: m.Key.ResourceID(),
			StartTime:  m.Key.Start(),
			EndTime:    m.Key.End(),
			Position:   m.Position,
			Size:       m.Size,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ResourceID.String() < out[j].ResourceID.String()
	})
	return out, nil
}
