package queries

import (
	"context"

	"parking-reservation/internal/domain/resource"
	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/pkg/ptr"
	"parking-reservation/internal/usecase/readmodel"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*readmodel.ReservationRM, error)
	ListByUser(ctx context.Context, userID uuid.UUID, after *readmodel.Keyset, limit int) ([]*readmodel.ReservationRM, error)
	ListByResource(ctx context.Context, resourceID uuid.UUID, after *readmodel.Keyset, limit int) ([]*readmodel.ReservationRM, error)
}

type ResourceLookup interface {
	ActiveResourceByID(ctx context.Context, id uuid.UUID) (*resource.Resource, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*readmodel.ReservationRM, error)
	ListMine(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*readmodel.ReservationRM, *Cursor, error)
	ListForResource(ctx context.Context, actorID uuid.UUID, actorRole user.Role, resourceID uuid.UUID, cursor *Cursor, limit int) ([]*readmodel.ReservationRM, *Cursor, error)
}

type reservationQueriesImpl struct {
	repo      ReservationReadStore
	resources ResourceLookup
}

func NewReservationQueries(repo ReservationReadStore, resources ResourceLookup) ReservationQueries {
	return &reservationQueriesImpl{repo: repo, resources: resources}
}

// GetByID is visible to the requester, the zone owner and staff.
func (q *reservationQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*readmodel.ReservationRM, error) {
	rm, err := q.repo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NotFoundAs(err, shared.ErrReservationNotFound)
	}
	if rm.UserID == actorID || isStaff(actorRole) {
		return rm, nil
	}

	res, err := q.resources.ActiveResourceByID(ctx, rm.ResourceID)
	if err != nil {
		return nil, shared.NotFoundAs(err, shared.ErrNotReservationOwner)
	}
	if !res.IsOwnedBy(actorID) {
		return nil, shared.ErrNotReservationOwner
	}
	return rm, nil
}

func (q *reservationQueriesImpl) ListMine(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*readmodel.ReservationRM, *Cursor, error) {
	after, err := afterFrom(cursor)
	if err != nil {
		return nil, nil, err
	}
	limit = ValidateLimit(limit)

	// one extra row tells us whether another page exists
	rows, err := q.repo.ListByUser(ctx, userID, after, limit+1)
	if err != nil {
		return nil, nil, err
	}
	return paginate(rows, limit)
}

func (q *reservationQueriesImpl) ListForResource(
	ctx context.Context,
	actorID uuid.UUID,
	actorRole user.Role,
	resourceID uuid.UUID,
	cursor *Cursor,
	limit int,
) ([]*readmodel.ReservationRM, *Cursor, error) {
	res, err := q.resources.ActiveResourceByID(ctx, resourceID)
	if err != nil {
		return nil, nil, shared.NotFoundAs(err, shared.ErrResourceNotFound)
	}
	if !res.IsOwnedBy(actorID) && !isStaff(actorRole) {
		return nil, nil, shared.ErrNotResourceOwner
	}

	after, err := afterFrom(cursor)
	if err != nil {
		return nil, nil, err
	}
	limit = ValidateLimit(limit)

	rows, err := q.repo.ListByResource(ctx, resourceID, after, limit+1)
	if err != nil {
		return nil, nil, err
	}
	return paginate(rows, limit)
}

func isStaff(role user.Role) bool {
	return role == user.RoleOperator || role == user.RoleAdmin
}

func afterFrom(cursor *Cursor) (*readmodel.Keyset, error) {
	return DecodeAfterCursor(ptr.Deref(cursor, Cursor{}).After)
}

func paginate(rows []*readmodel.ReservationRM, limit int) ([]*readmodel.ReservationRM, *Cursor, error) {
	if len(rows) <= limit {
		return rows, nil, nil
	}
	rows = rows[:limit]
	last := rows[len(rows)-1]
	next := &Cursor{After: EncodeAfterCursor(readmodel.Keyset{CreatedAt: last.CreatedAt, ID: last.ID})}
	return rows, next, nil
}
