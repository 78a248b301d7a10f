//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/domain/user"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/queries"
	"parking-reservation/internal/usecase/readmodel"
	"parking-reservation/internal/usecase/shared"
	"parking-reservation/tests/common/builder"
	"parking-reservation/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationQueries_GetByID(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	zoneOwner := uuid.New()
	zone := builder.NewResourceBuilder().WithOwner(zoneOwner).MustBuild()
	store.AddResource(zone)

	requester := uuid.New()
	r := builder.NewReservationBuilder().OwnedBy(requester).OnResource(zone.ID()).MustBuild()
	store.AddReservation(r)

	q := queries.NewReservationQueries(store, store.CommandReads())

	testCases := []struct {
		name  string
		actor uuid.UUID
		role  user.Role
		id    uuid.UUID
		errIs error
	}{
		{name: "success: requester", actor: requester, role: user.RoleDriver, id: r.ID()},
		{name: "success: zone owner", actor: zoneOwner, role: user.RoleOwner, id: r.ID()},
		{name: "success: operator", actor: uuid.New(), role: user.RoleOperator, id: r.ID()},
		{name: "error: another driver", actor: uuid.New(), role: user.RoleDriver, id: r.ID(), errIs: shared.ErrNotReservationOwner},
		{name: "error: unknown reservation", actor: requester, role: user.RoleDriver, id: uuid.New(), errIs: shared.ErrReservationNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := q.GetByID(ctx, tc.actor, tc.role, tc.id)
			if tc.errIs != nil {
				assert.True(t, errs.Is(err, tc.errIs), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, r.ID(), got.ID)
			assert.Equal(t, "PENDING", got.Status)
		})
	}
}

func TestReservationQueries_ListMinePaginates(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	requester := uuid.New()
	base := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)

	var want []uuid.UUID
	for i := 0; i < 5; i++ {
		r := builder.NewReservationBuilder().
			OwnedBy(requester).
			CreatedAtTime(base.Add(time.Duration(i) * time.Minute)).
			MustBuild()
		store.AddReservation(r)
		want = append([]uuid.UUID{r.ID()}, want...)
	}
	store.AddReservation(builder.NewReservationBuilder().MustBuild())

	q := queries.NewReservationQueries(store, store.CommandReads())

	var (
		got    []uuid.UUID
		cursor *queries.Cursor
		pages  int
	)
	for {
		items, next, err := q.ListMine(ctx, requester, cursor, 2)
		require.NoError(t, err)
		for _, it := range items {
			got = append(got, it.ID)
		}
		pages++
		if next == nil {
			break
		}
		cursor = next
	}

	assert.Equal(t, want, got)
	assert.Equal(t, 3, pages)
}

func TestReservationQueries_ListForResource(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	zoneOwner := uuid.New()
	zone := builder.NewResourceBuilder().WithOwner(zoneOwner).MustBuild()
	store.AddResource(zone)
	store.AddReservation(builder.NewReservationBuilder().OnResource(zone.ID()).MustBuild())

	q := queries.NewReservationQueries(store, store.CommandReads())

	items, next, err := q.ListForResource(ctx, zoneOwner, user.RoleOwner, zone.ID(), nil, 0)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Nil(t, next)

	_, _, err = q.ListForResource(ctx, uuid.New(), user.RoleOwner, zone.ID(), nil, 0)
	assert.True(t, errs.Is(err, shared.ErrNotResourceOwner))

	_, _, err = q.ListForResource(ctx, zoneOwner, user.RoleOwner, uuid.New(), nil, 0)
	assert.True(t, errs.Is(err, shared.ErrResourceNotFound))

	_, _, err = q.ListForResource(ctx, zoneOwner, user.RoleOwner, zone.ID(), &queries.Cursor{After: "not-a-cursor"}, 0)
	assert.True(t, errs.Is(err, queries.ErrInvalidCursor))
}

func TestCursor_RoundTrip(t *testing.T) {
	k := readmodel.Keyset{CreatedAt: time.Date(2030, 5, 1, 12, 30, 0, 123456000, time.UTC), ID: uuid.New()}

	decoded, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(k))
	require.NoError(t, err)
	assert.True(t, k.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, k.ID, decoded.ID)

	first, err := queries.DecodeAfterCursor("")
	require.NoError(t, err)
	assert.Nil(t, first)
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, 7, queries.ValidateLimit(7))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(1000))
}

func TestCouponQueries_MyCoupons(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	driver := uuid.New()
	store.AddIssue(builder.NewIssueBuilder().OwnedBy(driver).MustBuild())
	store.AddIssue(builder.NewIssueBuilder().OwnedBy(driver).AsUsed(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)).MustBuild())
	store.AddIssue(builder.NewIssueBuilder().MustBuild())

	q := queries.NewCouponQueries(store)

	all, err := q.MyCoupons(ctx, driver, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	used, err := q.MyCoupons(ctx, driver, string(coupon.IssueStatusUsed))
	require.NoError(t, err)
	require.Len(t, used, 1)
	assert.NotNil(t, used[0].UsedAt)

	_, err = q.MyCoupons(ctx, driver, "BOGUS")
	assert.True(t, errs.Is(err, queries.ErrInvalidCouponStatus))
}
