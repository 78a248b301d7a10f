//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/domain/waitlist"
	"parking-reservation/internal/infra/queue"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/tests/common/builder"
	"parking-reservation/tests/common/memstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expiryFixture struct {
	ctx      context.Context
	store    *memstore.Store
	clock    *clock.MockClock
	waitlist *queue.RedisStore
	uc       commands.ExpiryCommands
}

func newExpiryFixture(t *testing.T, batchSize int) *expiryFixture {
	t.Helper()
	clk := clock.NewMockClock(at(8))
	mr := miniredis.RunT(t)
	mr.SetTime(clk.Now())
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := memstore.New()
	wl := queue.NewRedisStore(client, kst, discardLogger())
	return &expiryFixture{
		ctx:      context.Background(),
		store:    store,
		clock:    clk,
		waitlist: wl,
		uc:       commands.NewExpiryUseCase(store, wl, clk, 10*time.Minute, batchSize, discardLogger()),
	}
}

func (f *expiryFixture) seedPending(createdAt time.Time) *reservation.Reservation {
	r := builder.NewReservationBuilder().CreatedAtTime(createdAt).MustBuild()
	f.store.AddReservation(r)
	return r
}

func TestExpiry_StalePending(t *testing.T) {
	t.Run("success: expired after the payment timeout, idempotent on rerun", func(t *testing.T) {
		f := newExpiryFixture(t, 500)
		created := at(8)
		r := f.seedPending(created)

		f.clock.Set(created.Add(11 * time.Minute))
		result, err := f.uc.ExpireStalePending(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Expired)

		stored, _ := f.store.Reservation(r.ID())
		assert.Equal(t, reservation.StatusPaymentExpired, stored.Status())

		f.clock.Set(created.Add(20 * time.Minute))
		result, err = f.uc.ExpireStalePending(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Expired)
	})

	t.Run("success: fresh and confirmed reservations are left alone", func(t *testing.T) {
		f := newExpiryFixture(t, 500)
		fresh := f.seedPending(at(8).Add(5 * time.Minute))
		confirmed := builder.NewReservationBuilder().
			CreatedAtTime(at(8)).
			WithStatus(reservation.StatusConfirmed).
			MustBuild()
		f.store.AddReservation(confirmed)

		f.clock.Set(at(8).Add(11 * time.Minute))
		result, err := f.uc.ExpireStalePending(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Expired)

		stored, _ := f.store.Reservation(fresh.ID())
		assert.Equal(t, reservation.StatusPending, stored.Status())
		stored, _ = f.store.Reservation(confirmed.ID())
		assert.Equal(t, reservation.StatusConfirmed, stored.Status())
	})

	t.Run("success: works through several batches", func(t *testing.T) {
		f := newExpiryFixture(t, 2)
		for i := 0; i < 5; i++ {
			f.seedPending(at(7).Add(time.Duration(i) * time.Minute))
		}

		result, err := f.uc.ExpireStalePending(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, result.Expired)
		assert.Equal(t, 0, result.Failed)
	})

	t.Run("success: one failing row does not block the others", func(t *testing.T) {
		f := newExpiryFixture(t, 500)
		bad := f.seedPending(at(7))
		good := f.seedPending(at(7).Add(time.Minute))
		f.store.FailExpire[bad.ID()] = errs.New("connection reset")

		result, err := f.uc.ExpireStalePending(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Expired)
		assert.Equal(t, 1, result.Failed)

		stored, _ := f.store.Reservation(good.ID())
		assert.Equal(t, reservation.StatusPaymentExpired, stored.Status())
	})

	t.Run("success: a batch that fails entirely does not stop the rows behind it", func(t *testing.T) {
		f := newExpiryFixture(t, 2)
		bad1 := f.seedPending(at(6))
		bad2 := f.seedPending(at(6).Add(time.Minute))
		var good []uuid.UUID
		for i := 0; i < 3; i++ {
			good = append(good, f.seedPending(at(7).Add(time.Duration(i)*time.Minute)).ID())
		}
		f.store.FailExpire[bad1.ID()] = errs.New("connection reset")
		f.store.FailExpire[bad2.ID()] = errs.New("connection reset")

		result, err := f.uc.ExpireStalePending(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Expired)
		assert.Equal(t, 2, result.Failed, "each failing row counts once per run")

		for _, id := range good {
			stored, _ := f.store.Reservation(id)
			assert.Equal(t, reservation.StatusPaymentExpired, stored.Status())
		}
		stored, _ := f.store.Reservation(bad1.ID())
		assert.Equal(t, reservation.StatusPending, stored.Status())
	})
}

func TestExpiry_DueCoupons(t *testing.T) {
	f := newExpiryFixture(t, 500)
	now := f.clock.Now()

	due := builder.NewIssueBuilder().ExpiringAt(now.Add(-time.Second)).MustBuild()
	boundary := builder.NewIssueBuilder().ExpiringAt(now).MustBuild()
	used := builder.NewIssueBuilder().AsUsed(now.Add(-time.Hour)).ExpiringAt(now.Add(-time.Second)).MustBuild()
	for _, i := range []*coupon.Issue{due, boundary, used} {
		f.store.AddIssue(i)
	}

	n, err := f.uc.ExpireDueCoupons(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, _ := f.store.Issue(due.ID())
	assert.Equal(t, coupon.IssueStatusExpired, stored.Status())
	stored, _ = f.store.Issue(boundary.ID())
	assert.Equal(t, coupon.IssueStatusIssued, stored.Status())
	stored, _ = f.store.Issue(used.ID())
	assert.Equal(t, coupon.IssueStatusUsed, stored.Status())

	n, err = f.uc.ExpireDueCoupons(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestExpiry_CleanupWaitlists(t *testing.T) {
	f := newExpiryFixture(t, 500)

	elapsed, err := waitlist.NewKey(uuid.New(), at(9), at(10))
	require.NoError(t, err)
	upcoming, err := waitlist.NewKey(uuid.New(), at(13), at(15))
	require.NoError(t, err)
	for _, k := range []waitlist.Key{elapsed, upcoming} {
		_, err := f.waitlist.Enqueue(f.ctx, k, uuid.New(), f.clock.Now())
		require.NoError(t, err)
	}

	f.clock.Set(at(11))
	removed, err := f.uc.CleanupWaitlists(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	size, err := f.waitlist.Size(f.ctx, upcoming)
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}
