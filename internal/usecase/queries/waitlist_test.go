//go:build unit

package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"parking-reservation/internal/domain/waitlist"
	"parking-reservation/internal/infra/queue"
	"parking-reservation/internal/usecase/queries"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitlistQueries_MyWaitlists(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("KST", 9*60*60)
	now := time.Date(2030, 6, 1, 8, 0, 0, 0, loc)

	mr := miniredis.RunT(t)
	mr.SetTime(now)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := queue.NewRedisStore(client, loc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	me, other := uuid.New(), uuid.New()
	later, err := waitlist.NewKey(uuid.New(), now.Add(6*time.Hour), now.Add(8*time.Hour))
	require.NoError(t, err)
	sooner, err := waitlist.NewKey(uuid.New(), now.Add(2*time.Hour), now.Add(3*time.Hour))
	require.NoError(t, err)

	_, err = store.Enqueue(ctx, later, me, now)
	require.NoError(t, err)
	_, err = store.Enqueue(ctx, sooner, other, now)
	require.NoError(t, err)
	_, err = store.Enqueue(ctx, sooner, me, now)
	require.NoError(t, err)

	got, err := queries.NewWaitlistQueries(store).MyWaitlists(ctx, me)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, sooner.ResourceID(), got[0].ResourceID)
	assert.Equal(t, 2, got[0].Position)
	assert.Equal(t, 2, got[0].Size)
	assert.Equal(t, later.ResourceID(), got[1].ResourceID)
	assert.Equal(t, 1, got[1].Position)

	none, err := queries.NewWaitlistQueries(store).MyWaitlists(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}
