//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by *pgxpool.Pool and pgx.Tx, so fixtures can run inside a test transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()
	tag, err := db.Exec(ctx, "INSERT INTO users (id, email, role, is_active) VALUES ($1, $2, $3, true) ON CONFLICT (email) DO NOTHING",
		userID, email, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
		require.NoError(t, err)
	}

	return userID
}

// CreateTestZone inserts a lot owned by ownerID with one AVAILABLE zone and returns the zone id.
func CreateTestZone(t *testing.T, db DBLike, ownerID uuid.UUID, name, opensAt, closesAt string, pricePerHour int64) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	lotID := uuid.New()
	_, err := db.Exec(ctx, "INSERT INTO parking_lots (id, owner_id, name, opened_at, closed_at, price_per_hour) VALUES ($1, $2, $3, $4, $5, $6)",
		lotID, ownerID, name+" lot", opensAt, closesAt, pricePerHour)
	require.NoError(t, err)

	zoneID := uuid.New()
	_, err = db.Exec(ctx, "INSERT INTO parking_zones (id, lot_id, name) VALUES ($1, $2, $3)", zoneID, lotID, name)
	require.NoError(t, err)

	return zoneID
}

func CreateTestPromotion(t *testing.T, db DBLike, discountType string, discountValue int64, limitTotal, limitPerUser int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now()
	_, err := db.Exec(context.Background(), `
		INSERT INTO promotions (id, name, discount_type, discount_value, limit_total, limit_per_user,
		                        promotion_start_at, promotion_end_at, valid_days_after_issue)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 30)`,
		id, "e2e promotion", discountType, discountValue, limitTotal, limitPerUser,
		now.Add(-24*time.Hour), now.Add(30*24*time.Hour))
	require.NoError(t, err)

	return id
}

func CountReservations(t *testing.T, db DBLike, zoneID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM reservations WHERE zone_id = $1", zoneID).Scan(&n)
	require.NoError(t, err)
	return n
}

func CountJobs(t *testing.T, db DBLike, kind string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM notification_jobs WHERE kind = $1", kind).Scan(&n)
	require.NoError(t, err)
	return n
}

// InsertReservation writes a reservation row as is, bypassing admission. Prices are
// fixed at 1000 with no discount.
func InsertReservation(t *testing.T, db DBLike, userID, zoneID uuid.UUID, start, end time.Time, status string, createdAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO reservations (id, user_id, zone_id, zone_name, start_time, end_time,
		                          original_price, discount_price, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, 'fixture', $4, $5, 1000, 0, 1000, $6, $7, $7)`,
		id, userID, zoneID, start, end, status, createdAt)
	require.NoError(t, err)
	return id
}

// InsertCouponIssue writes a FIXED 1000 coupon issue. usedAt must be set exactly when status is USED.
func InsertCouponIssue(t *testing.T, db DBLike, promotionID, userID uuid.UUID, issuedAt, expiresAt time.Time, status string, usedAt *time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO coupon_issues (id, promotion_id, user_id, discount_type, discount_value,
		                           issued_at, expires_at, used_at, status)
		VALUES ($1, $2, $3, 'FIXED', 1000, $4, $5, $6, $7)`,
		id, promotionID, userID, issuedAt, expiresAt, usedAt, status)
	require.NoError(t, err)
	return id
}

func ReservationStatus(t *testing.T, db DBLike, id uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM reservations WHERE id = $1", id).Scan(&status)
	require.NoError(t, err)
	return status
}

func CouponIssueStatus(t *testing.T, db DBLike, id uuid.UUID) (string, *time.Time) {
	t.Helper()

	var (
		status string
		usedAt *time.Time
	)
	err := db.QueryRow(context.Background(), "SELECT status, used_at FROM coupon_issues WHERE id = $1", id).Scan(&status, &usedAt)
	require.NoError(t, err)
	return status, usedAt
}

func CountAllReservations(t *testing.T, db DBLike) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM reservations").Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates every table between subtests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
