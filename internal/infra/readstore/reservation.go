package readstore

import (
	"context"

	"parking-reservation/internal/infra"
	"parking-reservation/internal/infra/db"
	"parking-reservation/internal/pkg/pgconv"
	"parking-reservation/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	reservationColumns = `
id, user_id, zone_id, zone_name, start_time, end_time,
original_price, discount_price, total_price, coupon_issue_id,
status, created_at, updated_at`

	reservationByIDSQL = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	// $2/$3 are NULL on the first page
	reservationsByUserSQL = `SELECT ` + reservationColumns + `
FROM reservations
WHERE user_id = $1
  AND ($2::timestamptz IS NULL OR (created_at, id) < ($2, $3::uuid))
ORDER BY created_at DESC, id DESC
LIMIT $4`

	reservationsByZoneSQL = `SELECT ` + reservationColumns + `
FROM reservations
WHERE zone_id = $1
  AND ($2::timestamptz IS NULL OR (created_at, id) < ($2, $3::uuid))
ORDER BY created_at DESC, id DESC
LIMIT $4`

	couponIssuesByUserSQL = `
SELECT id, promotion_id, user_id, discount_type, discount_value, issued_at, expires_at, used_at, status
FROM coupon_issues
WHERE user_id = $1 AND ($2::text IS NULL OR status = $2)
ORDER BY issued_at DESC, id DESC`
)

type ReservationReadStore struct {
	db db.DBTX
}

func NewReservationReadStore(dbtx db.DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: dbtx}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*readmodel.ReservationRM, error) {
	rows, err := r.db.Query(ctx, reservationByIDSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	rm, err := pgx.CollectExactlyOneRow(rows, scanReservationRM)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found", err)
		}
		return nil, infra.WrapRepoErr("failed to scan reservation", err)
	}
	return rm, nil
}

func (r *ReservationReadStore) ListByUser(ctx context.Context, userID uuid.UUID, after *readmodel.Keyset, limit int) ([]*readmodel.ReservationRM, error) {
	return r.list(ctx, reservationsByUserSQL, userID, after, limit)
}

func (r *ReservationReadStore) ListByResource(ctx context.Context, resourceID uuid.UUID, after *readmodel.Keyset, limit int) ([]*readmodel.ReservationRM, error) {
	return r.list(ctx, reservationsByZoneSQL, resourceID, after, limit)
}

// ListCouponIssuesByUser filters by status when it is non-empty.
func (r *ReservationReadStore) ListCouponIssuesByUser(ctx context.Context, userID uuid.UUID, status string) ([]*readmodel.CouponIssueRM, error) {
	statusArg := pgtype.Text{String: status, Valid: status != ""}
	rows, err := r.db.Query(ctx, couponIssuesByUserSQL, userID, statusArg)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupon issues", err)
	}
	issues, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*readmodel.CouponIssueRM, error) {
		var (
			rm     readmodel.CouponIssueRM
			usedAt pgtype.Timestamptz
		)
		if err := row.Scan(
			&rm.ID, &rm.PromotionID, &rm.UserID, &rm.DiscountType, &rm.DiscountValue,
			&rm.IssuedAt, &rm.ExpiresAt, &usedAt, &rm.Status,
		); err != nil {
			return nil, err
		}
		rm.UsedAt = pgconv.TimePtrFromPgtype(usedAt)
		return &rm, nil
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan coupon issues", err)
	}
	return issues, nil
}

func (r *ReservationReadStore) list(ctx context.Context, sql string, ownerID uuid.UUID, after *readmodel.Keyset, limit int) ([]*readmodel.ReservationRM, error) {
	var (
		afterCreatedAt pgtype.Timestamptz
		afterID        pgtype.UUID
	)
	if after != nil {
		afterCreatedAt = pgtype.Timestamptz{Time: after.CreatedAt, Valid: true}
		afterID = pgtype.UUID{Bytes: after.ID, Valid: true}
	}

	rows, err := r.db.Query(ctx, sql, ownerID, afterCreatedAt, afterID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	items, err := pgx.CollectRows(rows, scanReservationRM)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan reservations", err)
	}
	return items, nil
}

func scanReservationRM(row pgx.CollectableRow) (*readmodel.ReservationRM, error) {
	var (
		rm            readmodel.ReservationRM
		couponIssueID pgtype.UUID
	)
	if err := row.Scan(
		&rm.ID, &rm.UserID, &rm.ResourceID, &rm.ResourceName, &rm.StartTime, &rm.EndTime,
		&rm.OriginalPrice, &rm.DiscountPrice, &rm.TotalPrice, &couponIssueID,
		&rm.Status, &rm.CreatedAt, &rm.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rm.CouponIssueID = pgconv.UUIDPtrFromPgtype(couponIssueID)
	return &rm, nil
}
