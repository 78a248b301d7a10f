package repository

import (
	"context"
	"time"

	"parking-reservation/internal/domain/reservation"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/infra/db"
	"parking-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertReservationSQL = `
INSERT INTO reservations (
    id, user_id, zone_id, zone_name, start_time, end_time,
    original_price, discount_price, total_price, coupon_issue_id,
    status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	selectReservationForUpdateSQL = `
SELECT id, user_id, zone_id, zone_name, start_time, end_time,
       original_price, discount_price, total_price, coupon_issue_id,
       status, created_at, updated_at
FROM reservations
WHERE id = $1
FOR UPDATE`

	// half-open windows: touching edges do not overlap
	activeOverlapSQL = `
SELECT EXISTS (
    SELECT 1 FROM reservations
    WHERE zone_id = $1
      AND status IN ('PENDING', 'CONFIRMED')
      AND start_time < $3
      AND end_time > $2
      AND ($4::uuid IS NULL OR user_id = $4)
)`

	updateReservationStatusSQL = `
UPDATE reservations
SET status = $2, updated_at = $3
WHERE id = $1 AND status = $4`

	listStalePendingSQL = `
SELECT id FROM reservations
WHERE status = 'PENDING' AND created_at < $1 AND NOT (id = ANY($2::uuid[]))
ORDER BY created_at, id
LIMIT $3`

	expireStaleSQL = `
UPDATE reservations
SET status = 'PAYMENT_EXPIRED', updated_at = $3
WHERE id = $1 AND status = 'PENDING' AND created_at < $2`
)

type ReservationRepository struct {
	db db.DBTX
}

func NewReservationRepository(dbtx db.DBTX) *ReservationRepository {
	return &ReservationRepository{db: dbtx}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	q := res.Quote()
	_, err := r.db.Exec(ctx, insertReservationSQL,
		res.ID(),
		res.UserID(),
		res.ResourceID(),
		res.ResourceName(),
		res.TimeSlot().Start(),
		res.TimeSlot().End(),
		q.Original().Amount(),
		q.Discount().Amount(),
		q.Final().Amount(),
		pgconv.UUIDPtrToPgtype(res.CouponIssueID()),
		res.Status().String(),
		res.CreatedAt(),
		res.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := scanReservation(r.db.QueryRow(ctx, selectReservationForUpdateSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found", err)
		}
		return nil, infra.WrapRepoErr("failed to find reservation", err)
	}
	return res, nil
}

func (r *ReservationRepository) HasActiveOverlap(
	ctx context.Context,
	resourceID uuid.UUID,
	slot reservation.TimeSlot,
	userID *uuid.UUID,
) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, activeOverlapSQL,
		resourceID, slot.Start(), slot.End(), pgconv.UUIDPtrToPgtype(userID),
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check overlapping reservations", err)
	}
	return exists, nil
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, res *reservation.Reservation, from reservation.Status) (bool, error) {
	tag, err := r.db.Exec(ctx, updateReservationStatusSQL,
		res.ID(), res.Status().String(), res.UpdatedAt(), from.String(),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to update reservation status", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ReservationRepository) ListStalePendingIDs(ctx context.Context, createdBefore time.Time, skip []uuid.UUID, limit int) ([]uuid.UUID, error) {
	if skip == nil {
		skip = []uuid.UUID{}
	}
	rows, err := r.db.Query(ctx, listStalePendingSQL, createdBefore, skip, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list stale pending reservations", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan stale pending reservations", err)
	}
	return ids, nil
}

// ExpireIfStale re-checks the predicate in the UPDATE itself, so a row confirmed
// after it was listed is left alone.
func (r *ReservationRepository) ExpireIfStale(ctx context.Context, id uuid.UUID, createdBefore, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, expireStaleSQL, id, createdBefore, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to expire reservation", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var (
		id, userID, zoneID                       uuid.UUID
		zoneName, status                         string
		start, end, createdAt, updatedAt         time.Time
		originalPrice, discountPrice, totalPrice int64
		couponIssueID                            pgtype.UUID
	)
	if err := row.Scan(
		&id, &userID, &zoneID, &zoneName, &start, &end,
		&originalPrice, &discountPrice, &totalPrice, &couponIssueID,
		&status, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	return reconstructReservation(
		id, userID, zoneID, zoneName, start, end,
		originalPrice, discountPrice, couponIssueID, status, createdAt, updatedAt,
	)
}

func reconstructReservation(
	id, userID, zoneID uuid.UUID,
	zoneName string,
	start, end time.Time,
	originalPrice, discountPrice int64,
	couponIssueID pgtype.UUID,
	status string,
	createdAt, updatedAt time.Time,
) (*reservation.Reservation, error) {
	slot, err := reservation.NewTimeSlot(start, end)
	if err != nil {
		return nil, err
	}
	original, err := reservation.NewMoney(originalPrice)
	if err != nil {
		return nil, err
	}
	discount, err := reservation.NewMoney(discountPrice)
	if err != nil {
		return nil, err
	}
	quote, err := reservation.NewQuote(original, discount)
	if err != nil {
		return nil, err
	}
	st, err := reservation.NewStatus(status)
	if err != nil {
		return nil, err
	}
	return reservation.ReconstructReservation(
		id, userID, zoneID, zoneName, slot, quote,
		pgconv.UUIDPtrFromPgtype(couponIssueID), st, createdAt, updatedAt,
	), nil
}
