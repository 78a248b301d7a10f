package repository

import (
	"context"
	"time"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/infra/db"
	"parking-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertCouponIssueSQL = `
INSERT INTO coupon_issues (
    id, promotion_id, user_id, discount_type, discount_value,
    issued_at, expires_at, used_at, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	selectCouponIssueSQL = `
SELECT id, promotion_id, user_id, discount_type, discount_value,
       issued_at, expires_at, used_at, status
FROM coupon_issues
WHERE id = $1`

	markCouponUsedSQL = `
UPDATE coupon_issues
SET status = 'USED', used_at = $2
WHERE id = $1 AND status = 'ISSUED' AND expires_at >= $2`

	cancelCouponUsageSQL = `
UPDATE coupon_issues
SET status = 'ISSUED', used_at = NULL
WHERE id = $1 AND status = 'USED' AND expires_at >= $2`

	expireDueCouponsSQL = `
UPDATE coupon_issues
SET status = 'EXPIRED'
WHERE status = 'ISSUED' AND expires_at < $1`

	countIssuedSQL = `SELECT count(*) FROM coupon_issues WHERE promotion_id = $1`

	countIssuedForUserSQL = `SELECT count(*) FROM coupon_issues WHERE promotion_id = $1 AND user_id = $2`
)

type CouponIssueRepository struct {
	db db.DBTX
}

func NewCouponIssueRepository(dbtx db.DBTX) *CouponIssueRepository {
	return &CouponIssueRepository{db: dbtx}
}

func (r *CouponIssueRepository) Create(ctx context.Context, issue *coupon.Issue) error {
	_, err := r.db.Exec(ctx, insertCouponIssueSQL,
		issue.ID(),
		issue.PromotionID(),
		issue.UserID(),
		string(issue.Discount().Type()),
		issue.Discount().Value(),
		issue.IssuedAt(),
		issue.ExpiresAt(),
		pgconv.TimePtrToPgtype(issue.UsedAt()),
		issue.Status().String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create coupon issue", err)
	}
	return nil
}

func (r *CouponIssueRepository) FindByID(ctx context.Context, id uuid.UUID) (*coupon.Issue, error) {
	var (
		issueID, promotionID, userID uuid.UUID
		discountType, status         string
		discountValue                int64
		issuedAt, expiresAt          time.Time
		usedAt                       pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, selectCouponIssueSQL, id).Scan(
		&issueID, &promotionID, &userID, &discountType, &discountValue,
		&issuedAt, &expiresAt, &usedAt, &status,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "coupon issue not found", err)
		}
		return nil, infra.WrapRepoErr("failed to find coupon issue", err)
	}

	discount, err := coupon.NewDiscount(discountType, discountValue)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "corrupt coupon issue discount", err)
	}
	issue, err := coupon.ReconstructIssue(
		issueID, promotionID, userID, discount,
		issuedAt, expiresAt, pgconv.TimePtrFromPgtype(usedAt), coupon.IssueStatus(status),
	)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "corrupt coupon issue row", err)
	}
	return issue, nil
}

func (r *CouponIssueRepository) MarkUsed(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, markCouponUsedSQL, id, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark coupon used", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CouponIssueRepository) CancelUsage(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, cancelCouponUsageSQL, id, now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to cancel coupon usage", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CouponIssueRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, expireDueCouponsSQL, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to expire due coupons", err)
	}
	return tag.RowsAffected(), nil
}

func (r *CouponIssueRepository) CountIssued(ctx context.Context, promotionID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, countIssuedSQL, promotionID).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count issued coupons", err)
	}
	return n, nil
}

func (r *CouponIssueRepository) CountIssuedForUser(ctx context.Context, promotionID, userID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, countIssuedForUserSQL, promotionID, userID).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count issued coupons for user", err)
	}
	return n, nil
}
