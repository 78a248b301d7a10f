package repository

import (
	"context"
	"time"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/infra"
	"parking-reservation/internal/infra/db"
	"parking-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// Row lock serializes concurrent issuance against the same promotion's caps.
const selectPromotionForUpdateSQL = `
SELECT id, name, discount_type, discount_value, limit_total, limit_per_user,
       promotion_start_at, promotion_end_at, valid_days_after_issue, status
FROM promotions
WHERE id = $1
FOR UPDATE`

type PromotionRepository struct {
	db db.DBTX
}

func NewPromotionRepository(dbtx db.DBTX) *PromotionRepository {
	return &PromotionRepository{db: dbtx}
}

func (r *PromotionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*coupon.Promotion, error) {
	var (
		promotionID                         uuid.UUID
		name, discountType, status          string
		discountValue                       int64
		limitTotal, limitPerUser, validDays int
		startAt, endAt                      time.Time
	)
	err := r.db.QueryRow(ctx, selectPromotionForUpdateSQL, id).Scan(
		&promotionID, &name, &discountType, &discountValue, &limitTotal, &limitPerUser,
		&startAt, &endAt, &validDays, &status,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.NewRepoErr(infra.KindNotFound, "promotion not found", err)
		}
		return nil, infra.WrapRepoErr("failed to find promotion", err)
	}

	discount, err := coupon.NewDiscount(discountType, discountValue)
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "corrupt promotion discount", err)
	}
	promotion, err := coupon.NewPromotion(coupon.PromotionParams{
		ID:           promotionID,
		Name:         name,
		Discount:     discount,
		LimitTotal:   limitTotal,
		LimitPerUser: limitPerUser,
		StartAt:      startAt,
		EndAt:        endAt,
		ValidDays:    validDays,
		Status:       coupon.PromotionStatus(status),
	})
	if err != nil {
		return nil, infra.NewRepoErr(infra.KindDBFailure, "corrupt promotion row", err)
	}
	return promotion, nil
}
