package commands

import (
	"context"
	"log/slog"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/readmodel"
	"parking-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrPromotionNotFound = errs.New("promotion not found")

type CouponCommands interface {
	IssueCoupon(ctx context.Context, userID, promotionID uuid.UUID) (*readmodel.CouponIssueRM, error)
}

type couponUseCaseImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	logger *slog.Logger
}

func NewCouponUseCase(uow shared.UnitOfWork, clock clock.Clock, logger *slog.Logger) CouponCommands {
	return &couponUseCaseImpl{uow: uow, clock: clock, logger: logger}
}

// IssueCoupon holds the promotion row lock while counting, so the total and
// per-user caps cannot be overrun by concurrent requests.
func (c *couponUseCaseImpl) IssueCoupon(ctx context.Context, userID, promotionID uuid.UUID) (*readmodel.CouponIssueRM, error) {
	var issue *coupon.Issue
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Reads().ActiveUserByID(ctx, userID); err != nil {
			return shared.NotFoundAs(err, shared.ErrUserNotFound)
		}

		promotion, err := tx.Promotions().FindByIDForUpdate(ctx, promotionID)
		if err != nil {
			return shared.NotFoundAs(err, ErrPromotionNotFound)
		}

		total, err := tx.CouponIssues().CountIssued(ctx, promotionID)
		if err != nil {
			return err
		}
		mine, err := tx.CouponIssues().CountIssuedForUser(ctx, promotionID, userID)
		if err != nil {
			return err
		}

		now := c.clock.Now()
		if err := promotion.CheckIssuable(now, total, mine); err != nil {
			return err
		}

		issue = coupon.NewIssue(promotion, userID, now)
		return tx.CouponIssues().Create(ctx, issue)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("coupon issued",
		"coupon_issue_id", issue.ID().String(),
		"promotion_id", promotionID.String(),
		"user_id", userID.String())
	return toCouponIssueRM(issue), nil
}
