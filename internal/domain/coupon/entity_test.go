//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestDiscountAmountFor(t *testing.T) {
	fixed, err := coupon.NewFixedDiscount(2000)
	require.NoError(t, err)
	percent, err := coupon.NewPercentageDiscount(15)
	require.NoError(t, err)

	tests := []struct {
		name     string
		discount coupon.Discount
		price    int64
		want     int64
	}{
		{name: "定額", discount: fixed, price: 6000, want: 2000},
		{name: "定額は価格で頭打ち", discount: fixed, price: 1500, want: 1500},
		{name: "定率は切り捨て", discount: percent, price: 999, want: 149},
		{name: "価格0なら割引なし", discount: percent, price: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.discount.AmountFor(tt.price))
		})
	}

	t.Run("不正な割引", func(t *testing.T) {
		_, err := coupon.NewPercentageDiscount(101)
		assert.ErrorIs(t, err, coupon.ErrInvalidDiscountPercent)
		_, err = coupon.NewFixedDiscount(-1)
		assert.ErrorIs(t, err, coupon.ErrInvalidDiscountAmount)
		_, err = coupon.NewDiscount("BOGO", 1)
		assert.ErrorIs(t, err, coupon.ErrInvalidDiscountType)
	})
}

func TestPromotionCheckIssuable(t *testing.T) {
	p := builder.NewPromotionBuilder().With(func(b *builder.PromotionBuilder) {
		b.StartAt = now.Add(-24 * time.Hour)
		b.EndAt = now.Add(24 * time.Hour)
	}).WithLimits(3, 1).MustBuild()

	tests := []struct {
		name          string
		at            time.Time
		issuedTotal   int
		issuedForUser int
		errIs         error
	}{
		{name: "発行可能", at: now, issuedTotal: 2},
		{name: "開始前NG", at: now.Add(-48 * time.Hour), errIs: coupon.ErrPromotionNotActive},
		{name: "終了時刻ちょうどNG", at: now.Add(24 * time.Hour), errIs: coupon.ErrPromotionNotActive},
		{name: "総数上限NG", at: now, issuedTotal: 3, errIs: coupon.ErrQuantityExceeded},
		{name: "ユーザー上限NG", at: now, issuedTotal: 1, issuedForUser: 1, errIs: coupon.ErrAlreadyIssued},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.CheckIssuable(tt.at, tt.issuedTotal, tt.issuedForUser)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("終了済みのプロモーション", func(t *testing.T) {
		ended := builder.NewPromotionBuilder().With(func(b *builder.PromotionBuilder) {
			b.Status = coupon.PromotionStatusEnded
		}).MustBuild()
		assert.ErrorIs(t, ended.CheckIssuable(now, 0, 0), coupon.ErrPromotionNotActive)
	})

	t.Run("上限0は作成不可", func(t *testing.T) {
		_, err := builder.NewPromotionBuilder().WithLimits(0, 1).BuildDomain()
		assert.ErrorIs(t, err, coupon.ErrInvalidLimit)
	})
}

func TestIssueLifecycle(t *testing.T) {
	t.Run("発行時に割引と有効期限を写す", func(t *testing.T) {
		p := builder.NewPromotionBuilder().WithFixedDiscount(500).MustBuild()
		userID := uuid.New()
		issue := coupon.NewIssue(p, userID, now)

		assert.Equal(t, coupon.IssueStatusIssued, issue.Status())
		assert.Equal(t, p.Discount(), issue.Discount())
		assert.True(t, now.AddDate(0, 0, p.ValidDays()).Equal(issue.ExpiresAt()))
		assert.True(t, issue.IsOwnedBy(userID))
		assert.Nil(t, issue.UsedAt())
	})

	t.Run("使用と取り消し", func(t *testing.T) {
		issue := builder.NewIssueBuilder().MustBuild()
		require.NoError(t, issue.Use(now))
		assert.Equal(t, coupon.IssueStatusUsed, issue.Status())
		require.NotNil(t, issue.UsedAt())

		assert.ErrorIs(t, issue.Use(now), coupon.ErrCouponAlreadyUsed)

		require.NoError(t, issue.CancelUsage())
		assert.Equal(t, coupon.IssueStatusIssued, issue.Status())
		assert.Nil(t, issue.UsedAt())
		assert.ErrorIs(t, issue.CancelUsage(), coupon.ErrCouponNotUsed)
	})

	t.Run("期限切れは使用不可", func(t *testing.T) {
		issue := builder.NewIssueBuilder().ExpiringAt(now.Add(-time.Second)).MustBuild()
		assert.ErrorIs(t, issue.ValidateUsable(now), coupon.ErrCouponExpired)
	})

	t.Run("使用済みかつ期限切れは使用済みを優先", func(t *testing.T) {
		issue := builder.NewIssueBuilder().ExpiringAt(now.Add(-time.Second)).AsUsed(now.Add(-time.Hour)).MustBuild()
		assert.ErrorIs(t, issue.ValidateUsable(now), coupon.ErrCouponAlreadyUsed)
	})

	t.Run("期限到来後のみ失効できる", func(t *testing.T) {
		live := builder.NewIssueBuilder().ExpiringAt(now.Add(time.Hour)).MustBuild()
		assert.ErrorIs(t, live.Expire(now), coupon.ErrIssueStatusForbidden)

		stale := builder.NewIssueBuilder().ExpiringAt(now.Add(-time.Hour)).MustBuild()
		require.NoError(t, stale.Expire(now))
		assert.Equal(t, coupon.IssueStatusExpired, stale.Status())
	})

	t.Run("usedAtと状態の不整合は復元不可", func(t *testing.T) {
		_, err := builder.NewIssueBuilder().With(func(b *builder.IssueBuilder) {
			b.Status = coupon.IssueStatusUsed
		}).BuildDomain()
		assert.ErrorIs(t, err, coupon.ErrInvalidIssueState)
	})
}
