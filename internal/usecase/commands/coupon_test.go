//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"parking-reservation/internal/domain/coupon"
	"parking-reservation/internal/pkg/clock"
	"parking-reservation/internal/pkg/errs"
	"parking-reservation/internal/usecase/commands"
	"parking-reservation/internal/usecase/shared"
	"parking-reservation/tests/common/builder"
	"parking-reservation/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoupon_IssueCoupon(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, p *builder.PromotionBuilder) (*memstore.Store, commands.CouponCommands, *coupon.Promotion) {
		t.Helper()
		store := memstore.New()
		promotion := p.RunningAt(at(8)).MustBuild()
		store.AddPromotion(promotion)
		return store, commands.NewCouponUseCase(store, clock.NewMockClock(at(8)), discardLogger()), promotion
	}

	t.Run("success: issues a coupon snapshotting the discount", func(t *testing.T) {
		store, uc, promotion := setup(t, builder.NewPromotionBuilder())
		driver := builder.NewUserBuilder().MustBuild()
		store.AddUser(driver)

		got, err := uc.IssueCoupon(ctx, driver.ID(), promotion.ID())
		require.NoError(t, err)
		assert.Equal(t, "ISSUED", got.Status)
		assert.Equal(t, "PERCENT", got.DiscountType)
		assert.Equal(t, int64(10), got.DiscountValue)
		assert.Equal(t, at(8).AddDate(0, 0, 30), got.ExpiresAt)
		assert.Nil(t, got.UsedAt)
	})

	t.Run("error: per-user limit", func(t *testing.T) {
		store, uc, promotion := setup(t, builder.NewPromotionBuilder().WithLimits(10, 1))
		driver := builder.NewUserBuilder().MustBuild()
		store.AddUser(driver)

		_, err := uc.IssueCoupon(ctx, driver.ID(), promotion.ID())
		require.NoError(t, err)
		_, err = uc.IssueCoupon(ctx, driver.ID(), promotion.ID())
		assert.True(t, errs.Is(err, coupon.ErrAlreadyIssued))
	})

	t.Run("error: promotion ended", func(t *testing.T) {
		store, uc, promotion := setup(t, builder.NewPromotionBuilder().With(func(b *builder.PromotionBuilder) {
			b.Status = coupon.PromotionStatusEnded
		}))
		driver := builder.NewUserBuilder().MustBuild()
		store.AddUser(driver)

		_, err := uc.IssueCoupon(ctx, driver.ID(), promotion.ID())
		assert.True(t, errs.Is(err, coupon.ErrPromotionNotActive))
	})

	t.Run("error: promotion window already closed", func(t *testing.T) {
		store := memstore.New()
		promotion := builder.NewPromotionBuilder().With(func(b *builder.PromotionBuilder) {
			b.StartAt = at(8).AddDate(0, -1, 0)
			b.EndAt = at(8).Add(-time.Hour)
		}).MustBuild()
		store.AddPromotion(promotion)
		driver := builder.NewUserBuilder().MustBuild()
		store.AddUser(driver)
		uc := commands.NewCouponUseCase(store, clock.NewMockClock(at(8)), discardLogger())

		_, err := uc.IssueCoupon(ctx, driver.ID(), promotion.ID())
		assert.True(t, errs.Is(err, coupon.ErrPromotionNotActive))
	})

	t.Run("success: promotion starting now is issuable", func(t *testing.T) {
		store := memstore.New()
		promotion := builder.NewPromotionBuilder().With(func(b *builder.PromotionBuilder) {
			b.StartAt = at(8)
			b.EndAt = at(8).Add(time.Hour)
		}).MustBuild()
		store.AddPromotion(promotion)
		driver := builder.NewUserBuilder().MustBuild()
		store.AddUser(driver)
		uc := commands.NewCouponUseCase(store, clock.NewMockClock(at(8)), discardLogger())

		_, err := uc.IssueCoupon(ctx, driver.ID(), promotion.ID())
		require.NoError(t, err)
	})

	t.Run("error: unknown promotion and unknown user", func(t *testing.T) {
		store, uc, promotion := setup(t, builder.NewPromotionBuilder())
		driver := builder.NewUserBuilder().MustBuild()
		store.AddUser(driver)

		_, err := uc.IssueCoupon(ctx, driver.ID(), uuid.New())
		assert.True(t, errs.Is(err, commands.ErrPromotionNotFound))

		_, err = uc.IssueCoupon(ctx, uuid.New(), promotion.ID())
		assert.True(t, errs.Is(err, shared.ErrUserNotFound))
	})

	t.Run("success: total cap holds under concurrency", func(t *testing.T) {
		store, uc, promotion := setup(t, builder.NewPromotionBuilder().WithLimits(5, 1))

		const users = 50
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			issued   int
			exceeded int
		)
		for i := 0; i < users; i++ {
			u := builder.NewUserBuilder().MustBuild()
			store.AddUser(u)
			wg.Add(1)
			go func(id uuid.UUID) {
				defer wg.Done()
				_, err := uc.IssueCoupon(ctx, id, promotion.ID())
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					issued++
				case errs.Is(err, coupon.ErrQuantityExceeded):
					exceeded++
				}
			}(u.ID())
		}
		wg.Wait()

		assert.Equal(t, 5, issued)
		assert.Equal(t, users-5, exceeded)
	})
}
