//go:build unit

package resource_test

import (
	"strings"
	"testing"
	"time"

	"parking-reservation/internal/domain/resource"
	"parking-reservation/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kst = time.FixedZone("KST", 9*60*60)

func TestParseOperatingHours(t *testing.T) {
	tests := []struct {
		name   string
		opens  string
		closes string
		want   string
		errIs  error
	}{
		{name: "HH:MM", opens: "09:00", closes: "18:00", want: "09:00-18:00"},
		{name: "HH:MM:SS", opens: "07:30:00", closes: "22:00:00", want: "07:30-22:00"},
		{name: "24時間", opens: "00:00", closes: "00:00", want: "00:00-00:00"},
		{name: "閉店が開店より前NG", opens: "18:00", closes: "09:00", errIs: resource.ErrInvalidOperatingHours},
		{name: "形式不正NG", opens: "9am", closes: "18:00", errIs: resource.ErrInvalidOperatingHours},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := resource.ParseOperatingHours(tt.opens, tt.closes)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.String())
		})
	}
}

func TestOperatingHoursContains(t *testing.T) {
	h, err := resource.NewOperatingHours(9*time.Hour, 24*time.Hour)
	require.NoError(t, err)
	day := func(hour int) time.Time { return time.Date(2030, 6, 1, hour, 0, 0, 0, kst) }

	assert.True(t, h.Contains(day(9), day(12), kst))
	assert.True(t, h.Contains(day(22), day(24), kst), "ending at midnight counts as end of day")
	assert.False(t, h.Contains(day(8), day(10), kst))
	// 09:00 KST is 00:00 UTC, so the same instants fall outside when read on the UTC clock
	assert.False(t, h.Contains(day(9), day(12), time.UTC))
}

func TestNewResource(t *testing.T) {
	t.Run("名前は前後の空白を除く", func(t *testing.T) {
		r, err := builder.NewResourceBuilder().With(func(b *builder.ResourceBuilder) { b.Name = "  Z1  " }).BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "Z1", r.Name())
	})

	invalid := []struct {
		name   string
		mutate func(*builder.ResourceBuilder)
		errIs  error
	}{
		{name: "空の名前NG", mutate: func(b *builder.ResourceBuilder) { b.Name = " " }, errIs: resource.ErrEmptyResourceName},
		{name: "長すぎる名前NG", mutate: func(b *builder.ResourceBuilder) { b.Name = strings.Repeat("z", 256) }, errIs: resource.ErrResourceNameTooLong},
		{name: "負の料金NG", mutate: func(b *builder.ResourceBuilder) { b.HourlyPrice = -1 }, errIs: resource.ErrNegativeHourlyPrice},
		{name: "不明な状態NG", mutate: func(b *builder.ResourceBuilder) { b.Status = "CLOSED" }, errIs: resource.ErrInvalidStatus},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := builder.NewResourceBuilder().With(tt.mutate).BuildDomain()
			assert.ErrorIs(t, err, tt.errIs)
		})
	}

	t.Run("所有者判定", func(t *testing.T) {
		owner := uuid.New()
		r := builder.NewResourceBuilder().WithOwner(owner).MustBuild()
		assert.True(t, r.IsOwnedBy(owner))
		assert.False(t, r.IsOwnedBy(uuid.New()))
	})
}
