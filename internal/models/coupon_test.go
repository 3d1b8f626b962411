package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCouponDiscountOn(t *testing.T) {
	tests := []struct {
		name   string
		coupon Coupon
		amount int64
		want   int64
	}{
		{"half off", Coupon{PercentOff: 50}, 1000, 500},
		{"percentage floors, never rounds", Coupon{PercentOff: 33}, 100, 33},
		{"fixed amount verbatim", Coupon{AmountOff: 250, Currency: "USD"}, 1000, 250},
		{"fixed amount can exceed the base", Coupon{AmountOff: 1500, Currency: "USD"}, 1000, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coupon.DiscountOn(tt.amount))
		})
	}
}

func TestCouponUsable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name          string
		coupon        Coupon
		timesRedeemed int64
		want          bool
	}{
		{"no limits", Coupon{PercentOff: 10}, 0, true},
		{"redeem-by in the future", Coupon{PercentOff: 10, RedeemBy: &future}, 0, true},
		{"redeem-by passed", Coupon{PercentOff: 10, RedeemBy: &past}, 0, false},
		{"one redemption left", Coupon{PercentOff: 10, MaxRedemptions: 50}, 49, true},
		{"redemptions exhausted", Coupon{PercentOff: 10, MaxRedemptions: 50}, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.coupon.Usable(now, tt.timesRedeemed))
		})
	}
}

func TestCouponDisplay(t *testing.T) {
	named := &Coupon{ID: "coupon_half", Name: "Half Off", PercentOff: 50}
	unnamed := &Coupon{ID: "coupon_x", AmountOff: 1000, Currency: "usd"}

	assert.Equal(t, "Half Off", named.DisplayName())
	assert.Equal(t, "coupon_x", unnamed.DisplayName())
	assert.Equal(t, "50% off", named.Terms())
	assert.Equal(t, "USD 10.00 off", unnamed.Terms())
}
