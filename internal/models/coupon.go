package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type CouponDuration string

const (
	CouponDurationForever   CouponDuration = "forever"
	CouponDurationOnce      CouponDuration = "once"
	CouponDurationRepeating CouponDuration = "repeating"
)

// Coupon is a discount definition. Exactly one of AmountOff/PercentOff is
// set; Currency accompanies AmountOff.
type Coupon struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	AmountOff        int64          `json:"amount_off"` // minor units
	PercentOff       float64        `json:"percent_off"`
	Currency         string         `json:"currency"`
	Duration         CouponDuration `json:"duration"`
	DurationInMonths int64          `json:"duration_in_months"`
	MaxRedemptions   int64          `json:"max_redemptions"`
	RedeemBy         *time.Time     `json:"redeem_by"`
}

// DiscountOn computes the discount for the given amount in minor units.
// Percentage discounts floor; fixed discounts are returned verbatim, so a
// fixed coupon larger than the amount can drive a line negative (matching
// gateway behavior).
func (c *Coupon) DiscountOn(amount int64) int64 {
	if c.PercentOff > 0 {
		return int64(math.Floor(float64(amount) * c.PercentOff / 100))
	}
	return c.AmountOff
}

// Usable reports whether the coupon can still be redeemed. timesRedeemed is
// the gateway's live redemption count; the max-redemptions check cannot be
// answered from local config alone.
func (c *Coupon) Usable(now time.Time, timesRedeemed int64) bool {
	if c.RedeemBy != nil && now.After(*c.RedeemBy) {
		return false
	}
	if c.MaxRedemptions > 0 && timesRedeemed >= c.MaxRedemptions {
		return false
	}
	return true
}

// DisplayName returns the human-readable coupon name, falling back to its ID.
func (c *Coupon) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Terms describes the discount, e.g. "50% off" or "USD 10.00 off".
func (c *Coupon) Terms() string {
	if c.PercentOff > 0 {
		return fmt.Sprintf("%g%% off", c.PercentOff)
	}
	return fmt.Sprintf("%s %.2f off", strings.ToUpper(c.Currency), float64(c.AmountOff)/100)
}
