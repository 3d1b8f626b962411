package models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionTrialing          SubscriptionStatus = "trialing"
	SubscriptionActive            SubscriptionStatus = "active"
	SubscriptionPastDue           SubscriptionStatus = "past_due"
	SubscriptionCanceled          SubscriptionStatus = "canceled"
	SubscriptionUnpaid            SubscriptionStatus = "unpaid"
)

// Subscription is a team's current subscription. The gateway is authoritative
// for status and dates; the local row is a cache refreshed on a staleness
// policy. Product, Price, Taxes and Coupon are joined from the catalog by ID.
type Subscription struct {
	ID               uuid.UUID          `json:"id"`
	TeamID           uuid.UUID          `json:"team_id"`
	RemoteID         string             `json:"remote_id"`
	RemoteItemID     string             `json:"remote_item_id"`
	Status           SubscriptionStatus `json:"status"`
	Product          *Product           `json:"product"`
	Price            *Price             `json:"price"`
	Taxes            []*Tax             `json:"taxes"`
	Coupon           *Coupon            `json:"coupon,omitempty"`
	TrialEndsAt      *time.Time         `json:"trial_ends_at,omitempty"`
	NextBillingDate  time.Time          `json:"next_billing_date"`
	NextInvoiceTotal int64              `json:"next_invoice_total"` // minor units
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// ShouldUpdate reports whether the cached row is stale and must be refreshed
// from the gateway: either the recorded billing date has passed on an active
// subscription, or the subscription is still incomplete and may have resolved
// remotely. The comparison against now is strict; an exactly-equal billing
// date is not treated as stale.
func (s *Subscription) ShouldUpdate(now time.Time) bool {
	if s.Status == SubscriptionActive && now.After(s.NextBillingDate) {
		return true
	}
	return s.Status == SubscriptionIncomplete
}

// Usable reports whether the subscription currently grants access.
func (s *Subscription) Usable() bool {
	return s.Status == SubscriptionActive || s.Status == SubscriptionTrialing
}

// MRRCents is the subscription's normalized monthly recurring revenue.
func (s *Subscription) MRRCents() int64 {
	if s.Price == nil {
		return 0
	}
	return s.Price.MRRCents()
}

// HasCapabilities reports whether the subscribed product carries every
// requested capability.
func (s *Subscription) HasCapabilities(want []string) bool {
	if s.Product == nil {
		return false
	}
	return s.Product.HasCapabilities(want)
}

// TaxesOn computes the sum of all subscription tax lines on the amount.
func (s *Subscription) TaxesOn(amount int64) int64 {
	var total int64
	for _, t := range s.Taxes {
		total += t.On(amount)
	}
	return total
}
