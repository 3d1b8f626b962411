package models

import (
	"fmt"
	"strings"
)

type Interval string

const (
	IntervalDay   Interval = "day"
	IntervalWeek  Interval = "week"
	IntervalMonth Interval = "month"
	IntervalYear  Interval = "year"
)

// Price is a currency-scoped recurring price of a Product. Currency is held
// uppercase internally; the gateway wire format is lowercase.
type Price struct {
	ID            string   `json:"id"`
	Nickname      string   `json:"nickname"`
	Active        bool     `json:"active"`
	UnitAmount    int64    `json:"unit_amount"` // minor units
	Currency      string   `json:"currency"`
	Interval      Interval `json:"interval"`
	IntervalCount int64    `json:"interval_count"`
	DisplayOrder  int      `json:"display_order"`
	Product       *Product `json:"-"`
}

// MRRCents normalizes the recurring amount to a monthly-equivalent figure in
// minor units. An unrecognized interval means the catalog configuration is
// broken and there is no sane fallback.
func (p *Price) MRRCents() int64 {
	perInterval := p.UnitAmount
	if p.IntervalCount > 1 {
		perInterval = p.UnitAmount / p.IntervalCount
	}
	switch p.Interval {
	case IntervalDay:
		return perInterval * 365 / 12
	case IntervalWeek:
		return perInterval * 52 / 12
	case IntervalMonth:
		return perInterval
	case IntervalYear:
		return perInterval / 12
	default:
		panic(fmt.Sprintf("price %s: unknown billing interval %q", p.ID, p.Interval))
	}
}

// WireCurrency returns the currency in the gateway's lowercase form.
func (p *Price) WireCurrency() string {
	return strings.ToLower(p.Currency)
}
