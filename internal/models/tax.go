package models

import (
	"fmt"
	"math"
)

// Tax is one jurisdiction's tax rate. Percentage is stored as a fraction for
// computation; DisplayPercent keeps the original figure for rendering.
type Tax struct {
	ID             string  `json:"id"`
	DisplayName    string  `json:"display_name"`
	Active         bool    `json:"active"`
	Inclusive      bool    `json:"inclusive"`
	Override       bool    `json:"override"`
	Country        string  `json:"country"`
	State          string  `json:"state"`
	Percentage     float64 `json:"percentage"` // fraction, e.g. 0.19
	DisplayPercent float64 `json:"display_percent"`
}

// On computes the tax on the given amount in minor units. An inclusive rate
// is backed out of the amount; an exclusive rate is added on top.
func (t *Tax) On(amount int64) int64 {
	if t.Inclusive {
		return int64(math.Round(float64(amount) * t.Percentage / (1 + t.Percentage)))
	}
	return int64(math.Round(float64(amount) * t.Percentage))
}

// Jurisdiction is the most specific region the tax applies to.
func (t *Tax) Jurisdiction() string {
	if t.State != "" {
		return fmt.Sprintf("%s, %s", t.State, t.Country)
	}
	return t.Country
}

// FullName is the display label used on invoice tax lines.
func (t *Tax) FullName() string {
	return fmt.Sprintf("%s %s (%g%%)", t.DisplayName, t.Jurisdiction(), t.DisplayPercent)
}
