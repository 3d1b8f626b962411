package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaxOn(t *testing.T) {
	inclusive := &Tax{ID: "txr_incl", Inclusive: true, Percentage: 0.10, DisplayPercent: 10}
	exclusive := &Tax{ID: "txr_excl", Inclusive: false, Percentage: 0.10, DisplayPercent: 10}

	// An inclusive 10% on 1100 is backed out; the equivalent exclusive rate
	// on the 1000 base adds the same 100 on top.
	assert.Equal(t, int64(100), inclusive.On(1100))
	assert.Equal(t, int64(100), exclusive.On(1000))
}

func TestTaxOnRounds(t *testing.T) {
	tax := &Tax{Inclusive: false, Percentage: 0.19}
	assert.Equal(t, int64(190), tax.On(999))
}

func TestTaxFullName(t *testing.T) {
	country := &Tax{DisplayName: "VAT", Country: "DE", DisplayPercent: 19}
	state := &Tax{DisplayName: "GST", Country: "CA", State: "QC", DisplayPercent: 5}

	assert.Equal(t, "VAT DE (19%)", country.FullName())
	assert.Equal(t, "GST QC, CA (5%)", state.FullName())
}
