package billing

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKind(t *testing.T) {
	declined := PaymentDeclined("Your card was declined.")

	assert.True(t, IsKind(declined, KindPaymentDeclined))
	assert.False(t, IsKind(declined, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindPaymentDeclined))
	assert.False(t, IsKind(nil, KindPaymentDeclined))
}

func TestIsKindUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("create flow: %w", NotFound("coupon %s not in catalog", "coupon_x"))
	assert.True(t, IsKind(wrapped, KindNotFound))
}

func TestErrorMessageCarriesContext(t *testing.T) {
	err := CurrencyMismatch("coupon_eur", "EUR", "USD")
	assert.Contains(t, err.Error(), "coupon_eur")
	assert.Contains(t, err.Error(), "EUR")
}
