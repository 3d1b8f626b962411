package billing

import (
	"errors"
	"fmt"
)

// Kind classifies a billing error so the orchestration layer and callers can
// branch on an explicit variant instead of matching runtime types.
type Kind string

const (
	// KindPaymentDeclined is a card failure signaled by the gateway. It is
	// recoverable by retrying the flow with a different payment method.
	KindPaymentDeclined Kind = "payment_declined"
	// KindNotFound is a coupon/tax lookup miss, or a missing local row where
	// one is required.
	KindNotFound Kind = "not_found"
	// KindExpired marks a coupon past its redeem-by date or with its
	// redemptions exhausted.
	KindExpired Kind = "expired"
	// KindCurrencyMismatch marks a fixed-currency coupon applied against a
	// different billing currency. Callers surface it identically to
	// KindNotFound so catalog structure does not leak.
	KindCurrencyMismatch Kind = "currency_mismatch"
)

// Error is a classified billing failure. Any gateway error that does not map
// to a known Kind is passed through unwrapped.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("billing: %s: %s", e.Kind, e.Message)
}

func PaymentDeclined(message string) *Error {
	return &Error{Kind: KindPaymentDeclined, Message: message}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Expired(format string, args ...any) *Error {
	return &Error{Kind: KindExpired, Message: fmt.Sprintf(format, args...)}
}

func CurrencyMismatch(couponID, couponCurrency, teamCurrency string) *Error {
	return &Error{
		Kind:    KindCurrencyMismatch,
		Message: fmt.Sprintf("coupon %s is %s, team bills in %s", couponID, couponCurrency, teamCurrency),
	}
}

// IsKind reports whether err is a billing Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == kind
}
