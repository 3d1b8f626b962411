package billing

import (
	"context"
	"time"

	"github.com/launchbase/launchbase/internal/models"
)

// CustomerParams carries the billing address and identity used to create or
// update a remote customer.
type CustomerParams struct {
	Email      string
	Name       string
	TeamID     string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// SubscriptionParams is the input to CreateSubscription.
type SubscriptionParams struct {
	CustomerID string
	PriceID    string
	TaxRateIDs []string
	CouponID   string
	TrialDays  int64
}

// RemoteSubscription is the gateway's view of a subscription.
type RemoteSubscription struct {
	ID                  string
	ItemID              string
	Status              models.SubscriptionStatus
	CurrentPeriodEnd    time.Time
	TrialEnd            *time.Time
	LatestInvoiceID     string
	PaymentClientSecret string
}

// PreviewParams selects the upcoming invoice to preview. When ItemID/PriceID
// are set, the preview substitutes the candidate price on the existing
// subscription item without committing anything.
type PreviewParams struct {
	CustomerID     string
	SubscriptionID string
	ItemID         string
	PriceID        string
}

type InvoiceLine struct {
	Description string
	Amount      int64 // minor units, negative for credits
	PriceID     string
}

type TaxAmount struct {
	TaxRateID string
	Amount    int64
}

type DiscountAmount struct {
	CouponID string
	Amount   int64
}

// InvoicePreview is the gateway's upcoming-invoice projection.
type InvoicePreview struct {
	Total           int64
	Currency        string
	Lines           []InvoiceLine
	TaxAmounts      []TaxAmount
	DiscountAmounts []DiscountAmount
	CouponID        string
}

// Invoice is a finalized gateway invoice.
type Invoice struct {
	ID        string
	Number    string
	Status    string
	Total     int64
	Currency  string
	Created   time.Time
	HostedURL string
	PDFURL    string
}

// Gateway is the operation set this core needs from the external payment
// processor. The Stripe implementation translates a card-decline signal into
// a KindPaymentDeclined Error; every other gateway failure passes through
// unchanged.
type Gateway interface {
	CreateCustomer(ctx context.Context, params CustomerParams) (string, error)
	UpdateCustomer(ctx context.Context, customerID string, params CustomerParams) error
	AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error

	CreateSubscription(ctx context.Context, params SubscriptionParams) (*RemoteSubscription, error)
	RetrieveSubscription(ctx context.Context, subscriptionID string) (*RemoteSubscription, error)
	UpdateSubscriptionPrice(ctx context.Context, subscriptionID, itemID, priceID string) (*RemoteSubscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string, prorate bool) error

	RetrieveCouponRedemptions(ctx context.Context, couponID string) (int64, error)
	UpcomingInvoice(ctx context.Context, params PreviewParams) (*InvoicePreview, error)
	ListInvoices(ctx context.Context, customerID string) ([]*Invoice, error)
}
