package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/launchbase/launchbase/internal/models"
	"github.com/stripe/stripe-go/v84"
)

// StripeGateway implements Gateway against the Stripe API.
type StripeGateway struct {
	sc *stripe.Client
}

func NewStripeGateway(apiKey string) *StripeGateway {
	return &StripeGateway{sc: stripe.NewClient(apiKey)}
}

// Client exposes the underlying Stripe client for catalog sync.
func (g *StripeGateway) Client() *stripe.Client {
	return g.sc
}

func (g *StripeGateway) CreateCustomer(ctx context.Context, p CustomerParams) (string, error) {
	params := &stripe.CustomerCreateParams{
		Email:    stripe.String(p.Email),
		Name:     stripe.String(p.Name),
		Address:  addressParams(p),
		Metadata: map[string]string{"team_id": p.TeamID},
	}
	c, err := g.sc.V1Customers.Create(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create customer: %w", err)
	}
	return c.ID, nil
}

func (g *StripeGateway) UpdateCustomer(ctx context.Context, customerID string, p CustomerParams) error {
	params := &stripe.CustomerUpdateParams{
		Email:   stripe.String(p.Email),
		Name:    stripe.String(p.Name),
		Address: addressParams(p),
	}
	if _, err := g.sc.V1Customers.Update(ctx, customerID, params); err != nil {
		return fmt.Errorf("failed to update customer %s: %w", customerID, err)
	}
	return nil
}

func (g *StripeGateway) AttachPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	params := &stripe.PaymentMethodAttachParams{
		Customer: stripe.String(customerID),
	}
	if _, err := g.sc.V1PaymentMethods.Attach(ctx, paymentMethodID, params); err != nil {
		return fmt.Errorf("failed to attach payment method: %w", err)
	}
	return nil
}

func (g *StripeGateway) SetDefaultPaymentMethod(ctx context.Context, customerID, paymentMethodID string) error {
	params := &stripe.CustomerUpdateParams{
		InvoiceSettings: &stripe.CustomerUpdateInvoiceSettingsParams{
			DefaultPaymentMethod: stripe.String(paymentMethodID),
		},
	}
	if _, err := g.sc.V1Customers.Update(ctx, customerID, params); err != nil {
		return fmt.Errorf("failed to set default payment method: %w", err)
	}
	return nil
}

func (g *StripeGateway) CreateSubscription(ctx context.Context, p SubscriptionParams) (*RemoteSubscription, error) {
	params := &stripe.SubscriptionCreateParams{
		Customer: stripe.String(p.CustomerID),
		Items: []*stripe.SubscriptionCreateItemParams{
			{
				Price:    stripe.String(p.PriceID),
				TaxRates: stripe.StringSlice(p.TaxRateIDs),
			},
		},
		PaymentBehavior: stripe.String("allow_incomplete"),
	}
	if p.TrialDays > 0 {
		params.TrialPeriodDays = stripe.Int64(p.TrialDays)
	}
	if p.CouponID != "" {
		params.Discounts = []*stripe.SubscriptionCreateDiscountParams{
			{Coupon: stripe.String(p.CouponID)},
		}
	}
	params.AddExpand("latest_invoice.confirmation_secret")

	sub, err := g.sc.V1Subscriptions.Create(ctx, params)
	if err != nil {
		return nil, translateCardError(err)
	}
	return remoteSubscription(sub), nil
}

func (g *StripeGateway) RetrieveSubscription(ctx context.Context, subscriptionID string) (*RemoteSubscription, error) {
	sub, err := g.sc.V1Subscriptions.Retrieve(ctx, subscriptionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve subscription %s: %w", subscriptionID, err)
	}
	return remoteSubscription(sub), nil
}

func (g *StripeGateway) UpdateSubscriptionPrice(ctx context.Context, subscriptionID, itemID, priceID string) (*RemoteSubscription, error) {
	params := &stripe.SubscriptionUpdateParams{
		Items: []*stripe.SubscriptionUpdateItemParams{
			{
				ID:    stripe.String(itemID),
				Price: stripe.String(priceID),
			},
		},
	}
	sub, err := g.sc.V1Subscriptions.Update(ctx, subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update subscription %s: %w", subscriptionID, err)
	}
	return remoteSubscription(sub), nil
}

func (g *StripeGateway) CancelSubscription(ctx context.Context, subscriptionID string, prorate bool) error {
	params := &stripe.SubscriptionCancelParams{
		Prorate: stripe.Bool(prorate),
	}
	if _, err := g.sc.V1Subscriptions.Cancel(ctx, subscriptionID, params); err != nil {
		return fmt.Errorf("failed to cancel subscription %s: %w", subscriptionID, err)
	}
	return nil
}

func (g *StripeGateway) RetrieveCouponRedemptions(ctx context.Context, couponID string) (int64, error) {
	c, err := g.sc.V1Coupons.Retrieve(ctx, couponID, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to retrieve coupon %s: %w", couponID, err)
	}
	return c.TimesRedeemed, nil
}

func (g *StripeGateway) UpcomingInvoice(ctx context.Context, p PreviewParams) (*InvoicePreview, error) {
	params := &stripe.InvoiceCreatePreviewParams{
		Customer: stripe.String(p.CustomerID),
	}
	if p.SubscriptionID != "" {
		params.Subscription = stripe.String(p.SubscriptionID)
	}
	if p.ItemID != "" && p.PriceID != "" {
		params.SubscriptionDetails = &stripe.InvoiceCreatePreviewSubscriptionDetailsParams{
			Items: []*stripe.InvoiceCreatePreviewSubscriptionDetailsItemParams{
				{
					ID:    stripe.String(p.ItemID),
					Price: stripe.String(p.PriceID),
				},
			},
		}
	}

	inv, err := g.sc.V1Invoices.CreatePreview(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to preview upcoming invoice: %w", err)
	}

	preview := &InvoicePreview{
		Total:    inv.Total,
		Currency: strings.ToUpper(string(inv.Currency)),
	}
	if inv.Lines != nil {
		for _, line := range inv.Lines.Data {
			l := InvoiceLine{Description: line.Description, Amount: line.Amount}
			if line.Pricing != nil && line.Pricing.PriceDetails != nil {
				l.PriceID = line.Pricing.PriceDetails.Price
			}
			preview.Lines = append(preview.Lines, l)
		}
	}
	for _, tax := range inv.TotalTaxes {
		ta := TaxAmount{Amount: tax.Amount}
		if tax.TaxRateDetails != nil {
			ta.TaxRateID = tax.TaxRateDetails.TaxRate
		}
		preview.TaxAmounts = append(preview.TaxAmounts, ta)
	}
	for _, discount := range inv.TotalDiscountAmounts {
		da := DiscountAmount{Amount: discount.Amount}
		if discount.Discount != nil && discount.Discount.Source != nil && discount.Discount.Source.Coupon != nil {
			da.CouponID = discount.Discount.Source.Coupon.ID
		}
		preview.DiscountAmounts = append(preview.DiscountAmounts, da)
	}
	for _, discount := range inv.Discounts {
		if discount.Source != nil && discount.Source.Coupon != nil {
			preview.CouponID = discount.Source.Coupon.ID
			break
		}
	}
	return preview, nil
}

func (g *StripeGateway) ListInvoices(ctx context.Context, customerID string) ([]*Invoice, error) {
	var invoices []*Invoice
	params := &stripe.InvoiceListParams{Customer: stripe.String(customerID)}
	for inv, err := range g.sc.V1Invoices.List(ctx, params) {
		if err != nil {
			return nil, fmt.Errorf("failed to list invoices: %w", err)
		}
		invoices = append(invoices, &Invoice{
			ID:        inv.ID,
			Number:    inv.Number,
			Status:    string(inv.Status),
			Total:     inv.Total,
			Currency:  strings.ToUpper(string(inv.Currency)),
			Created:   time.Unix(inv.Created, 0),
			HostedURL: inv.HostedInvoiceURL,
			PDFURL:    inv.InvoicePDF,
		})
	}
	return invoices, nil
}

func addressParams(p CustomerParams) *stripe.AddressParams {
	return &stripe.AddressParams{
		Line1:      stripe.String(p.Line1),
		Line2:      stripe.String(p.Line2),
		City:       stripe.String(p.City),
		State:      stripe.String(p.State),
		PostalCode: stripe.String(p.PostalCode),
		Country:    stripe.String(p.Country),
	}
}

func remoteSubscription(sub *stripe.Subscription) *RemoteSubscription {
	rs := &RemoteSubscription{
		ID:     sub.ID,
		Status: models.SubscriptionStatus(sub.Status),
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 {
		item := sub.Items.Data[0]
		rs.ItemID = item.ID
		rs.CurrentPeriodEnd = time.Unix(item.CurrentPeriodEnd, 0)
	}
	if sub.TrialEnd > 0 {
		trialEnd := time.Unix(sub.TrialEnd, 0)
		rs.TrialEnd = &trialEnd
	}
	if sub.LatestInvoice != nil {
		rs.LatestInvoiceID = sub.LatestInvoice.ID
		if sub.LatestInvoice.ConfirmationSecret != nil {
			rs.PaymentClientSecret = sub.LatestInvoice.ConfirmationSecret.ClientSecret
		}
	}
	return rs
}

// translateCardError maps Stripe's card-failure signal to a classified
// decline; every other error passes through untouched.
func translateCardError(err error) error {
	var sErr *stripe.Error
	if errors.As(err, &sErr) && sErr.Type == stripe.ErrorTypeCard {
		return PaymentDeclined(sErr.Msg)
	}
	return err
}
