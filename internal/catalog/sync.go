package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/launchbase/launchbase/internal/config"
	"github.com/launchbase/launchbase/internal/models"
	"github.com/stripe/stripe-go/v84"
)

// taxMetadataOverride marks a sub-national tax rate that fully replaces its
// national counterpart instead of stacking on top of it.
const taxMetadataOverride = "override"

// SyncFromStripe builds the per-currency Catalog from the live Stripe
// product, price, tax-rate and coupon listings.
func SyncFromStripe(ctx context.Context, sc *stripe.Client, currency string) (*Catalog, error) {
	products, err := listProducts(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if err := attachPrices(ctx, sc, products); err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}

	taxes, err := listTaxRates(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax rates: %w", err)
	}

	coupons, err := listCoupons(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}

	ordered := make([]*models.Product, 0, len(products))
	for _, p := range products {
		ordered = append(ordered, p)
	}
	return New(currency, ordered, taxes, coupons), nil
}

func listProducts(ctx context.Context, sc *stripe.Client) (map[string]*models.Product, error) {
	products := make(map[string]*models.Product)
	for p, err := range sc.V1Products.List(ctx, &stripe.ProductListParams{Active: stripe.Bool(true)}) {
		if err != nil {
			return nil, err
		}
		products[p.ID] = &models.Product{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Active:       p.Active,
			Bullets:      splitMetadataList(p.Metadata[config.StripeMetadataBullets]),
			Capabilities: splitMetadataList(p.Metadata[config.StripeMetadataCapabilities]),
			MaxMembers:   atoiOrZero(p.Metadata[config.StripeMetadataMaxMembers]),
		}
	}
	return products, nil
}

func attachPrices(ctx context.Context, sc *stripe.Client, products map[string]*models.Product) error {
	for p, err := range sc.V1Prices.List(ctx, &stripe.PriceListParams{Active: stripe.Bool(true)}) {
		if err != nil {
			return err
		}
		if p.Product == nil || p.Recurring == nil {
			continue
		}
		product, ok := products[p.Product.ID]
		if !ok {
			continue
		}
		product.Prices = append(product.Prices, &models.Price{
			ID:            p.ID,
			Nickname:      p.Nickname,
			Active:        p.Active,
			UnitAmount:    p.UnitAmount,
			Currency:      strings.ToUpper(string(p.Currency)),
			Interval:      models.Interval(p.Recurring.Interval),
			IntervalCount: p.Recurring.IntervalCount,
			DisplayOrder:  atoiOrZero(p.Metadata[config.StripeMetadataDisplayOrder]),
		})
	}
	return nil
}

func listTaxRates(ctx context.Context, sc *stripe.Client) ([]*models.Tax, error) {
	var taxes []*models.Tax
	for t, err := range sc.V1TaxRates.List(ctx, &stripe.TaxRateListParams{}) {
		if err != nil {
			return nil, err
		}
		taxes = append(taxes, &models.Tax{
			ID:             t.ID,
			DisplayName:    t.DisplayName,
			Active:         t.Active,
			Inclusive:      t.Inclusive,
			Override:       t.Metadata[taxMetadataOverride] == "true",
			Country:        t.Country,
			State:          t.State,
			Percentage:     t.Percentage / 100,
			DisplayPercent: t.Percentage,
		})
	}
	return taxes, nil
}

func listCoupons(ctx context.Context, sc *stripe.Client) ([]*models.Coupon, error) {
	var coupons []*models.Coupon
	for c, err := range sc.V1Coupons.List(ctx, &stripe.CouponListParams{}) {
		if err != nil {
			return nil, err
		}
		coupon := &models.Coupon{
			ID:               c.ID,
			Name:             c.Name,
			AmountOff:        c.AmountOff,
			PercentOff:       c.PercentOff,
			Currency:         strings.ToUpper(string(c.Currency)),
			Duration:         models.CouponDuration(c.Duration),
			DurationInMonths: c.DurationInMonths,
			MaxRedemptions:   c.MaxRedemptions,
		}
		if c.RedeemBy > 0 {
			redeemBy := time.Unix(c.RedeemBy, 0)
			coupon.RedeemBy = &redeemBy
		}
		coupons = append(coupons, coupon)
	}
	return coupons, nil
}

func splitMetadataList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func atoiOrZero(raw string) int {
	n, _ := strconv.Atoi(raw)
	return n
}
