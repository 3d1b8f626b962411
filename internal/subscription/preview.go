package subscription

import (
	"context"
	"fmt"

	"github.com/launchbase/launchbase/internal/billing"
	"github.com/launchbase/launchbase/internal/models"
)

// PreviewLine is one itemized row of a change preview.
type PreviewLine struct {
	Description string `json:"description"`
	Amount      int64  `json:"amount"` // minor units, negative for credits
}

// ChangePreview is the read-only proration projection for switching the
// subscription to a candidate price.
type ChangePreview struct {
	Lines     []PreviewLine `json:"lines"`
	Discounts []PreviewLine `json:"discounts"`
	Taxes     []PreviewLine `json:"taxes"`
	Total     int64         `json:"total"`
	Label     string        `json:"label"` // "charges" or "credits"
}

// PreviewChange asks the gateway for the upcoming invoice with the candidate
// price substituted on the existing subscription item. Nothing is committed.
func (s *Service) PreviewChange(ctx context.Context, t *models.Team, sub *models.Subscription, newPriceID string) (*ChangePreview, error) {
	if s.catalog.PriceByID(newPriceID) == nil {
		return nil, billing.NotFound("price %s not in catalog", newPriceID)
	}
	customerID, err := s.customerID(t)
	if err != nil {
		return nil, err
	}

	preview, err := s.gateway.UpcomingInvoice(ctx, billing.PreviewParams{
		CustomerID:     customerID,
		SubscriptionID: sub.RemoteID,
		ItemID:         sub.RemoteItemID,
		PriceID:        newPriceID,
	})
	if err != nil {
		return nil, err
	}

	return s.buildChangePreview(sub, preview), nil
}

func (s *Service) buildChangePreview(sub *models.Subscription, preview *billing.InvoicePreview) *ChangePreview {
	out := &ChangePreview{Total: preview.Total, Label: "charges"}
	if preview.Total < 0 {
		out.Label = "credits"
	}

	for _, line := range preview.Lines {
		out.Lines = append(out.Lines, PreviewLine{
			Description: line.Description,
			Amount:      line.Amount,
		})
	}

	for _, da := range preview.DiscountAmounts {
		coupon := s.catalog.CouponByID(da.CouponID)
		if coupon == nil && da.CouponID == preview.CouponID {
			coupon = sub.Coupon
		}
		desc := da.CouponID
		if coupon != nil {
			desc = fmt.Sprintf("%s (%s)", coupon.DisplayName(), coupon.Terms())
		}
		out.Discounts = append(out.Discounts, PreviewLine{
			Description: desc,
			Amount:      -da.Amount,
		})
	}

	for _, ta := range preview.TaxAmounts {
		desc := ta.TaxRateID
		if tax := s.catalog.TaxByID(ta.TaxRateID); tax != nil {
			desc = tax.FullName()
		}
		out.Taxes = append(out.Taxes, PreviewLine{
			Description: desc,
			Amount:      ta.Amount,
		})
	}

	return out
}
