package catalog

import (
	"sort"
	"strings"

	"github.com/launchbase/launchbase/internal/models"
)

// Catalog is the resolved, immutable set of products, taxes and coupons for
// one billing currency. It is built once at startup and safe for concurrent
// reads; there are no mutation methods.
type Catalog struct {
	Currency string
	Products []*models.Product
	Taxes    []*models.Tax
	Coupons  []*models.Coupon

	productsByID  map[string]*models.Product
	pricesByID    map[string]*models.Price
	taxesByID     map[string]*models.Tax
	couponsByID   map[string]*models.Coupon
	taxesByCountry map[string][]*models.Tax
	taxesByRegion  map[string][]*models.Tax
}

// New builds a Catalog for the given currency. Prices in other currencies are
// filtered out, products left with no price are dropped, and remaining prices
// are ordered by their configured display order. Inactive taxes are excluded
// from jurisdiction resolution but stay reachable by ID for historical rows.
func New(currency string, products []*models.Product, taxes []*models.Tax, coupons []*models.Coupon) *Catalog {
	c := &Catalog{
		Currency:       strings.ToUpper(currency),
		Taxes:          taxes,
		Coupons:        coupons,
		productsByID:   make(map[string]*models.Product),
		pricesByID:     make(map[string]*models.Price),
		taxesByID:      make(map[string]*models.Tax),
		couponsByID:    make(map[string]*models.Coupon),
		taxesByCountry: make(map[string][]*models.Tax),
		taxesByRegion:  make(map[string][]*models.Tax),
	}

	for _, p := range products {
		var prices []*models.Price
		for _, pr := range p.Prices {
			pr.Currency = strings.ToUpper(pr.Currency)
			if pr.Currency != c.Currency {
				continue
			}
			pr.Product = p
			prices = append(prices, pr)
		}
		if len(prices) == 0 {
			continue
		}
		sort.SliceStable(prices, func(i, j int) bool {
			return prices[i].DisplayOrder < prices[j].DisplayOrder
		})
		p.Prices = prices
		c.Products = append(c.Products, p)
		c.productsByID[p.ID] = p
		for _, pr := range prices {
			c.pricesByID[pr.ID] = pr
		}
	}

	for _, t := range taxes {
		c.taxesByID[t.ID] = t
		if !t.Active {
			continue
		}
		if t.State != "" {
			key := regionKey(t.Country, t.State)
			c.taxesByRegion[key] = append(c.taxesByRegion[key], t)
		} else {
			c.taxesByCountry[t.Country] = append(c.taxesByCountry[t.Country], t)
		}
	}

	for _, cp := range coupons {
		cp.Currency = strings.ToUpper(cp.Currency)
		c.couponsByID[cp.ID] = cp
	}

	return c
}

// TaxesForAddress resolves the taxes applicable to an address. If any state
// tax is marked override, the state taxes fully replace the country taxes;
// otherwise country taxes come first, then state taxes.
func (c *Catalog) TaxesForAddress(country, state string) []*models.Tax {
	countryTaxes := c.taxesByCountry[country]
	var stateTaxes []*models.Tax
	if state != "" {
		stateTaxes = c.taxesByRegion[regionKey(country, state)]
	}

	for _, t := range stateTaxes {
		if t.Override {
			return stateTaxes
		}
	}

	result := make([]*models.Tax, 0, len(countryTaxes)+len(stateTaxes))
	result = append(result, countryTaxes...)
	result = append(result, stateTaxes...)
	return result
}

// TaxByID returns the tax with the given ID, or nil.
func (c *Catalog) TaxByID(id string) *models.Tax {
	return c.taxesByID[id]
}

// CouponByID returns the coupon with the given ID, or nil.
func (c *Catalog) CouponByID(id string) *models.Coupon {
	return c.couponsByID[id]
}

// ProductByID returns the product with the given ID, or nil.
func (c *Catalog) ProductByID(id string) *models.Product {
	return c.productsByID[id]
}

// PriceByID returns the price with the given ID, or nil.
func (c *Catalog) PriceByID(id string) *models.Price {
	return c.pricesByID[id]
}

func regionKey(country, state string) string {
	return country + "|" + state
}
