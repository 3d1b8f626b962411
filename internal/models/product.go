package models

// Product is a purchasable plan in the billing catalog.
type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Active       bool     `json:"active"`
	Bullets      []string `json:"bullets"`
	Capabilities []string `json:"capabilities"`
	MaxMembers   int      `json:"max_members"` // 0 = unlimited
	Prices       []*Price `json:"prices"`
}

// HasCapabilities reports whether every requested capability is present on
// the product.
func (p *Product) HasCapabilities(want []string) bool {
	have := make(map[string]struct{}, len(p.Capabilities))
	for _, c := range p.Capabilities {
		have[c] = struct{}{}
	}
	for _, c := range want {
		if _, ok := have[c]; !ok {
			return false
		}
	}
	return true
}

// PriceByID returns the product price with the given ID, or nil.
func (p *Product) PriceByID(id string) *Price {
	for _, pr := range p.Prices {
		if pr.ID == id {
			return pr
		}
	}
	return nil
}
