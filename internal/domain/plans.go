package domain

// Plan represents a reseller subscription plan offered on the pricing page.
type Plan struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PriceBRL      int    `json:"priceBrl"` // monthly price in centavos (4990 = R$49,90)
	StripePriceID string `json:"-"`        // hosted checkout price reference
	MaxLinks      int    `json:"maxLinks"` // 0 = unlimited
	Popular       bool   `json:"popular"`
}

// AvailablePlans returns all purchasable plans.
func AvailablePlans() []Plan {
	return []Plan{
		{
			ID:            "mensal",
			Name:          "Revendedor Mensal",
			PriceBRL:      4990,
			StripePriceID: "price_reseller_monthly",
			MaxLinks:      0,
			Popular:       true,
		},
		{
			ID:            "trimestral",
			Name:          "Revendedor Trimestral",
			PriceBRL:      12990,
			StripePriceID: "price_reseller_quarterly",
			MaxLinks:      0,
			Popular:       false,
		},
	}
}

// GetPlan returns the plan for a given ID, or false if it does not exist.
func GetPlan(id string) (Plan, bool) {
	for _, p := range AvailablePlans() {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
