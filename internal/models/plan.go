package models

// Plan is a fixed storage-tier offering. Payment goes through a hosted
// Stripe Payment Link; nothing in this service charges anyone.
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PriceMonthly float64  `json:"price_monthly"`
	Tagline      string   `json:"tagline"`
	Perks        []string `json:"perks"`
	Highlight    bool     `json:"highlight"`
	StripeLink   string   `json:"stripe_link"`
}

var plans = []Plan{
	{
		ID:           "storage-5gb",
		Name:         "Storage +5 GB",
		PriceMonthly: 4,
		Tagline:      "Room to grow",
		Perks:        []string{"+4 GB of storage", "Connect your own domain"},
		StripeLink:   "https://buy.stripe.com/test_8x214g4SXh0932L9i1eAg02",
	},
	{
		ID:           "storage-2gb",
		Name:         "Storage +2 GB",
		PriceMonthly: 2,
		Tagline:      "Start a WordPress site with headroom",
		Perks:        []string{"+2 GB of storage", "Connect your own domain"},
		Highlight:    true,
		StripeLink:   "https://buy.stripe.com/test_bJe9AM859cJT7j1bq9eAg01",
	},
	{
		ID:           "storage-1gb",
		Name:         "Storage +1 GB",
		PriceMonthly: 1.5,
		Tagline:      "Start a WordPress site",
		Perks:        []string{"+1 GB of storage", "Connect your own domain"},
		StripeLink:   "https://buy.stripe.com/test_00wfZa7154dngTBeCleAg00",
	},
}

// DefaultNameservers are handed to users whose installation has no
// nameservers assigned yet.
var DefaultNameservers = []string{"lara.ns.cloudflare.com", "miles.ns.cloudflare.com"}

// Plans returns the fixed plan catalog.
func Plans() []Plan {
	return plans
}

// FindPlan looks up a plan by id, falling back to the first catalog entry
// for unknown or legacy ids.
func FindPlan(id string) Plan {
	for _, p := range plans {
		if p.ID == id {
			return p
		}
	}
	return plans[0]
}
