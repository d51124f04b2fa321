// Package catalog is the single authoritative table of purchasable products:
// subscription plans, one-time credit packs and single-story prices.
// Defaults are compiled in; a JSON file can override them so pricing changes
// without a redeploy.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

type Mode string

const (
	ModePayment      Mode = "payment"
	ModeSubscription Mode = "subscription"
)

type Plan string

const (
	PlanFree        Plan = "free"
	PlanTestDriver  Plan = "test_driver"
	PlanCommuter    Plan = "commuter"
	PlanRoadWarrior Plan = "road_warrior"
)

// UnlimitedCredits is the sentinel balance for the unlimited tier.
const UnlimitedCredits = -1

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Mode        Mode   `json:"mode"`
	PriceCents  int64  `json:"price_cents"`
	// Credits is the grant for packs, or the monthly allotment for
	// subscription products (UnlimitedCredits for the unlimited tier).
	Credits  int    `json:"credits"`
	Interval string `json:"interval,omitempty"` // month or year, subscriptions only
	Plan     Plan   `json:"plan,omitempty"`     // subscriptions only
}

type Catalog struct {
	products map[string]Product
	order    []string
}

func New(products []Product) *Catalog {
	c := &Catalog{products: make(map[string]Product, len(products))}
	for _, p := range products {
		if _, dup := c.products[p.ID]; !dup {
			c.order = append(c.order, p.ID)
		}
		c.products[p.ID] = p
	}
	return c
}

// Default returns the built-in product table. Pack sizes and plan allotments
// follow the billing reconciler's view of the world: what a product says here
// is exactly what settlement grants.
func Default() *Catalog {
	return New([]Product{
		{ID: "test_driver_monthly", Name: "DTT Test Driver - Monthly", Description: "12 credits every month", Mode: ModeSubscription, PriceCents: 399, Credits: 12, Interval: "month", Plan: PlanTestDriver},
		{ID: "test_driver_annual", Name: "DTT Test Driver - Annual", Description: "12 credits every month", Mode: ModeSubscription, PriceCents: 3999, Credits: 12, Interval: "year", Plan: PlanTestDriver},
		{ID: "commuter_monthly", Name: "DTT Commuter - Monthly", Description: "45 credits every month, ad-free streaming", Mode: ModeSubscription, PriceCents: 799, Credits: 45, Interval: "month", Plan: PlanCommuter},
		{ID: "commuter_annual", Name: "DTT Commuter - Annual", Description: "45 credits every month, ad-free streaming", Mode: ModeSubscription, PriceCents: 5999, Credits: 45, Interval: "year", Plan: PlanCommuter},
		{ID: "road_warrior_monthly", Name: "DTT Road Warrior - Monthly", Description: "Unlimited streaming + downloads + early access", Mode: ModeSubscription, PriceCents: 1299, Credits: UnlimitedCredits, Interval: "month", Plan: PlanRoadWarrior},
		{ID: "road_warrior_annual", Name: "DTT Road Warrior - Annual", Description: "Unlimited streaming + downloads + early access", Mode: ModeSubscription, PriceCents: 9999, Credits: UnlimitedCredits, Interval: "year", Plan: PlanRoadWarrior},

		{ID: "credits_small", Name: "Credit Pack - Small", Description: "10 credits", Mode: ModePayment, PriceCents: 499, Credits: 10},
		{ID: "credits_medium", Name: "Credit Pack - Medium", Description: "25 credits", Mode: ModePayment, PriceCents: 999, Credits: 25},
		{ID: "credits_large", Name: "Credit Pack - Large", Description: "60 credits", Mode: ModePayment, PriceCents: 1999, Credits: 60},

		{ID: "story_15", Name: "Story Purchase - 15 min", Mode: ModePayment, PriceCents: 69},
		{ID: "story_30", Name: "Story Purchase - 30 min", Mode: ModePayment, PriceCents: 129},
		{ID: "story_60", Name: "Story Purchase - 1 hour", Mode: ModePayment, PriceCents: 249},
		{ID: "story_180", Name: "Story Purchase - 3 hours", Mode: ModePayment, PriceCents: 699},
	})
}

// Load reads a product table from a JSON file, replacing the defaults.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no products", path)
	}
	return New(products), nil
}

func (c *Catalog) Product(id string) (Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

func (c *Catalog) Products() []Product {
	out := make([]Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

// MonthlyCredits returns the monthly allotment for a plan, 0 for free or
// unknown plans and UnlimitedCredits for the unlimited tier.
func (c *Catalog) MonthlyCredits(plan Plan) int {
	for _, id := range c.order {
		p := c.products[id]
		if p.Mode == ModeSubscription && p.Plan == plan {
			return p.Credits
		}
	}
	return 0
}

// IsUnlimited reports whether a plan is exempt from credit balance checks.
func (c *Catalog) IsUnlimited(plan Plan) bool {
	return c.MonthlyCredits(plan) == UnlimitedCredits
}

// ParsePlan validates a plan name coming in from webhook metadata.
func ParsePlan(s string) (Plan, bool) {
	switch Plan(s) {
	case PlanFree, PlanTestDriver, PlanCommuter, PlanRoadWarrior:
		return Plan(s), true
	}
	return "", false
}
