package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogProducts(t *testing.T) {
	c := Default()

	tests := []struct {
		id         string
		mode       Mode
		credits    int
		priceCents int64
	}{
		{"credits_small", ModePayment, 10, 499},
		{"credits_medium", ModePayment, 25, 999},
		{"credits_large", ModePayment, 60, 1999},
		{"test_driver_monthly", ModeSubscription, 12, 399},
		{"commuter_monthly", ModeSubscription, 45, 799},
		{"road_warrior_monthly", ModeSubscription, UnlimitedCredits, 1299},
		{"story_30", ModePayment, 0, 129},
	}

	for _, tt := range tests {
		p, ok := c.Product(tt.id)
		if !ok {
			t.Fatalf("product %s not found", tt.id)
		}
		if p.Mode != tt.mode {
			t.Errorf("%s: mode = %s, want %s", tt.id, p.Mode, tt.mode)
		}
		if p.Credits != tt.credits {
			t.Errorf("%s: credits = %d, want %d", tt.id, p.Credits, tt.credits)
		}
		if p.PriceCents != tt.priceCents {
			t.Errorf("%s: price = %d, want %d", tt.id, p.PriceCents, tt.priceCents)
		}
	}
}

func TestMonthlyCredits(t *testing.T) {
	c := Default()

	tests := []struct {
		plan Plan
		want int
	}{
		{PlanFree, 0},
		{PlanTestDriver, 12},
		{PlanCommuter, 45},
		{PlanRoadWarrior, UnlimitedCredits},
		{Plan("bogus"), 0},
	}

	for _, tt := range tests {
		if got := c.MonthlyCredits(tt.plan); got != tt.want {
			t.Errorf("MonthlyCredits(%s) = %d, want %d", tt.plan, got, tt.want)
		}
	}
}

func TestIsUnlimited(t *testing.T) {
	c := Default()
	if !c.IsUnlimited(PlanRoadWarrior) {
		t.Error("road_warrior should be unlimited")
	}
	if c.IsUnlimited(PlanCommuter) {
		t.Error("commuter should not be unlimited")
	}
	if c.IsUnlimited(PlanFree) {
		t.Error("free should not be unlimited")
	}
}

func TestParsePlan(t *testing.T) {
	if _, ok := ParsePlan("commuter"); !ok {
		t.Error("commuter should parse")
	}
	if _, ok := ParsePlan("gold"); ok {
		t.Error("gold should not parse")
	}
	if _, ok := ParsePlan(""); ok {
		t.Error("empty plan should not parse")
	}
}

func TestProductsKeepsOrder(t *testing.T) {
	c := New([]Product{
		{ID: "b", Name: "B"},
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B override"},
	})

	products := c.Products()
	if len(products) != 2 {
		t.Fatalf("len = %d, want 2", len(products))
	}
	if products[0].ID != "b" || products[1].ID != "a" {
		t.Errorf("order = %s, %s; want b, a", products[0].ID, products[1].ID)
	}
	if products[0].Name != "B override" {
		t.Errorf("duplicate id should keep last definition, got %q", products[0].Name)
	}
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	data := `[{"id":"credits_tiny","name":"Tiny","mode":"payment","price_cents":199,"credits":4}]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	p, ok := c.Product("credits_tiny")
	if !ok {
		t.Fatal("credits_tiny not found")
	}
	if p.Credits != 4 || p.PriceCents != 199 {
		t.Errorf("got credits=%d price=%d", p.Credits, p.PriceCents)
	}
	if _, ok := c.Product("credits_small"); ok {
		t.Error("override file should replace the defaults entirely")
	}
}

func TestLoadRejectsEmptyAndMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing file should error")
	}

	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`[]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("empty catalog should error")
	}
}
