package services

import (
	"errors"
	"strings"
	"testing"

	"quotationdesk/ledger"
	"quotationdesk/testhelpers"
)

func TestFindCatalogItem(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestItem(t, app, "HW-9", "Panel", "Hardware", 1200.5)

	item, err := FindCatalogItem(app, "HW-9")
	if err != nil {
		t.Fatalf("FindCatalogItem: %v", err)
	}
	if item.ProductName != "Panel" || item.Price != 1200.5 || item.Type != "Hardware" {
		t.Errorf("unexpected item: %+v", item)
	}

	_, err = FindCatalogItem(app, "missing")
	if !errors.Is(err, ErrCatalogItemNotFound) {
		t.Errorf("expected ErrCatalogItemNotFound, got %v", err)
	}
}

func TestListCatalog_CategoryOrder(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestItem(t, app, "S1", "Alpha Service", "Service", 10)
	testhelpers.CreateTestItem(t, app, "X1", "Beta Rental", "Rental", 10)
	testhelpers.CreateTestItem(t, app, "H1", "Gamma Panel", "hardware", 10)
	testhelpers.CreateTestItem(t, app, "W1", "Delta Licence", "Software", 10)

	entries, err := ListCatalog(app, []string{"Hardware", "Software", "Service"})
	if err != nil {
		t.Fatalf("ListCatalog: %v", err)
	}

	var ids []string
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	if got := strings.Join(ids, ","); got != "H1,W1,S1,X1" {
		t.Errorf("order = %s, want H1,W1,S1,X1", got)
	}
}

func TestWithCatalogBaseline(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestItem(t, app, "HW-1", "Panel", "Hardware", 150)

	stored := []ledger.LineItem{
		{ProductID: "HW-1", ProductName: "Panel", UnitPrice: 120, Quantity: 1, GSTRatePercent: 12, CatalogPrice: 120, CatalogGSTRate: 12},
		{ProductID: "OLD-1", ProductName: "Retired", UnitPrice: 30, Quantity: 2, GSTRatePercent: 5, CatalogPrice: 30, CatalogGSTRate: 5},
	}
	got := WithCatalogBaseline(app, stored, ledger.RateFunc(func(string) float64 { return 18 }))

	if got[0].CatalogPrice != 150 || got[0].CatalogGSTRate != 18 {
		t.Errorf("catalog baseline = %v/%v, want 150/18", got[0].CatalogPrice, got[0].CatalogGSTRate)
	}
	if got[0].UnitPrice != 120 || got[0].GSTRatePercent != 12 {
		t.Errorf("stored values must be kept, got %+v", got[0])
	}
	if got[1].CatalogPrice != 30 || got[1].CatalogGSTRate != 5 {
		t.Errorf("retired item should keep stored baseline, got %+v", got[1])
	}
	if stored[0].CatalogPrice != 120 {
		t.Error("input slice must not be modified")
	}
}
