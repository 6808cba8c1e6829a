package services

import (
	"testing"

	"quotationdesk/ledger"
	"quotationdesk/testhelpers"
)

func TestLatestOverrides_LastStagedWins(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	stage := func(price float64, mode ledger.Mode) {
		t.Helper()
		err := StageOverride(app, "QT-1", 1, "priya", ledger.Override{
			ProductID: "A", CatalogPrice: 120, CatalogGSTRate: 18, Price: price, GSTRate: 12, Origin: mode,
		})
		if err != nil {
			t.Fatalf("StageOverride: %v", err)
		}
	}
	stage(100, ledger.ModeCreating)
	stage(90, ledger.ModeEditing)
	if err := StageOverride(app, "QT-2", 1, "ravi", ledger.Override{ProductID: "A", Price: 1}); err != nil {
		t.Fatalf("StageOverride: %v", err)
	}

	latest, err := LatestOverrides(app, "QT-1", 1)
	if err != nil {
		t.Fatalf("LatestOverrides: %v", err)
	}
	if got := latest["A"]; got.Price != 90 || got.Origin != "editing" {
		t.Errorf("latest = %+v, want price 90 from editing", got)
	}

	all, _ := ListOverrides(app, "")
	if len(all) != 3 {
		t.Errorf("expected 3 overrides overall, got %d", len(all))
	}
}

func TestApplyOverrides(t *testing.T) {
	items := []ledger.LineItem{
		{ProductID: "A", UnitPrice: 120, Quantity: 1, GSTRatePercent: 18},
		{ProductID: "B", UnitPrice: 50, Quantity: 2, GSTRatePercent: 18},
	}
	got := ApplyOverrides(items, map[string]TempOverride{"A": {Price: 100, GSTRate: 12}})

	if got[0].UnitPrice != 100 || got[0].GSTRatePercent != 12 {
		t.Errorf("A = %+v", got[0])
	}
	if got[1].UnitPrice != 50 {
		t.Errorf("B should be untouched, got %+v", got[1])
	}
	if items[0].UnitPrice != 120 {
		t.Error("input slice must not be modified")
	}
}

func TestLatestOverrides_OtherRevisionsIgnored(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	for _, r := range []struct {
		revision int
		product  string
		price    float64
	}{{1, "A", 80}, {1, "B", 40}, {2, "A", 95}} {
		err := StageOverride(app, "QT-1", r.revision, "priya", ledger.Override{ProductID: r.product, Price: r.price})
		if err != nil {
			t.Fatalf("StageOverride: %v", err)
		}
	}

	latest, err := LatestOverrides(app, "QT-1", 2)
	if err != nil {
		t.Fatalf("LatestOverrides: %v", err)
	}
	if len(latest) != 1 || latest["A"].Price != 95 {
		t.Errorf("revision 2 overrides = %+v, want only A at 95", latest)
	}

	latest, _ = LatestOverrides(app, "QT-1", 3)
	if len(latest) != 0 {
		t.Errorf("revision 3 has nothing staged, got %+v", latest)
	}
}
