package services

import (
	"testing"

	"quotationdesk/testhelpers"
)

func TestRecordAndListActivity(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	RecordActivity(app, ActionQuotationCreated, "QT-26-27-001", "priya", "3 items")
	RecordActivity(app, ActionQuotationUpdated, "QT-26-27-001", "ravi", "4 items")

	entries, err := ListActivity(app, 10)
	if err != nil {
		t.Fatalf("ListActivity: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.QuotationID != "QT-26-27-001" {
			t.Errorf("QuotationID = %q", e.QuotationID)
		}
		if e.Created.IsZero() {
			t.Error("Created should be set by the autodate field")
		}
	}

	limited, err := ListActivity(app, 1)
	if err != nil {
		t.Fatalf("ListActivity: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit 1 to return 1 entry, got %d", len(limited))
	}
}
