// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/collections"
	"quotationdesk/ledger"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestItem creates a catalog item and returns it.
func CreateTestItem(t *testing.T, app *pocketbase.PocketBase, productID, name, itemType string, price float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("items")
	if err != nil {
		t.Fatalf("failed to find items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("product_id", productID)
	record.Set("name", name)
	record.Set("type", itemType)
	record.Set("price", price)
	record.Set("hsn_code", "8471")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test item: %v", err)
	}

	return record
}

// CreateTestGSTRule creates a product-name GST rule.
func CreateTestGSTRule(t *testing.T, app *pocketbase.PocketBase, productName string, percent float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("gst_rules")
	if err != nil {
		t.Fatalf("failed to find gst_rules collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("product_name", productName)
	record.Set("percent", percent)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test GST rule: %v", err)
	}

	return record
}

// CreateTestSettings creates the settings record with the given default GST.
// Terms are left blank.
func CreateTestSettings(t *testing.T, app *pocketbase.PocketBase, defaultGST float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("settings")
	if err != nil {
		t.Fatalf("failed to find settings collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("company_name", "Test Traders")
	record.Set("company_address", "1 Test Lane, Pune")
	record.Set("company_email", "test@example.com")
	record.Set("company_gstin", "27AADCB2230M1ZV")
	record.Set("default_gst", defaultGST)
	record.Set("validity_days", 15)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test settings: %v", err)
	}

	return record
}

// CreateTestCustomer creates a customer record.
func CreateTestCustomer(t *testing.T, app *pocketbase.PocketBase, name, phone string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		t.Fatalf("failed to find customers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("phone", phone)
	record.Set("email", "buyer@example.com")
	record.Set("address", "22 Park Street, Kolkata")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test customer: %v", err)
	}

	return record
}

// NewQuotationRecord returns an unsaved quotation record with the required
// fields set.
func NewQuotationRecord(col *core.Collection, quotationID string) *core.Record {
	record := core.NewRecord(col)
	record.Set("quotation_id", quotationID)
	record.Set("date_created", time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC).Format("2006-01-02"))
	record.Set("customer", ledger.Customer{Name: "Test Buyer", Phone: "9876543210"})
	return record
}

// CreateTestQuotation saves a quotation holding items. Totals are computed from
// the items so the stored strings are consistent.
func CreateTestQuotation(t *testing.T, app *pocketbase.PocketBase, quotationID string, items []ledger.PayloadItem, discountPercent string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		t.Fatalf("failed to find quotations collection: %v", err)
	}

	if items == nil {
		items = []ledger.PayloadItem{}
	}
	payload := ledger.Payload{Items: items, DiscountPercent: discountPercent}
	totals := payload.Ledger().Totals()

	record := NewQuotationRecord(col, quotationID)
	record.Set("items", items)
	record.Set("sub_total", ledger.Money(totals.Subtotal))
	record.Set("discount_percent", ledger.Money(totals.DiscountPercent))
	record.Set("discount_amount", ledger.Money(totals.DiscountAmount))
	record.Set("total_gst_amount", ledger.Money(totals.TotalGST))
	record.Set("grand_total", ledger.Money(totals.GrandTotal))
	record.Set("created_by", "tester")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quotation: %v", err)
	}

	return record
}

// PayloadItems builds n payload items with ids P01..Pn, price 100 and GST 18.
func PayloadItems(n int) []ledger.PayloadItem {
	out := make([]ledger.PayloadItem, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("P%02d", i)
		out = append(out, ledger.PayloadItem{
			ProductID:   id,
			ProductName: "Product " + id,
			Type:        "Hardware",
			Price:       "100.00",
			Quantity:    1,
			GSTRate:     "18.00",
		})
	}
	return out
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
