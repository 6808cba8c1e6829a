package services

import (
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/ledger"
)

// ErrCatalogItemNotFound is returned when a product id has no catalog record.
var ErrCatalogItemNotFound = errors.New("catalog item not found")

// CatalogEntry is a catalog item as listed to the dashboard.
type CatalogEntry struct {
	ledger.CatalogItem
	Description string `json:"description"`
	HSNCode     string `json:"hsnCode"`
}

func catalogItemFromRecord(r *core.Record) ledger.CatalogItem {
	return ledger.CatalogItem{
		ProductID:   r.GetString("product_id"),
		ProductName: r.GetString("name"),
		Type:        r.GetString("type"),
		Price:       ledger.CoercePrice(r.Get("price")),
	}
}

// FindCatalogItem resolves the catalog item being added to a ledger.
func FindCatalogItem(app core.App, productID string) (ledger.CatalogItem, error) {
	r, err := app.FindFirstRecordByFilter("items", "product_id = {:id}", map[string]any{"id": productID})
	if err != nil {
		return ledger.CatalogItem{}, fmt.Errorf("%w: %s", ErrCatalogItemNotFound, productID)
	}
	return catalogItemFromRecord(r), nil
}

// ListCatalog returns every catalog item ordered by category priority, then name.
func ListCatalog(app core.App, categoryOrder []string) ([]CatalogEntry, error) {
	records, err := app.FindRecordsByFilter("items", "1=1", "name", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("catalog: list items: %w", err)
	}

	byID := make(map[string]*core.Record, len(records))
	lines := make([]ledger.LineItem, 0, len(records))
	for _, r := range records {
		item := catalogItemFromRecord(r)
		byID[item.ProductID] = r
		lines = append(lines, ledger.LineItem{ProductID: item.ProductID, Type: item.Type})
	}

	sorted := ledger.SortForDisplay(lines, categoryOrder)
	out := make([]CatalogEntry, 0, len(sorted))
	for _, li := range sorted {
		r := byID[li.ProductID]
		out = append(out, CatalogEntry{
			CatalogItem: catalogItemFromRecord(r),
			Description: r.GetString("description"),
			HSNCode:     r.GetString("hsn_code"),
		})
	}
	return out, nil
}

// WithCatalogBaseline resets each item's catalog price and GST rate to what
// the catalog and rates resolve now, so edits of a saved quotation are
// measured against the catalog rather than the stored prices. Items no longer
// in the catalog keep their stored values as baseline.
func WithCatalogBaseline(app core.App, items []ledger.LineItem, rates ledger.RateResolver) []ledger.LineItem {
	out := make([]ledger.LineItem, len(items))
	for i, it := range items {
		if catalog, err := FindCatalogItem(app, it.ProductID); err == nil {
			it.CatalogPrice = catalog.Price
			it.CatalogGSTRate = rates.ResolveGST(it.ProductName)
		}
		out[i] = it
	}
	return out
}
