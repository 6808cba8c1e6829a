package services

import (
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/ledger"
)

// TempOverride is one staged price/GST override. The catalog item it refers
// to is never modified.
type TempOverride struct {
	QuotationID    string  `json:"quotationId"`
	ProductID      string  `json:"productId"`
	Price          float64 `json:"price"`
	GSTRate        float64 `json:"gstRate"`
	CatalogPrice   float64 `json:"catalogPrice"`
	CatalogGSTRate float64 `json:"catalogGstRate"`
	Origin         string  `json:"origin"`
	Revision       int     `json:"revision"`
	CreatedBy      string  `json:"createdBy"`
	Created        string  `json:"created"`
}

// StageOverride writes one override row to the temp collection, tagged with
// the quotation revision it was saved under.
func StageOverride(app core.App, quotationID string, revision int, user string, o ledger.Override) error {
	col, err := app.FindCollectionByNameOrId("temp")
	if err != nil {
		return fmt.Errorf("temp: find collection: %w", err)
	}

	record := core.NewRecord(col)
	record.Set("quotation_id", quotationID)
	record.Set("product_id", o.ProductID)
	record.Set("price", o.Price)
	record.Set("gst_rate", o.GSTRate)
	record.Set("catalog_price", o.CatalogPrice)
	record.Set("catalog_gst_rate", o.CatalogGSTRate)
	record.Set("origin", o.Origin.String())
	record.Set("revision", revision)
	record.Set("created_by", user)
	if err := app.Save(record); err != nil {
		return fmt.Errorf("temp: stage %s/%s: %w", quotationID, o.ProductID, err)
	}
	return nil
}

// ListOverrides returns staged overrides in insertion order. An empty
// quotationID lists every quotation's overrides.
func ListOverrides(app core.App, quotationID string) ([]TempOverride, error) {
	q := app.RecordQuery("temp").OrderBy("rowid ASC")
	if quotationID != "" {
		q = q.AndWhere(dbx.HashExp{"quotation_id": quotationID})
	}

	records := []*core.Record{}
	if err := q.All(&records); err != nil {
		return nil, fmt.Errorf("temp: list overrides: %w", err)
	}

	out := make([]TempOverride, 0, len(records))
	for _, r := range records {
		out = append(out, TempOverride{
			QuotationID:    r.GetString("quotation_id"),
			ProductID:      r.GetString("product_id"),
			Price:          r.GetFloat("price"),
			GSTRate:        r.GetFloat("gst_rate"),
			CatalogPrice:   r.GetFloat("catalog_price"),
			CatalogGSTRate: r.GetFloat("catalog_gst_rate"),
			Origin:         r.GetString("origin"),
			Revision:       r.GetInt("revision"),
			CreatedBy:      r.GetString("created_by"),
			Created:        r.GetString("created"),
		})
	}
	return out, nil
}

// LatestOverrides returns the most recently staged override per product
// among the rows staged under the given quotation revision. Rows from
// earlier revisions stay listed but are superseded by the stored items.
func LatestOverrides(app core.App, quotationID string, revision int) (map[string]TempOverride, error) {
	all, err := ListOverrides(app, quotationID)
	if err != nil {
		return nil, err
	}
	latest := make(map[string]TempOverride, len(all))
	for _, o := range all {
		if o.Revision != revision {
			continue
		}
		latest[o.ProductID] = o
	}
	return latest, nil
}

// ApplyOverrides replaces the price and GST rate of items that have a staged override.
func ApplyOverrides(items []ledger.LineItem, overrides map[string]TempOverride) []ledger.LineItem {
	out := make([]ledger.LineItem, len(items))
	for i, it := range items {
		if o, ok := overrides[it.ProductID]; ok {
			it.UnitPrice = ledger.CoercePrice(o.Price)
			it.GSTRatePercent = ledger.CoerceRate(o.GSTRate)
		}
		out[i] = it
	}
	return out
}
