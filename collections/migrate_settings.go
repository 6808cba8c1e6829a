package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// defaultSettings seed a new settings record. On an existing record only
// blank text fields are filled; numeric fields keep whatever was saved.
var defaultSettings = map[string]any{
	"company_name":    "Quotation Desk Traders",
	"company_address": "12 MG Road, Bengaluru, Karnataka 560001",
	"company_email":   "sales@quotationdesk.local",
	"default_gst":     18,
	"validity_days":   30,
	"terms":           "Prices are exclusive of freight. Payment due within 15 days of invoice.",
}

// MigrateDefaultSettings ensures exactly one settings record exists and fills
// blank fields with defaults. Safe to call on every startup.
func MigrateDefaultSettings(app *pocketbase.PocketBase) error {
	settingsCol, err := app.FindCollectionByNameOrId("settings")
	if err != nil {
		return fmt.Errorf("migrate_settings: could not find settings collection: %w", err)
	}

	existing, err := app.FindRecordsByFilter(settingsCol, "1=1", "", 1, 0)
	if err != nil {
		return fmt.Errorf("migrate_settings: could not query settings: %w", err)
	}

	var record *core.Record
	if len(existing) > 0 {
		record = existing[0]
	} else {
		record = core.NewRecord(settingsCol)
	}

	changed := record.IsNew()
	for field, value := range defaultSettings {
		if !record.IsNew() {
			if _, isText := value.(string); !isText || record.GetString(field) != "" {
				continue
			}
		}
		record.Set(field, value)
		changed = true
	}
	if !changed {
		return nil
	}

	if err := app.Save(record); err != nil {
		log.Printf("migrate_settings: failed to save default settings: %v\n", err)
		return fmt.Errorf("migrate_settings: save settings: %w", err)
	}
	return nil
}
