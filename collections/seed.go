package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type catalogDef struct {
	productID   string
	name        string
	itemType    string
	price       float64
	description string
	hsnCode     string
}

type gstRuleDef struct {
	productName string
	percent     float64
}

var demoCatalog = []catalogDef{
	{"HW-001", "Interactive Flat Panel 65in", "Hardware", 142000, "4K touch display with Android module", "8528"},
	{"HW-002", "Wall Mount Bracket", "Hardware", 3500, "Heavy duty tilt bracket", "8302"},
	{"HW-003", "Document Camera", "Hardware", 18500, "13MP visualiser with USB-C", "8525"},
	{"HW-004", "Wireless Presenter", "Hardware", 1450, "2.4GHz laser presenter", "8471"},
	{"HW-005", "HDMI Cable 10m", "Hardware", 950, "High speed HDMI 2.0 cable", "8544"},
	{"HW-006", "UPS 1kVA", "Hardware", 7800, "Line interactive UPS", "8504"},
	{"SW-001", "Classroom Management Licence", "Software", 12000, "Annual licence, 40 seats", "9973"},
	{"SW-002", "Content Library Subscription", "Software", 9000, "K-12 curriculum content, 1 year", "9984"},
	{"SV-001", "Installation & Commissioning", "Service", 4500, "On-site installation per panel", "9954"},
	{"SV-002", "Teacher Training Session", "Service", 6000, "Half-day training, up to 20 staff", "9992"},
	{"SV-003", "Annual Maintenance Contract", "Service", 15000, "Comprehensive AMC, 1 year", "9987"},
	{"EX-001", "Demo Kit Rental", "Rental", 2500, "Weekly rental of a demo kit", "9973"},
}

var demoGSTRules = []gstRuleDef{
	{"Interactive Flat Panel 65in", 18},
	{"Document Camera", 18},
	{"Classroom Management Licence", 18},
	{"Content Library Subscription", 18},
	{"Teacher Training Session", 0},
	{"Installation & Commissioning", 12},
	{"UPS 1kVA", 28},
}

// Seed inserts a demo catalog and GST rule set. It returns early when the
// items collection already holds records, so it is safe on every startup.
func Seed(app *pocketbase.PocketBase) error {
	itemsCol, err := app.FindCollectionByNameOrId("items")
	if err != nil {
		return fmt.Errorf("seed: could not find items collection: %w", err)
	}
	existing, err := app.FindRecordsByFilter(itemsCol, "1=1", "", 1, 0)
	if err != nil {
		return fmt.Errorf("seed: could not query items: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: items collection is empty – inserting demo catalog …")

	for _, def := range demoCatalog {
		record := core.NewRecord(itemsCol)
		record.Set("product_id", def.productID)
		record.Set("name", def.name)
		record.Set("type", def.itemType)
		record.Set("price", def.price)
		record.Set("description", def.description)
		record.Set("hsn_code", def.hsnCode)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: could not save item %s: %w", def.productID, err)
		}
	}

	rulesCol, err := app.FindCollectionByNameOrId("gst_rules")
	if err != nil {
		return fmt.Errorf("seed: could not find gst_rules collection: %w", err)
	}
	for _, def := range demoGSTRules {
		record := core.NewRecord(rulesCol)
		record.Set("product_name", def.productName)
		record.Set("percent", def.percent)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("seed: could not save gst rule %q: %w", def.productName, err)
		}
	}

	log.Printf("seed: inserted %d catalog items and %d GST rules", len(demoCatalog), len(demoGSTRules))
	return nil
}
