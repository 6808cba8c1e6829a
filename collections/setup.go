package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the collections backing the
// quotation desk: the catalog (items), GST rules, settings, customers,
// quotations, the temp override table and the activity log.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "items", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "product_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "type", Required: false})
		c.Fields.Add(&core.NumberField{Name: "price", Required: false})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.TextField{Name: "hsn_code", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_items_product_id", true, "product_id", "")
	})

	ensureCollection(app, "gst_rules", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "product_name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "percent", Required: false})
	})

	ensureCollection(app, "settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "company_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_address", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_email", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "company_gstin", Required: false})
		c.Fields.Add(&core.NumberField{Name: "default_gst", Required: false})
		c.Fields.Add(&core.NumberField{Name: "validity_days", Required: false})
		c.Fields.Add(&core.TextField{Name: "terms", Required: false})
		c.Fields.Add(&core.TextField{Name: "logo_url", Required: false})
	})

	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "phone", Required: true})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_customers_phone", true, "phone", "")
	})

	ensureCollection(app, "quotations", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quotation_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "date_created", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:          "customer_ref",
			Required:      false,
			CollectionId:  customers.Id,
			CascadeDelete: false,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.JSONField{Name: "customer", Required: false})
		c.Fields.Add(&core.JSONField{Name: "items", Required: false})
		// Amounts are stored as the fixed-2-decimal strings of the payload.
		c.Fields.Add(&core.TextField{Name: "sub_total", Required: false})
		c.Fields.Add(&core.TextField{Name: "discount_percent", Required: false})
		c.Fields.Add(&core.TextField{Name: "discount_amount", Required: false})
		c.Fields.Add(&core.TextField{Name: "total_gst_amount", Required: false})
		c.Fields.Add(&core.TextField{Name: "grand_total", Required: false})
		c.Fields.Add(&core.TextField{Name: "created_by", Required: false})
		// Bumped on every save; temp rows staged under an older revision no
		// longer apply.
		c.Fields.Add(&core.NumberField{Name: "revision", Required: false, OnlyInt: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_quotations_quotation_id", true, "quotation_id", "")
	})

	ensureCollection(app, "temp", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quotation_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "product_id", Required: true})
		c.Fields.Add(&core.NumberField{Name: "price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "gst_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "catalog_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "catalog_gst_rate", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "origin",
			Required:  true,
			Values:    []string{"creating", "editing"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "revision", Required: false, OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "created_by", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})

	ensureCollection(app, "logs", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "action", Required: true})
		c.Fields.Add(&core.TextField{Name: "quotation_id", Required: false})
		c.Fields.Add(&core.TextField{Name: "user", Required: false})
		c.Fields.Add(&core.TextField{Name: "details", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})
}

// ensureCollection returns the named collection, creating it as a base
// collection populated by addFields when it does not exist yet.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
