package services

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"quotationdesk/ledger"
)

// QuotationCompany is the seller block printed in the document header.
type QuotationCompany struct {
	Name    string
	Address string
	Email   string
	Phone   string
	GSTIN   string
	LogoURL string
}

// QuotationDocument holds everything the renderers need for one quotation.
type QuotationDocument struct {
	Company QuotationCompany

	QuotationID  string
	Date         string
	ValidUntil   string
	ValidityDays int
	PreparedBy   string
	Draft        bool

	Customer ledger.Customer

	// Items in display order.
	Items    []ledger.LineItem
	HSNCodes map[string]string

	Totals DocumentTotals
	Terms  string
}

// DocumentOptions carries the configured fallbacks for document assembly.
type DocumentOptions struct {
	CategoryOrder []string
	ValidityDays  int
}

// BuildQuotationDocument assembles a stored quotation for rendering. The
// latest temp override per product staged with the quotation's current
// revision replaces the stored price and GST; older rows are ignored.
func BuildQuotationDocument(app core.App, quotationID string, opts DocumentOptions) (*QuotationDocument, error) {
	record, err := findQuotationRecord(app, quotationID)
	if err != nil {
		return nil, err
	}
	payload, err := payloadFromRecord(record)
	if err != nil {
		return nil, err
	}

	overrides, err := LatestOverrides(app, quotationID, record.GetInt("revision"))
	if err != nil {
		log.Printf("quotation_document: BuildQuotationDocument: overrides for %s unavailable: %v", quotationID, err)
	}

	items := ApplyOverrides(payload.Ledger().Items(), overrides)
	issued, err := time.Parse(dateLayout, payload.DateCreated)
	if err != nil {
		log.Printf("quotation_document: BuildQuotationDocument: bad date %q on %s: %v", payload.DateCreated, quotationID, err)
	}

	doc := assembleDocument(app, items, payload.Discount(), opts)
	doc.QuotationID = payload.QuotationID
	doc.Customer = payload.Customer
	doc.PreparedBy = payload.CreatedBy
	doc.setDates(issued, payload.DateCreated)
	return doc, nil
}

// DocumentFromSession assembles an unsaved draft for preview.
func DocumentFromSession(app core.App, s ledger.Session, opts DocumentOptions, now time.Time) *QuotationDocument {
	doc := assembleDocument(app, s.Ledger.Items(), s.Ledger.DiscountPercent(), opts)
	doc.QuotationID = s.QuotationID
	if doc.QuotationID == "" {
		doc.QuotationID = "DRAFT"
	}
	doc.Customer = s.Customer
	doc.PreparedBy = s.CreatedBy
	doc.Draft = true
	doc.setDates(now, "")
	return doc
}

func assembleDocument(app core.App, items []ledger.LineItem, discount float64, opts DocumentOptions) *QuotationDocument {
	company, validityDays, terms := loadCompanySettings(app)
	if validityDays <= 0 {
		validityDays = opts.ValidityDays
	}

	return &QuotationDocument{
		Company:      company,
		ValidityDays: validityDays,
		Items:        ledger.SortForDisplay(items, opts.CategoryOrder),
		HSNCodes:     loadHSNCodes(app, items),
		Totals:       CalcDocumentTotals(items, discount),
		Terms:        terms,
	}
}

func (d *QuotationDocument) setDates(issued time.Time, raw string) {
	if issued.IsZero() {
		d.Date = raw
		return
	}
	d.Date = FormatDate(issued)
	if d.ValidityDays > 0 {
		d.ValidUntil = FormatDate(issued.AddDate(0, 0, d.ValidityDays))
	}
}

// ValidityText is the legal line printed on the last page.
func (d *QuotationDocument) ValidityText() string {
	if d.ValidUntil == "" {
		return "Prices are subject to change without notice."
	}
	return fmt.Sprintf("This quotation is valid for %d days, until %s.", d.ValidityDays, d.ValidUntil)
}

// loadCompanySettings reads the single settings record. A missing record
// yields empty company details.
func loadCompanySettings(app core.App) (QuotationCompany, int, string) {
	records, err := app.FindRecordsByFilter("settings", "1=1", "", 1, 0)
	if err != nil || len(records) == 0 {
		log.Printf("quotation_document: loadCompanySettings: no settings record: %v", err)
		return QuotationCompany{}, 0, ""
	}
	s := records[0]
	company := QuotationCompany{
		Name:    s.GetString("company_name"),
		Address: s.GetString("company_address"),
		Email:   s.GetString("company_email"),
		Phone:   s.GetString("company_phone"),
		GSTIN:   s.GetString("company_gstin"),
		LogoURL: s.GetString("logo_url"),
	}
	return company, s.GetInt("validity_days"), s.GetString("terms")
}

// loadHSNCodes looks up the HSN code of each item's catalog record.
func loadHSNCodes(app core.App, items []ledger.LineItem) map[string]string {
	codes := make(map[string]string, len(items))
	for _, it := range items {
		r, err := app.FindFirstRecordByFilter("items", "product_id = {:id}", map[string]any{"id": it.ProductID})
		if err != nil {
			continue
		}
		if code := r.GetString("hsn_code"); code != "" {
			codes[it.ProductID] = code
		}
	}
	return codes
}
