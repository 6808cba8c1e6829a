package templates

import (
	"fmt"
	"strconv"

	"github.com/a-h/templ"
)

// QuotationPageData is one rendered quotation page with every value already
// formatted for display.
type QuotationPageData struct {
	PageIndex  int
	TotalPages int
	WidthPx    int
	ShowHeader bool
	ShowFooter bool

	CompanyName    string
	CompanyContact string
	CompanyGSTIN   string
	LogoURL        string

	Title       string
	QuotationID string
	Date        string

	CustomerName  string
	CustomerLines []string

	// ContinuedLabel replaces the header on pages after the first.
	ContinuedLabel string

	Rows []QuotationRow

	Totals        []TotalLine
	AmountInWords string
	Validity      string
	Terms         string
}

// QuotationRow is one line of the item table.
type QuotationRow struct {
	Serial      string
	Description string
	HSN         string
	Quantity    string
	Rate        string
	GSTRate     string
	Amount      string
}

// TotalLine is a label/value row of the totals block.
type TotalLine struct {
	Label string
	Value string
}

// PageAttributes pins the page block to its pixel width.
func (d QuotationPageData) PageAttributes() templ.OrderedAttributes {
	return templ.OrderedAttributes{
		{Key: "class", Value: "quotation-page"},
		{Key: "data-page-index", Value: strconv.Itoa(d.PageIndex)},
		{Key: "data-total-pages", Value: strconv.Itoa(d.TotalPages)},
		{Key: "style", Value: fmt.Sprintf("width:%dpx;box-sizing:border-box;padding:24px;font-family:Arial,sans-serif;font-size:12px;background:#fff;", d.WidthPx)},
	}
}

func (d QuotationPageData) logoAttributes() templ.OrderedAttributes {
	return templ.OrderedAttributes{
		{Key: "class", Value: "logo"},
		{Key: "src", Value: d.LogoURL},
		{Key: "alt", Value: ""},
	}
}
