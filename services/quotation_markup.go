package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"quotationdesk/ledger"
	"quotationdesk/templates"
)

// QuotationPage renders one planned page of doc as a fixed-width markup block.
func QuotationPage(doc *QuotationDocument, p PageDescriptor[ledger.LineItem], widthPx int) templ.Component {
	return templates.QuotationPage(pageData(doc, p, widthPx))
}

// QuotationPages renders every planned page in order.
func QuotationPages(doc *QuotationDocument, opts RenderOptions) templ.Component {
	plan := PlanPages(doc.Items, opts.ItemsPerPage)
	pages := make([]templates.QuotationPageData, 0, len(plan))
	for _, p := range plan {
		pages = append(pages, pageData(doc, p, opts.PageWidthPx))
	}
	return templates.QuotationPages(pages)
}

// RenderQuotationPages returns one markup block per planned page. Pages are
// rendered strictly in order; the first failure aborts the whole run.
func RenderQuotationPages(ctx context.Context, doc *QuotationDocument, opts RenderOptions) ([]string, error) {
	plan := PlanPages(doc.Items, opts.ItemsPerPage)
	blocks := make([]string, 0, len(plan))
	for _, p := range plan {
		var b strings.Builder
		if err := QuotationPage(doc, p, opts.PageWidthPx).Render(ctx, &b); err != nil {
			return nil, fmt.Errorf("%w: page %d of %s: %v", ErrPageRender, p.PageIndex+1, doc.QuotationID, err)
		}
		if b.Len() == 0 {
			return nil, fmt.Errorf("%w: page %d of %s is empty", ErrPageRender, p.PageIndex+1, doc.QuotationID)
		}
		blocks = append(blocks, b.String())
	}
	return blocks, nil
}

// pageData formats the part of doc that page p shows.
func pageData(doc *QuotationDocument, p PageDescriptor[ledger.LineItem], widthPx int) templates.QuotationPageData {
	c := doc.Company
	data := templates.QuotationPageData{
		PageIndex:  p.PageIndex,
		TotalPages: p.TotalPages,
		WidthPx:    widthPx,
		ShowHeader: p.ShowHeader(),
		ShowFooter: p.ShowFooter(),

		CompanyName:    c.Name,
		CompanyContact: joinNonEmpty([]string{c.Address, c.Email, c.Phone}, " | "),
		CompanyGSTIN:   c.GSTIN,
		LogoURL:        c.LogoURL,

		Title:       "QUOTATION",
		QuotationID: doc.QuotationID,
		Date:        doc.Date,

		CustomerName:   doc.Customer.Name,
		ContinuedLabel: fmt.Sprintf("%s %s (continued, page %d of %d)", c.Name, doc.QuotationID, p.PageIndex+1, p.TotalPages),
	}
	if doc.Draft {
		data.Title = "QUOTATION (DRAFT)"
	}

	cu := doc.Customer
	for _, line := range []string{cu.Address, fmtField("Phone", cu.Phone), fmtField("Email", cu.Email)} {
		if line != "" {
			data.CustomerLines = append(data.CustomerLines, line)
		}
	}

	for i, it := range p.Items {
		data.Rows = append(data.Rows, templates.QuotationRow{
			Serial:      strconv.Itoa(p.SerialNumber(i)),
			Description: it.ProductName,
			HSN:         doc.HSNCodes[it.ProductID],
			Quantity:    strconv.Itoa(it.Quantity),
			Rate:        FormatINR(it.UnitPrice),
			GSTRate:     FormatPercent(it.GSTRatePercent),
			Amount:      FormatINR(it.LineTotal()),
		})
	}

	if data.ShowFooter {
		t := doc.Totals
		data.Totals = []templates.TotalLine{
			{Label: "Subtotal", Value: FormatINR(t.Subtotal)},
			{Label: "Discount (" + FormatPercent(t.DiscountPercent) + ")", Value: "-" + FormatINR(t.DiscountAmount)},
			{Label: "Total After Discount", Value: FormatINR(t.TotalAfterDiscount)},
			{Label: "GST", Value: FormatINR(t.TotalGST)},
			{Label: "Round Off", Value: FormatINR(t.RoundOff)},
			{Label: "Grand Total", Value: FormatINR(t.PayableTotal)},
		}
		data.AmountInWords = t.AmountInWords
		data.Validity = doc.ValidityText()
		data.Terms = doc.Terms
	}
	return data
}
