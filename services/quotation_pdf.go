package services

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"quotationdesk/ledger"
)

// ErrPageRender is returned when a document page cannot be produced. No
// partial document accompanies it.
var ErrPageRender = errors.New("page render failed")

// A4 in points.
const (
	A4WidthPt  = 595.28
	A4HeightPt = 841.89
)

const (
	ptPerMM  = 72 / 25.4
	marginMM = 10
	// The logo sits in a 4 of 12 grid column and may take at most a tenth
	// of the page height.
	logoColumnWidthPt = (A4WidthPt - 2*marginMM*ptPerMM) * 4 / 12
	logoMaxHeightPt   = A4HeightPt / 10
)

// RenderOptions controls page planning and decoration of a rendered quotation.
type RenderOptions struct {
	ItemsPerPage int
	PageWidthPx  int
	// Logo is a PNG already fitted by LoadLogo; nil renders without it.
	Logo []byte
}

var (
	mutedColor  = &props.Color{Red: 100, Green: 100, Blue: 100}
	darkColor   = &props.Color{Red: 33, Green: 37, Blue: 41}
	whiteColor  = &props.Color{Red: 255, Green: 255, Blue: 255}
	stripeColor = &props.Color{Red: 248, Green: 249, Blue: 250}
	panelColor  = &props.Color{Red: 245, Green: 245, Blue: 245}
)

var disablePDFConfigDir sync.Once

// GenerateQuotationPDF renders doc as an A4 PDF, one planned page after the
// other. The header appears on the first page only and the totals footer on
// the last page only. The output is checked with pdfcpu and discarded with
// ErrPageRender if fewer pages were produced than planned.
func GenerateQuotationPDF(doc *QuotationDocument, opts RenderOptions) ([]byte, error) {
	plan := PlanPages(doc.Items, opts.ItemsPerPage)

	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(marginMM).
		WithTopMargin(marginMM).
		WithRightMargin(marginMM).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	for _, p := range plan {
		var rows []core.Row
		if p.ShowHeader() {
			rows = append(rows, quotationHeaderRows(doc, opts.Logo)...)
			rows = append(rows, customerRows(doc)...)
		} else {
			rows = append(rows, continuationRows(doc, p)...)
		}
		rows = append(rows, itemTableRows(doc, p)...)
		if p.ShowFooter() {
			rows = append(rows, totalsRows(doc)...)
			rows = append(rows, legalRows(doc)...)
		}
		m.AddPages(page.New().Add(rows...))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("%w: generate quotation %s: %v", ErrPageRender, doc.QuotationID, err)
	}
	pdf := out.GetBytes()

	pages, err := countPDFPages(pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: verify quotation %s: %v", ErrPageRender, doc.QuotationID, err)
	}
	if pages < len(plan) {
		return nil, fmt.Errorf("%w: quotation %s produced %d of %d pages", ErrPageRender, doc.QuotationID, pages, len(plan))
	}
	return pdf, nil
}

// countPDFPages reads the page count of an in-memory PDF.
func countPDFPages(pdf []byte) (int, error) {
	if len(pdf) == 0 {
		return 0, errors.New("empty document")
	}
	disablePDFConfigDir.Do(api.DisableConfigDir)
	return api.PageCount(bytes.NewReader(pdf), model.NewDefaultConfiguration())
}

// quotationHeaderRows builds the company block, title and quotation metadata.
func quotationHeaderRows(doc *QuotationDocument, logo []byte) []core.Row {
	nameStyle := props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Left}
	subStyle := props.Text{Size: 8, Align: align.Left, Color: mutedColor}
	titleStyle := props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right, Color: darkColor}
	metaStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	var rows []core.Row
	if height, ok := logoRowHeight(logo); ok {
		rows = append(rows, row.New(height).Add(
			col.New(4).Add(image.NewFromBytes(logo, extension.Png, props.Rect{Percent: 100, Left: 0, Top: 0})),
			col.New(8),
		))
	}

	title := "QUOTATION"
	if doc.Draft {
		title = "QUOTATION (DRAFT)"
	}
	rows = append(rows,
		row.New(10).Add(
			col.New(7).Add(text.New(doc.Company.Name, nameStyle)),
			col.New(5).Add(text.New(title, titleStyle)),
		),
		row.New(7).Add(
			col.New(7).Add(text.New(joinNonEmpty([]string{doc.Company.Address, doc.Company.Email, doc.Company.Phone}, " | "), subStyle)),
			col.New(5).Add(text.New("No: "+doc.QuotationID, metaStyle)),
		),
		row.New(7).Add(
			col.New(7).Add(text.New(fmtField("GSTIN", doc.Company.GSTIN), subStyle)),
			col.New(5).Add(text.New("Date: "+doc.Date, metaStyle)),
		),
		row.New(3),
	)
	return rows
}

// logoRowHeight returns the row height in mm that fits the logo to its
// column at its own aspect ratio. ok is false when there is no usable logo.
func logoRowHeight(logo []byte) (float64, bool) {
	if len(logo) == 0 {
		return 0, false
	}
	w, h, err := LogoDimensions(logo)
	if err != nil {
		log.Printf("quotation_pdf: logoRowHeight: proceeding without logo: %v", err)
		return 0, false
	}
	_, heightPt, err := FitToPage(w, h, logoColumnWidthPt, logoMaxHeightPt)
	if err != nil {
		log.Printf("quotation_pdf: logoRowHeight: proceeding without logo: %v", err)
		return 0, false
	}
	return heightPt / ptPerMM, true
}

// customerRows builds the "quotation for" block.
func customerRows(doc *QuotationDocument) []core.Row {
	labelStyle := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: mutedColor}
	valueStyle := props.Text{Size: 8, Align: align.Left}
	boldValue := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left}
	headerCell := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 243, Blue: 239}}

	c := doc.Customer
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(text.New("QUOTATION FOR", labelStyle)).WithStyle(headerCell)),
		row.New(7).Add(col.New(12).Add(text.New(c.Name, boldValue))),
	}
	if c.Address != "" {
		rows = append(rows, row.New(7).Add(col.New(12).Add(text.New(c.Address, valueStyle))))
	}
	contact := joinNonEmpty([]string{fmtField("Phone", c.Phone), fmtField("Email", c.Email)}, " | ")
	if contact != "" {
		rows = append(rows, row.New(7).Add(col.New(12).Add(text.New(contact, valueStyle))))
	}
	return append(rows, row.New(3))
}

// continuationRows is the slim running header of pages after the first.
func continuationRows(doc *QuotationDocument, p PageDescriptor[ledger.LineItem]) []core.Row {
	style := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: mutedColor}
	return []core.Row{
		row.New(8).Add(col.New(12).Add(text.New(
			fmt.Sprintf("%s %s (continued, page %d of %d)", doc.Company.Name, doc.QuotationID, p.PageIndex+1, p.TotalPages),
			style,
		))),
		row.New(2),
	}
}

// itemTableRows renders the page's slice with continuous serial numbers.
func itemTableRows(doc *QuotationDocument, p PageDescriptor[ledger.LineItem]) []core.Row {
	headerText := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: whiteColor}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left
	headerCell := &props.Cell{BackgroundColor: darkColor}

	rows := []core.Row{
		row.New(8).Add(
			col.New(1).Add(text.New("SI No", headerText)).WithStyle(headerCell),
			col.New(4).Add(text.New("Description", headerTextLeft)).WithStyle(headerCell),
			col.New(1).Add(text.New("HSN", headerText)).WithStyle(headerCell),
			col.New(1).Add(text.New("Qty", headerText)).WithStyle(headerCell),
			col.New(2).Add(text.New("Rate", headerText)).WithStyle(headerCell),
			col.New(1).Add(text.New("GST%", headerText)).WithStyle(headerCell),
			col.New(2).Add(text.New("Amount", headerText)).WithStyle(headerCell),
		),
	}

	if len(p.Items) == 0 {
		rows = append(rows, row.New(10).Add(
			col.New(12).Add(text.New("No items", props.Text{Size: 8, Style: fontstyle.Italic, Align: align.Center, Color: mutedColor})),
		))
		return append(rows, row.New(2))
	}

	bodyText := props.Text{Size: 7, Align: align.Center}
	bodyTextLeft := props.Text{Size: 7, Align: align.Left}
	bodyTextRight := props.Text{Size: 7, Align: align.Right}

	for i, item := range p.Items {
		var cellStyle *props.Cell
		if i%2 == 1 {
			cellStyle = &props.Cell{BackgroundColor: stripeColor}
		}

		cols := []core.Col{
			col.New(1).Add(text.New(strconv.Itoa(p.SerialNumber(i)), bodyText)),
			col.New(4).Add(text.New(item.ProductName, bodyTextLeft)),
			col.New(1).Add(text.New(doc.HSNCodes[item.ProductID], bodyText)),
			col.New(1).Add(text.New(strconv.Itoa(item.Quantity), bodyTextRight)),
			col.New(2).Add(text.New(FormatINR(item.UnitPrice), bodyTextRight)),
			col.New(1).Add(text.New(FormatPercent(item.GSTRatePercent), bodyText)),
			col.New(2).Add(text.New(FormatINR(item.LineTotal()), bodyTextRight)),
		}
		if cellStyle != nil {
			for j := range cols {
				cols[j] = cols[j].WithStyle(cellStyle)
			}
		}
		rows = append(rows, row.New(7).Add(cols...))
	}
	return append(rows, row.New(2))
}

// totalsRows renders the right-aligned totals block.
func totalsRows(doc *QuotationDocument) []core.Row {
	summaryCell := &props.Cell{BackgroundColor: panelColor}
	labelStyle := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 8, Align: align.Right}
	grandStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: whiteColor}
	grandCell := &props.Cell{BackgroundColor: darkColor}

	t := doc.Totals
	lines := []struct{ label, value string }{
		{"Subtotal", FormatINR(t.Subtotal)},
		{"Discount (" + FormatPercent(t.DiscountPercent) + ")", "-" + FormatINR(t.DiscountAmount)},
		{"Total After Discount", FormatINR(t.TotalAfterDiscount)},
		{"GST", FormatINR(t.TotalGST)},
		{"Round Off", FormatINR(t.RoundOff)},
	}

	var rows []core.Row
	for _, l := range lines {
		rows = append(rows, row.New(7).Add(
			col.New(9).Add(text.New(l.label, labelStyle)).WithStyle(summaryCell),
			col.New(3).Add(text.New(l.value, valueStyle)).WithStyle(summaryCell),
		))
	}
	rows = append(rows,
		row.New(8).Add(
			col.New(9).Add(text.New("Grand Total", grandStyle)).WithStyle(grandCell),
			col.New(3).Add(text.New(FormatINR(t.PayableTotal), grandStyle)).WithStyle(grandCell),
		),
		row.New(3),
		row.New(8).Add(col.New(12).Add(text.New("Amount in Words: "+t.AmountInWords,
			props.Text{Size: 8, Style: fontstyle.BoldItalic, Align: align.Left}))),
		row.New(3),
	)
	return rows
}

// legalRows renders validity, terms and the signature line.
func legalRows(doc *QuotationDocument) []core.Row {
	sectionLabel := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: darkColor}
	termValue := props.Text{Size: 8, Align: align.Left}
	signStyle := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: mutedColor}

	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(text.New("TERMS & CONDITIONS", sectionLabel))),
		row.New(7).Add(col.New(12).Add(text.New(doc.ValidityText(), termValue))),
	}
	if doc.Terms != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(text.New(doc.Terms, termValue))))
	}
	return append(rows,
		row.New(12),
		row.New(6).Add(
			col.New(6),
			col.New(6).Add(text.New("____________________________", props.Text{Size: 8, Align: align.Center, Color: mutedColor})),
		),
		row.New(7).Add(
			col.New(6),
			col.New(6).Add(text.New("For "+doc.Company.Name, signStyle)),
		),
	)
}

// joinNonEmpty joins the non-empty parts with sep.
func joinNonEmpty(parts []string, sep string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, sep)
}

// fmtField returns "label: value" if value is non-empty, otherwise empty string.
func fmtField(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s: %s", label, value)
}
