package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateQuotationExcel exports doc as a single-sheet workbook: header block,
// one row per item in display order, then the totals.
func GenerateQuotationExcel(doc *QuotationDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are limited to 31 characters.
	sheetName := SanitizeFilename(doc.QuotationID)
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	lastCol := columns[len(columns)-1]

	widths := []float64{7, 40, 10, 8, 16, 8, 16, 18}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	moneyFmt := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// Rows 1-4: company, quotation number, date, customer.
	header := []string{
		doc.Company.Name,
		"Quotation: " + doc.QuotationID,
		"Date: " + doc.Date,
		"Customer: " + joinNonEmpty([]string{doc.Customer.Name, doc.Customer.Phone, doc.Customer.Email}, " | "),
	}
	for i, line := range header {
		r := fmt.Sprintf("%d", i+1)
		if err := f.MergeCell(sheetName, "A"+r, lastCol+r); err != nil {
			return nil, fmt.Errorf("merge header row %s: %w", r, err)
		}
		f.SetCellValue(sheetName, "A"+r, sanitizeExcelCell(line))
	}
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	// Row 6: column headers.
	headers := []string{"SI No", "Description", "HSN", "Qty", "Rate", "GST%", "GST Amount", "Amount"}
	for i, h := range headers {
		f.SetCellValue(sheetName, columns[i]+"6", h)
	}
	f.SetCellStyle(sheetName, "A6", lastCol+"6", headerStyle)

	row := 7
	if len(doc.Items) == 0 {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "B"+r, "No items")
		f.SetCellStyle(sheetName, "A"+r, lastCol+r, itemStyle)
		row++
	}
	for i, it := range doc.Items {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+r, i+1)
		f.SetCellValue(sheetName, "B"+r, sanitizeExcelCell(it.ProductName))
		f.SetCellValue(sheetName, "C"+r, sanitizeExcelCell(doc.HSNCodes[it.ProductID]))
		f.SetCellValue(sheetName, "D"+r, it.Quantity)
		f.SetCellValue(sheetName, "E"+r, it.UnitPrice)
		f.SetCellValue(sheetName, "F"+r, it.GSTRatePercent)
		f.SetCellValue(sheetName, "G"+r, it.LineGSTAmount())
		f.SetCellValue(sheetName, "H"+r, it.LineTotal())
		f.SetCellStyle(sheetName, "A"+r, "D"+r, itemStyle)
		f.SetCellStyle(sheetName, "E"+r, "E"+r, moneyStyle)
		f.SetCellStyle(sheetName, "F"+r, "F"+r, itemStyle)
		f.SetCellStyle(sheetName, "G"+r, lastCol+r, moneyStyle)
		row++
	}

	// Skip a blank row before the totals.
	row++

	t := doc.Totals
	summary := []struct {
		label string
		value float64
	}{
		{"Subtotal:", t.Subtotal},
		{fmt.Sprintf("Discount (%s):", FormatPercent(t.DiscountPercent)), t.DiscountAmount},
		{"Total After Discount:", t.TotalAfterDiscount},
		{"GST:", t.TotalGST},
		{"Grand Total:", t.GrandTotal},
		{"Round Off:", t.RoundOff},
		{"Payable:", t.PayableTotal},
	}
	for _, s := range summary {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "G"+r, s.label)
		f.SetCellStyle(sheetName, "G"+r, "G"+r, summaryLabelStyle)
		f.SetCellValue(sheetName, "H"+r, s.value)
		f.SetCellStyle(sheetName, "H"+r, "H"+r, summaryValueStyle)
		row++
	}

	r := fmt.Sprintf("%d", row+1)
	if err := f.MergeCell(sheetName, "A"+r, lastCol+r); err != nil {
		return nil, fmt.Errorf("merge amount in words: %w", err)
	}
	f.SetCellValue(sheetName, "A"+r, "Amount in Words: "+t.AmountInWords)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
