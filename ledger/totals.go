package ledger

// Totals holds the aggregate amounts of a quotation.
type Totals struct {
	Subtotal           float64 `json:"subTotal"`
	DiscountPercent    float64 `json:"discountPercent"`
	DiscountAmount     float64 `json:"discountAmount"`
	TotalAfterDiscount float64 `json:"totalAfterDiscount"`
	TotalGST           float64 `json:"totalGstAmount"`
	GrandTotal         float64 `json:"grandTotal"`
}

// RecomputeTotals derives the totals of items under discountPercent.
//
// The discount reduces the pre-GST subtotal only; GST is charged on the
// undiscounted line totals. The function has no side effects.
func RecomputeTotals(items []LineItem, discountPercent float64) Totals {
	if discountPercent < 0 {
		discountPercent = 0
	}

	var t Totals
	for _, it := range items {
		t.Subtotal += it.LineTotal()
		t.TotalGST += it.LineGSTAmount()
	}
	t.DiscountPercent = discountPercent
	t.DiscountAmount = t.Subtotal * discountPercent / 100
	t.TotalAfterDiscount = t.Subtotal - t.DiscountAmount
	t.GrandTotal = t.TotalAfterDiscount + t.TotalGST
	return t
}
