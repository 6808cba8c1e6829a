package ledger

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// Customer is the customer block of a quotation.
type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// PayloadItem is one item of a persisted quotation. Numbers are fixed-2-decimal strings.
type PayloadItem struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Type        string `json:"type,omitempty"`
	Price       string `json:"price"`
	Quantity    Count  `json:"quantity"`
	GSTRate     string `json:"gstRate"`
}

// Count is a quantity that decodes from either a JSON number or a numeric
// string such as "2" or "2.00".
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = Count(CoerceQuantity(raw))
	return nil
}

// Payload is the body accepted by the quotation create and update endpoints.
type Payload struct {
	QuotationID     string        `json:"quotationId"`
	DateCreated     string        `json:"dateCreated"`
	Customer        Customer      `json:"customer"`
	Items           []PayloadItem `json:"items"`
	SubTotal        string        `json:"subTotal"`
	DiscountPercent string        `json:"discountPercent"`
	DiscountAmount  string        `json:"discountAmount"`
	TotalGSTAmount  string        `json:"totalGstAmount"`
	GrandTotal      string        `json:"grandTotal"`
	CreatedBy       string        `json:"createdBy"`
}

// PayloadMeta carries the fields of a payload that the ledger does not own.
type PayloadMeta struct {
	QuotationID string
	DateCreated string
	Customer    Customer
	CreatedBy   string
}

// Money formats v with exactly two decimal places.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Payload builds the persistence payload from the ledger's items and totals.
func (l *Ledger) Payload(meta PayloadMeta) Payload {
	totals := l.Totals()
	items := make([]PayloadItem, 0, len(l.items))
	for _, it := range l.items {
		items = append(items, PayloadItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Type:        it.Type,
			Price:       Money(it.UnitPrice),
			Quantity:    Count(it.Quantity),
			GSTRate:     Money(it.GSTRatePercent),
		})
	}
	return Payload{
		QuotationID:     meta.QuotationID,
		DateCreated:     meta.DateCreated,
		Customer:        meta.Customer,
		Items:           items,
		SubTotal:        Money(totals.Subtotal),
		DiscountPercent: Money(totals.DiscountPercent),
		DiscountAmount:  Money(totals.DiscountAmount),
		TotalGSTAmount:  Money(totals.TotalGST),
		GrandTotal:      Money(totals.GrandTotal),
		CreatedBy:       meta.CreatedBy,
	}
}

// LineItems converts payload items back into ledger items, applying the same
// coercion as interactive edits. Catalog values default to the stored ones.
func (p Payload) LineItems() []LineItem {
	out := make([]LineItem, 0, len(p.Items))
	for _, pi := range p.Items {
		price := CoercePrice(pi.Price)
		rate := CoerceRate(pi.GSTRate)
		out = append(out, LineItem{
			ProductID:      pi.ProductID,
			ProductName:    pi.ProductName,
			Type:           pi.Type,
			UnitPrice:      price,
			Quantity:       int(pi.Quantity),
			GSTRatePercent: rate,
			CatalogPrice:   price,
			CatalogGSTRate: rate,
		})
	}
	return out
}

// Discount returns the payload's discount percent.
func (p Payload) Discount() float64 {
	return CoerceRate(p.DiscountPercent)
}

// Ledger rebuilds a ledger from the payload, recomputing every total from the
// items rather than trusting the submitted aggregate strings.
func (p Payload) Ledger() *Ledger {
	return Restore(p.LineItems(), p.Discount())
}

// ParseMoney reads a fixed-2-decimal string back into a float. Invalid input yields 0.
func ParseMoney(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return cast.ToFloat64(s)
	}
	return d.InexactFloat64()
}
