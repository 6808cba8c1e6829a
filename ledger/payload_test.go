package ledger

import (
	"encoding/json"
	"testing"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{250, "250.00"},
		{36.005, "36.01"},
		{1234.5, "1234.50"},
		{0.1 + 0.2, "0.30"},
	}

	for _, tt := range tests {
		if got := Money(tt.in); got != tt.want {
			t.Errorf("Money(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLedgerPayload(t *testing.T) {
	l := New()
	l.AddItem(CatalogItem{ProductID: "a", ProductName: "Panel", Type: "Hardware", Price: 100}, flatRate)
	l.AddItem(CatalogItem{ProductID: "a", ProductName: "Panel", Type: "Hardware", Price: 100}, flatRate)
	l.AddItem(CatalogItem{ProductID: "b", ProductName: "Labour", Price: 50}, RateFunc(func(string) float64 { return 0 }))
	l.SetDiscount(10)

	p := l.Payload(PayloadMeta{
		QuotationID: "QT-26-27-001",
		DateCreated: "2026-10-17",
		Customer:    Customer{Name: "Asha", Phone: "9876543210"},
		CreatedBy:   "owner",
	})

	if p.SubTotal != "250.00" || p.DiscountAmount != "25.00" || p.TotalGSTAmount != "36.00" || p.GrandTotal != "261.00" {
		t.Errorf("payload totals = %s/%s/%s/%s", p.SubTotal, p.DiscountAmount, p.TotalGSTAmount, p.GrandTotal)
	}
	if p.DiscountPercent != "10.00" {
		t.Errorf("DiscountPercent = %q, want 10.00", p.DiscountPercent)
	}
	if len(p.Items) != 2 || p.Items[0].Quantity != 2 || p.Items[0].Price != "100.00" || p.Items[0].GSTRate != "18.00" {
		t.Errorf("payload items = %+v", p.Items)
	}
	if p.QuotationID != "QT-26-27-001" || p.CreatedBy != "owner" || p.Customer.Name != "Asha" {
		t.Errorf("payload meta not carried over: %+v", p)
	}
}

func TestPayloadDecode_QuantityFormats(t *testing.T) {
	body := `{
		"quotationId": "QT-1",
		"items": [
			{"productId": "a", "productName": "A", "price": "10.00", "quantity": "2.00", "gstRate": "18.00"},
			{"productId": "b", "productName": "B", "price": "-5", "quantity": 3, "gstRate": "x"}
		],
		"discountPercent": "5.00",
		"subTotal": "999999.00"
	}`

	var p Payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	l := p.Ledger()
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	a, _ := l.Item("a")
	b, _ := l.Item("b")
	if a.Quantity != 2 || b.Quantity != 3 {
		t.Errorf("quantities = %d/%d, want 2/3", a.Quantity, b.Quantity)
	}
	if b.UnitPrice != 0 || b.GSTRatePercent != 0 {
		t.Errorf("coerced b = %v/%v, want 0/0", b.UnitPrice, b.GSTRatePercent)
	}
	if got := l.Totals().Subtotal; got != 20 {
		t.Errorf("Subtotal = %v, want 20 (recomputed, not taken from payload)", got)
	}
	if l.DiscountPercent() != 5 {
		t.Errorf("DiscountPercent() = %v, want 5", l.DiscountPercent())
	}
}

func TestParseMoney(t *testing.T) {
	if got := ParseMoney("261.00"); got != 261 {
		t.Errorf("ParseMoney(261.00) = %v", got)
	}
	if got := ParseMoney("oops"); got != 0 {
		t.Errorf("ParseMoney(oops) = %v, want 0", got)
	}
}
