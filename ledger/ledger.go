// Package ledger holds the line items of a quotation in progress and keeps its
// aggregate totals consistent with item-level edits.
package ledger

// Mode tells the ledger whether an edit happens while a new quotation is being
// created or while an existing one is being edited.
type Mode int

const (
	ModeCreating Mode = iota
	ModeEditing
)

// String returns the name stored alongside staged overrides.
func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "creating"
}

// ParseMode maps "editing" to ModeEditing and anything else to ModeCreating.
func ParseMode(s string) Mode {
	if s == "editing" {
		return ModeEditing
	}
	return ModeCreating
}

// CatalogItem is the subset of a catalog product the ledger copies at add-time.
type CatalogItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Type        string  `json:"type"`
	Price       float64 `json:"price"`
}

// RateResolver resolves the GST rate for a product name.
type RateResolver interface {
	ResolveGST(productName string) float64
}

// RateFunc adapts a plain function to RateResolver.
type RateFunc func(productName string) float64

func (f RateFunc) ResolveGST(productName string) float64 { return f(productName) }

// LineItem is one product entry of a quotation.
//
// CatalogPrice and CatalogGSTRate are the values resolved when the item was
// added; UnitPrice and GSTRatePercent are the ledger's own editable copies.
type LineItem struct {
	ProductID      string  `json:"productId"`
	ProductName    string  `json:"productName"`
	Type           string  `json:"type"`
	UnitPrice      float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	GSTRatePercent float64 `json:"gstRate"`
	CatalogPrice   float64 `json:"catalogPrice"`
	CatalogGSTRate float64 `json:"catalogGstRate"`
}

// LineTotal is unit price times quantity.
func (li LineItem) LineTotal() float64 {
	return li.UnitPrice * float64(li.Quantity)
}

// LineGSTAmount is the GST on the undiscounted line total.
func (li LineItem) LineGSTAmount() float64 {
	return li.LineTotal() * li.GSTRatePercent / 100
}

// Ledger is the ordered set of line items of one quotation plus its discount.
// It is owned by a single draft session and is not safe for concurrent use.
type Ledger struct {
	items           []LineItem
	discountPercent float64
	editedBy        map[string]Mode
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{editedBy: make(map[string]Mode)}
}

// Restore rebuilds a ledger from persisted items, e.g. to edit a saved
// quotation. Items with a non-positive quantity are dropped and duplicate
// product ids are merged by summing quantities.
func Restore(items []LineItem, discountPercent float64) *Ledger {
	l := New()
	for _, it := range items {
		if it.Quantity <= 0 || it.ProductID == "" {
			continue
		}
		if it.UnitPrice < 0 {
			it.UnitPrice = 0
		}
		if it.GSTRatePercent < 0 {
			it.GSTRatePercent = 0
		}
		if i := l.index(it.ProductID); i >= 0 {
			l.items[i].Quantity += it.Quantity
			continue
		}
		l.items = append(l.items, it)
	}
	l.SetDiscount(discountPercent)
	return l
}

func (l *Ledger) index(productID string) int {
	for i := range l.items {
		if l.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Items returns a copy of the items in insertion order.
func (l *Ledger) Items() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Item returns the item with the given product id.
func (l *Ledger) Item(productID string) (LineItem, bool) {
	if i := l.index(productID); i >= 0 {
		return l.items[i], true
	}
	return LineItem{}, false
}

// Len returns the number of distinct products in the ledger.
func (l *Ledger) Len() int { return len(l.items) }

// DiscountPercent returns the discount applied to the pre-GST subtotal.
func (l *Ledger) DiscountPercent() float64 { return l.discountPercent }

// AddItem increments the quantity of an existing product, or appends the
// catalog item with quantity 1 and the GST rate resolved from its name.
func (l *Ledger) AddItem(item CatalogItem, rates RateResolver) LineItem {
	if i := l.index(item.ProductID); i >= 0 {
		l.items[i].Quantity++
		return l.items[i]
	}

	price := item.Price
	if price < 0 {
		price = 0
	}
	var rate float64
	if rates != nil {
		rate = rates.ResolveGST(item.ProductName)
	}
	if rate < 0 {
		rate = 0
	}

	li := LineItem{
		ProductID:      item.ProductID,
		ProductName:    item.ProductName,
		Type:           item.Type,
		UnitPrice:      price,
		Quantity:       1,
		GSTRatePercent: rate,
		CatalogPrice:   price,
		CatalogGSTRate: rate,
	}
	l.items = append(l.items, li)
	return li
}

// RemoveItem deletes the matching item. Unknown ids are ignored.
func (l *Ledger) RemoveItem(productID string) {
	i := l.index(productID)
	if i < 0 {
		return
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	delete(l.editedBy, productID)
}

// SetQuantity stores the coerced quantity. A quantity that coerces to zero or
// less removes the item instead; the return value reports that removal.
func (l *Ledger) SetQuantity(productID string, raw any) (removed bool) {
	i := l.index(productID)
	if i < 0 {
		return false
	}
	qty := CoerceQuantity(raw)
	if qty <= 0 {
		l.RemoveItem(productID)
		return true
	}
	l.items[i].Quantity = qty
	return false
}

// SetUnitPrice stores the coerced price. The edit is kept in both modes; the
// mode is remembered so the override can be staged with its origin.
func (l *Ledger) SetUnitPrice(productID string, raw any, mode Mode) {
	i := l.index(productID)
	if i < 0 {
		return
	}
	l.items[i].UnitPrice = CoercePrice(raw)
	l.editedBy[productID] = mode
}

// SetGSTRate stores the coerced GST rate.
func (l *Ledger) SetGSTRate(productID string, raw any, mode Mode) {
	i := l.index(productID)
	if i < 0 {
		return
	}
	l.items[i].GSTRatePercent = CoerceRate(raw)
	l.editedBy[productID] = mode
}

// SetDiscount stores the coerced discount percent.
func (l *Ledger) SetDiscount(raw any) {
	l.discountPercent = CoerceRate(raw)
}

// Totals recomputes the aggregate totals for the current items and discount.
func (l *Ledger) Totals() Totals {
	return RecomputeTotals(l.items, l.discountPercent)
}

// Override is an item whose price or GST rate diverges from the catalog
// values resolved at add-time.
type Override struct {
	ProductID      string
	CatalogPrice   float64
	CatalogGSTRate float64
	Price          float64
	GSTRate        float64
	Origin         Mode
}

// Overrides lists the diverging items in insertion order. Items whose value
// was edited back to the catalog value are not reported.
func (l *Ledger) Overrides() []Override {
	var out []Override
	for _, it := range l.items {
		if it.UnitPrice == it.CatalogPrice && it.GSTRatePercent == it.CatalogGSTRate {
			continue
		}
		out = append(out, Override{
			ProductID:      it.ProductID,
			CatalogPrice:   it.CatalogPrice,
			CatalogGSTRate: it.CatalogGSTRate,
			Price:          it.UnitPrice,
			GSTRate:        it.GSTRatePercent,
			Origin:         l.editedBy[it.ProductID],
		})
	}
	return out
}
