package pricing

import (
	"github.com/shopspring/decimal"
)

// Line is a single order line as seen by the pricing engine: a stable item
// identifier, a quantized unit price, and a non-negative quantity. The engine
// assumes non-negative inputs; validation belongs to the caller.
type Line struct {
	ItemID    string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Total returns unit price times quantity, quantized.
func (l Line) Total() decimal.Decimal {
	return Quantize(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// Order is the read-only view of an order the engine prices: an ordered
// sequence of lines. The engine never mutates it.
type Order struct {
	Lines []Line
}

// Subtotal returns the quantized sum of all line totals.
func (o Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range o.Lines {
		sum = sum.Add(l.Total())
	}
	return Quantize(sum)
}

// Adjustment is one labeled, signed monetary delta applied to the subtotal.
// Discounts are negative, taxes and fees positive, and a rule that does not
// apply yields zero. The label is display text owned by the rule's
// configuration, not derived from order data.
type Adjustment struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}
