package pricing

import (
	"github.com/shopspring/decimal"
)

// Kind identifies a pricing rule variant.
type Kind string

const (
	// KindTax applies an unconditional percentage tax on the subtotal.
	KindTax Kind = "tax"
	// KindThresholdDiscount applies a percentage discount once the subtotal
	// reaches a threshold (inclusive).
	KindThresholdDiscount Kind = "threshold_discount"
	// KindBuyXGetY discounts Y free units for every X+Y units of one item.
	KindBuyXGetY Kind = "buy_x_get_y"
)

// Rule is one configured pricing rule. Applying a rule produces a single
// labeled adjustment; every rule is a pure function of its own immutable
// parameters and the order it is given. Kind selects which parameter fields
// are meaningful.
type Rule struct {
	Kind  Kind
	Label string

	// KindTax
	Rate decimal.Decimal

	// KindThresholdDiscount
	Threshold decimal.Decimal
	Percent   decimal.Decimal

	// KindBuyXGetY
	ItemID string
	X      int
	Y      int
}

// Apply computes the rule's adjustment for the order. Rules never see a
// running total: each one reads the order's original subtotal, so the
// configured rule order changes only how adjustments are displayed and
// summed, never their individual amounts.
func (r Rule) Apply(o Order) Adjustment {
	return r.apply(o, o.Subtotal())
}

// apply is the evaluation path: the subtotal is computed once per order by
// the rule set and handed to every rule.
func (r Rule) apply(o Order, subtotal decimal.Decimal) Adjustment {
	switch r.Kind {
	case KindTax:
		return Adjustment{Label: r.Label, Amount: Quantize(subtotal.Mul(r.Rate))}
	case KindThresholdDiscount:
		return r.applyThreshold(subtotal)
	case KindBuyXGetY:
		return r.applyBuyXGetY(o)
	default:
		// Unknown kinds are rejected at rule-set construction.
		return Adjustment{Label: r.Label, Amount: decimal.Zero}
	}
}

func (r Rule) applyThreshold(subtotal decimal.Decimal) Adjustment {
	// Inclusive boundary: a subtotal exactly at the threshold qualifies.
	if subtotal.GreaterThanOrEqual(r.Threshold) {
		return Adjustment{Label: r.Label, Amount: Quantize(subtotal.Mul(r.Percent)).Neg()}
	}
	return Adjustment{Label: r.Label, Amount: decimal.Zero}
}

func (r Rule) applyBuyXGetY(o Order) Adjustment {
	// Quantities are summed across every line carrying the item, so split
	// lines for the same item still earn the full discount. The unit price
	// comes from the first matching line.
	var (
		unitPrice decimal.Decimal
		totalQty  int
		found     bool
	)
	for _, l := range o.Lines {
		if l.ItemID != r.ItemID {
			continue
		}
		if !found {
			unitPrice = l.UnitPrice
			found = true
		}
		totalQty += l.Quantity
	}
	if !found {
		return Adjustment{Label: r.Label, Amount: decimal.Zero}
	}

	group := r.X + r.Y
	freeUnits := (totalQty / group) * r.Y
	if freeUnits == 0 {
		return Adjustment{Label: r.Label, Amount: decimal.Zero}
	}
	free := Quantize(unitPrice.Mul(decimal.NewFromInt(int64(freeUnits))))
	return Adjustment{Label: r.Label, Amount: free.Neg()}
}
