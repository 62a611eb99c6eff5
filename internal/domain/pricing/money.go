package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidAmountError indicates an input string could not be parsed as an
// exact decimal number. Malformed amounts are hard failures, never silently
// coerced to zero.
type InvalidAmountError struct {
	Input string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %q", e.Input)
}

// Quantize rounds a monetary value to 2 fractional digits using round-half-up
// (0.005 rounds to 0.01, not banker's rounding). It is idempotent: quantizing
// an already-quantized value is a no-op. Every derived monetary value in the
// engine passes through Quantize exactly once at the point of creation.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseAmount parses a monetary value from its decimal string form. The value
// travels the exact-decimal path end to end; it never transits a binary float,
// so inputs like "0.10" keep their exact value prior to quantization.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &InvalidAmountError{Input: s}
	}
	return d, nil
}
