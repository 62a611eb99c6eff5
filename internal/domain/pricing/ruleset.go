package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ConfigError reports a malformed rule descriptor. It is raised when the rule
// set is built, before any order is priced, so bad configuration fails fast
// at startup instead of on the first request.
type ConfigError struct {
	Index  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pricing rule %d: %s", e.Index, e.Reason)
}

// RuleConfig describes one pricing rule in static configuration. Numeric
// parameters are decimal strings so a value like "0.10" reaches the engine
// exactly, without binary-float representation error. Only the fields for
// the named kind are consulted.
type RuleConfig struct {
	Kind  string `json:"kind" yaml:"kind"`
	Label string `json:"label" yaml:"label"`

	Rate      string `json:"rate" yaml:"rate"`
	Threshold string `json:"threshold" yaml:"threshold"`
	Percent   string `json:"percent" yaml:"percent"`
	ItemID    string `json:"item_id" yaml:"item_id"`
	X         int    `json:"x" yaml:"x"`
	Y         int    `json:"y" yaml:"y"`
}

// RuleSet is an immutable, ordered sequence of pricing rules. Rules execute
// exactly in configured order.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds a rule set from configuration descriptors, validating
// every descriptor up front. The first malformed descriptor aborts the build
// with a ConfigError naming its position.
func NewRuleSet(configs []RuleConfig) (RuleSet, error) {
	rules := make([]Rule, 0, len(configs))
	for i, rc := range configs {
		r, err := buildRule(rc)
		if err != nil {
			return RuleSet{}, &ConfigError{Index: i, Reason: err.Error()}
		}
		rules = append(rules, r)
	}
	return RuleSet{rules: rules}, nil
}

// Len returns the number of configured rules.
func (rs RuleSet) Len() int {
	return len(rs.rules)
}

// Evaluate runs every rule against the order and returns the adjustments in
// rule order along with the grand total. The subtotal is computed once and
// shared by all rules; the total is re-quantized after each addition so
// rounding error never compounds across adjustments. Evaluate is pure and
// safe to call concurrently for distinct orders.
func (rs RuleSet) Evaluate(o Order) ([]Adjustment, decimal.Decimal) {
	subtotal := o.Subtotal()

	adjustments := make([]Adjustment, len(rs.rules))
	for i, r := range rs.rules {
		adjustments[i] = r.apply(o, subtotal)
	}

	total := subtotal
	for _, adj := range adjustments {
		total = Quantize(total.Add(adj.Amount))
	}
	return adjustments, total
}

func buildRule(rc RuleConfig) (Rule, error) {
	switch Kind(rc.Kind) {
	case KindTax:
		rate, err := ParseAmount(rc.Rate)
		if err != nil {
			return Rule{}, fmt.Errorf("rate: %w", err)
		}
		if rate.IsNegative() {
			return Rule{}, fmt.Errorf("rate must not be negative, got %s", rate)
		}
		return Rule{Kind: KindTax, Label: rc.Label, Rate: rate}, nil

	case KindThresholdDiscount:
		threshold, err := ParseAmount(rc.Threshold)
		if err != nil {
			return Rule{}, fmt.Errorf("threshold: %w", err)
		}
		percent, err := ParseAmount(rc.Percent)
		if err != nil {
			return Rule{}, fmt.Errorf("percent: %w", err)
		}
		if threshold.IsNegative() || percent.IsNegative() {
			return Rule{}, fmt.Errorf("threshold and percent must not be negative")
		}
		return Rule{
			Kind:  KindThresholdDiscount,
			Label: rc.Label,
			// The threshold is compared against a quantized subtotal, so it
			// is quantized once here.
			Threshold: Quantize(threshold),
			Percent:   percent,
		}, nil

	case KindBuyXGetY:
		if rc.ItemID == "" {
			return Rule{}, fmt.Errorf("item_id is required")
		}
		if rc.X < 1 || rc.Y < 1 {
			return Rule{}, fmt.Errorf("x and y must be positive, got x=%d y=%d", rc.X, rc.Y)
		}
		return Rule{Kind: KindBuyXGetY, Label: rc.Label, ItemID: rc.ItemID, X: rc.X, Y: rc.Y}, nil

	default:
		return Rule{}, fmt.Errorf("unknown rule kind %q", rc.Kind)
	}
}
