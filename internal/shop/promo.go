package shop

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PromoKind distinguishes percentage from fixed-amount rules.
type PromoKind string

const (
	PromoPercent PromoKind = "percent"
	PromoFixed   PromoKind = "fixed"
)

// PromoRule is the discount a promo code grants.
type PromoRule struct {
	Kind   PromoKind
	Rate   decimal.Decimal // fraction of the subtotal, for percent rules
	Amount int64           // flat discount, for fixed rules
}

// Percent builds a rule granting pct percent of the subtotal.
func Percent(pct int64) PromoRule {
	return PromoRule{Kind: PromoPercent, Rate: decimal.New(pct, -2)}
}

// Fixed builds a rule granting a flat amount off.
func Fixed(amount int64) PromoRule {
	return PromoRule{Kind: PromoFixed, Amount: amount}
}

// Discount computes the discount for subtotal. The result is never negative
// and never exceeds the subtotal.
func (r PromoRule) Discount(subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}
	var d int64
	switch r.Kind {
	case PromoPercent:
		d = decimal.NewFromInt(subtotal).Mul(r.Rate).Round(0).IntPart()
	case PromoFixed:
		d = r.Amount
	}
	if d < 0 {
		return 0
	}
	if d > subtotal {
		return subtotal
	}
	return d
}

// PromoTable maps normalized codes to rules.
type PromoTable map[string]PromoRule

// DefaultPromoTable returns the codes the store ships with.
func DefaultPromoTable() PromoTable {
	return PromoTable{
		"SAVE10":   Percent(10),
		"FLOWER20": Percent(20),
	}
}

// NormalizeCode trims and upper-cases a code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup finds the rule for code, ignoring case and surrounding space.
func (t PromoTable) Lookup(code string) (PromoRule, bool) {
	r, ok := t[NormalizeCode(code)]
	return r, ok
}

// PromoResult reports the outcome of applying a code. An unrecognized code
// yields a zero discount with Recognized set to false.
type PromoResult struct {
	Code       string `json:"code"`
	Recognized bool   `json:"recognized"`
	Discount   int64  `json:"discount"`
}
