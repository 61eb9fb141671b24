// Package money holds the shared numeric conventions of the calculator
// layer. All intermediate arithmetic stays on decimal.Decimal at full
// precision; rounding to two places happens only at the response edge,
// outside this layer.
package money

import "github.com/shopspring/decimal"

var (
	Zero    = decimal.Zero
	Hundred = decimal.NewFromInt(100)
)

// Percent converts a 0-100 percentage into a fraction.
func Percent(d decimal.Decimal) decimal.Decimal {
	return d.Div(Hundred)
}

// FromFraction converts a fraction into a 0-100 percentage.
func FromFraction(d decimal.Decimal) decimal.Decimal {
	return d.Mul(Hundred)
}

// IsNegative reports whether the amount is below zero.
func IsNegative(d decimal.Decimal) bool {
	return d.Sign() < 0
}
