// Package discount implements the discount impact simulator.
//
// Infeasibility is business information, not a fault: a discount that
// drives the margin negative comes back as a flagged result, never as an
// error.
package discount

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/tajirhq/tajir/internal/calc/money"
)

var (
	ErrMissingOriginalPrice = errors.New("missing_original_price")
	ErrInvalidOriginalPrice = errors.New("invalid_original_price")
	ErrMissingProductCost   = errors.New("missing_product_cost")
	ErrInvalidProductCost   = errors.New("invalid_product_cost")
	ErrMissingDiscount      = errors.New("missing_discount_percentage")
	ErrInvalidDiscount      = errors.New("invalid_discount_percentage")
	ErrMissingMonthlySales  = errors.New("missing_monthly_sales")
	ErrInvalidMonthlySales  = errors.New("invalid_monthly_sales")
)

// Viability classifies the impact of the discount on margin.
type Viability string

const (
	// ViabilityOK means the margin is unchanged.
	ViabilityOK Viability = "ok"
	// ViabilityCaution means the margin shrinks but stays positive.
	ViabilityCaution Viability = "caution"
	// ViabilityWarning means the margin is negative and no break-even
	// volume exists.
	ViabilityWarning Viability = "warning"
)

// Warning codes are machine-stable; localized messages are looked up at
// the display edge.
const (
	WarningNone           = ""
	WarningMarginReduced  = "margin_reduced"
	WarningMarginNegative = "margin_negative"
)

type Input struct {
	OriginalPrice       *decimal.Decimal
	ProductCost         *decimal.Decimal
	DiscountPercentage  *decimal.Decimal // 0-100
	CurrentMonthlySales *int64
}

// ComparisonRow is one row of the profit comparison table.
type ComparisonRow struct {
	Multiplier       decimal.Decimal
	Units            decimal.Decimal
	OriginalProfit   decimal.Decimal
	DiscountedProfit decimal.Decimal
	Difference       decimal.Decimal
	IsBreakEven      bool
}

type Result struct {
	DiscountedPrice     decimal.Decimal
	OriginalMarginPct   decimal.Decimal
	DiscountedMarginPct *decimal.Decimal // nil when discounted price is zero

	// BreakEvenUnits and SalesIncreaseNeededPct are nil when no
	// break-even volume exists.
	BreakEvenUnits         *decimal.Decimal
	SalesIncreaseNeededPct *decimal.Decimal

	IsViable    bool
	Viability   Viability
	WarningCode string

	Comparison []ComparisonRow
}

// comparisonMultipliers are the hypothetical sales volumes simulated in
// the profit table, as multiples of current monthly sales.
var comparisonMultipliers = []decimal.Decimal{
	decimal.NewFromFloat(0.5),
	decimal.NewFromInt(1),
	decimal.NewFromFloat(1.5),
	decimal.NewFromInt(2),
}

type normalized struct {
	price    decimal.Decimal
	cost     decimal.Decimal
	discount decimal.Decimal
	sales    decimal.Decimal
}

func normalize(in Input) (normalized, error) {
	if in.OriginalPrice == nil {
		return normalized{}, ErrMissingOriginalPrice
	}
	if in.OriginalPrice.Sign() <= 0 {
		return normalized{}, ErrInvalidOriginalPrice
	}
	if in.ProductCost == nil {
		return normalized{}, ErrMissingProductCost
	}
	if money.IsNegative(*in.ProductCost) {
		return normalized{}, ErrInvalidProductCost
	}
	if in.DiscountPercentage == nil {
		return normalized{}, ErrMissingDiscount
	}
	if money.IsNegative(*in.DiscountPercentage) || in.DiscountPercentage.GreaterThan(money.Hundred) {
		return normalized{}, ErrInvalidDiscount
	}
	if in.CurrentMonthlySales == nil {
		return normalized{}, ErrMissingMonthlySales
	}
	if *in.CurrentMonthlySales <= 0 {
		return normalized{}, ErrInvalidMonthlySales
	}
	return normalized{
		price:    *in.OriginalPrice,
		cost:     *in.ProductCost,
		discount: *in.DiscountPercentage,
		sales:    decimal.NewFromInt(*in.CurrentMonthlySales),
	}, nil
}

// Simulate computes margins, break-even volume and the profit comparison
// table for the proposed discount.
func Simulate(in Input) (*Result, error) {
	n, err := normalize(in)
	if err != nil {
		return nil, err
	}

	one := decimal.NewFromInt(1)
	discountedPrice := n.price.Mul(one.Sub(money.Percent(n.discount)))

	originalUnitProfit := n.price.Sub(n.cost)
	discountedUnitProfit := discountedPrice.Sub(n.cost)

	res := &Result{
		DiscountedPrice:   discountedPrice,
		OriginalMarginPct: money.FromFraction(originalUnitProfit.Div(n.price)),
	}

	if discountedPrice.Sign() > 0 {
		marginPct := money.FromFraction(discountedUnitProfit.Div(discountedPrice))
		res.DiscountedMarginPct = &marginPct
	}

	switch {
	case discountedUnitProfit.Sign() <= 0:
		// No volume recovers the lost profit: break-even is undefined.
		res.IsViable = false
		res.Viability = ViabilityWarning
		res.WarningCode = WarningMarginNegative
	case n.discount.Sign() == 0:
		res.IsViable = true
		res.Viability = ViabilityOK
		res.WarningCode = WarningNone
	default:
		res.IsViable = true
		res.Viability = ViabilityCaution
		res.WarningCode = WarningMarginReduced
	}

	currentProfit := n.sales.Mul(originalUnitProfit)

	var breakEven decimal.Decimal
	if discountedUnitProfit.Sign() > 0 {
		breakEven = currentProfit.Div(discountedUnitProfit)
		res.BreakEvenUnits = &breakEven

		increase := money.FromFraction(breakEven.Sub(n.sales).Div(n.sales))
		res.SalesIncreaseNeededPct = &increase
	}

	for _, mult := range comparisonMultipliers {
		units := n.sales.Mul(mult)
		res.Comparison = append(res.Comparison, comparisonRow(units, mult, originalUnitProfit, discountedUnitProfit, false))
	}
	if res.BreakEvenUnits != nil {
		res.Comparison = append(res.Comparison, comparisonRow(breakEven, breakEven.Div(n.sales), originalUnitProfit, discountedUnitProfit, true))
	}

	return res, nil
}

func comparisonRow(units, mult, originalUnitProfit, discountedUnitProfit decimal.Decimal, breakEven bool) ComparisonRow {
	original := units.Mul(originalUnitProfit)
	discounted := units.Mul(discountedUnitProfit)
	return ComparisonRow{
		Multiplier:       mult,
		Units:            units,
		OriginalProfit:   original,
		DiscountedProfit: discounted,
		Difference:       discounted.Sub(original),
		IsBreakEven:      breakEven,
	}
}
