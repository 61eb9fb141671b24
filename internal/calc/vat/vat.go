// Package vat implements the add/extract VAT calculator.
package vat

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/tajirhq/tajir/internal/calc/money"
)

// Mode selects the direction of the calculation.
type Mode string

const (
	// ModeAdd treats the amount as a tax-free base.
	ModeAdd Mode = "add"
	// ModeExtract treats the amount as a tax-inclusive total.
	ModeExtract Mode = "extract"
)

var (
	ErrMissingAmount  = errors.New("missing_amount")
	ErrNegativeAmount = errors.New("negative_amount")
	ErrInvalidMode    = errors.New("invalid_mode")
	ErrInvalidRate    = errors.New("invalid_rate")
)

type Input struct {
	// Amount is required. Absence means "no result", not a zero result.
	Amount *decimal.Decimal
	Mode   Mode
	// Rate is the jurisdiction's VAT rate as a fraction (0.15 for 15%).
	Rate decimal.Decimal
}

type Result struct {
	Mode  Mode
	Rate  decimal.Decimal
	Base  decimal.Decimal
	VAT   decimal.Decimal
	Total decimal.Decimal
}

type normalized struct {
	amount decimal.Decimal
	mode   Mode
	rate   decimal.Decimal
}

func normalize(in Input) (normalized, error) {
	if in.Amount == nil {
		return normalized{}, ErrMissingAmount
	}
	if money.IsNegative(*in.Amount) {
		return normalized{}, ErrNegativeAmount
	}
	if in.Mode != ModeAdd && in.Mode != ModeExtract {
		return normalized{}, ErrInvalidMode
	}
	if in.Rate.Sign() <= 0 {
		return normalized{}, ErrInvalidRate
	}
	return normalized{amount: *in.Amount, mode: in.Mode, rate: in.Rate}, nil
}

// Calculate runs the VAT calculation. Results stay unrounded so chained
// calculations do not compound rounding error.
func Calculate(in Input) (*Result, error) {
	n, err := normalize(in)
	if err != nil {
		return nil, err
	}

	res := &Result{Mode: n.mode, Rate: n.rate}
	switch n.mode {
	case ModeAdd:
		res.Base = n.amount
		res.VAT = n.amount.Mul(n.rate)
		res.Total = res.Base.Add(res.VAT)
	case ModeExtract:
		res.Total = n.amount
		res.Base = n.amount.Div(decimal.NewFromInt(1).Add(n.rate))
		res.VAT = res.Total.Sub(res.Base)
	}
	return res, nil
}
