// Package duty implements the import duty / landed cost estimator.
//
// The calculation follows customs practice: duty is charged on the CIF
// value (cost + insurance + freight) and VAT is charged on CIF plus duty,
// never on CIF alone.
package duty

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tajirhq/tajir/internal/calc/money"
)

var (
	ErrMissingFOBValue = errors.New("missing_fob_value")
	ErrNegativeAmount  = errors.New("negative_amount")
	ErrMissingCountry  = errors.New("missing_country")
	ErrMissingCategory = errors.New("missing_category")
)

// RateNotFoundError is a programming/configuration error: an unknown
// (country, category) pair must fail loudly, a silent default rate is a
// financial-correctness bug.
type RateNotFoundError struct {
	Country  string
	Category string
}

func (e *RateNotFoundError) Error() string {
	if e.Category == "" {
		return fmt.Sprintf("rate not found: vat %s", e.Country)
	}
	return fmt.Sprintf("rate not found: duty %s/%s", e.Country, e.Category)
}

// RateSource resolves duty and VAT rates as fractions. Implementations
// must return *RateNotFoundError for unknown keys.
type RateSource interface {
	DutyRate(country, category string) (decimal.Decimal, error)
	VATRate(country string) (decimal.Decimal, error)
}

type Input struct {
	// FOBValue is required; shipping and insurance default to zero.
	FOBValue      *decimal.Decimal
	ShippingCost  *decimal.Decimal
	InsuranceCost *decimal.Decimal

	DestinationCountry string
	ProductCategory    string
}

type Result struct {
	CIF             decimal.Decimal
	DutyRate        decimal.Decimal
	Duty            decimal.Decimal
	VATRate         decimal.Decimal
	VATBase         decimal.Decimal
	VAT             decimal.Decimal
	TotalLandedCost decimal.Decimal
}

type normalized struct {
	fob       decimal.Decimal
	shipping  decimal.Decimal
	insurance decimal.Decimal
	country   string
	category  string
}

func normalize(in Input) (normalized, error) {
	if in.FOBValue == nil {
		return normalized{}, ErrMissingFOBValue
	}
	n := normalized{
		fob:      *in.FOBValue,
		country:  in.DestinationCountry,
		category: in.ProductCategory,
	}
	if in.ShippingCost != nil {
		n.shipping = *in.ShippingCost
	}
	if in.InsuranceCost != nil {
		n.insurance = *in.InsuranceCost
	}
	if money.IsNegative(n.fob) || money.IsNegative(n.shipping) || money.IsNegative(n.insurance) {
		return normalized{}, ErrNegativeAmount
	}
	if n.country == "" {
		return normalized{}, ErrMissingCountry
	}
	if n.category == "" {
		return normalized{}, ErrMissingCategory
	}
	return n, nil
}

// Estimate computes the landed cost breakdown. Every intermediate is
// exposed on the result so callers can render the full breakdown.
func Estimate(in Input, rates RateSource) (*Result, error) {
	n, err := normalize(in)
	if err != nil {
		return nil, err
	}

	dutyRate, err := rates.DutyRate(n.country, n.category)
	if err != nil {
		return nil, err
	}
	vatRate, err := rates.VATRate(n.country)
	if err != nil {
		return nil, err
	}

	cif := n.fob.Add(n.shipping).Add(n.insurance)
	dutyAmount := cif.Mul(dutyRate)
	vatBase := cif.Add(dutyAmount)
	vatAmount := vatBase.Mul(vatRate)

	return &Result{
		CIF:             cif,
		DutyRate:        dutyRate,
		Duty:            dutyAmount,
		VATRate:         vatRate,
		VATBase:         vatBase,
		VAT:             vatAmount,
		TotalLandedCost: cif.Add(dutyAmount).Add(vatAmount),
	}, nil
}
