// Package storagefee implements the marketplace storage fee calculator.
//
// Monthly per-cubic-foot rates are seasonal, so the schedule is keyed by
// calendar month rather than being a flat number. Once inventory has been
// stored long enough it attracts a flat per-unit aged surcharge, and past
// the long-term threshold the larger long-term surcharge replaces (never
// stacks on) the aged one.
package storagefee

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tajirhq/tajir/internal/calc/money"
)

// Cubic inches per cubic foot. The exact constant is load-bearing:
// marketplace fees are quoted per cubic foot of 1728 in³.
const cubicInchesPerFoot = 1728

type SizeTier string

const (
	TierStandard SizeTier = "standard"
	TierOversize SizeTier = "oversize"
)

var (
	ErrMissingDimension = errors.New("missing_dimension")
	ErrInvalidDimension = errors.New("invalid_dimension")
	ErrMissingUnits     = errors.New("missing_units")
	ErrInvalidUnits     = errors.New("invalid_units")
	ErrMissingDuration  = errors.New("missing_duration")
	ErrInvalidDuration  = errors.New("invalid_duration")
	ErrInvalidSizeTier  = errors.New("invalid_size_tier")
)

// Schedule supplies the fee rates. Thresholds are the month index
// (1-based, cumulative) at which each surcharge starts applying,
// inclusive: inventory stored exactly threshold months pays the
// surcharge in that month.
type Schedule interface {
	MonthlyRate(tier SizeTier, month time.Month) (decimal.Decimal, error)
	AgedThresholdMonths() int
	LongTermThresholdMonths() int
	AgedSurchargePerUnit() decimal.Decimal
	LongTermSurchargePerUnit() decimal.Decimal
}

type Input struct {
	// Dimensions are in inches.
	Length *decimal.Decimal
	Width  *decimal.Decimal
	Height *decimal.Decimal

	Units                 *int64
	StorageDurationMonths *int
	SizeTier              SizeTier

	// StartMonth anchors the seasonal rate lookup. Zero means January.
	StartMonth time.Month
}

// MonthCost is one row of the month-by-month breakdown.
type MonthCost struct {
	Month         int
	CalendarMonth time.Month
	Fee           decimal.Decimal
	Surcharge     decimal.Decimal
	RunningTotal  decimal.Decimal
}

type Result struct {
	CubicFeet   decimal.Decimal
	SizeTier    SizeTier
	Months      []MonthCost
	TotalCost   decimal.Decimal
	CostPerUnit decimal.Decimal
}

type normalized struct {
	length, width, height decimal.Decimal
	units                 int64
	duration              int
	tier                  SizeTier
	startMonth            time.Month
}

func normalize(in Input) (normalized, error) {
	if in.Length == nil || in.Width == nil || in.Height == nil {
		return normalized{}, ErrMissingDimension
	}
	if in.Length.Sign() <= 0 || in.Width.Sign() <= 0 || in.Height.Sign() <= 0 {
		return normalized{}, ErrInvalidDimension
	}
	if in.Units == nil {
		return normalized{}, ErrMissingUnits
	}
	if *in.Units <= 0 {
		return normalized{}, ErrInvalidUnits
	}
	if in.StorageDurationMonths == nil {
		return normalized{}, ErrMissingDuration
	}
	if *in.StorageDurationMonths <= 0 {
		return normalized{}, ErrInvalidDuration
	}
	if in.SizeTier != TierStandard && in.SizeTier != TierOversize {
		return normalized{}, ErrInvalidSizeTier
	}
	start := in.StartMonth
	if start == 0 {
		start = time.January
	}
	return normalized{
		length:     *in.Length,
		width:      *in.Width,
		height:     *in.Height,
		units:      *in.Units,
		duration:   *in.StorageDurationMonths,
		tier:       in.SizeTier,
		startMonth: start,
	}, nil
}

// Calculate produces the full month-by-month fee breakdown plus totals.
func Calculate(in Input, schedule Schedule) (*Result, error) {
	n, err := normalize(in)
	if err != nil {
		return nil, err
	}

	units := decimal.NewFromInt(n.units)
	cubicFeet := n.length.Mul(n.width).Mul(n.height).
		Div(decimal.NewFromInt(cubicInchesPerFoot)).
		Mul(units)

	res := &Result{
		CubicFeet: cubicFeet,
		SizeTier:  n.tier,
		Months:    make([]MonthCost, 0, n.duration),
	}

	running := money.Zero
	for m := 1; m <= n.duration; m++ {
		calMonth := time.Month((int(n.startMonth)-1+m-1)%12 + 1)
		rate, err := schedule.MonthlyRate(n.tier, calMonth)
		if err != nil {
			return nil, err
		}
		fee := cubicFeet.Mul(rate)

		surcharge := money.Zero
		switch {
		case m >= schedule.LongTermThresholdMonths():
			surcharge = schedule.LongTermSurchargePerUnit().Mul(units)
		case m >= schedule.AgedThresholdMonths():
			surcharge = schedule.AgedSurchargePerUnit().Mul(units)
		}

		running = running.Add(fee).Add(surcharge)
		res.Months = append(res.Months, MonthCost{
			Month:         m,
			CalendarMonth: calMonth,
			Fee:           fee,
			Surcharge:     surcharge,
			RunningTotal:  running,
		})
	}

	res.TotalCost = running
	res.CostPerUnit = running.Div(units)
	return res, nil
}
