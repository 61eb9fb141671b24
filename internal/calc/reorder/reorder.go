// Package reorder implements the safety stock / reorder point calculator.
package reorder

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tajirhq/tajir/internal/calc/money"
)

var (
	ErrMissingDailySales = errors.New("missing_daily_sales")
	ErrInvalidDailySales = errors.New("invalid_daily_sales")
	ErrMissingLeadTime   = errors.New("missing_lead_time")
	ErrInvalidLeadTime   = errors.New("invalid_lead_time")
	ErrMissingSafetyDays = errors.New("missing_safety_days")
	ErrInvalidSafetyDays = errors.New("invalid_safety_days")
	ErrInvalidStock      = errors.New("invalid_current_stock")
)

// Urgency is the three-way stock classification. The deciding comparison
// for critical is days-until-stockout against the replenishment lead
// time, not against the reorder point.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyWarning  Urgency = "warning"
	UrgencyCritical Urgency = "critical"
)

type Input struct {
	AverageDailySales *decimal.Decimal
	LeadTimeDays      *int
	SafetyDays        *int

	// CurrentStock is optional; without it only safety stock and the
	// reorder point are produced.
	CurrentStock *decimal.Decimal
}

type Result struct {
	SafetyStock  decimal.Decimal
	ReorderPoint decimal.Decimal

	// Stock projection fields are nil when CurrentStock was not given.
	DaysUntilStockout        *decimal.Decimal // nil also when daily sales is zero
	ProjectedStockoutDate    *time.Time
	NeedsReorder             *bool
	Urgency                  Urgency
	RecommendedOrderQuantity *decimal.Decimal
}

type normalized struct {
	dailySales decimal.Decimal
	leadTime   int
	safetyDays int
	stock      *decimal.Decimal
}

func normalize(in Input) (normalized, error) {
	if in.AverageDailySales == nil {
		return normalized{}, ErrMissingDailySales
	}
	if money.IsNegative(*in.AverageDailySales) {
		return normalized{}, ErrInvalidDailySales
	}
	if in.LeadTimeDays == nil {
		return normalized{}, ErrMissingLeadTime
	}
	if *in.LeadTimeDays <= 0 {
		return normalized{}, ErrInvalidLeadTime
	}
	if in.SafetyDays == nil {
		return normalized{}, ErrMissingSafetyDays
	}
	if *in.SafetyDays < 0 {
		return normalized{}, ErrInvalidSafetyDays
	}
	if in.CurrentStock != nil && money.IsNegative(*in.CurrentStock) {
		return normalized{}, ErrInvalidStock
	}
	return normalized{
		dailySales: *in.AverageDailySales,
		leadTime:   *in.LeadTimeDays,
		safetyDays: *in.SafetyDays,
		stock:      in.CurrentStock,
	}, nil
}

// Calculate derives safety stock, reorder point and, when current stock
// is known, the stockout projection and urgency. now anchors the
// projected stockout date.
func Calculate(in Input, now time.Time) (*Result, error) {
	n, err := normalize(in)
	if err != nil {
		return nil, err
	}

	leadTime := decimal.NewFromInt(int64(n.leadTime))
	safetyStock := n.dailySales.Mul(decimal.NewFromInt(int64(n.safetyDays)))
	reorderPoint := n.dailySales.Mul(leadTime).Add(safetyStock)

	res := &Result{
		SafetyStock:  safetyStock,
		ReorderPoint: reorderPoint,
		Urgency:      UrgencyNormal,
	}
	if n.stock == nil {
		return res, nil
	}

	stock := *n.stock

	// Inclusive boundary: stock exactly at the reorder point needs a
	// reorder.
	needsReorder := !stock.GreaterThan(reorderPoint)
	res.NeedsReorder = &needsReorder

	recommended := reorderPoint.Add(safetyStock).Sub(stock)
	if recommended.Sign() < 0 {
		recommended = money.Zero
	}
	res.RecommendedOrderQuantity = &recommended

	if n.dailySales.Sign() == 0 {
		// Nothing sells: no stockout projection, stock level alone
		// decides urgency.
		if needsReorder {
			res.Urgency = UrgencyWarning
		}
		return res, nil
	}

	days := stock.Div(n.dailySales)
	res.DaysUntilStockout = &days

	stockoutAt := now.Add(time.Duration(days.InexactFloat64() * float64(24*time.Hour)))
	res.ProjectedStockoutDate = &stockoutAt

	switch {
	case days.LessThan(leadTime):
		// Stock runs out before a replenishment order could arrive.
		res.Urgency = UrgencyCritical
	case needsReorder:
		res.Urgency = UrgencyWarning
	default:
		res.Urgency = UrgencyNormal
	}
	return res, nil
}
