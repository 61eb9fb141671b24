package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tajirhq/tajir/internal/calc/storagefee"
	"github.com/tajirhq/tajir/internal/format"
	"github.com/tajirhq/tajir/internal/locale"
)

type storageFeeRequest struct {
	// Dimensions are in inches.
	Length *decimal.Decimal `json:"length"`
	Width  *decimal.Decimal `json:"width"`
	Height *decimal.Decimal `json:"height"`

	Units                 *int64 `json:"units"`
	StorageDurationMonths *int   `json:"storage_duration_months"`
	SizeTier              string `json:"size_tier"`
	StartMonth            int    `json:"start_month,omitempty"`

	Currency string `json:"currency,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

type storageMonthRow struct {
	Month         int             `json:"month"`
	CalendarMonth string          `json:"calendar_month"`
	Fee           decimal.Decimal `json:"fee"`
	Surcharge     decimal.Decimal `json:"surcharge"`
	RunningTotal  decimal.Decimal `json:"running_total"`
	DisplayFee    string          `json:"display_fee"`
	DisplayTotal  string          `json:"display_total"`
}

type storageFeeResponse struct {
	CubicFeet        decimal.Decimal   `json:"cubic_feet"`
	SizeTier         string            `json:"size_tier"`
	SizeTierLabel    string            `json:"size_tier_label"`
	Months           []storageMonthRow `json:"months"`
	TotalCost        decimal.Decimal   `json:"total_cost"`
	CostPerUnit      decimal.Decimal   `json:"cost_per_unit"`
	DisplayTotalCost string            `json:"display_total_cost"`
	DisplayPerUnit   string            `json:"display_cost_per_unit"`
}

func (s *Server) CalculateStorageFee(c *gin.Context) {
	var req storageFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	res, err := storagefee.Calculate(storagefee.Input{
		Length:                req.Length,
		Width:                 req.Width,
		Height:                req.Height,
		Units:                 req.Units,
		StorageDurationMonths: req.StorageDurationMonths,
		SizeTier:              storagefee.SizeTier(strings.ToLower(strings.TrimSpace(req.SizeTier))),
		StartMonth:            time.Month(req.StartMonth),
	}, s.schedule.Storage())
	if err != nil {
		s.recordCalcError(c, "storage_fee", err)
		AbortWithError(c, err)
		return
	}

	loc := requestLocale(req.Locale)
	currency := requestCurrency(req.Currency)
	s.metrics.RecordCalculation(c.Request.Context(), "storage_fee", string(loc))

	months := make([]storageMonthRow, 0, len(res.Months))
	for _, m := range res.Months {
		months = append(months, storageMonthRow{
			Month:         m.Month,
			CalendarMonth: m.CalendarMonth.String(),
			Fee:           m.Fee,
			Surcharge:     m.Surcharge,
			RunningTotal:  m.RunningTotal,
			DisplayFee:    format.Money(string(loc), m.Fee.Add(m.Surcharge), currency),
			DisplayTotal:  format.Money(string(loc), m.RunningTotal, currency),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": storageFeeResponse{
		CubicFeet:        res.CubicFeet,
		SizeTier:         string(res.SizeTier),
		SizeTierLabel:    locale.Label(loc, "size_tier."+string(res.SizeTier)),
		Months:           months,
		TotalCost:        res.TotalCost,
		CostPerUnit:      res.CostPerUnit,
		DisplayTotalCost: format.Money(string(loc), res.TotalCost, currency),
		DisplayPerUnit:   format.Money(string(loc), res.CostPerUnit, currency),
	}})
}
