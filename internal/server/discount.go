package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tajirhq/tajir/internal/calc/discount"
	"github.com/tajirhq/tajir/internal/format"
	"github.com/tajirhq/tajir/internal/locale"
)

type discountRequest struct {
	OriginalPrice       *decimal.Decimal `json:"original_price"`
	ProductCost         *decimal.Decimal `json:"product_cost"`
	DiscountPercentage  *decimal.Decimal `json:"discount_percentage"`
	CurrentMonthlySales *int64           `json:"current_monthly_sales"`

	Currency string `json:"currency,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

type comparisonRow struct {
	Multiplier       decimal.Decimal `json:"multiplier"`
	Units            decimal.Decimal `json:"units"`
	OriginalProfit   decimal.Decimal `json:"original_profit"`
	DiscountedProfit decimal.Decimal `json:"discounted_profit"`
	Difference       decimal.Decimal `json:"difference"`
	IsBreakEven      bool            `json:"is_break_even"`

	DisplayOriginalProfit   string `json:"display_original_profit"`
	DisplayDiscountedProfit string `json:"display_discounted_profit"`
	DisplayDifference       string `json:"display_difference"`
}

type discountResponse struct {
	DiscountedPrice     decimal.Decimal  `json:"discounted_price"`
	OriginalMarginPct   decimal.Decimal  `json:"original_margin_pct"`
	DiscountedMarginPct *decimal.Decimal `json:"discounted_margin_pct"`

	BreakEvenUnits         *decimal.Decimal `json:"break_even_units"`
	SalesIncreaseNeededPct *decimal.Decimal `json:"sales_increase_needed_pct"`

	IsViable       bool   `json:"is_viable"`
	Viability      string `json:"viability"`
	ViabilityLabel string `json:"viability_label"`
	WarningCode    string `json:"warning_code,omitempty"`
	WarningLabel   string `json:"warning_label,omitempty"`

	Comparison []comparisonRow `json:"comparison"`

	DisplayDiscountedPrice string `json:"display_discounted_price"`
	DisplayOriginalMargin  string `json:"display_original_margin"`
	DisplayNewMargin       string `json:"display_new_margin,omitempty"`
}

func (s *Server) SimulateDiscount(c *gin.Context) {
	var req discountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	res, err := discount.Simulate(discount.Input{
		OriginalPrice:       req.OriginalPrice,
		ProductCost:         req.ProductCost,
		DiscountPercentage:  req.DiscountPercentage,
		CurrentMonthlySales: req.CurrentMonthlySales,
	})
	if err != nil {
		s.recordCalcError(c, "discount", err)
		AbortWithError(c, err)
		return
	}

	loc := requestLocale(req.Locale)
	currency := requestCurrency(req.Currency)
	s.metrics.RecordCalculation(c.Request.Context(), "discount", string(loc))

	rows := make([]comparisonRow, 0, len(res.Comparison))
	for _, row := range res.Comparison {
		rows = append(rows, comparisonRow{
			Multiplier:       row.Multiplier,
			Units:            row.Units,
			OriginalProfit:   row.OriginalProfit,
			DiscountedProfit: row.DiscountedProfit,
			Difference:       row.Difference,
			IsBreakEven:      row.IsBreakEven,

			DisplayOriginalProfit:   format.Money(string(loc), row.OriginalProfit, currency),
			DisplayDiscountedProfit: format.Money(string(loc), row.DiscountedProfit, currency),
			DisplayDifference:       format.Money(string(loc), row.Difference, currency),
		})
	}

	resp := discountResponse{
		DiscountedPrice:     res.DiscountedPrice,
		OriginalMarginPct:   res.OriginalMarginPct,
		DiscountedMarginPct: res.DiscountedMarginPct,

		BreakEvenUnits:         res.BreakEvenUnits,
		SalesIncreaseNeededPct: res.SalesIncreaseNeededPct,

		IsViable:       res.IsViable,
		Viability:      string(res.Viability),
		ViabilityLabel: locale.Label(loc, "viability."+string(res.Viability)),
		WarningCode:    res.WarningCode,

		Comparison: rows,

		DisplayDiscountedPrice: format.Money(string(loc), res.DiscountedPrice, currency),
		DisplayOriginalMargin:  format.Percent(string(loc), res.OriginalMarginPct),
	}
	if res.WarningCode != "" {
		resp.WarningLabel = locale.Label(loc, "warning."+res.WarningCode)
	}
	if res.DiscountedMarginPct != nil {
		resp.DisplayNewMargin = format.Percent(string(loc), *res.DiscountedMarginPct)
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
