package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tajirhq/tajir/internal/calc/reorder"
	"github.com/tajirhq/tajir/internal/format"
	"github.com/tajirhq/tajir/internal/locale"
)

type reorderRequest struct {
	AverageDailySales *decimal.Decimal `json:"average_daily_sales"`
	LeadTimeDays      *int             `json:"lead_time_days"`
	SafetyDays        *int             `json:"safety_days"`
	CurrentStock      *decimal.Decimal `json:"current_stock,omitempty"`

	Locale string `json:"locale,omitempty"`
}

type reorderResponse struct {
	SafetyStock  decimal.Decimal `json:"safety_stock"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`

	DaysUntilStockout        *decimal.Decimal `json:"days_until_stockout"`
	ProjectedStockoutDate    *string          `json:"projected_stockout_date"`
	NeedsReorder             *bool            `json:"needs_reorder"`
	Urgency                  string           `json:"urgency"`
	UrgencyLabel             string           `json:"urgency_label"`
	RecommendedOrderQuantity *decimal.Decimal `json:"recommended_order_quantity"`

	DisplayStockoutDate string `json:"display_stockout_date,omitempty"`
}

func (s *Server) CalculateReorderPoint(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	res, err := reorder.Calculate(reorder.Input{
		AverageDailySales: req.AverageDailySales,
		LeadTimeDays:      req.LeadTimeDays,
		SafetyDays:        req.SafetyDays,
		CurrentStock:      req.CurrentStock,
	}, s.clock.Now())
	if err != nil {
		s.recordCalcError(c, "reorder_point", err)
		AbortWithError(c, err)
		return
	}

	loc := requestLocale(req.Locale)
	s.metrics.RecordCalculation(c.Request.Context(), "reorder_point", string(loc))

	resp := reorderResponse{
		SafetyStock:  res.SafetyStock,
		ReorderPoint: res.ReorderPoint,

		DaysUntilStockout:        res.DaysUntilStockout,
		NeedsReorder:             res.NeedsReorder,
		Urgency:                  string(res.Urgency),
		UrgencyLabel:             locale.Label(loc, "urgency."+string(res.Urgency)),
		RecommendedOrderQuantity: res.RecommendedOrderQuantity,
	}
	if res.ProjectedStockoutDate != nil {
		iso := res.ProjectedStockoutDate.Format("2006-01-02")
		resp.ProjectedStockoutDate = &iso
		resp.DisplayStockoutDate = format.Date(string(loc), *res.ProjectedStockoutDate)
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
