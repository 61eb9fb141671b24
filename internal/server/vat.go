package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tajirhq/tajir/internal/calc/vat"
	"github.com/tajirhq/tajir/internal/format"
	"github.com/tajirhq/tajir/internal/orgcontext"
)

type vatRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Mode   string           `json:"mode"`
	// Rate is a fraction. When absent, Country resolves the rate from
	// the rate table.
	Rate     *decimal.Decimal `json:"rate,omitempty"`
	Country  string           `json:"country,omitempty"`
	Currency string           `json:"currency,omitempty"`
	Locale   string           `json:"locale,omitempty"`
}

type vatDisplay struct {
	Base  string `json:"base"`
	VAT   string `json:"vat"`
	Total string `json:"total"`
	Rate  string `json:"rate"`
}

type vatResponse struct {
	Mode    string          `json:"mode"`
	Rate    decimal.Decimal `json:"rate"`
	Base    decimal.Decimal `json:"base"`
	VAT     decimal.Decimal `json:"vat"`
	Total   decimal.Decimal `json:"total"`
	Display vatDisplay      `json:"display"`
}

func (s *Server) CalculateVAT(c *gin.Context) {
	var req vatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rate := decimal.Zero
	if req.Rate != nil {
		rate = *req.Rate
	} else if country := strings.ToUpper(strings.TrimSpace(req.Country)); country != "" {
		orgID := orgcontext.OrgIDFromContext(c.Request.Context())
		source := s.rateResolver.Source(c.Request.Context(), orgID)
		resolved, err := source.VATRate(country)
		if err != nil {
			s.recordRateMiss(c, country, err)
			AbortWithError(c, err)
			return
		}
		rate = resolved
	}

	res, err := vat.Calculate(vat.Input{
		Amount: req.Amount,
		Mode:   vat.Mode(strings.ToLower(strings.TrimSpace(req.Mode))),
		Rate:   rate,
	})
	if err != nil {
		s.recordCalcError(c, "vat", err)
		AbortWithError(c, err)
		return
	}

	loc := string(requestLocale(req.Locale))
	currency := requestCurrency(req.Currency)
	s.metrics.RecordCalculation(c.Request.Context(), "vat", loc)

	c.JSON(http.StatusOK, gin.H{"data": vatResponse{
		Mode:  string(res.Mode),
		Rate:  res.Rate,
		Base:  res.Base,
		VAT:   res.VAT,
		Total: res.Total,
		Display: vatDisplay{
			Base:  format.Money(loc, res.Base, currency),
			VAT:   format.Money(loc, res.VAT, currency),
			Total: format.Money(loc, res.Total, currency),
			Rate:  format.Percent(loc, res.Rate.Mul(decimal.NewFromInt(100))),
		},
	}})
}
