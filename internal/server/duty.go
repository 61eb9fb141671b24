package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/tajirhq/tajir/internal/calc/duty"
	"github.com/tajirhq/tajir/internal/format"
	"github.com/tajirhq/tajir/internal/orgcontext"
)

type dutyRequest struct {
	FOBValue      *decimal.Decimal `json:"fob_value"`
	ShippingCost  *decimal.Decimal `json:"shipping_cost,omitempty"`
	InsuranceCost *decimal.Decimal `json:"insurance_cost,omitempty"`

	DestinationCountry string `json:"destination_country"`
	ProductCategory    string `json:"product_category"`

	Currency string `json:"currency,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

type dutyDisplay struct {
	CIF             string `json:"cif"`
	DutyRate        string `json:"duty_rate"`
	Duty            string `json:"duty"`
	VATRate         string `json:"vat_rate"`
	VAT             string `json:"vat"`
	TotalLandedCost string `json:"total_landed_cost"`
}

type dutyResponse struct {
	DestinationCountry string          `json:"destination_country"`
	ProductCategory    string          `json:"product_category"`
	CIF                decimal.Decimal `json:"cif"`
	DutyRate           decimal.Decimal `json:"duty_rate"`
	Duty               decimal.Decimal `json:"duty"`
	VATRate            decimal.Decimal `json:"vat_rate"`
	VATBase            decimal.Decimal `json:"vat_base"`
	VAT                decimal.Decimal `json:"vat"`
	TotalLandedCost    decimal.Decimal `json:"total_landed_cost"`
	Display            dutyDisplay     `json:"display"`
}

func (s *Server) EstimateImportDuty(c *gin.Context) {
	var req dutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	country := strings.ToUpper(strings.TrimSpace(req.DestinationCountry))
	category := strings.ToLower(strings.TrimSpace(req.ProductCategory))

	orgID := orgcontext.OrgIDFromContext(c.Request.Context())
	source := s.rateResolver.Source(c.Request.Context(), orgID)

	res, err := duty.Estimate(duty.Input{
		FOBValue:           req.FOBValue,
		ShippingCost:       req.ShippingCost,
		InsuranceCost:      req.InsuranceCost,
		DestinationCountry: country,
		ProductCategory:    category,
	}, source)
	if err != nil {
		s.recordRateMiss(c, country, err)
		s.recordCalcError(c, "import_duty", err)
		AbortWithError(c, err)
		return
	}

	loc := string(requestLocale(req.Locale))
	currency := requestCurrency(req.Currency)
	s.metrics.RecordCalculation(c.Request.Context(), "import_duty", loc)

	hundred := decimal.NewFromInt(100)
	c.JSON(http.StatusOK, gin.H{"data": dutyResponse{
		DestinationCountry: country,
		ProductCategory:    category,
		CIF:                res.CIF,
		DutyRate:           res.DutyRate,
		Duty:               res.Duty,
		VATRate:            res.VATRate,
		VATBase:            res.VATBase,
		VAT:                res.VAT,
		TotalLandedCost:    res.TotalLandedCost,
		Display: dutyDisplay{
			CIF:             format.Money(loc, res.CIF, currency),
			DutyRate:        format.Percent(loc, res.DutyRate.Mul(hundred)),
			Duty:            format.Money(loc, res.Duty, currency),
			VATRate:         format.Percent(loc, res.VATRate.Mul(hundred)),
			VAT:             format.Money(loc, res.VAT, currency),
			TotalLandedCost: format.Money(loc, res.TotalLandedCost, currency),
		},
	}})
}
