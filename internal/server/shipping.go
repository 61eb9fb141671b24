package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tajirhq/tajir/internal/calc/shipping"
	"github.com/tajirhq/tajir/internal/calc/sizing"
	"github.com/tajirhq/tajir/internal/locale"
)

type shippingTierEntry struct {
	Label        string   `json:"label"`
	DisplayLabel string   `json:"display_label"`
	MinKg        float64  `json:"min_kg"`
	MaxKg        *float64 `json:"max_kg,omitempty"`
}

type shippingMatchResponse struct {
	WeightKg float64           `json:"weight_kg"`
	Tier     shippingTierEntry `json:"tier"`
}

func toTierEntry(loc locale.Locale, tier shipping.Tier) shippingTierEntry {
	return shippingTierEntry{
		Label:        tier.Label,
		DisplayLabel: locale.Label(loc, "tier."+tier.Label),
		MinKg:        tier.MinKg,
		MaxKg:        tier.MaxKg,
	}
}

func (s *Server) ListShippingTiers(c *gin.Context) {
	loc := requestLocale(c.Query("locale"))

	tiers := s.schedule.ShippingTable().Tiers()
	out := make([]shippingTierEntry, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, toTierEntry(loc, tier))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// MatchShippingTier resolves the tier for a weight. The weight may be
// given in any supported unit; it is converted to kilograms before the
// lookup.
func (s *Server) MatchShippingTier(c *gin.Context) {
	weight, err := parseRequiredFloat("weight", c.Query("weight"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	unit := sizing.WeightUnit(strings.ToLower(strings.TrimSpace(c.Query("unit"))))
	if unit == "" {
		unit = sizing.UnitKilogram
	}
	weightKg, err := sizing.ConvertWeight(weight, unit, sizing.UnitKilogram)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	tier, err := s.schedule.ShippingTable().TierFor(weightKg)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	loc := requestLocale(c.Query("locale"))
	c.JSON(http.StatusOK, gin.H{"data": shippingMatchResponse{
		WeightKg: weightKg,
		Tier:     toTierEntry(loc, *tier),
	}})
}
