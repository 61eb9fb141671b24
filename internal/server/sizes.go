package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tajirhq/tajir/internal/calc/sizing"
	"github.com/tajirhq/tajir/internal/locale"
)

type sizeCategoryEntry struct {
	Category string `json:"category"`
	Label    string `json:"label"`
}

type sizeRow struct {
	Labels map[string]string `json:"labels"`
	MinCM  float64           `json:"min_cm"`
	MaxCM  float64           `json:"max_cm"`
}

type sizeChartResponse struct {
	Category string    `json:"category"`
	Label    string    `json:"label"`
	Measure  string    `json:"measure"`
	Rows     []sizeRow `json:"rows"`
}

type sizeRecommendRequest struct {
	Category      string   `json:"category"`
	MeasurementCM *float64 `json:"measurement_cm"`
	Locale        string   `json:"locale,omitempty"`
}

type sizeRecommendResponse struct {
	Row             sizeRow `json:"row"`
	Measure         string  `json:"measure"`
	Confidence      string  `json:"confidence"`
	ConfidenceLabel string  `json:"confidence_label"`
}

func toSizeRow(row sizing.Row) sizeRow {
	labels := make(map[string]string, len(row.Labels))
	for system, label := range row.Labels {
		labels[string(system)] = label
	}
	return sizeRow{Labels: labels, MinCM: row.MinCM, MaxCM: row.MaxCM}
}

func requestCategory(raw string) sizing.Category {
	return sizing.Category(strings.ToLower(strings.TrimSpace(raw)))
}

func (s *Server) ListSizeCategories(c *gin.Context) {
	loc := requestLocale(c.Query("locale"))

	categories := sizing.Categories()
	out := make([]sizeCategoryEntry, 0, len(categories))
	for _, category := range categories {
		out = append(out, sizeCategoryEntry{
			Category: string(category),
			Label:    locale.Label(loc, "category."+string(category)),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) SizeChart(c *gin.Context) {
	loc := requestLocale(c.Query("locale"))
	category := requestCategory(c.Param("category"))

	rows, measure, err := sizing.Chart(category)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]sizeRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSizeRow(row))
	}
	c.JSON(http.StatusOK, gin.H{"data": sizeChartResponse{
		Category: string(category),
		Label:    locale.Label(loc, "category."+string(category)),
		Measure:  measure,
		Rows:     out,
	}})
}

func (s *Server) ConvertSize(c *gin.Context) {
	category := requestCategory(c.Param("category"))
	system := sizing.System(strings.ToUpper(strings.TrimSpace(c.Query("system"))))
	label := strings.TrimSpace(c.Query("size"))

	row, err := sizing.Convert(category, system, label)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toSizeRow(*row)})
}

func (s *Server) RecommendSize(c *gin.Context) {
	var req sizeRecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.MeasurementCM == nil {
		AbortWithError(c, sizing.ErrInvalidMeasurement)
		return
	}

	rec, err := sizing.Recommend(requestCategory(req.Category), *req.MeasurementCM)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	loc := requestLocale(req.Locale)
	c.JSON(http.StatusOK, gin.H{"data": sizeRecommendResponse{
		Row:             toSizeRow(rec.Row),
		Measure:         rec.Measure,
		Confidence:      string(rec.Confidence),
		ConfidenceLabel: locale.Label(loc, "confidence."+string(rec.Confidence)),
	}})
}

func (s *Server) ConvertWeight(c *gin.Context) {
	value, err := parseRequiredFloat("value", c.Query("value"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	from := sizing.WeightUnit(strings.ToLower(strings.TrimSpace(c.Query("from"))))
	to := sizing.WeightUnit(strings.ToLower(strings.TrimSpace(c.Query("to"))))

	converted, err := sizing.ConvertWeight(value, from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"value":     value,
		"from":      string(from),
		"to":        string(to),
		"converted": converted,
	}})
}
