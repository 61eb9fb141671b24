package server

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tajirhq/tajir/internal/calc/duty"
)

func (s *Server) recordCalcError(c *gin.Context, tool string, err error) {
	s.metrics.RecordCalculationError(c.Request.Context(), tool, errorCode(err))
}

func (s *Server) recordRateMiss(c *gin.Context, country string, err error) {
	var notFound *duty.RateNotFoundError
	if errors.As(err, &notFound) {
		s.metrics.RecordRateLookupMiss(c.Request.Context(), country)
	}
}

// errorCode keeps the metric label low-cardinality: sentinel text for
// the known input rejections, a fixed bucket for everything else.
func errorCode(err error) string {
	var notFound *duty.RateNotFoundError
	if errors.As(err, &notFound) {
		return "rate_not_found"
	}
	for _, sentinel := range calculatorValidationErrors {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal_error"
}
