package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apikeydomain "github.com/tajirhq/tajir/internal/apikey/domain"
	"github.com/tajirhq/tajir/internal/calc/discount"
	"github.com/tajirhq/tajir/internal/calc/duty"
	"github.com/tajirhq/tajir/internal/calc/reorder"
	"github.com/tajirhq/tajir/internal/calc/shipping"
	"github.com/tajirhq/tajir/internal/calc/sizing"
	"github.com/tajirhq/tajir/internal/calc/storagefee"
	"github.com/tajirhq/tajir/internal/calc/vat"
	ratedomain "github.com/tajirhq/tajir/internal/rates/domain"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var rateNotFound *duty.RateNotFoundError
	if errors.As(err, &rateNotFound) {
		return http.StatusNotFound, errorPayload{
			Type:    "rate_not_found",
			Message: rateNotFound.Error(),
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, apikeydomain.ErrInvalidKey):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, ratedomain.ErrDuplicateRate):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

// calculatorValidationErrors holds every input rejection a calculator
// can emit; all map to HTTP 400 with the sentinel text as the code.
var calculatorValidationErrors = []error{
	vat.ErrMissingAmount,
	vat.ErrNegativeAmount,
	vat.ErrInvalidMode,
	vat.ErrInvalidRate,

	duty.ErrMissingFOBValue,
	duty.ErrNegativeAmount,
	duty.ErrMissingCountry,
	duty.ErrMissingCategory,

	storagefee.ErrMissingDimension,
	storagefee.ErrInvalidDimension,
	storagefee.ErrMissingUnits,
	storagefee.ErrInvalidUnits,
	storagefee.ErrMissingDuration,
	storagefee.ErrInvalidDuration,
	storagefee.ErrInvalidSizeTier,

	discount.ErrMissingOriginalPrice,
	discount.ErrInvalidOriginalPrice,
	discount.ErrMissingProductCost,
	discount.ErrInvalidProductCost,
	discount.ErrMissingDiscount,
	discount.ErrInvalidDiscount,
	discount.ErrMissingMonthlySales,
	discount.ErrInvalidMonthlySales,

	reorder.ErrMissingDailySales,
	reorder.ErrInvalidDailySales,
	reorder.ErrMissingLeadTime,
	reorder.ErrInvalidLeadTime,
	reorder.ErrMissingSafetyDays,
	reorder.ErrInvalidSafetyDays,
	reorder.ErrInvalidStock,

	sizing.ErrUnknownCategory,
	sizing.ErrUnknownSystem,
	sizing.ErrUnknownSize,
	sizing.ErrUnknownWeightUnit,
	sizing.ErrInvalidMeasurement,

	shipping.ErrInvalidWeight,

	ratedomain.ErrInvalidID,
	ratedomain.ErrInvalidRateKind,
	ratedomain.ErrInvalidCountry,
	ratedomain.ErrInvalidCategory,
	ratedomain.ErrInvalidRateValue,

	apikeydomain.ErrInvalidName,
	apikeydomain.ErrInvalidKeyID,
	apikeydomain.ErrInvalidOrganization,
}

func isValidationError(err error) bool {
	if errors.Is(err, ErrInvalidRequest) {
		return true
	}
	for _, sentinel := range calculatorValidationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ratedomain.ErrNotFound),
		errors.Is(err, apikeydomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	switch {
	case code == "invalid_request":
		return "request"
	case strings.HasPrefix(code, "missing_"):
		return strings.TrimPrefix(code, "missing_")
	case strings.HasPrefix(code, "invalid_"):
		return strings.TrimPrefix(code, "invalid_")
	case strings.HasPrefix(code, "unknown_"):
		return strings.TrimPrefix(code, "unknown_")
	case strings.HasPrefix(code, "negative_"):
		return strings.TrimPrefix(code, "negative_")
	default:
		return ""
	}
}

func validationErrorMessage(code string) string {
	switch {
	case code == "invalid_request":
		return "invalid request"
	case strings.HasPrefix(code, "missing_"):
		return "required value is missing"
	default:
		return "invalid value"
	}
}
