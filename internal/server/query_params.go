package server

import (
	"errors"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"

	"github.com/tajirhq/tajir/internal/locale"
)

func requestLocale(value string) locale.Locale {
	return locale.Normalize(strings.TrimSpace(value))
}

func requestCurrency(value string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return "SAR"
	}
	return trimmed
}

func parseOptionalBool(value string) (*bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalSnowflakeID(value string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := snowflake.ParseString(trimmed)
	if err != nil || parsed == 0 {
		return nil, errors.New("invalid_snowflake_id")
	}
	return &parsed, nil
}

// parseRequiredFloat rejects absent and malformed values with a field
// specific validation error.
func parseRequiredFloat(field, value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, newValidationError(field, "missing_"+field, "required value is missing")
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, newValidationError(field, "invalid_"+field, "invalid value")
	}
	return parsed, nil
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
