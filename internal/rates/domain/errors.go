package domain

import "errors"

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
	ErrInvalidRateKind  = errors.New("invalid_rate_kind")
	ErrInvalidCountry   = errors.New("invalid_country")
	ErrInvalidCategory  = errors.New("invalid_category")
	ErrInvalidRateValue = errors.New("invalid_rate_value")
	ErrDuplicateRate    = errors.New("duplicate_rate")
)
