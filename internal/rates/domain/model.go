package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// RateKind separates the two tables the landed cost estimator reads.
type RateKind string

const (
	KindDuty RateKind = "duty"
	KindVAT  RateKind = "vat"
)

// RateDefinition is an org-scoped duty or VAT rate. Org 0 holds the
// seeded global defaults; an org-specific row with the same key shadows
// the global one.
//
// Country is an ISO 3166-1 alpha-2 code. Category is the product
// category slug for duty rates and empty for VAT rates, which apply
// country-wide.
type RateDefinition struct {
	ID    snowflake.ID `gorm:"primaryKey"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;uniqueIndex:idx_rate_key"`

	Kind     RateKind `gorm:"type:text;not null;uniqueIndex:idx_rate_key"`
	Country  string   `gorm:"type:text;not null;uniqueIndex:idx_rate_key"`
	Category string   `gorm:"type:text;not null;default:'';uniqueIndex:idx_rate_key"`

	// Rate is a fraction: 0.15 means 15%.
	Rate float64 `gorm:"type:numeric(6,4);not null"`

	// Metadata holds free-form provenance (source URL, effective date,
	// legal reference) surfaced to admins but never read by calculators.
	Metadata datatypes.JSONMap `gorm:"type:jsonb"`

	IsEnabled bool `gorm:"column:is_enabled;not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (RateDefinition) TableName() string { return "rate_definitions" }

func (r *RateDefinition) Validate() error {
	if r.Kind != KindDuty && r.Kind != KindVAT {
		return ErrInvalidRateKind
	}
	if len(strings.TrimSpace(r.Country)) != 2 {
		return ErrInvalidCountry
	}
	if r.Kind == KindDuty && strings.TrimSpace(r.Category) == "" {
		return ErrInvalidCategory
	}
	if r.Kind == KindVAT && r.Category != "" {
		return ErrInvalidCategory
	}
	if r.Rate < 0 || r.Rate > 1 {
		return ErrInvalidRateValue
	}
	return nil
}
