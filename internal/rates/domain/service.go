package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/tajirhq/tajir/internal/calc/duty"
)

// RateResolver binds a request context and org scope into a rate source
// the landed cost estimator can query. Lookups fall back from the org's
// own rates to the global defaults.
type RateResolver interface {
	Source(ctx context.Context, orgID snowflake.ID) duty.RateSource
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Disable(ctx context.Context, id string) (*Response, error)
}

type ListRequest struct {
	Kind      RateKind
	Country   string
	Category  string
	IsEnabled *bool
	SortBy    string
	OrderBy   string
}

type CreateRequest struct {
	Kind      RateKind          `json:"kind"`
	Country   string            `json:"country"`
	Category  string            `json:"category"`
	Rate      *float64          `json:"rate"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	IsEnabled *bool             `json:"is_enabled,omitempty"`
}

type UpdateRequest struct {
	ID       string            `json:"id"`
	Rate     *float64          `json:"rate,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type Response struct {
	ID             string            `json:"id"`
	OrganizationID string            `json:"organization_id"`
	Kind           RateKind          `json:"kind"`
	Country        string            `json:"country"`
	Category       string            `json:"category,omitempty"`
	Rate           float64           `json:"rate"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	IsEnabled      bool              `json:"is_enabled"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
