package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, def *RateDefinition) error
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*RateDefinition, error)
	// FindActive returns the enabled rate for the exact (org, kind,
	// country, category) key, or nil when no such row exists.
	FindActive(ctx context.Context, orgID snowflake.ID, kind RateKind, country, category string) (*RateDefinition, error)
	List(ctx context.Context, orgID snowflake.ID, filter ListRequest) ([]RateDefinition, error)
	Update(ctx context.Context, def *RateDefinition) error
}
