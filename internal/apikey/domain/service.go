package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	// ScopeCalculate allows calling the calculator endpoints.
	ScopeCalculate = "calculators:invoke"
)

type Service interface {
	List(ctx context.Context) ([]Response, error)
	Create(ctx context.Context, req CreateRequest) (*SecretResponse, error)
	Rotate(ctx context.Context, keyID string) (*SecretResponse, error)
	Revoke(ctx context.Context, keyID string) error
	// Verify authenticates a raw API key and returns the identity it
	// grants. Inactive and expired keys fail with ErrInvalidKey.
	Verify(ctx context.Context, raw string) (*Identity, error)
}

// Identity is the org scope an accepted API key resolves to.
type Identity struct {
	OrgID snowflake.ID
	KeyID string
	Scope string
}

type CreateRequest struct {
	Name string `json:"name"`
	// OrgID pins the key to an existing org scope. Empty mints a new
	// org, making the key its own tenant handle.
	OrgID string `json:"org_id,omitempty"`
}

type Response struct {
	KeyID            string     `json:"key_id"`
	OrganizationID   string     `json:"organization_id"`
	Name             string     `json:"name"`
	Scope            string     `json:"scope"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	LastUsedAt       *time.Time `json:"last_used_at"`
	ExpiresAt        *time.Time `json:"expires_at"`
	RotatedFromKeyID *string    `json:"rotated_from_key_id"`
}

type SecretResponse struct {
	KeyID          string `json:"key_id"`
	OrganizationID string `json:"organization_id"`
	APIKey         string `json:"api_key"`
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidKeyID        = errors.New("invalid_key_id")
	ErrInvalidKey          = errors.New("invalid_api_key")
	ErrNotFound            = errors.New("not_found")
)
