// Package orgcontext carries the authenticated organization through a
// request. Org 0 is the shared scope: global rate defaults live there
// and anonymous calculator traffic resolves against it.
package orgcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type orgKey struct{}

// GlobalOrgID is the shared scope used for seeded defaults and for
// requests without an API key.
const GlobalOrgID snowflake.ID = 0

func WithOrgID(ctx context.Context, orgID snowflake.ID) context.Context {
	return context.WithValue(ctx, orgKey{}, orgID)
}

// OrgIDFromContext returns the org ID set by authentication middleware.
// Unauthenticated requests resolve to the global scope.
func OrgIDFromContext(ctx context.Context) snowflake.ID {
	if ctx == nil {
		return GlobalOrgID
	}
	if id, ok := ctx.Value(orgKey{}).(snowflake.ID); ok {
		return id
	}
	return GlobalOrgID
}
