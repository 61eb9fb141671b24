package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/tajirhq/tajir/internal/calc/duty"
	"github.com/tajirhq/tajir/internal/orgcontext"
	ratedomain "github.com/tajirhq/tajir/internal/rates/domain"
)

type resolverParams struct {
	fx.In

	Repository ratedomain.Repository
}

type resolver struct {
	repo ratedomain.Repository
}

func NewResolver(p resolverParams) ratedomain.RateResolver {
	return &resolver{repo: p.Repository}
}

func (r *resolver) Source(ctx context.Context, orgID snowflake.ID) duty.RateSource {
	return &rateSource{ctx: ctx, orgID: orgID, repo: r.repo}
}

// rateSource is a per-request view over the rate table. An org-specific
// rate shadows the global default; a key present in neither scope is a
// loud *duty.RateNotFoundError, never a silent zero.
type rateSource struct {
	ctx   context.Context
	orgID snowflake.ID
	repo  ratedomain.Repository
}

func (s *rateSource) DutyRate(country, category string) (decimal.Decimal, error) {
	return s.lookup(ratedomain.KindDuty, country, category)
}

func (s *rateSource) VATRate(country string) (decimal.Decimal, error) {
	return s.lookup(ratedomain.KindVAT, country, "")
}

func (s *rateSource) lookup(kind ratedomain.RateKind, country, category string) (decimal.Decimal, error) {
	def, err := s.repo.FindActive(s.ctx, s.orgID, kind, country, category)
	if err != nil {
		return decimal.Zero, err
	}
	if def == nil && s.orgID != orgcontext.GlobalOrgID {
		def, err = s.repo.FindActive(s.ctx, orgcontext.GlobalOrgID, kind, country, category)
		if err != nil {
			return decimal.Zero, err
		}
	}
	if def == nil {
		return decimal.Zero, &duty.RateNotFoundError{Country: country, Category: category}
	}
	return decimal.NewFromFloat(def.Rate), nil
}
