package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tajirhq/tajir/internal/calc/duty"
	"github.com/tajirhq/tajir/internal/orgcontext"
	ratedomain "github.com/tajirhq/tajir/internal/rates/domain"
	"github.com/tajirhq/tajir/internal/rates/repository"
)

var dbSeq int

func newTestService(t *testing.T) (ratedomain.Service, ratedomain.RateResolver, *snowflake.Node) {
	t.Helper()

	dbSeq++
	dsn := fmt.Sprintf("file:rates_test_%d?mode=memory&cache=shared", dbSeq)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&ratedomain.RateDefinition{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := repository.NewRepository(gdb)
	svc := NewService(serviceParams{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repo,
	})
	resolver := NewResolver(resolverParams{Repository: repo})
	return svc, resolver, node
}

func orgCtx(orgID snowflake.ID) context.Context {
	return orgcontext.WithOrgID(context.Background(), orgID)
}

func fl(v float64) *float64 { return &v }

func TestCreateAndGetRate(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx := orgCtx(node.Generate())

	created, err := svc.Create(ctx, ratedomain.CreateRequest{
		Kind:     ratedomain.KindDuty,
		Country:  "sa",
		Category: "Electronics",
		Rate:     fl(0.05),
		Metadata: map[string]string{"source": "zatca tariff schedule"},
	})
	require.NoError(t, err)
	assert.Equal(t, "SA", created.Country)
	assert.Equal(t, "electronics", created.Category)
	assert.True(t, created.IsEnabled)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 0.05, got.Rate)
	assert.Equal(t, "zatca tariff schedule", got.Metadata["source"])
}

func TestCreateRateValidation(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx := orgCtx(node.Generate())

	tests := []struct {
		name    string
		req     ratedomain.CreateRequest
		wantErr error
	}{
		{
			name:    "missing rate value",
			req:     ratedomain.CreateRequest{Kind: ratedomain.KindVAT, Country: "SA"},
			wantErr: ratedomain.ErrInvalidRateValue,
		},
		{
			name:    "unknown kind",
			req:     ratedomain.CreateRequest{Kind: "excise", Country: "SA", Rate: fl(0.15)},
			wantErr: ratedomain.ErrInvalidRateKind,
		},
		{
			name:    "bad country code",
			req:     ratedomain.CreateRequest{Kind: ratedomain.KindVAT, Country: "KSA", Rate: fl(0.15)},
			wantErr: ratedomain.ErrInvalidCountry,
		},
		{
			name:    "duty without category",
			req:     ratedomain.CreateRequest{Kind: ratedomain.KindDuty, Country: "SA", Rate: fl(0.05)},
			wantErr: ratedomain.ErrInvalidCategory,
		},
		{
			name:    "vat with category",
			req:     ratedomain.CreateRequest{Kind: ratedomain.KindVAT, Country: "SA", Category: "apparel", Rate: fl(0.15)},
			wantErr: ratedomain.ErrInvalidCategory,
		},
		{
			name:    "rate above one",
			req:     ratedomain.CreateRequest{Kind: ratedomain.KindVAT, Country: "SA", Rate: fl(1.5)},
			wantErr: ratedomain.ErrInvalidRateValue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateDuplicateRate(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx := orgCtx(node.Generate())

	req := ratedomain.CreateRequest{
		Kind:     ratedomain.KindDuty,
		Country:  "AE",
		Category: "apparel",
		Rate:     fl(0.05),
	}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, ratedomain.ErrDuplicateRate)
}

func TestUpdateAndDisableRate(t *testing.T) {
	svc, resolver, node := newTestService(t)
	orgID := node.Generate()
	ctx := orgCtx(orgID)

	created, err := svc.Create(ctx, ratedomain.CreateRequest{
		Kind:    ratedomain.KindVAT,
		Country: "SA",
		Rate:    fl(0.15),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, ratedomain.UpdateRequest{ID: created.ID, Rate: fl(0.05)})
	require.NoError(t, err)
	assert.Equal(t, 0.05, updated.Rate)

	rate, err := resolver.Source(ctx, orgID).VATRate("SA")
	require.NoError(t, err)
	assert.Equal(t, "0.05", rate.String())

	disabled, err := svc.Disable(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, disabled.IsEnabled)

	_, err = resolver.Source(ctx, orgID).VATRate("SA")
	var notFound *duty.RateNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestUpdateUnknownRate(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx := orgCtx(node.Generate())

	_, err := svc.Update(ctx, ratedomain.UpdateRequest{ID: "not-an-id", Rate: fl(0.1)})
	assert.ErrorIs(t, err, ratedomain.ErrInvalidID)

	_, err = svc.Update(ctx, ratedomain.UpdateRequest{ID: node.Generate().String(), Rate: fl(0.1)})
	assert.ErrorIs(t, err, ratedomain.ErrNotFound)
}

func TestListRatesFilters(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx := orgCtx(node.Generate())

	seedReqs := []ratedomain.CreateRequest{
		{Kind: ratedomain.KindVAT, Country: "SA", Rate: fl(0.15)},
		{Kind: ratedomain.KindDuty, Country: "SA", Category: "electronics", Rate: fl(0.05)},
		{Kind: ratedomain.KindDuty, Country: "AE", Category: "electronics", Rate: fl(0.05)},
	}
	for _, req := range seedReqs {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, ratedomain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	duties, err := svc.List(ctx, ratedomain.ListRequest{Kind: ratedomain.KindDuty})
	require.NoError(t, err)
	assert.Len(t, duties, 2)

	sa, err := svc.List(ctx, ratedomain.ListRequest{Country: "sa"})
	require.NoError(t, err)
	assert.Len(t, sa, 2)
}

func TestResolverFallsBackToGlobalScope(t *testing.T) {
	svc, resolver, node := newTestService(t)
	orgID := node.Generate()

	globalCtx := orgCtx(orgcontext.GlobalOrgID)
	_, err := svc.Create(globalCtx, ratedomain.CreateRequest{
		Kind:    ratedomain.KindVAT,
		Country: "SA",
		Rate:    fl(0.15),
	})
	require.NoError(t, err)
	_, err = svc.Create(globalCtx, ratedomain.CreateRequest{
		Kind:     ratedomain.KindDuty,
		Country:  "SA",
		Category: "electronics",
		Rate:     fl(0.05),
	})
	require.NoError(t, err)

	src := resolver.Source(context.Background(), orgID)

	rate, err := src.VATRate("SA")
	require.NoError(t, err)
	assert.Equal(t, "0.15", rate.String())

	rate, err = src.DutyRate("SA", "electronics")
	require.NoError(t, err)
	assert.Equal(t, "0.05", rate.String())
}

func TestResolverOrgRateShadowsGlobal(t *testing.T) {
	svc, resolver, node := newTestService(t)
	orgID := node.Generate()

	_, err := svc.Create(orgCtx(orgcontext.GlobalOrgID), ratedomain.CreateRequest{
		Kind:    ratedomain.KindVAT,
		Country: "SA",
		Rate:    fl(0.15),
	})
	require.NoError(t, err)

	_, err = svc.Create(orgCtx(orgID), ratedomain.CreateRequest{
		Kind:    ratedomain.KindVAT,
		Country: "SA",
		Rate:    fl(0.10),
	})
	require.NoError(t, err)

	rate, err := resolver.Source(context.Background(), orgID).VATRate("SA")
	require.NoError(t, err)
	assert.Equal(t, "0.1", rate.String())
}

func TestResolverUnknownKeyFailsLoudly(t *testing.T) {
	_, resolver, node := newTestService(t)

	_, err := resolver.Source(context.Background(), node.Generate()).DutyRate("ZZ", "gadgets")
	var notFound *duty.RateNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "ZZ", notFound.Country)
	assert.Equal(t, "gadgets", notFound.Category)
}
