package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	apikeydomain "github.com/tajirhq/tajir/internal/apikey/domain"
	"github.com/tajirhq/tajir/internal/auth/password"
	"github.com/tajirhq/tajir/internal/config"
	ratedomain "github.com/tajirhq/tajir/internal/rates/domain"
)

func newAdminFixture(t *testing.T) *serverFixture {
	t.Helper()
	hash, err := password.Hash("s3cret")
	require.NoError(t, err)

	return newFixture(t, func(p *ServerParams) {
		p.Cfg = config.Config{
			HTTPAddr:          ":0",
			AdminUser:         "admin",
			AdminPasswordHash: hash,
		}
	})
}

func adminAuth(req map[string]string) map[string]string {
	if req == nil {
		req = map[string]string{}
	}
	// admin:s3cret
	req["Authorization"] = "Basic YWRtaW46czNjcmV0"
	return req
}

func TestAdminUnavailableWithoutCredentials(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/admin/rates", nil, nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAdminRejectsWrongPassword(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.do(t, http.MethodGet, "/admin/rates", nil, map[string]string{
		"Authorization": "Basic YWRtaW46d3Jvbmc=", // admin:wrong
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/admin/rates", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Basic")
}

func TestAdminInvalidOrgHeader(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.do(t, http.MethodGet, "/admin/rates", nil, adminAuth(map[string]string{
		"X-Org-ID": "not-a-snowflake",
	}))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_org_id", decodeError(t, rec).Errors[0].Code)
}

func TestCreateAndGetRate(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.do(t, http.MethodPost, "/admin/rates", map[string]any{
		"kind":    "vat",
		"country": "KW",
		"rate":    0.0,
	}, adminAuth(nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created ratedomain.Response
	decodeData(t, rec, &created)
	require.NotEmpty(t, created.ID)
	require.True(t, created.IsEnabled)

	rec = f.do(t, http.MethodGet, "/admin/rates/"+created.ID, nil, adminAuth(nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateRateInvalid(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.do(t, http.MethodPost, "/admin/rates", map[string]any{
		"kind":    "vat",
		"country": "KW",
	}, adminAuth(nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_rate_value", decodeError(t, rec).Errors[0].Code)
}

func TestGetRateNotFound(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.do(t, http.MethodGet, "/admin/rates/999", nil, adminAuth(nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decodeError(t, rec).Type)
}

func TestUpdateAndDisableRate(t *testing.T) {
	f := newAdminFixture(t)

	rate := 0.05
	created, err := f.rates.Create(context.Background(), ratedomain.CreateRequest{
		Kind: ratedomain.KindVAT, Country: "OM", Rate: &rate,
	})
	require.NoError(t, err)

	rec := f.do(t, http.MethodPatch, "/admin/rates/"+created.ID, map[string]any{
		"rate": 0.1,
	}, adminAuth(nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated ratedomain.Response
	decodeData(t, rec, &updated)
	require.Equal(t, 0.1, updated.Rate)

	rec = f.do(t, http.MethodDelete, "/admin/rates/"+created.ID, nil, adminAuth(nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var disabled ratedomain.Response
	decodeData(t, rec, &disabled)
	require.False(t, disabled.IsEnabled)
}

func TestListRatesPagination(t *testing.T) {
	f := newAdminFixture(t)

	for i := 0; i < 5; i++ {
		rate := 0.05
		_, err := f.rates.Create(context.Background(), ratedomain.CreateRequest{
			Kind: ratedomain.KindVAT, Country: "SA", Rate: &rate,
		})
		require.NoError(t, err)
	}

	rec := f.do(t, http.MethodGet, "/admin/rates?page_size=2", nil, adminAuth(nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page listRatesResponse
	decodeData(t, rec, &page)
	require.Len(t, page.Rates, 2)
	require.True(t, page.PageInfo.HasMore)
	require.NotEmpty(t, page.PageInfo.NextPageToken)

	rec = f.do(t, http.MethodGet, "/admin/rates?page_size=2&page_token="+page.PageInfo.NextPageToken, nil, adminAuth(nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var next listRatesResponse
	decodeData(t, rec, &next)
	require.Len(t, next.Rates, 2)
	require.NotEqual(t, page.Rates[0].ID, next.Rates[0].ID)

	rec = f.do(t, http.MethodGet, "/admin/rates?page_size=2&page_token="+next.PageInfo.NextPageToken, nil, adminAuth(nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var last listRatesResponse
	decodeData(t, rec, &last)
	require.Len(t, last.Rates, 1)
	require.False(t, last.PageInfo.HasMore)
}

func TestCreateAndListAPIKeys(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.do(t, http.MethodPost, "/admin/api-keys", map[string]any{
		"name": "storefront",
	}, adminAuth(nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	var secret apikeydomain.SecretResponse
	decodeData(t, rec, &secret)
	require.NotEmpty(t, secret.KeyID)
	require.Contains(t, secret.APIKey, "tj_live_key_")

	rec = f.do(t, http.MethodGet, "/admin/api-keys", nil, adminAuth(nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateAPIKeyRequiresName(t *testing.T) {
	f := newAdminFixture(t)

	rec := f.do(t, http.MethodPost, "/admin/api-keys", map[string]any{}, adminAuth(nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_name", decodeError(t, rec).Errors[0].Code)
}

func TestRotateAndRevokeAPIKey(t *testing.T) {
	f := newAdminFixture(t)

	secret, err := f.apiKeys.Create(context.Background(), apikeydomain.CreateRequest{Name: "shop"})
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/admin/api-keys/"+secret.KeyID+"/rotate", nil, adminAuth(nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/admin/api-keys/key_unknown/rotate", nil, adminAuth(nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, "/admin/api-keys/"+secret.KeyID, nil, adminAuth(nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, f.apiKeys.revoked, secret.KeyID)
}
