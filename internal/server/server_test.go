package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apikeydomain "github.com/tajirhq/tajir/internal/apikey/domain"
	"github.com/tajirhq/tajir/internal/calc/duty"
	"github.com/tajirhq/tajir/internal/clock"
	"github.com/tajirhq/tajir/internal/config"
	ratedomain "github.com/tajirhq/tajir/internal/rates/domain"
)

type stubRateSource struct {
	duties map[string]float64
	vats   map[string]float64
}

func defaultStubSource() stubRateSource {
	return stubRateSource{
		duties: map[string]float64{
			"SA/electronics": 0.05,
			"SA/books":       0,
		},
		vats: map[string]float64{
			"SA": 0.15,
			"AE": 0.05,
		},
	}
}

func (s stubRateSource) DutyRate(country, category string) (decimal.Decimal, error) {
	rate, ok := s.duties[country+"/"+category]
	if !ok {
		return decimal.Decimal{}, &duty.RateNotFoundError{Country: country, Category: category}
	}
	return decimal.NewFromFloat(rate), nil
}

func (s stubRateSource) VATRate(country string) (decimal.Decimal, error) {
	rate, ok := s.vats[country]
	if !ok {
		return decimal.Decimal{}, &duty.RateNotFoundError{Country: country}
	}
	return decimal.NewFromFloat(rate), nil
}

type stubResolver struct {
	source duty.RateSource
}

func (r stubResolver) Source(ctx context.Context, orgID snowflake.ID) duty.RateSource {
	return r.source
}

type stubRateService struct {
	rates  []*ratedomain.Response
	nextID int
}

func newStubRateService() *stubRateService {
	return &stubRateService{nextID: 1}
}

func (s *stubRateService) Create(ctx context.Context, req ratedomain.CreateRequest) (*ratedomain.Response, error) {
	if req.Rate == nil {
		return nil, ratedomain.ErrInvalidRateValue
	}
	resp := &ratedomain.Response{
		ID:        strconv.Itoa(s.nextID),
		Kind:      req.Kind,
		Country:   req.Country,
		Category:  req.Category,
		Rate:      *req.Rate,
		Metadata:  req.Metadata,
		IsEnabled: true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	s.nextID++
	s.rates = append(s.rates, resp)
	return resp, nil
}

func (s *stubRateService) Get(ctx context.Context, id string) (*ratedomain.Response, error) {
	for _, r := range s.rates {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, ratedomain.ErrNotFound
}

func (s *stubRateService) List(ctx context.Context, req ratedomain.ListRequest) ([]ratedomain.Response, error) {
	out := make([]ratedomain.Response, 0, len(s.rates))
	for _, r := range s.rates {
		out = append(out, *r)
	}
	return out, nil
}

func (s *stubRateService) Update(ctx context.Context, req ratedomain.UpdateRequest) (*ratedomain.Response, error) {
	resp, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if req.Rate != nil {
		resp.Rate = *req.Rate
	}
	return resp, nil
}

func (s *stubRateService) Disable(ctx context.Context, id string) (*ratedomain.Response, error) {
	resp, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp.IsEnabled = false
	return resp, nil
}

type stubAPIKeyService struct {
	keys     map[string]*apikeydomain.Identity
	listResp []apikeydomain.Response
	revoked  []string
}

func newStubAPIKeyService() *stubAPIKeyService {
	return &stubAPIKeyService{keys: map[string]*apikeydomain.Identity{}}
}

func (s *stubAPIKeyService) List(ctx context.Context) ([]apikeydomain.Response, error) {
	return s.listResp, nil
}

func (s *stubAPIKeyService) Create(ctx context.Context, req apikeydomain.CreateRequest) (*apikeydomain.SecretResponse, error) {
	if req.Name == "" {
		return nil, apikeydomain.ErrInvalidName
	}
	raw := "tj_live_key_" + req.Name
	keyID := "key_" + req.Name
	s.keys[raw] = &apikeydomain.Identity{OrgID: 42, KeyID: keyID, Scope: apikeydomain.ScopeCalculate}
	return &apikeydomain.SecretResponse{KeyID: keyID, OrganizationID: "42", APIKey: raw}, nil
}

func (s *stubAPIKeyService) Rotate(ctx context.Context, keyID string) (*apikeydomain.SecretResponse, error) {
	for _, identity := range s.keys {
		if identity.KeyID == keyID {
			return s.Create(ctx, apikeydomain.CreateRequest{Name: "rotated"})
		}
	}
	return nil, apikeydomain.ErrNotFound
}

func (s *stubAPIKeyService) Revoke(ctx context.Context, keyID string) error {
	s.revoked = append(s.revoked, keyID)
	return nil
}

func (s *stubAPIKeyService) Verify(ctx context.Context, raw string) (*apikeydomain.Identity, error) {
	identity, ok := s.keys[raw]
	if !ok {
		return nil, apikeydomain.ErrInvalidKey
	}
	return identity, nil
}

type serverFixture struct {
	server  *Server
	engine  *gin.Engine
	clock   *clock.FakeClock
	rates   *stubRateService
	apiKeys *stubAPIKeyService
}

func newFixture(t *testing.T, mutate ...func(*ServerParams)) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{HTTPAddr: ":0"}
	log := zap.NewNop()
	engine := NewEngine(cfg, log)

	holder, err := config.NewScheduleHolder(config.DefaultScheduleConfig())
	require.NoError(t, err)

	fixed := clock.NewFakeClock(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	rates := newStubRateService()
	apiKeys := newStubAPIKeyService()

	params := ServerParams{
		Gin:          engine,
		Cfg:          cfg,
		Log:          log,
		Clock:        fixed,
		Schedule:     holder,
		RateSvc:      rates,
		RateResolver: stubResolver{source: defaultStubSource()},
		APIKeySvc:    apiKeys,
	}
	for _, m := range mutate {
		m(&params)
	}

	srv := NewServer(params)
	srv.RegisterAPIRoutes()
	srv.RegisterAdminRoutes()
	return &serverFixture{server: srv, engine: engine, clock: fixed, rates: rates, apiKeys: apiKeys}
}

func (f *serverFixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	envelope := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	data, ok := envelope["data"]
	require.True(t, ok, "response has no data envelope: %s", rec.Body.String())
	require.NoError(t, json.Unmarshal(data, out))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var envelope errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestIDPropagation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health", nil, map[string]string{"X-Request-ID": "req-123"})
	require.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	rec = f.do(t, http.MethodGet, "/health", nil, nil)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func requireDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.RequireFromString(want)),
		fmt.Sprintf("want %s, got %s", want, got))
}
