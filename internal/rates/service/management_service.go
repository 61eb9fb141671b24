package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/tajirhq/tajir/internal/orgcontext"
	ratedomain "github.com/tajirhq/tajir/internal/rates/domain"
)

type serviceParams struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  ratedomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  ratedomain.Repository
}

func NewService(p serviceParams) ratedomain.Service {
	return &Service{
		log:   p.Log.Named("rates.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req ratedomain.CreateRequest) (*ratedomain.Response, error) {
	orgID := orgcontext.OrgIDFromContext(ctx)

	if req.Rate == nil {
		return nil, ratedomain.ErrInvalidRateValue
	}

	isEnabled := true
	if req.IsEnabled != nil {
		isEnabled = *req.IsEnabled
	}

	now := time.Now().UTC()
	record := &ratedomain.RateDefinition{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Kind:      normalizeKind(req.Kind),
		Country:   normalizeCountry(req.Country),
		Category:  normalizeCategory(req.Category),
		Rate:      *req.Rate,
		Metadata:  toMetadata(req.Metadata),
		IsEnabled: isEnabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("rate created",
		zap.String("kind", string(record.Kind)),
		zap.String("country", record.Country),
		zap.String("category", record.Category),
	)

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*ratedomain.Response, error) {
	orgID := orgcontext.OrgIDFromContext(ctx)

	defID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, ratedomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, orgID, defID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ratedomain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req ratedomain.ListRequest) ([]ratedomain.Response, error) {
	orgID := orgcontext.OrgIDFromContext(ctx)

	filter := ratedomain.ListRequest{
		Kind:      normalizeKind(req.Kind),
		Country:   normalizeCountry(req.Country),
		Category:  normalizeCategory(req.Category),
		IsEnabled: req.IsEnabled,
		SortBy:    strings.TrimSpace(req.SortBy),
		OrderBy:   strings.TrimSpace(req.OrderBy),
	}

	items, err := s.repo.List(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]ratedomain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, req ratedomain.UpdateRequest) (*ratedomain.Response, error) {
	orgID := orgcontext.OrgIDFromContext(ctx)

	defID, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, ratedomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, orgID, defID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ratedomain.ErrNotFound
	}

	if req.Rate != nil {
		item.Rate = *req.Rate
	}
	if req.Metadata != nil {
		item.Metadata = toMetadata(req.Metadata)
	}

	item.UpdatedAt = time.Now().UTC()
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Disable(ctx context.Context, id string) (*ratedomain.Response, error) {
	orgID := orgcontext.OrgIDFromContext(ctx)

	defID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, ratedomain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, orgID, defID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ratedomain.ErrNotFound
	}

	item.IsEnabled = false
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func toResponse(def *ratedomain.RateDefinition) ratedomain.Response {
	return ratedomain.Response{
		ID:             def.ID.String(),
		OrganizationID: def.OrgID.String(),
		Kind:           def.Kind,
		Country:        def.Country,
		Category:       def.Category,
		Rate:           def.Rate,
		Metadata:       fromMetadata(def.Metadata),
		IsEnabled:      def.IsEnabled,
		CreatedAt:      def.CreatedAt,
		UpdatedAt:      def.UpdatedAt,
	}
}

func normalizeKind(value ratedomain.RateKind) ratedomain.RateKind {
	return ratedomain.RateKind(strings.ToLower(strings.TrimSpace(string(value))))
}

func normalizeCountry(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

func normalizeCategory(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func toMetadata(in map[string]string) datatypes.JSONMap {
	if len(in) == 0 {
		return nil
	}
	out := datatypes.JSONMap{}
	for k, v := range in {
		out[k] = v
	}
	return out
}

func fromMetadata(in datatypes.JSONMap) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
