package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	ratedomain "github.com/tajirhq/tajir/internal/rates/domain"
	"github.com/tajirhq/tajir/pkg/db"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(gdb *gorm.DB) ratedomain.Repository {
	return &repository{db: gdb}
}

func (r *repository) Create(ctx context.Context, def *ratedomain.RateDefinition) error {
	err := r.db.WithContext(ctx).Create(def).Error
	if db.IsDuplicateKeyErr(err) {
		return ratedomain.ErrDuplicateRate
	}
	return err
}

func (r *repository) FindByID(ctx context.Context, orgID, id snowflake.ID) (*ratedomain.RateDefinition, error) {
	var def ratedomain.RateDefinition
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&def).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *repository) FindActive(ctx context.Context, orgID snowflake.ID, kind ratedomain.RateKind, country, category string) (*ratedomain.RateDefinition, error) {
	var def ratedomain.RateDefinition
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND kind = ? AND country = ? AND category = ? AND is_enabled = ?",
			orgID, kind, country, category, true).
		Order("id ASC").
		First(&def).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &def, nil
}

var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"country":    true,
	"category":   true,
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID, filter ratedomain.ListRequest) ([]ratedomain.RateDefinition, error) {
	var items []ratedomain.RateDefinition
	stmt := r.db.WithContext(ctx).
		Model(&ratedomain.RateDefinition{}).
		Where("org_id = ?", orgID)

	if filter.Kind != "" {
		stmt = stmt.Where("kind = ?", filter.Kind)
	}
	if filter.Country != "" {
		stmt = stmt.Where("country = ?", filter.Country)
	}
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	if filter.IsEnabled != nil {
		stmt = stmt.Where("is_enabled = ?", *filter.IsEnabled)
	}

	sortBy := filter.SortBy
	if !sortableColumns[sortBy] {
		sortBy = "created_at"
	}
	orderBy := "ASC"
	if strings.EqualFold(filter.OrderBy, "desc") {
		orderBy = "DESC"
	}
	stmt = stmt.Order(fmt.Sprintf("%s %s", sortBy, orderBy))

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, def *ratedomain.RateDefinition) error {
	return r.db.WithContext(ctx).
		Model(&ratedomain.RateDefinition{}).
		Where("org_id = ? AND id = ?", def.OrgID, def.ID).
		Updates(map[string]interface{}{
			"rate":       def.Rate,
			"metadata":   def.Metadata,
			"is_enabled": def.IsEnabled,
			"updated_at": def.UpdatedAt,
		}).Error
}
