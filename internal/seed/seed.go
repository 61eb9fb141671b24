// Package seed installs the global rate defaults a fresh install ships
// with. Seeding is idempotent: rows merchants have edited or disabled
// are never touched again.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/tajirhq/tajir/internal/orgcontext"
	ratedomain "github.com/tajirhq/tajir/internal/rates/domain"
)

type defaultRate struct {
	kind     ratedomain.RateKind
	country  string
	category string
	rate     float64
	source   string
}

// Published VAT rates and the GCC common external tariff. Rates are
// fractions.
var defaultRates = []defaultRate{
	{ratedomain.KindVAT, "SA", "", 0.15, "ZATCA"},
	{ratedomain.KindVAT, "AE", "", 0.05, "UAE FTA"},
	{ratedomain.KindVAT, "BH", "", 0.10, "Bahrain NBR"},
	{ratedomain.KindVAT, "OM", "", 0.05, "Oman Tax Authority"},
	{ratedomain.KindVAT, "EG", "", 0.14, "Egyptian Tax Authority"},
	{ratedomain.KindVAT, "JO", "", 0.16, "Jordan ISTD"},

	{ratedomain.KindDuty, "SA", "electronics", 0.05, "GCC common external tariff"},
	{ratedomain.KindDuty, "SA", "apparel", 0.05, "GCC common external tariff"},
	{ratedomain.KindDuty, "SA", "toys", 0.05, "GCC common external tariff"},
	{ratedomain.KindDuty, "SA", "home_goods", 0.05, "GCC common external tariff"},
	{ratedomain.KindDuty, "SA", "books", 0, "GCC common external tariff"},
	{ratedomain.KindDuty, "AE", "electronics", 0.05, "GCC common external tariff"},
	{ratedomain.KindDuty, "AE", "apparel", 0.05, "GCC common external tariff"},
	{ratedomain.KindDuty, "AE", "toys", 0.05, "GCC common external tariff"},
	{ratedomain.KindDuty, "AE", "home_goods", 0.05, "GCC common external tariff"},
	{ratedomain.KindDuty, "AE", "books", 0, "GCC common external tariff"},
	{ratedomain.KindDuty, "EG", "electronics", 0.10, "Egyptian customs tariff"},
	{ratedomain.KindDuty, "EG", "apparel", 0.30, "Egyptian customs tariff"},
}

// EnsureGlobalRates seeds the org-0 rate table.
func EnsureGlobalRates(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, def := range defaultRates {
			if err := ensureRate(ctx, tx, node, def); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureRate(ctx context.Context, tx *gorm.DB, node *snowflake.Node, def defaultRate) error {
	var existing ratedomain.RateDefinition
	err := tx.WithContext(ctx).
		Where("org_id = ? AND kind = ? AND country = ? AND category = ?",
			orgcontext.GlobalOrgID, def.kind, def.country, def.category).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	record := ratedomain.RateDefinition{
		ID:        node.Generate(),
		OrgID:     orgcontext.GlobalOrgID,
		Kind:      def.kind,
		Country:   def.country,
		Category:  def.category,
		Rate:      def.rate,
		Metadata:  map[string]interface{}{"source": def.source},
		IsEnabled: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.WithContext(ctx).Create(&record).Error
}
