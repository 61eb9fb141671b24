package migration

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apikeydomain "github.com/tajirhq/tajir/internal/apikey/domain"
	"github.com/tajirhq/tajir/internal/ratelimit"
	ratedomain "github.com/tajirhq/tajir/internal/rates/domain"
	"github.com/tajirhq/tajir/internal/seed"
)

type params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger

	// Limiter doubles as the seed lock when redis is configured, so
	// only one replica seeds a shared database.
	Limiter *ratelimit.CalcLimiter `optional:"true"`
}

func run(p params) error {
	if err := p.DB.AutoMigrate(
		&ratedomain.RateDefinition{},
		&apikeydomain.APIKey{},
	); err != nil {
		return err
	}

	ctx := context.Background()
	token, acquired, err := p.Limiter.TryLockSeed(ctx)
	if err != nil {
		// Seeding is idempotent, so a broken lock degrades to
		// every replica seeding instead of blocking startup.
		p.Log.Warn("seed lock unavailable", zap.Error(err))
	} else if !acquired {
		return nil
	}
	defer func() {
		_ = p.Limiter.ReleaseSeed(ctx, token)
	}()

	return seed.EnsureGlobalRates(p.DB)
}

// Module migrates the schema and seeds the global rate defaults so a
// fresh install answers duty questions out of the box.
var Module = fx.Module("migrations",
	fx.Invoke(run),
)
