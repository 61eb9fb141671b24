package rates

import (
	"go.uber.org/fx"

	"github.com/tajirhq/tajir/internal/rates/repository"
	"github.com/tajirhq/tajir/internal/rates/service"
)

var Module = fx.Module("rates.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewResolver),
	fx.Provide(service.NewService),
)
