package apikey

import (
	"go.uber.org/fx"

	"github.com/tajirhq/tajir/internal/apikey/repository"
	"github.com/tajirhq/tajir/internal/apikey/service"
)

var Module = fx.Module("apikey.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
