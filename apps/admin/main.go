package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/tajirhq/tajir/internal/apikey"
	"github.com/tajirhq/tajir/internal/clock"
	"github.com/tajirhq/tajir/internal/config"
	"github.com/tajirhq/tajir/internal/logger"
	"github.com/tajirhq/tajir/internal/migration"
	"github.com/tajirhq/tajir/internal/observability"
	"github.com/tajirhq/tajir/internal/ratelimit"
	"github.com/tajirhq/tajir/internal/rates"
	"github.com/tajirhq/tajir/internal/server"
	"github.com/tajirhq/tajir/pkg/db"
)

// The admin binary serves both surfaces: the public calculators and the
// basic-auth console that manages rates and API keys.
func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		clock.Module,

		rates.Module,
		apikey.Module,
		ratelimit.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterAPIRoutes()
			s.RegisterAdminRoutes()
		}),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
