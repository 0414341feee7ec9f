// Package http contains HTTP server infrastructure
package http

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/infrastructure/database"
	"github.com/Conte777/botflow/internal/infrastructure/http/server"
	"github.com/Conte777/botflow/internal/infrastructure/kafka"
)

// Module provides HTTP server for fx DI
var Module = fx.Module("http",
	fx.Provide(NewServerFx),
	fx.Invoke(registerHealth),
)

// NewServerFx creates HTTP server with lifecycle hooks for fx DI
func NewServerFx(
	lc fx.Lifecycle,
	serviceCfg *config.ServiceConfig,
	logger zerolog.Logger,
) *server.Server {
	srv := server.NewServer(serviceCfg.Name, serviceCfg.Port, logger.With().Str("component", "http").Logger())

	srv.RegisterMetrics()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

func registerHealth(
	srv *server.Server,
	db *database.Checker,
	producer *kafka.Producer,
	logger zerolog.Logger,
) {
	checkers := []server.HealthChecker{db}
	if producer != nil {
		checkers = append(checkers, producer)
	}
	handler := server.NewHealthHandler(checkers, logger)
	srv.Router.GET("/health", handler.Handle)
}
