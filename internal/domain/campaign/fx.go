// Package campaign contains the campaign broadcast domain module
package campaign

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/domain/campaign/delivery/http"
	"github.com/Conte777/botflow/internal/domain/campaign/scheduler"
	"github.com/Conte777/botflow/internal/domain/campaign/usecase/buissines"
	"github.com/Conte777/botflow/internal/domain/campaign/workers"
	platformdeps "github.com/Conte777/botflow/internal/domain/platform/deps"
	"github.com/Conte777/botflow/internal/infrastructure/http/server"
	"github.com/Conte777/botflow/internal/infrastructure/kafka"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
	"github.com/Conte777/botflow/internal/infrastructure/telegram"
)

// Module provides campaign domain components for fx dependency injection
var Module = fx.Module("campaign",
	fx.Provide(scheduler.New),
	fx.Provide(provideUseCase),
	fx.Provide(provideHandlers),
	fx.Provide(http.NewRouter),
	workers.Module,
	fx.Invoke(registerRoutes),
)

func provideUseCase(
	gw platformdeps.Gateway,
	client *telegram.Client,
	sched *scheduler.Scheduler,
	publisher kafka.Publisher,
	cfg *config.ServiceConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *buissines.UseCase {
	return buissines.NewUseCase(gw, client, sched, publisher, cfg, m, logger.With().Str("component", "campaign").Logger())
}

func provideHandlers(uc *buissines.UseCase, logger zerolog.Logger) *http.Handlers {
	return http.NewHandlers(uc, logger.With().Str("handler", "campaign").Logger())
}

// registerRoutes registers campaign HTTP routes on the server
func registerRoutes(srv *server.Server, router *http.Router) {
	router.RegisterRoutes(srv.Router)
}
