// Package bot contains the bot management domain module
package bot

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/domain/bot/delivery/http"
	"github.com/Conte777/botflow/internal/domain/bot/usecase/buissines"
	platformdeps "github.com/Conte777/botflow/internal/domain/platform/deps"
	"github.com/Conte777/botflow/internal/infrastructure/http/server"
	"github.com/Conte777/botflow/internal/infrastructure/telegram"
)

// Module provides bot domain components for fx dependency injection
var Module = fx.Module("bot",
	fx.Provide(provideUseCase),
	fx.Provide(provideHandlers),
	fx.Provide(http.NewRouter),
	fx.Invoke(registerRoutes),
)

func provideUseCase(
	gw platformdeps.Gateway,
	client *telegram.Client,
	serviceCfg *config.ServiceConfig,
	telegramCfg *config.TelegramConfig,
	logger zerolog.Logger,
) *buissines.UseCase {
	return buissines.NewUseCase(gw, client, serviceCfg, telegramCfg, logger.With().Str("component", "bot").Logger())
}

func provideHandlers(uc *buissines.UseCase, logger zerolog.Logger) *http.Handlers {
	return http.NewHandlers(uc, logger.With().Str("handler", "bot").Logger())
}

// registerRoutes registers bot HTTP routes on the server
func registerRoutes(srv *server.Server, router *http.Router) {
	router.RegisterRoutes(srv.Router)
}
