// Package assistant contains the AI responder domain module
package assistant

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/domain/assistant/delivery/http"
	"github.com/Conte777/botflow/internal/domain/assistant/usecase/buissines"
	"github.com/Conte777/botflow/internal/infrastructure/gemini"
	"github.com/Conte777/botflow/internal/infrastructure/http/server"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
)

// Module provides assistant domain components for fx dependency injection
var Module = fx.Module("assistant",
	fx.Provide(provideUseCase),
	fx.Provide(provideHandlers),
	fx.Provide(http.NewRouter),
	fx.Invoke(registerRoutes),
)

func provideUseCase(generator *gemini.Generator, cfg *config.AIConfig, m *metrics.Metrics, logger zerolog.Logger) *buissines.UseCase {
	return buissines.NewUseCase(generator, cfg, m, logger.With().Str("component", "assistant").Logger())
}

func provideHandlers(uc *buissines.UseCase, logger zerolog.Logger) *http.Handlers {
	return http.NewHandlers(uc, logger.With().Str("handler", "assistant").Logger())
}

// registerRoutes registers assistant HTTP routes on the server
func registerRoutes(srv *server.Server, router *http.Router) {
	router.RegisterRoutes(srv.Router)
}
