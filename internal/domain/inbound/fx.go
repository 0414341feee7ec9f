// Package inbound contains the webhook and update processing domain module
package inbound

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/botflow/config"
	assistant "github.com/Conte777/botflow/internal/domain/assistant/usecase/buissines"
	"github.com/Conte777/botflow/internal/domain/inbound/delivery/http"
	kafkaHandlers "github.com/Conte777/botflow/internal/domain/inbound/delivery/kafka"
	"github.com/Conte777/botflow/internal/domain/inbound/deps"
	"github.com/Conte777/botflow/internal/domain/inbound/usecase/buissines"
	"github.com/Conte777/botflow/internal/domain/inbound/workers"
	platformdeps "github.com/Conte777/botflow/internal/domain/platform/deps"
	"github.com/Conte777/botflow/internal/infrastructure/http/server"
	"github.com/Conte777/botflow/internal/infrastructure/kafka"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
	"github.com/Conte777/botflow/internal/infrastructure/telegram"
)

// Module provides inbound domain components for fx dependency injection
var Module = fx.Module("inbound",
	fx.Provide(
		provideUseCase,
		provideUpdateConsumer,
		provideKafkaHandlers,
		provideWebhookHandler,
		http.NewRouter,
	),
	workers.Module,
	fx.Invoke(registerRoutes),
)

func provideUseCase(
	gw platformdeps.Gateway,
	client *telegram.Client,
	responder *assistant.UseCase,
	publisher kafka.Publisher,
	cfg *config.InboundConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *buissines.UseCase {
	return buissines.NewUseCase(gw, client, responder, publisher, cfg, m, logger.With().Str("component", "inbound").Logger())
}

func provideUpdateConsumer(uc *buissines.UseCase) deps.UpdateConsumer {
	return uc
}

func provideKafkaHandlers(consumer deps.UpdateConsumer, logger zerolog.Logger) *kafkaHandlers.Handlers {
	return kafkaHandlers.NewHandlers(consumer, logger.With().Str("handler", "inbound-kafka").Logger())
}

func provideWebhookHandler(dispatcher deps.Dispatcher, cfg *config.TelegramConfig, logger zerolog.Logger) *http.WebhookHandler {
	return http.NewWebhookHandler(dispatcher, cfg.WebhookSecret, logger.With().Str("handler", "webhook").Logger())
}

// registerRoutes registers webhook routes on the server
func registerRoutes(srv *server.Server, router *http.Router) {
	router.RegisterRoutes(srv.Router)
}
