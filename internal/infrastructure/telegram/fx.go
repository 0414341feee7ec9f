package telegram

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
)

// Module provides the Bot API client for fx dependency injection
var Module = fx.Module("telegram",
	fx.Provide(provideClient),
)

func provideClient(cfg *config.TelegramConfig, m *metrics.Metrics, logger zerolog.Logger) *Client {
	return NewClient(cfg, m, logger.With().Str("component", "telegram").Logger())
}
