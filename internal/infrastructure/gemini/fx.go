package gemini

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
)

// Module provides the Gemini generator for fx dependency injection
var Module = fx.Module("gemini",
	fx.Provide(provideGenerator),
)

func provideGenerator(cfg *config.AIConfig, m *metrics.Metrics, logger zerolog.Logger) (*Generator, error) {
	return NewGenerator(cfg, m, logger.With().Str("component", "gemini").Logger())
}
