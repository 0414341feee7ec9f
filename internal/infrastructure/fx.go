// Package infrastructure aggregates the infrastructure modules
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/Conte777/botflow/internal/infrastructure/database"
	"github.com/Conte777/botflow/internal/infrastructure/gemini"
	httpfx "github.com/Conte777/botflow/internal/infrastructure/http"
	"github.com/Conte777/botflow/internal/infrastructure/kafka"
	"github.com/Conte777/botflow/internal/infrastructure/logger"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
	"github.com/Conte777/botflow/internal/infrastructure/telegram"
)

// Module aggregates all infrastructure modules
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module,
	metrics.Module,
	kafka.Module, // Must be before http (health check depends on *kafka.Producer)
	telegram.Module,
	gemini.Module,
	httpfx.Module,
)
