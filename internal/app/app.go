// Package app contains application bootstrap
package app

import (
	"go.uber.org/fx"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/domain"
	"github.com/Conte777/botflow/internal/infrastructure"
)

// CreateApp creates fx application with all modules
func CreateApp() fx.Option {
	return fx.Options(
		// Configuration
		fx.Provide(config.Out),

		// Infrastructure (logger, database, kafka, telegram, gemini, http)
		infrastructure.Module,

		// Domain (platform, assistant, inbound, campaign, bot)
		domain.Module,
	)
}
