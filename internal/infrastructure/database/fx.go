// Package database contains database infrastructure
package database

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Conte777/botflow/config"
)

var Module = fx.Module("database",
	fx.Provide(NewDBWithLifecycle),
	fx.Provide(NewChecker),
)

func NewDBWithLifecycle(
	lc fx.Lifecycle,
	cfg *config.DatabaseConfig,
	logger zerolog.Logger,
) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				logger.Error().Err(err).Msg("Failed to get underlying sql.DB")
				return err
			}
			logger.Info().Msg("Closing database connection")
			return sqlDB.Close()
		},
	})

	logger.Info().
		Str("driver", cfg.Driver).
		Str("host", cfg.Host).
		Str("database", cfg.Name).
		Msg("Database connected")

	return db, nil
}
