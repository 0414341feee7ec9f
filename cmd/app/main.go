package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/app"
	"github.com/Conte777/botflow/internal/infrastructure/database"
	"github.com/Conte777/botflow/internal/infrastructure/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	cmd := &cobra.Command{
		Use:          "botflow",
		Short:        "Multi-tenant Telegram bot platform",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	cmd.AddCommand(serve)
	cmd.AddCommand(newMigrateCmd())

	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook endpoint, management API and campaign scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			fx.New(app.CreateApp()).Run()
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

			db, err := database.Open(&cfg.Database)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}

			log.Info().Str("driver", cfg.Database.Driver).Msg("Database schema is up to date")
			return nil
		},
	}
}
