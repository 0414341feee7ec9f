package workers

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/domain/campaign/usecase/buissines"
)

// Module provides campaign workers for fx DI
var Module = fx.Module("campaign-workers",
	fx.Provide(provideSweeperWorker),
	fx.Invoke(registerLifecycle),
)

func provideSweeperWorker(uc *buissines.UseCase, cfg *config.CampaignConfig, logger zerolog.Logger) *SweeperWorker {
	return NewSweeperWorker(uc, cfg.SweepInterval, logger.With().Str("component", "campaign-sweeper").Logger())
}

// registerLifecycle restores persisted triggers and runs the sweeper
func registerLifecycle(lc fx.Lifecycle, uc *buissines.UseCase, w *SweeperWorker) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := uc.Restore(ctx); err != nil {
				return err
			}
			w.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			w.Stop()
			return uc.Stop(ctx)
		},
	})
}
