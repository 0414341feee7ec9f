package workers

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/botflow/config"
	kafkaHandlers "github.com/Conte777/botflow/internal/domain/inbound/delivery/kafka"
	"github.com/Conte777/botflow/internal/domain/inbound/deps"
	queue "github.com/Conte777/botflow/internal/domain/inbound/repository/kafka"
	"github.com/Conte777/botflow/internal/infrastructure/kafka"
)

// Module provides the update dispatcher and the queue consumer for fx DI
var Module = fx.Module("inbound-workers",
	fx.Provide(provideDispatcher),
	fx.Invoke(registerUpdateConsumerLifecycle),
)

// provideDispatcher queues updates when Kafka is enabled and processes them in-process otherwise
func provideDispatcher(
	lc fx.Lifecycle,
	cfg *config.KafkaConfig,
	consumer deps.UpdateConsumer,
	publisher kafka.Publisher,
	logger zerolog.Logger,
) deps.Dispatcher {
	if cfg.Enabled {
		logger.Info().Msg("Updates are dispatched through Kafka")
		return queue.NewQueueDispatcher(publisher, logger.With().Str("component", "queue-dispatcher").Logger())
	}

	d := NewLocalDispatcher(consumer, logger.With().Str("component", "local-dispatcher").Logger())
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return d.Stop(ctx)
		},
	})
	return d
}

// registerUpdateConsumerLifecycle starts the queue consumer when Kafka is enabled
func registerUpdateConsumerLifecycle(
	lc fx.Lifecycle,
	cfg *config.KafkaConfig,
	handlers *kafkaHandlers.Handlers,
	logger zerolog.Logger,
) {
	if !cfg.Enabled {
		return
	}

	consumer := NewUpdateConsumer(cfg, handlers, logger.With().Str("component", "update-consumer").Logger())
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			consumer.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			return consumer.Stop()
		},
	})
}
