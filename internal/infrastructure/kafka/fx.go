// Package kafka contains Kafka producer infrastructure
package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
)

// Module provides the event publisher for fx DI
var Module = fx.Module("kafka",
	fx.Provide(providePublisher),
)

// PublisherResult exposes the publisher and, when Kafka is enabled, the producer for health checks
type PublisherResult struct {
	fx.Out

	Publisher Publisher
	Producer  *Producer
}

func providePublisher(
	lc fx.Lifecycle,
	cfg *config.KafkaConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) (PublisherResult, error) {
	if !cfg.Enabled {
		logger.Info().Msg("Kafka disabled, events are not published")
		return PublisherResult{Publisher: NopPublisher{}}, nil
	}

	producer, err := NewProducer(cfg, m, logger.With().Str("component", "kafka-producer").Logger())
	if err != nil {
		return PublisherResult{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return producer.Close()
		},
	})

	return PublisherResult{Publisher: producer, Producer: producer}, nil
}
