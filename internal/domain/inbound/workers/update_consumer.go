package workers

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/Conte777/botflow/config"
	kafkaHandlers "github.com/Conte777/botflow/internal/domain/inbound/delivery/kafka"
	kafkainfra "github.com/Conte777/botflow/internal/infrastructure/kafka"
)

// messageReader is the subset of *kafka.Reader used by the consumer
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// UpdateConsumer consumes queued webhook updates from Kafka
type UpdateConsumer struct {
	reader   messageReader
	handlers *kafkaHandlers.Handlers
	logger   zerolog.Logger
	done     chan struct{}
	stopped  chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewUpdateConsumer creates new Kafka consumer for queued updates
func NewUpdateConsumer(cfg *config.KafkaConfig, handlers *kafkaHandlers.Handlers, logger zerolog.Logger) *UpdateConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    kafkainfra.TopicBotUpdates,
		MinBytes: 1,    // 1 byte - return immediately when message available
		MaxBytes: 10e6, // 10MB
	})

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("group_id", cfg.GroupID).
		Str("topic", kafkainfra.TopicBotUpdates).
		Msg("Kafka update consumer initialized")

	return newUpdateConsumer(reader, handlers, logger)
}

func newUpdateConsumer(reader messageReader, handlers *kafkaHandlers.Handlers, logger zerolog.Logger) *UpdateConsumer {
	ctx, cancel := context.WithCancel(context.Background())

	return &UpdateConsumer{
		reader:   reader,
		handlers: handlers,
		logger:   logger,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts consuming messages from Kafka
func (c *UpdateConsumer) Start() {
	c.logger.Info().Msg("Starting Kafka update consumer...")

	go func() {
		defer close(c.stopped)

		for {
			select {
			case <-c.done:
				return
			case <-c.ctx.Done():
				return
			default:
				msg, err := c.reader.ReadMessage(c.ctx)
				if err != nil {
					if c.ctx.Err() != nil {
						return
					}
					c.logger.Error().Err(err).Msg("Failed to read message from Kafka")
					continue
				}

				c.logger.Debug().
					Str("topic", msg.Topic).
					Int("partition", msg.Partition).
					Int64("offset", msg.Offset).
					Msg("Received message from Kafka")

				if err := c.handlers.HandleUpdateEnvelope(c.ctx, msg.Value); err != nil {
					c.logger.Error().Err(err).Msg("Failed to handle queued update")
				}
			}
		}
	}()
}

// Stop stops the consumer gracefully
func (c *UpdateConsumer) Stop() error {
	c.logger.Info().Msg("Stopping Kafka update consumer...")
	c.cancel()
	close(c.done)
	<-c.stopped

	if err := c.reader.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Failed to close Kafka reader")
		return err
	}

	c.logger.Info().Msg("Kafka update consumer stopped successfully")
	return nil
}
