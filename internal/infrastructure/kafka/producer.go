package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
)

// Publisher sends JSON events to a topic
type Publisher interface {
	Publish(ctx context.Context, topic, key string, event interface{}) error
}

// Producer publishes events through a sarama synchronous producer
type Producer struct {
	producer sarama.SyncProducer
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewProducer connects a sync producer to the configured brokers
func NewProducer(cfg *config.KafkaConfig, m *metrics.Metrics, logger zerolog.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers specified")
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info().Strs("brokers", cfg.Brokers).Msg("Kafka producer initialized successfully")

	return NewProducerWithClient(producer, m, logger), nil
}

// NewProducerWithClient wraps an existing sarama producer
func NewProducerWithClient(producer sarama.SyncProducer, m *metrics.Metrics, logger zerolog.Logger) *Producer {
	return &Producer{
		producer: producer,
		metrics:  m,
		logger:   logger,
	}
}

// Publish sends event as JSON to topic; key selects the partition
func (p *Producer) Publish(ctx context.Context, topic, key string, event interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(jsonData),
	}
	if key != "" {
		message.Key = sarama.StringEncoder(key)
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.metrics.RecordKafkaError(topic)
		p.logger.Error().Err(err).Str("topic", topic).Msg("Failed to send Kafka message")
		return err
	}
	p.metrics.RecordKafkaMessage()

	p.logger.Debug().
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Kafka message sent successfully")

	return nil
}

// Name returns the component name used in health reports
func (p *Producer) Name() string {
	return "kafka"
}

// Check reports an error when the producer is no longer usable
func (p *Producer) Check(_ context.Context) error {
	if p.producer == nil {
		return fmt.Errorf("kafka producer is not initialized")
	}
	if p.producer.TxnStatus()&sarama.ProducerTxnFlagFatalError != 0 {
		return fmt.Errorf("kafka producer is in fatal state")
	}
	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	p.logger.Info().Msg("Kafka producer closed successfully")
	return nil
}

// NopPublisher drops events; used when Kafka is disabled
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(context.Context, string, string, interface{}) error {
	return nil
}
