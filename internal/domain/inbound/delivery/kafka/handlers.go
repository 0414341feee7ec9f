// Package kafka contains Kafka delivery handlers
package kafka

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/Conte777/botflow/internal/domain/inbound/deps"
	"github.com/Conte777/botflow/internal/domain/inbound/dto"
	inbounderrors "github.com/Conte777/botflow/internal/domain/inbound/errors"
)

// Handlers contains Kafka message handlers
type Handlers struct {
	consumer deps.UpdateConsumer
	logger   zerolog.Logger
}

// NewHandlers creates new Kafka handlers
func NewHandlers(consumer deps.UpdateConsumer, logger zerolog.Logger) *Handlers {
	return &Handlers{
		consumer: consumer,
		logger:   logger,
	}
}

// HandleUpdateEnvelope handles queued webhook updates
func (h *Handlers) HandleUpdateEnvelope(ctx context.Context, data []byte) error {
	var env dto.UpdateEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.logger.Error().Err(err).Str("data", string(data)).Msg("Failed to unmarshal update envelope")
		return err
	}

	if env.BotID == "" {
		return inbounderrors.ErrMissingBotID
	}

	h.logger.Debug().
		Str("bot_id", env.BotID).
		Time("received_at", env.ReceivedAt).
		Msg("Processing queued update")

	h.consumer.Consume(ctx, env.BotID, env.Update)
	return nil
}
