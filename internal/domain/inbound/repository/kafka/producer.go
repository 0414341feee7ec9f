// Package kafka contains the queue-backed update dispatcher
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/botflow/internal/domain/inbound/dto"
	"github.com/Conte777/botflow/internal/infrastructure/kafka"
)

// QueueDispatcher implements deps.Dispatcher by publishing updates to the bot.updates topic
type QueueDispatcher struct {
	publisher kafka.Publisher
	logger    zerolog.Logger
}

// NewQueueDispatcher creates a dispatcher publishing through publisher
func NewQueueDispatcher(publisher kafka.Publisher, logger zerolog.Logger) *QueueDispatcher {
	return &QueueDispatcher{
		publisher: publisher,
		logger:    logger,
	}
}

// Dispatch publishes the update keyed by bot id so updates of one bot stay ordered
func (d *QueueDispatcher) Dispatch(ctx context.Context, botID string, raw []byte) error {
	env := dto.UpdateEnvelope{
		BotID:      botID,
		Update:     json.RawMessage(raw),
		ReceivedAt: time.Now().UTC(),
	}

	if err := d.publisher.Publish(ctx, kafka.TopicBotUpdates, botID, env); err != nil {
		return fmt.Errorf("failed to queue update: %w", err)
	}

	d.logger.Debug().Str("bot_id", botID).Msg("Update queued")
	return nil
}
