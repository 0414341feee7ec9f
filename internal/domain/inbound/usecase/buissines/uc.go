// Package buissines contains the inbound update pipeline
package buissines

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/Conte777/botflow/config"
	assistant "github.com/Conte777/botflow/internal/domain/assistant/entities"
	"github.com/Conte777/botflow/internal/domain/inbound/deps"
	"github.com/Conte777/botflow/internal/domain/inbound/dto"
	"github.com/Conte777/botflow/internal/domain/inbound/entities"
	platformdeps "github.com/Conte777/botflow/internal/domain/platform/deps"
	platform "github.com/Conte777/botflow/internal/domain/platform/entities"
	platformerrors "github.com/Conte777/botflow/internal/domain/platform/errors"
	"github.com/Conte777/botflow/internal/infrastructure/kafka"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
	"github.com/Conte777/botflow/internal/infrastructure/telegram"
)

// UseCase runs the inbound pipeline. Steps of one update run strictly in
// order; separate updates may be processed concurrently.
type UseCase struct {
	bots           platformdeps.BotRepository
	subscribers    platformdeps.SubscriberRepository
	messages       platformdeps.MessageRepository
	autoResponders platformdeps.AutoResponderRepository
	sender         deps.MessageSender
	responder      deps.Responder
	publisher      kafka.Publisher
	metrics        *metrics.Metrics
	contextWindow  int
	processTimeout time.Duration
	replyTimeout   time.Duration
	now            func() time.Time
	logger         zerolog.Logger
}

// NewUseCase creates a new UseCase instance
func NewUseCase(
	gw platformdeps.Gateway,
	sender deps.MessageSender,
	responder deps.Responder,
	publisher kafka.Publisher,
	cfg *config.InboundConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *UseCase {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	window := cfg.ContextWindow
	if window <= 0 {
		window = 5
	}
	replyTimeout := cfg.ReplyTimeout
	if replyTimeout <= 0 {
		replyTimeout = 10 * time.Second
	}

	return &UseCase{
		bots:           gw.Bots,
		subscribers:    gw.Subscribers,
		messages:       gw.Messages,
		autoResponders: gw.AutoResponders,
		sender:         sender,
		responder:      responder,
		publisher:      publisher,
		metrics:        m,
		contextWindow:  window,
		processTimeout: cfg.ProcessTimeout,
		replyTimeout:   replyTimeout,
		now:            func() time.Time { return time.Now().UTC() },
		logger:         logger,
	}
}

// Consume parses and processes one raw update. Every failure, including a
// panic, is logged and the update is treated as consumed.
func (uc *UseCase) Consume(ctx context.Context, botID string, raw []byte) {
	start := time.Now()
	kind := "invalid"
	failed := false

	defer func() {
		if r := recover(); r != nil {
			failed = true
			uc.logger.Error().
				Interface("panic", r).
				Str("bot_id", botID).
				Str("stack", string(debug.Stack())).
				Msg("Update processing panic recovered")
		}
		uc.metrics.RecordUpdate(kind, time.Since(start).Seconds(), failed)
	}()

	upd, err := entities.ParseUpdate(raw)
	if err != nil {
		failed = true
		uc.logger.Warn().Err(err).Str("bot_id", botID).Msg("Discarding undecodable update")
		return
	}
	kind = string(upd.Kind)

	if uc.processTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.processTimeout)
		defer cancel()
	}

	if err := uc.HandleUpdate(ctx, botID, upd); err != nil {
		failed = true
		uc.logger.Error().
			Err(err).
			Str("bot_id", botID).
			Int64("update_id", upd.ID).
			Str("kind", kind).
			Msg("Failed to process update")
	}
}

// HandleUpdate routes an update to the handler of its kind
func (uc *UseCase) HandleUpdate(ctx context.Context, botID string, upd entities.Update) error {
	bot, err := uc.bots.GetByID(ctx, botID)
	if err != nil {
		if errors.Is(err, platformerrors.ErrBotNotFound) {
			uc.logger.Info().Str("bot_id", botID).Msg("Bot not found, update discarded")
			return nil
		}
		return fmt.Errorf("resolve bot: %w", err)
	}
	if !bot.IsActive {
		uc.logger.Info().Str("bot_id", botID).Msg("Bot inactive, update discarded")
		return nil
	}

	switch upd.Kind {
	case entities.KindMessage:
		return uc.handleMessage(ctx, bot, upd.Message)
	case entities.KindCallbackQuery:
		uc.logger.Debug().
			Str("bot_id", botID).
			Str("callback_id", upd.Callback.ID).
			Str("data", upd.Callback.Data).
			Msg("Callback query received")
		return nil
	case entities.KindInlineQuery:
		uc.logger.Debug().
			Str("bot_id", botID).
			Str("query_id", upd.Inline.ID).
			Msg("Inline query received")
		return nil
	default:
		uc.logger.Debug().Str("bot_id", botID).Int64("update_id", upd.ID).Msg("Unsupported update ignored")
		return nil
	}
}

func (uc *UseCase) handleMessage(ctx context.Context, bot *platform.Bot, msg *entities.IncomingMessage) error {
	sub, created, err := uc.resolveSubscriber(ctx, bot, msg.Sender)
	if err != nil {
		return err
	}

	if created {
		uc.sendWelcome(ctx, bot, sub)
		uc.publish(ctx, kafka.TopicSubscriberCreated, sub)
	}

	if err := uc.logInbound(ctx, bot, sub, msg); err != nil {
		return err
	}

	if !msg.HasText() {
		return nil
	}

	switch entities.ParseCommand(msg.Text) {
	case entities.CommandStop:
		return uc.optOut(ctx, bot, sub)
	case entities.CommandStart:
		return uc.optIn(ctx, bot, sub)
	}

	responder, err := uc.matchAutoResponder(ctx, bot.ID, msg.Text)
	if err != nil {
		return err
	}
	if responder != nil {
		return uc.reply(ctx, bot, sub, responder.Response, platform.OriginRule)
	}

	return uc.replyWithAssistant(ctx, bot, sub, msg.Text)
}

// resolveSubscriber returns the subscriber for sender, creating it on first contact
func (uc *UseCase) resolveSubscriber(ctx context.Context, bot *platform.Bot, sender entities.Sender) (*platform.Subscriber, bool, error) {
	now := uc.now()
	externalID := sender.ExternalID()

	sub, err := uc.subscribers.GetByExternalID(ctx, bot.ID, externalID)
	switch {
	case err == nil:
		if err := uc.subscribers.TouchLastInteraction(ctx, sub.ID, now); err != nil {
			return nil, false, fmt.Errorf("touch subscriber: %w", err)
		}
		sub.LastInteraction = now
		return sub, false, nil
	case !errors.Is(err, platformerrors.ErrSubscriberNotFound):
		return nil, false, fmt.Errorf("get subscriber: %w", err)
	}

	sub = &platform.Subscriber{
		BotID:           bot.ID,
		ExternalID:      externalID,
		FirstName:       sender.FirstName,
		LastName:        sender.LastName,
		Username:        sender.Username,
		LanguageCode:    sender.LanguageCode,
		IsActive:        true,
		OptedIn:         true,
		OptedInAt:       &now,
		LastInteraction: now,
	}
	if err := uc.subscribers.Create(ctx, sub); err != nil {
		if !errors.Is(err, platformerrors.ErrSubscriberExists) {
			return nil, false, fmt.Errorf("create subscriber: %w", err)
		}

		// a concurrent update created the row first
		existing, getErr := uc.subscribers.GetByExternalID(ctx, bot.ID, externalID)
		if getErr != nil {
			return nil, false, fmt.Errorf("get subscriber after conflict: %w", getErr)
		}
		return existing, false, nil
	}

	uc.logger.Info().
		Str("bot_id", bot.ID).
		Str("subscriber_id", sub.ID).
		Msg("New subscriber created")

	return sub, true, nil
}

// sendWelcome is best effort and not written to the message log
func (uc *UseCase) sendWelcome(ctx context.Context, bot *platform.Bot, sub *platform.Subscriber) {
	ctx, cancel := uc.replyContext(ctx)
	defer cancel()

	if _, err := uc.sender.SendMessage(ctx, bot.Token, sub.ExternalID, entities.WelcomeText, telegram.SendOptions{}); err != nil {
		uc.logger.Warn().
			Err(err).
			Str("bot_id", bot.ID).
			Str("subscriber_id", sub.ID).
			Msg("Failed to send welcome message")
	}
}

func (uc *UseCase) logInbound(ctx context.Context, bot *platform.Bot, sub *platform.Subscriber, msg *entities.IncomingMessage) error {
	subscriberID := sub.ID
	providerID := int64(msg.MessageID)

	record := &platform.Message{
		BotID:             bot.ID,
		SubscriberID:      &subscriberID,
		ProviderMessageID: &providerID,
		Direction:         platform.DirectionInbound,
		Content:           msg.LogContent(),
		MessageType:       msg.ContentType,
		Status:            platform.StatusReceived,
		SentAt:            uc.now(),
	}
	if err := uc.messages.Create(ctx, record); err != nil {
		return fmt.Errorf("log inbound message: %w", err)
	}
	return nil
}

func (uc *UseCase) optOut(ctx context.Context, bot *platform.Bot, sub *platform.Subscriber) error {
	if err := uc.subscribers.OptOut(ctx, sub.ID); err != nil {
		return fmt.Errorf("opt out subscriber: %w", err)
	}
	sub.IsActive, sub.OptedIn = false, false

	uc.logger.Info().Str("bot_id", bot.ID).Str("subscriber_id", sub.ID).Msg("Subscriber opted out")
	uc.publish(ctx, kafka.TopicSubscriberOptedOut, sub)

	return uc.reply(ctx, bot, sub, entities.UnsubscribedText, platform.OriginCommand)
}

func (uc *UseCase) optIn(ctx context.Context, bot *platform.Bot, sub *platform.Subscriber) error {
	if sub.IsActive {
		return nil
	}

	now := uc.now()
	if err := uc.subscribers.OptIn(ctx, sub.ID, now); err != nil {
		return fmt.Errorf("opt in subscriber: %w", err)
	}
	sub.IsActive, sub.OptedIn, sub.OptedInAt = true, true, &now

	uc.logger.Info().Str("bot_id", bot.ID).Str("subscriber_id", sub.ID).Msg("Subscriber opted back in")
	uc.publish(ctx, kafka.TopicSubscriberOptedIn, sub)

	return uc.reply(ctx, bot, sub, entities.ResubscribedText, platform.OriginCommand)
}

// matchAutoResponder returns the first active responder, by descending priority, whose trigger occurs in text
func (uc *UseCase) matchAutoResponder(ctx context.Context, botID, text string) (*platform.AutoResponder, error) {
	responders, err := uc.autoResponders.ListByBot(ctx, botID)
	if err != nil {
		return nil, fmt.Errorf("list auto-responders: %w", err)
	}

	normalized := strings.ToLower(strings.TrimSpace(text))
	for i := range responders {
		r := responders[i]
		if !r.IsActive {
			continue
		}
		trigger := strings.ToLower(strings.TrimSpace(r.Trigger))
		if trigger != "" && strings.Contains(normalized, trigger) {
			return &r, nil
		}
	}
	return nil, nil
}

func (uc *UseCase) replyWithAssistant(ctx context.Context, bot *platform.Bot, sub *platform.Subscriber, text string) error {
	rc, err := uc.conversationContext(ctx, bot, sub)
	if err != nil {
		uc.logger.Warn().Err(err).Str("bot_id", bot.ID).Msg("Conversation context unavailable, acknowledging")
		return uc.reply(ctx, bot, sub, entities.AcknowledgeText, platform.OriginFallback)
	}

	reply := uc.responder.GenerateReply(ctx, text, rc)
	return uc.reply(ctx, bot, sub, reply.Text, reply.Origin)
}

// conversationContext collects the subscriber's share of the bot's latest messages, oldest first
func (uc *UseCase) conversationContext(ctx context.Context, bot *platform.Bot, sub *platform.Subscriber) (assistant.ConversationContext, error) {
	recent, err := uc.messages.ListRecentByBot(ctx, bot.ID, uc.contextWindow)
	if err != nil {
		return assistant.ConversationContext{}, fmt.Errorf("list recent messages: %w", err)
	}

	lines := make([]string, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		m := recent[i]
		if m.SubscriberID != nil && *m.SubscriberID == sub.ID {
			lines = append(lines, fmt.Sprintf("%s: %s", m.Direction, m.Content))
		}
	}

	purpose := bot.Description
	if purpose == "" {
		purpose = assistant.DefaultPurpose
	}

	return assistant.ConversationContext{
		BotName:        bot.Name,
		SubscriberName: sub.DisplayName(),
		Purpose:        purpose,
		RecentMessages: lines,
	}, nil
}

// reply sends text and logs it as outbound with its origin; a rejected send is logged as failed
func (uc *UseCase) reply(ctx context.Context, bot *platform.Bot, sub *platform.Subscriber, text string, origin platform.ReplyOrigin) error {
	ctx, cancel := uc.replyContext(ctx)
	defer cancel()

	status := platform.StatusSent
	var providerID *int64

	handle, err := uc.sender.SendMessage(ctx, bot.Token, sub.ExternalID, text, telegram.SendOptions{})
	if err != nil {
		status = platform.StatusFailed
		uc.logger.Warn().
			Err(err).
			Str("bot_id", bot.ID).
			Str("subscriber_id", sub.ID).
			Str("origin", string(origin)).
			Msg("Failed to send reply")
	} else {
		id := int64(handle.MessageID)
		providerID = &id
	}
	uc.metrics.RecordReply(string(origin))

	subscriberID := sub.ID
	record := &platform.Message{
		BotID:             bot.ID,
		SubscriberID:      &subscriberID,
		ProviderMessageID: providerID,
		Direction:         platform.DirectionOutbound,
		Content:           text,
		MessageType:       platform.MessageTypeText,
		Status:            status,
		Metadata:          datatypes.JSONMap{platform.MetadataGeneratedBy: string(origin)},
		SentAt:            uc.now(),
	}
	if err := uc.messages.Create(ctx, record); err != nil {
		return fmt.Errorf("log outbound message: %w", err)
	}
	return nil
}

// replyContext outlives the processing deadline of the update and is bounded by the reply timeout
func (uc *UseCase) replyContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), uc.replyTimeout)
}

func (uc *UseCase) publish(ctx context.Context, topic string, sub *platform.Subscriber) {
	evt := dto.SubscriberEvent{
		BotID:        sub.BotID,
		SubscriberID: sub.ID,
		ExternalID:   sub.ExternalID,
		OccurredAt:   uc.now(),
	}
	if err := uc.publisher.Publish(ctx, topic, sub.BotID, evt); err != nil {
		uc.logger.Warn().Err(err).Str("topic", topic).Msg("Failed to publish subscriber event")
	}
}
