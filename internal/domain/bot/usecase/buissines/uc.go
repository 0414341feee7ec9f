// Package buissines contains bot registration and management
package buissines

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/domain/bot/deps"
	"github.com/Conte777/botflow/internal/domain/bot/dto"
	boterrors "github.com/Conte777/botflow/internal/domain/bot/errors"
	platformdeps "github.com/Conte777/botflow/internal/domain/platform/deps"
	"github.com/Conte777/botflow/internal/domain/platform/entities"
)

// UseCase implements bot management
type UseCase struct {
	bots           platformdeps.BotRepository
	subscribers    platformdeps.SubscriberRepository
	autoResponders platformdeps.AutoResponderRepository
	provider       deps.Provider
	userID         string
	webhookBaseURL string
	logger         zerolog.Logger
}

// NewUseCase creates a new bot UseCase
func NewUseCase(
	gw platformdeps.Gateway,
	provider deps.Provider,
	serviceCfg *config.ServiceConfig,
	telegramCfg *config.TelegramConfig,
	logger zerolog.Logger,
) *UseCase {
	return &UseCase{
		bots:           gw.Bots,
		subscribers:    gw.Subscribers,
		autoResponders: gw.AutoResponders,
		provider:       provider,
		userID:         serviceCfg.DefaultUserID,
		webhookBaseURL: strings.TrimRight(telegramCfg.WebhookURL, "/"),
		logger:         logger,
	}
}

// WebhookURL returns the callback address the provider posts updates of botID to
func (uc *UseCase) WebhookURL(botID string) string {
	return fmt.Sprintf("%s/api/webhook/%s", uc.webhookBaseURL, botID)
}

// Register validates token with the provider, stores the bot under its
// provider identity and points the provider webhook at this service
func (uc *UseCase) Register(ctx context.Context, req dto.RegisterBotRequest) (*entities.Bot, error) {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, boterrors.ErrTokenRequired
	}

	if !uc.provider.ValidateCredential(ctx, token) {
		return nil, boterrors.ErrInvalidToken
	}

	identity, err := uc.provider.FetchIdentity(ctx, token)
	if err != nil {
		uc.logger.Warn().Err(err).Msg("Failed to fetch bot identity")
		return nil, fmt.Errorf("%w: %v", boterrors.ErrIdentityRejected, err)
	}

	bot := &entities.Bot{
		ID:          uuid.NewString(),
		UserID:      uc.userID,
		Name:        identity.DisplayName,
		Username:    identity.Username,
		Token:       token,
		Description: req.Description,
		IsActive:    true,
		Settings:    datatypes.JSONMap{},
	}
	if err := uc.bots.Create(ctx, bot); err != nil {
		return nil, err
	}

	bot.WebhookURL = uc.WebhookURL(bot.ID)
	if !uc.provider.RegisterWebhook(ctx, token, bot.WebhookURL) {
		uc.logger.Warn().
			Str("bot_id", bot.ID).
			Str("webhook_url", bot.WebhookURL).
			Msg("Webhook registration failed, bot will not receive updates until it is retried")
	}
	if err := uc.bots.SetWebhookURL(ctx, bot.ID, bot.WebhookURL); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("bot_id", bot.ID).
		Str("username", bot.Username).
		Msg("Bot registered")

	return bot, nil
}

// Get returns a bot with its subscriber count
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.BotView, error) {
	bot, err := uc.bots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, *bot)
}

// List returns the bots of the current user with their subscriber counts
func (uc *UseCase) List(ctx context.Context) ([]dto.BotView, error) {
	bots, err := uc.bots.ListByUser(ctx, uc.userID)
	if err != nil {
		return nil, err
	}

	views := make([]dto.BotView, 0, len(bots))
	for _, b := range bots {
		v, err := uc.view(ctx, b)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// Update applies the present fields of req
func (uc *UseCase) Update(ctx context.Context, id string, req dto.UpdateBotRequest) (*entities.Bot, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, boterrors.ErrNameEmpty
	}

	bot, err := uc.bots.Update(ctx, id, platformdeps.BotUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
		Settings:    req.Settings,
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Str("bot_id", id).Bool("is_active", bot.IsActive).Msg("Bot updated")
	return bot, nil
}

// Delete removes a bot and everything it owns
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if err := uc.bots.Delete(ctx, id); err != nil {
		return err
	}

	uc.logger.Info().Str("bot_id", id).Msg("Bot deleted")
	return nil
}

// ListSubscribers returns every subscriber of a bot
func (uc *UseCase) ListSubscribers(ctx context.Context, botID string) ([]entities.Subscriber, error) {
	if _, err := uc.bots.GetByID(ctx, botID); err != nil {
		return nil, err
	}
	return uc.subscribers.ListByBot(ctx, botID)
}

// CreateAutoResponder adds a keyword rule to a bot; rules start active unless stated otherwise
func (uc *UseCase) CreateAutoResponder(ctx context.Context, botID string, req dto.CreateAutoResponderRequest) (*entities.AutoResponder, error) {
	trigger := strings.TrimSpace(req.Trigger)
	switch {
	case trigger == "":
		return nil, boterrors.ErrTriggerRequired
	case strings.TrimSpace(req.Response) == "":
		return nil, boterrors.ErrResponseRequired
	}

	if _, err := uc.bots.GetByID(ctx, botID); err != nil {
		return nil, err
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	r := &entities.AutoResponder{
		BotID:      botID,
		Trigger:    trigger,
		Response:   req.Response,
		IsActive:   active,
		Priority:   req.Priority,
		Conditions: datatypes.JSONMap(req.Conditions),
	}
	if err := uc.autoResponders.Create(ctx, r); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("bot_id", botID).
		Str("auto_responder_id", r.ID).
		Int("priority", r.Priority).
		Msg("Auto-responder created")

	return r, nil
}

// ListAutoResponders returns the bot's rules by descending priority
func (uc *UseCase) ListAutoResponders(ctx context.Context, botID string) ([]entities.AutoResponder, error) {
	if _, err := uc.bots.GetByID(ctx, botID); err != nil {
		return nil, err
	}
	return uc.autoResponders.ListByBot(ctx, botID)
}

func (uc *UseCase) view(ctx context.Context, bot entities.Bot) (*dto.BotView, error) {
	count, err := uc.subscribers.CountReachable(ctx, bot.ID)
	if err != nil {
		return nil, err
	}

	status := dto.BotOffline
	if bot.IsActive {
		status = dto.BotOnline
	}
	return &dto.BotView{Bot: bot, SubscriberCount: count, Status: status}, nil
}
