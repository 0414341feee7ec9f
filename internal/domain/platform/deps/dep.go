// Package deps contains the persistence contracts consumed by the domains
package deps

import (
	"context"
	"time"

	"github.com/Conte777/botflow/internal/domain/platform/entities"
)

// BotUpdate carries optional bot field changes; nil fields are left untouched
type BotUpdate struct {
	Name        *string
	Description *string
	IsActive    *bool
	Settings    map[string]interface{}
}

// BotRepository defines bot data access
type BotRepository interface {
	Create(ctx context.Context, bot *entities.Bot) error
	GetByID(ctx context.Context, id string) (*entities.Bot, error)
	ListByUser(ctx context.Context, userID string) ([]entities.Bot, error)
	Update(ctx context.Context, id string, upd BotUpdate) (*entities.Bot, error)
	SetWebhookURL(ctx context.Context, id, url string) error

	// Delete removes the bot together with its subscribers, campaigns, messages and auto-responders
	Delete(ctx context.Context, id string) error
}

// SubscriberRepository defines subscriber data access
type SubscriberRepository interface {
	GetByExternalID(ctx context.Context, botID, externalID string) (*entities.Subscriber, error)

	// Create fails with ErrSubscriberExists when (bot, external id) is taken
	Create(ctx context.Context, sub *entities.Subscriber) error

	TouchLastInteraction(ctx context.Context, id string, at time.Time) error
	OptOut(ctx context.Context, id string) error
	OptIn(ctx context.Context, id string, at time.Time) error
	ListByBot(ctx context.Context, botID string) ([]entities.Subscriber, error)

	// ListReachable returns subscribers that are both active and opted in
	ListReachable(ctx context.Context, botID string) ([]entities.Subscriber, error)
	CountReachable(ctx context.Context, botID string) (int64, error)
}

// MessageRepository defines access to the message log
type MessageRepository interface {
	Create(ctx context.Context, msg *entities.Message) error
	CreateBatch(ctx context.Context, msgs []entities.Message) error

	// ListRecentByBot returns at most limit messages of the bot, newest first
	ListRecentByBot(ctx context.Context, botID string, limit int) ([]entities.Message, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]entities.Message, error)
}

// AutoResponderRepository defines auto-responder data access
type AutoResponderRepository interface {
	Create(ctx context.Context, r *entities.AutoResponder) error

	// ListByBot returns the bot's responders ordered by descending priority
	ListByBot(ctx context.Context, botID string) ([]entities.AutoResponder, error)
}

// CampaignRepository defines campaign data access
type CampaignRepository interface {
	Create(ctx context.Context, c *entities.Campaign) error
	GetByID(ctx context.Context, id string) (*entities.Campaign, error)
	ListByUser(ctx context.Context, userID string) ([]entities.Campaign, error)

	// ListDue returns scheduled campaigns whose time is at or before now
	ListDue(ctx context.Context, now time.Time) ([]entities.Campaign, error)
	ListScheduled(ctx context.Context) ([]entities.Campaign, error)

	// Schedule moves a draft or scheduled campaign to scheduled at the given time
	Schedule(ctx context.Context, id string, at time.Time) (bool, error)

	// TransitionStatus atomically moves the campaign to `to` if its current status is one of `from`
	TransitionStatus(ctx context.Context, id string, from []entities.CampaignStatus, to entities.CampaignStatus) (bool, error)

	// Complete marks a sending campaign completed with its statistics
	Complete(ctx context.Context, id string, stats entities.CampaignStatistics, sentAt time.Time) error
}

// Gateway groups every repository of the persistence layer
type Gateway struct {
	Bots           BotRepository
	Subscribers    SubscriberRepository
	Messages       MessageRepository
	AutoResponders AutoResponderRepository
	Campaigns      CampaignRepository
}
