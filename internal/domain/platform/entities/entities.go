// Package entities contains the persisted platform model shared by all domains
package entities

import (
	"time"

	"gorm.io/datatypes"
)

// MessageDirection tells whether a message was received from or sent to a subscriber
type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

// MessageStatus is the delivery status of a logged message
type MessageStatus string

const (
	StatusReceived MessageStatus = "received"
	StatusSent     MessageStatus = "sent"
	StatusFailed   MessageStatus = "failed"
)

// ReplyOrigin tags which path produced an outbound message
type ReplyOrigin string

const (
	OriginRule     ReplyOrigin = "rule"
	OriginAI       ReplyOrigin = "ai"
	OriginFallback ReplyOrigin = "fallback"
	OriginCommand  ReplyOrigin = "command"
	OriginCampaign ReplyOrigin = "campaign"
)

// Message content types
const (
	MessageTypeText     = "text"
	MessageTypePhoto    = "photo"
	MessageTypeVideo    = "video"
	MessageTypeDocument = "document"
	MessageTypeAudio    = "audio"
	MessageTypeVoice    = "voice"
	MessageTypeSticker  = "sticker"
	MessageTypeOther    = "other"
)

// NonTextPlaceholder is logged as content for messages without text
const NonTextPlaceholder = "[Non-text message]"

// MetadataGeneratedBy is the metadata key holding the ReplyOrigin of an outbound message
const MetadataGeneratedBy = "generatedBy"

// CampaignStatus is the lifecycle state of a campaign
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignCompleted CampaignStatus = "completed"
	CampaignFailed    CampaignStatus = "failed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// Terminal reports whether no further transition is possible
func (s CampaignStatus) Terminal() bool {
	return s == CampaignCompleted || s == CampaignFailed || s == CampaignCancelled
}

// Bot is a tenant bot registered with the provider
type Bot struct {
	ID          string            `gorm:"primaryKey;size:36" json:"id"`
	UserID      string            `gorm:"not null;index" json:"userId"`
	Name        string            `gorm:"not null" json:"name"`
	Username    string            `gorm:"not null;uniqueIndex" json:"username"`
	Token       string            `gorm:"not null" json:"-"`
	Description string            `gorm:"type:text" json:"description"`
	IsActive    bool              `gorm:"not null" json:"isActive"`
	WebhookURL  string            `json:"webhookUrl"`
	Settings    datatypes.JSONMap `json:"settings"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for Bot
func (Bot) TableName() string {
	return "bots"
}

// Subscriber is a provider user that has contacted a bot
type Subscriber struct {
	ID              string            `gorm:"primaryKey;size:36" json:"id"`
	BotID           string            `gorm:"not null;size:36;uniqueIndex:idx_subscribers_bot_external" json:"botId"`
	ExternalID      string            `gorm:"not null;uniqueIndex:idx_subscribers_bot_external" json:"externalId"`
	FirstName       string            `json:"firstName"`
	LastName        string            `json:"lastName"`
	Username        string            `json:"username"`
	LanguageCode    string            `json:"languageCode"`
	IsActive        bool              `gorm:"not null" json:"isActive"`
	OptedIn         bool              `gorm:"not null" json:"optedIn"`
	OptedInAt       *time.Time        `json:"optedInAt,omitempty"`
	LastInteraction time.Time         `json:"lastInteraction"`
	Metadata        datatypes.JSONMap `json:"metadata"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for Subscriber
func (Subscriber) TableName() string {
	return "subscribers"
}

// Reachable reports whether broadcasts may be delivered to the subscriber
func (s Subscriber) Reachable() bool {
	return s.IsActive && s.OptedIn
}

// DisplayName returns the name used to address the subscriber
func (s Subscriber) DisplayName() string {
	if s.FirstName != "" {
		return s.FirstName
	}
	if s.Username != "" {
		return s.Username
	}
	return "there"
}

// Message is one row of the append-only conversation log
type Message struct {
	ID                string            `gorm:"primaryKey;size:36" json:"id"`
	BotID             string            `gorm:"not null;size:36;index" json:"botId"`
	SubscriberID      *string           `gorm:"size:36;index" json:"subscriberId,omitempty"`
	CampaignID        *string           `gorm:"size:36;index" json:"campaignId,omitempty"`
	ProviderMessageID *int64            `json:"providerMessageId,omitempty"`
	Direction         MessageDirection  `gorm:"not null" json:"direction"`
	Content           string            `gorm:"type:text;not null" json:"content"`
	MessageType       string            `gorm:"not null" json:"messageType"`
	Status            MessageStatus     `gorm:"not null" json:"status"`
	Metadata          datatypes.JSONMap `json:"metadata,omitempty"`
	SentAt            time.Time         `gorm:"not null;index" json:"sentAt"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// Origin returns the generator tag stored in metadata, if any
func (m Message) Origin() ReplyOrigin {
	if m.Metadata == nil {
		return ""
	}
	v, _ := m.Metadata[MetadataGeneratedBy].(string)
	return ReplyOrigin(v)
}

// AutoResponder is a keyword rule configured by the bot owner
type AutoResponder struct {
	ID         string            `gorm:"primaryKey;size:36" json:"id"`
	BotID      string            `gorm:"not null;size:36;index" json:"botId"`
	Trigger    string            `gorm:"not null" json:"trigger"`
	Response   string            `gorm:"type:text;not null" json:"response"`
	IsActive   bool              `gorm:"not null" json:"isActive"`
	Priority   int               `gorm:"not null" json:"priority"`
	Conditions datatypes.JSONMap `json:"conditions,omitempty"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for AutoResponder
func (AutoResponder) TableName() string {
	return "auto_responders"
}

// CampaignStatistics is the outcome of a broadcast
type CampaignStatistics struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}

// Campaign is a broadcast of one message to a bot's subscribers
type Campaign struct {
	ID             string                                 `gorm:"primaryKey;size:36" json:"id"`
	BotID          string                                 `gorm:"not null;size:36;index" json:"botId"`
	UserID         string                                 `gorm:"not null;index" json:"userId"`
	Name           string                                 `gorm:"not null" json:"name"`
	Description    string                                 `gorm:"type:text" json:"description"`
	Message        string                                 `gorm:"type:text;not null" json:"message"`
	Status         CampaignStatus                         `gorm:"not null;index" json:"status"`
	ScheduledAt    *time.Time                             `gorm:"index" json:"scheduledAt,omitempty"`
	SentAt         *time.Time                             `json:"sentAt,omitempty"`
	TargetAudience datatypes.JSONMap                      `json:"targetAudience,omitempty"`
	Statistics     datatypes.JSONType[CampaignStatistics] `json:"statistics"`
	CreatedAt      time.Time                              `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time                              `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName returns the table name for Campaign
func (Campaign) TableName() string {
	return "campaigns"
}

// All returns every model for schema creation
func All() []interface{} {
	return []interface{}{&Bot{}, &Subscriber{}, &Message{}, &AutoResponder{}, &Campaign{}}
}
