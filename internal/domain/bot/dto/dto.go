// Package dto contains bot management requests and views
package dto

import (
	"github.com/Conte777/botflow/internal/domain/platform/entities"
)

// RegisterBotRequest is the body of POST /api/bots
type RegisterBotRequest struct {
	Token       string `json:"token"`
	Description string `json:"description"`
}

// UpdateBotRequest is the body of PUT /api/bots/{id}; absent fields are left unchanged
type UpdateBotRequest struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	IsActive    *bool                  `json:"isActive,omitempty"`
	Settings    map[string]interface{} `json:"settings,omitempty"`
}

// BotStatus is the presentation state of a bot
type BotStatus string

const (
	BotOnline  BotStatus = "online"
	BotOffline BotStatus = "offline"
)

// BotView is a bot with its reachable subscriber count
type BotView struct {
	entities.Bot
	SubscriberCount int64     `json:"subscriberCount"`
	Status          BotStatus `json:"status"`
}

// CreateAutoResponderRequest is the body of POST /api/bots/{id}/auto-responders
type CreateAutoResponderRequest struct {
	Trigger    string                 `json:"trigger"`
	Response   string                 `json:"response"`
	Priority   int                    `json:"priority"`
	IsActive   *bool                  `json:"isActive,omitempty"`
	Conditions map[string]interface{} `json:"conditions,omitempty"`
}
