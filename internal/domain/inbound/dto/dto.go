// Package dto contains inbound event payloads
package dto

import (
	"encoding/json"
	"time"
)

// UpdateEnvelope is the queued form of a webhook update
type UpdateEnvelope struct {
	BotID      string          `json:"bot_id"`
	Update     json.RawMessage `json:"update"`
	ReceivedAt time.Time       `json:"received_at"`
}

// SubscriberEvent is published when a subscription changes
type SubscriberEvent struct {
	BotID        string    `json:"bot_id"`
	SubscriberID string    `json:"subscriber_id"`
	ExternalID   string    `json:"external_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}
