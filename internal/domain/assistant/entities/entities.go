// Package entities contains assistant domain types
package entities

import (
	platform "github.com/Conte777/botflow/internal/domain/platform/entities"
)

// Reply is a generated answer together with the path that produced it.
// Origin is OriginAI when the backend answered and OriginFallback otherwise.
type Reply struct {
	Text   string
	Origin platform.ReplyOrigin
}

// Degraded reports whether the canned fallback was used
func (r Reply) Degraded() bool {
	return r.Origin == platform.OriginFallback
}

// ConversationContext describes who is talking to which bot
type ConversationContext struct {
	BotName        string
	SubscriberName string
	Purpose        string

	// RecentMessages are "direction: content" lines, oldest first
	RecentMessages []string
}

// Tone is the voice of generated campaign copy
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	TonePromotional  Tone = "promotional"
)

// DefaultTone is used when no tone is requested
const DefaultTone = ToneFriendly

// Valid reports whether t is a known tone
func (t Tone) Valid() bool {
	switch t {
	case ToneProfessional, ToneFriendly, TonePromotional:
		return true
	}
	return false
}

// DefaultGoals are used when copy improvement is requested without goals
var DefaultGoals = []string{"engaging", "clear"}

// DefaultPurpose describes a bot that has no description
const DefaultPurpose = "Customer support and engagement"

const (
	// CampaignCopyUnconfigured is returned when no generation backend is configured
	CampaignCopyUnconfigured = "Your campaign message content would go here. Please add a Gemini API key for AI-generated content."
	// CampaignCopyPlaceholder is returned when generation fails
	CampaignCopyPlaceholder = "Your campaign message content would go here."
)
