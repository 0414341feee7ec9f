// Package dto contains campaign requests and events
package dto

import (
	"time"

	"github.com/Conte777/botflow/internal/domain/platform/entities"
)

// CreateCampaignRequest is the body of POST /api/campaigns
type CreateCampaignRequest struct {
	BotID          string                 `json:"botId"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	Message        string                 `json:"message"`
	ScheduledAt    *time.Time             `json:"scheduledAt,omitempty"`
	TargetAudience map[string]interface{} `json:"targetAudience,omitempty"`
}

// ScheduleCampaignRequest is the body of POST /api/campaigns/{id}/schedule
type ScheduleCampaignRequest struct {
	ScheduledAt *time.Time `json:"scheduledAt"`
}

// CampaignFinishedEvent is published once a campaign reaches completed or failed
type CampaignFinishedEvent struct {
	CampaignID string                      `json:"campaign_id"`
	BotID      string                      `json:"bot_id"`
	Status     entities.CampaignStatus     `json:"status"`
	Statistics entities.CampaignStatistics `json:"statistics"`
	FinishedAt time.Time                   `json:"finished_at"`
}
