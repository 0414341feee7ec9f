package postgres

import (
	"gorm.io/gorm"

	"github.com/Conte777/botflow/internal/domain/platform/deps"
)

// NewGateway creates every gorm-backed repository over one connection
func NewGateway(db *gorm.DB) deps.Gateway {
	return deps.Gateway{
		Bots:           NewBotRepository(db),
		Subscribers:    NewSubscriberRepository(db),
		Messages:       NewMessageRepository(db),
		AutoResponders: NewAutoResponderRepository(db),
		Campaigns:      NewCampaignRepository(db),
	}
}
