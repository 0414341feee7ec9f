// Package memory contains in-memory implementations of the platform repositories
package memory

import (
	"sync"

	"github.com/Conte777/botflow/internal/domain/platform/deps"
	"github.com/Conte777/botflow/internal/domain/platform/entities"
)

// store is shared by all repositories of one gateway so that bot deletion can cascade
type store struct {
	mu          sync.RWMutex
	bots        []*entities.Bot
	subscribers []*entities.Subscriber
	messages    []entities.Message
	responders  []entities.AutoResponder
	campaigns   []*entities.Campaign
}

// NewGateway creates an in-memory gateway with all repositories sharing one store
func NewGateway() deps.Gateway {
	s := &store{}
	return deps.Gateway{
		Bots:           &botRepository{s: s},
		Subscribers:    &subscriberRepository{s: s},
		Messages:       &messageRepository{s: s},
		AutoResponders: &autoResponderRepository{s: s},
		Campaigns:      &campaignRepository{s: s},
	}
}

func (s *store) bot(id string) *entities.Bot {
	for _, b := range s.bots {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (s *store) subscriber(id string) *entities.Subscriber {
	for _, sub := range s.subscribers {
		if sub.ID == id {
			return sub
		}
	}
	return nil
}

func (s *store) campaign(id string) *entities.Campaign {
	for _, c := range s.campaigns {
		if c.ID == id {
			return c
		}
	}
	return nil
}
