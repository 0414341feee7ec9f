package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/Conte777/botflow/internal/domain/platform/entities"
)

// messageRepository implements deps.MessageRepository using in-memory storage
type messageRepository struct {
	s *store
}

func (r *messageRepository) Create(ctx context.Context, msg *entities.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	r.s.messages = append(r.s.messages, *msg)
	return nil
}

func (r *messageRepository) CreateBatch(ctx context.Context, msgs []entities.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range msgs {
		if msgs[i].ID == "" {
			msgs[i].ID = uuid.NewString()
		}
		r.s.messages = append(r.s.messages, msgs[i])
	}
	return nil
}

// ListRecentByBot returns messages in reverse insertion order
func (r *messageRepository) ListRecentByBot(ctx context.Context, botID string, limit int) ([]entities.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	msgs := make([]entities.Message, 0, limit)
	for i := len(r.s.messages) - 1; i >= 0 && len(msgs) < limit; i-- {
		if r.s.messages[i].BotID == botID {
			msgs = append(msgs, r.s.messages[i])
		}
	}
	return msgs, nil
}

func (r *messageRepository) ListByCampaign(ctx context.Context, campaignID string) ([]entities.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	msgs := make([]entities.Message, 0)
	for _, m := range r.s.messages {
		if m.CampaignID != nil && *m.CampaignID == campaignID {
			msgs = append(msgs, m)
		}
	}
	return msgs, nil
}
