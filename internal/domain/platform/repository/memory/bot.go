package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Conte777/botflow/internal/domain/platform/deps"
	"github.com/Conte777/botflow/internal/domain/platform/entities"
	platformerrors "github.com/Conte777/botflow/internal/domain/platform/errors"
)

// botRepository implements deps.BotRepository using in-memory storage
type botRepository struct {
	s *store
}

func (r *botRepository) Create(ctx context.Context, bot *entities.Bot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.bots {
		if b.Username == bot.Username {
			return platformerrors.ErrBotExists
		}
	}
	if bot.ID == "" {
		bot.ID = uuid.NewString()
	}
	now := time.Now()
	bot.CreatedAt, bot.UpdatedAt = now, now

	stored := *bot
	r.s.bots = append(r.s.bots, &stored)
	return nil
}

func (r *botRepository) GetByID(ctx context.Context, id string) (*entities.Bot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	b := r.s.bot(id)
	if b == nil {
		return nil, platformerrors.ErrBotNotFound
	}
	out := *b
	return &out, nil
}

func (r *botRepository) ListByUser(ctx context.Context, userID string) ([]entities.Bot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	bots := make([]entities.Bot, 0)
	for i := len(r.s.bots) - 1; i >= 0; i-- {
		if r.s.bots[i].UserID == userID {
			bots = append(bots, *r.s.bots[i])
		}
	}
	return bots, nil
}

func (r *botRepository) Update(ctx context.Context, id string, upd deps.BotUpdate) (*entities.Bot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b := r.s.bot(id)
	if b == nil {
		return nil, platformerrors.ErrBotNotFound
	}
	if upd.Name != nil {
		b.Name = *upd.Name
	}
	if upd.Description != nil {
		b.Description = *upd.Description
	}
	if upd.IsActive != nil {
		b.IsActive = *upd.IsActive
	}
	if upd.Settings != nil {
		b.Settings = datatypes.JSONMap(upd.Settings)
	}
	b.UpdatedAt = time.Now()

	out := *b
	return &out, nil
}

func (r *botRepository) SetWebhookURL(ctx context.Context, id, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b := r.s.bot(id)
	if b == nil {
		return platformerrors.ErrBotNotFound
	}
	b.WebhookURL = url
	return nil
}

func (r *botRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.bot(id) == nil {
		return platformerrors.ErrBotNotFound
	}

	r.s.bots = removeWhere(r.s.bots, func(b *entities.Bot) bool { return b.ID == id })
	r.s.subscribers = removeWhere(r.s.subscribers, func(s *entities.Subscriber) bool { return s.BotID == id })
	r.s.campaigns = removeWhere(r.s.campaigns, func(c *entities.Campaign) bool { return c.BotID == id })
	r.s.messages = removeWhere(r.s.messages, func(m entities.Message) bool { return m.BotID == id })
	r.s.responders = removeWhere(r.s.responders, func(a entities.AutoResponder) bool { return a.BotID == id })
	return nil
}

func removeWhere[T any](items []T, match func(T) bool) []T {
	kept := items[:0]
	for _, item := range items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	return kept
}
