package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Conte777/botflow/internal/domain/platform/entities"
	platformerrors "github.com/Conte777/botflow/internal/domain/platform/errors"
)

// subscriberRepository implements deps.SubscriberRepository using in-memory storage
type subscriberRepository struct {
	s *store
}

func (r *subscriberRepository) GetByExternalID(ctx context.Context, botID, externalID string) (*entities.Subscriber, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, sub := range r.s.subscribers {
		if sub.BotID == botID && sub.ExternalID == externalID {
			out := *sub
			return &out, nil
		}
	}
	return nil, platformerrors.ErrSubscriberNotFound
}

func (r *subscriberRepository) Create(ctx context.Context, sub *entities.Subscriber) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.subscribers {
		if existing.BotID == sub.BotID && existing.ExternalID == sub.ExternalID {
			return platformerrors.ErrSubscriberExists
		}
	}
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := time.Now()
	sub.CreatedAt, sub.UpdatedAt = now, now

	stored := *sub
	r.s.subscribers = append(r.s.subscribers, &stored)
	return nil
}

func (r *subscriberRepository) TouchLastInteraction(ctx context.Context, id string, at time.Time) error {
	return r.mutate(id, func(sub *entities.Subscriber) {
		sub.LastInteraction = at
	})
}

func (r *subscriberRepository) OptOut(ctx context.Context, id string) error {
	return r.mutate(id, func(sub *entities.Subscriber) {
		sub.IsActive = false
		sub.OptedIn = false
	})
}

func (r *subscriberRepository) OptIn(ctx context.Context, id string, at time.Time) error {
	return r.mutate(id, func(sub *entities.Subscriber) {
		sub.IsActive = true
		sub.OptedIn = true
		sub.OptedInAt = &at
	})
}

func (r *subscriberRepository) mutate(id string, fn func(sub *entities.Subscriber)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sub := r.s.subscriber(id)
	if sub == nil {
		return platformerrors.ErrSubscriberNotFound
	}
	fn(sub)
	sub.UpdatedAt = time.Now()
	return nil
}

func (r *subscriberRepository) ListByBot(ctx context.Context, botID string) ([]entities.Subscriber, error) {
	return r.list(botID, func(entities.Subscriber) bool { return true }), nil
}

func (r *subscriberRepository) ListReachable(ctx context.Context, botID string) ([]entities.Subscriber, error) {
	return r.list(botID, entities.Subscriber.Reachable), nil
}

func (r *subscriberRepository) CountReachable(ctx context.Context, botID string) (int64, error) {
	return int64(len(r.list(botID, entities.Subscriber.Reachable))), nil
}

func (r *subscriberRepository) list(botID string, keep func(entities.Subscriber) bool) []entities.Subscriber {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	subs := make([]entities.Subscriber, 0)
	for _, sub := range r.s.subscribers {
		if sub.BotID == botID && keep(*sub) {
			subs = append(subs, *sub)
		}
	}
	return subs
}
