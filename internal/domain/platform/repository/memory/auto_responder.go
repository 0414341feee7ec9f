package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Conte777/botflow/internal/domain/platform/entities"
)

// autoResponderRepository implements deps.AutoResponderRepository using in-memory storage
type autoResponderRepository struct {
	s *store
}

func (r *autoResponderRepository) Create(ctx context.Context, ar *entities.AutoResponder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if ar.ID == "" {
		ar.ID = uuid.NewString()
	}
	now := time.Now()
	ar.CreatedAt, ar.UpdatedAt = now, now
	r.s.responders = append(r.s.responders, *ar)
	return nil
}

func (r *autoResponderRepository) ListByBot(ctx context.Context, botID string) ([]entities.AutoResponder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]entities.AutoResponder, 0)
	for _, ar := range r.s.responders {
		if ar.BotID == botID {
			list = append(list, ar)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Priority > list[j].Priority
	})
	return list, nil
}
