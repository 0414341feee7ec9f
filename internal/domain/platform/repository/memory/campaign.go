package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Conte777/botflow/internal/domain/platform/entities"
	platformerrors "github.com/Conte777/botflow/internal/domain/platform/errors"
)

// campaignRepository implements deps.CampaignRepository using in-memory storage
type campaignRepository struct {
	s *store
}

func (r *campaignRepository) Create(ctx context.Context, c *entities.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now

	stored := *c
	r.s.campaigns = append(r.s.campaigns, &stored)
	return nil
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*entities.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c := r.s.campaign(id)
	if c == nil {
		return nil, platformerrors.ErrCampaignNotFound
	}
	out := *c
	return &out, nil
}

func (r *campaignRepository) ListByUser(ctx context.Context, userID string) ([]entities.Campaign, error) {
	return r.list(func(c *entities.Campaign) bool { return c.UserID == userID }), nil
}

func (r *campaignRepository) ListDue(ctx context.Context, now time.Time) ([]entities.Campaign, error) {
	return r.list(func(c *entities.Campaign) bool {
		return c.Status == entities.CampaignScheduled && c.ScheduledAt != nil && !c.ScheduledAt.After(now)
	}), nil
}

func (r *campaignRepository) ListScheduled(ctx context.Context) ([]entities.Campaign, error) {
	return r.list(func(c *entities.Campaign) bool {
		return c.Status == entities.CampaignScheduled && c.ScheduledAt != nil
	}), nil
}

func (r *campaignRepository) list(keep func(c *entities.Campaign) bool) []entities.Campaign {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	list := make([]entities.Campaign, 0)
	for _, c := range r.s.campaigns {
		if keep(c) {
			list = append(list, *c)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

func (r *campaignRepository) Schedule(ctx context.Context, id string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := r.s.campaign(id)
	if c == nil || (c.Status != entities.CampaignDraft && c.Status != entities.CampaignScheduled) {
		return false, nil
	}
	c.Status = entities.CampaignScheduled
	c.ScheduledAt = &at
	c.UpdatedAt = time.Now()
	return true, nil
}

func (r *campaignRepository) TransitionStatus(
	ctx context.Context,
	id string,
	from []entities.CampaignStatus,
	to entities.CampaignStatus,
) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := r.s.campaign(id)
	if c == nil || !slices.Contains(from, c.Status) {
		return false, nil
	}
	c.Status = to
	c.UpdatedAt = time.Now()
	return true, nil
}

func (r *campaignRepository) Complete(ctx context.Context, id string, stats entities.CampaignStatistics, sentAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := r.s.campaign(id)
	if c == nil || c.Status != entities.CampaignSending {
		return platformerrors.ErrCampaignNotSending
	}
	c.Status = entities.CampaignCompleted
	c.Statistics = datatypes.NewJSONType(stats)
	c.SentAt = &sentAt
	c.UpdatedAt = time.Now()
	return nil
}
