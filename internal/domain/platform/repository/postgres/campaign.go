package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Conte777/botflow/internal/domain/platform/deps"
	"github.com/Conte777/botflow/internal/domain/platform/entities"
	platformerrors "github.com/Conte777/botflow/internal/domain/platform/errors"
)

type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *gorm.DB) deps.CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(ctx context.Context, c *entities.Campaign) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return dbError("create campaign", err)
	}
	return nil
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*entities.Campaign, error) {
	var c entities.Campaign
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.ErrCampaignNotFound
		}
		return nil, dbError("get campaign", err)
	}
	return &c, nil
}

func (r *campaignRepository) ListByUser(ctx context.Context, userID string) ([]entities.Campaign, error) {
	var list []entities.Campaign
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, dbError("list campaigns", err)
	}
	return list, nil
}

func (r *campaignRepository) ListDue(ctx context.Context, now time.Time) ([]entities.Campaign, error) {
	var list []entities.Campaign
	if err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", entities.CampaignScheduled, now).
		Order("scheduled_at ASC").
		Find(&list).Error; err != nil {
		return nil, dbError("list due campaigns", err)
	}
	return list, nil
}

func (r *campaignRepository) ListScheduled(ctx context.Context) ([]entities.Campaign, error) {
	var list []entities.Campaign
	if err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at IS NOT NULL", entities.CampaignScheduled).
		Order("scheduled_at ASC").
		Find(&list).Error; err != nil {
		return nil, dbError("list scheduled campaigns", err)
	}
	return list, nil
}

func (r *campaignRepository) Schedule(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Campaign{}).
		Where("id = ? AND status IN ?", id, []entities.CampaignStatus{entities.CampaignDraft, entities.CampaignScheduled}).
		Updates(map[string]interface{}{
			"status":       entities.CampaignScheduled,
			"scheduled_at": at,
		})
	if res.Error != nil {
		return false, dbError("schedule campaign", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *campaignRepository) TransitionStatus(
	ctx context.Context,
	id string,
	from []entities.CampaignStatus,
	to entities.CampaignStatus,
) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Campaign{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, dbError("transition campaign", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *campaignRepository) Complete(ctx context.Context, id string, stats entities.CampaignStatistics, sentAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Campaign{}).
		Where("id = ? AND status = ?", id, entities.CampaignSending).
		Updates(map[string]interface{}{
			"status":     entities.CampaignCompleted,
			"statistics": datatypes.NewJSONType(stats),
			"sent_at":    sentAt,
		})
	if res.Error != nil {
		return dbError("complete campaign", res.Error)
	}
	if res.RowsAffected == 0 {
		return platformerrors.ErrCampaignNotSending
	}
	return nil
}
