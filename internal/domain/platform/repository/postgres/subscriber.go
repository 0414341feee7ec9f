package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Conte777/botflow/internal/domain/platform/deps"
	"github.com/Conte777/botflow/internal/domain/platform/entities"
	platformerrors "github.com/Conte777/botflow/internal/domain/platform/errors"
)

type subscriberRepository struct {
	db *gorm.DB
}

// NewSubscriberRepository creates a new subscriber repository
func NewSubscriberRepository(db *gorm.DB) deps.SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) GetByExternalID(ctx context.Context, botID, externalID string) (*entities.Subscriber, error) {
	var sub entities.Subscriber
	err := r.db.WithContext(ctx).
		Where("bot_id = ? AND external_id = ?", botID, externalID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.ErrSubscriberNotFound
		}
		return nil, dbError("get subscriber", err)
	}
	return &sub, nil
}

func (r *subscriberRepository) Create(ctx context.Context, sub *entities.Subscriber) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.ErrSubscriberExists
		}
		return dbError("create subscriber", err)
	}
	return nil
}

func (r *subscriberRepository) TouchLastInteraction(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{"last_interaction": at})
}

func (r *subscriberRepository) OptOut(ctx context.Context, id string) error {
	return r.update(ctx, id, map[string]interface{}{
		"is_active": false,
		"opted_in":  false,
	})
}

func (r *subscriberRepository) OptIn(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"is_active":   true,
		"opted_in":    true,
		"opted_in_at": at,
	})
}

func (r *subscriberRepository) update(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&entities.Subscriber{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return dbError("update subscriber", res.Error)
	}
	if res.RowsAffected == 0 {
		return platformerrors.ErrSubscriberNotFound
	}
	return nil
}

func (r *subscriberRepository) ListByBot(ctx context.Context, botID string) ([]entities.Subscriber, error) {
	var subs []entities.Subscriber
	if err := r.db.WithContext(ctx).
		Where("bot_id = ?", botID).
		Order("created_at ASC").
		Find(&subs).Error; err != nil {
		return nil, dbError("list subscribers", err)
	}
	return subs, nil
}

func (r *subscriberRepository) ListReachable(ctx context.Context, botID string) ([]entities.Subscriber, error) {
	var subs []entities.Subscriber
	if err := r.reachable(ctx, botID).Order("created_at ASC").Find(&subs).Error; err != nil {
		return nil, dbError("list reachable subscribers", err)
	}
	return subs, nil
}

func (r *subscriberRepository) CountReachable(ctx context.Context, botID string) (int64, error) {
	var count int64
	if err := r.reachable(ctx, botID).Count(&count).Error; err != nil {
		return 0, dbError("count reachable subscribers", err)
	}
	return count, nil
}

func (r *subscriberRepository) reachable(ctx context.Context, botID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&entities.Subscriber{}).
		Where("bot_id = ? AND is_active = ? AND opted_in = ?", botID, true, true)
}
