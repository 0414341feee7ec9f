package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Conte777/botflow/internal/domain/platform/deps"
	"github.com/Conte777/botflow/internal/domain/platform/entities"
)

type autoResponderRepository struct {
	db *gorm.DB
}

// NewAutoResponderRepository creates a new auto-responder repository
func NewAutoResponderRepository(db *gorm.DB) deps.AutoResponderRepository {
	return &autoResponderRepository{db: db}
}

func (r *autoResponderRepository) Create(ctx context.Context, ar *entities.AutoResponder) error {
	if ar.ID == "" {
		ar.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(ar).Error; err != nil {
		return dbError("create auto-responder", err)
	}
	return nil
}

func (r *autoResponderRepository) ListByBot(ctx context.Context, botID string) ([]entities.AutoResponder, error) {
	var list []entities.AutoResponder
	if err := r.db.WithContext(ctx).
		Where("bot_id = ?", botID).
		Order("priority DESC, created_at ASC").
		Find(&list).Error; err != nil {
		return nil, dbError("list auto-responders", err)
	}
	return list, nil
}
