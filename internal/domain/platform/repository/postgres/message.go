package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Conte777/botflow/internal/domain/platform/deps"
	"github.com/Conte777/botflow/internal/domain/platform/entities"
)

const messageBatchSize = 100

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message log repository
func NewMessageRepository(db *gorm.DB) deps.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *entities.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return dbError("create message", err)
	}
	return nil
}

func (r *messageRepository) CreateBatch(ctx context.Context, msgs []entities.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	for i := range msgs {
		if msgs[i].ID == "" {
			msgs[i].ID = uuid.NewString()
		}
	}
	if err := r.db.WithContext(ctx).CreateInBatches(msgs, messageBatchSize).Error; err != nil {
		return dbError("create messages", err)
	}
	return nil
}

func (r *messageRepository) ListRecentByBot(ctx context.Context, botID string, limit int) ([]entities.Message, error) {
	var msgs []entities.Message
	if err := r.db.WithContext(ctx).
		Where("bot_id = ?", botID).
		Order("sent_at DESC").
		Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, dbError("list recent messages", err)
	}
	return msgs, nil
}

func (r *messageRepository) ListByCampaign(ctx context.Context, campaignID string) ([]entities.Message, error) {
	var msgs []entities.Message
	if err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("sent_at ASC").
		Find(&msgs).Error; err != nil {
		return nil, dbError("list campaign messages", err)
	}
	return msgs, nil
}
