// Package postgres contains gorm implementations of the platform repositories
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Conte777/botflow/internal/domain/platform/deps"
	"github.com/Conte777/botflow/internal/domain/platform/entities"
	platformerrors "github.com/Conte777/botflow/internal/domain/platform/errors"
)

type botRepository struct {
	db *gorm.DB
}

// NewBotRepository creates a new bot repository
func NewBotRepository(db *gorm.DB) deps.BotRepository {
	return &botRepository{db: db}
}

func (r *botRepository) Create(ctx context.Context, bot *entities.Bot) error {
	if bot.ID == "" {
		bot.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(bot).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.ErrBotExists
		}
		return dbError("create bot", err)
	}
	return nil
}

func (r *botRepository) GetByID(ctx context.Context, id string) (*entities.Bot, error) {
	var bot entities.Bot
	if err := r.db.WithContext(ctx).First(&bot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.ErrBotNotFound
		}
		return nil, dbError("get bot", err)
	}
	return &bot, nil
}

func (r *botRepository) ListByUser(ctx context.Context, userID string) ([]entities.Bot, error) {
	var bots []entities.Bot
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bots).Error; err != nil {
		return nil, dbError("list bots", err)
	}
	return bots, nil
}

func (r *botRepository) Update(ctx context.Context, id string, upd deps.BotUpdate) (*entities.Bot, error) {
	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.IsActive != nil {
		fields["is_active"] = *upd.IsActive
	}
	if upd.Settings != nil {
		fields["settings"] = datatypes.JSONMap(upd.Settings)
	}

	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&entities.Bot{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, dbError("update bot", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, platformerrors.ErrBotNotFound
		}
	}

	return r.GetByID(ctx, id)
}

func (r *botRepository) SetWebhookURL(ctx context.Context, id, url string) error {
	res := r.db.WithContext(ctx).Model(&entities.Bot{}).Where("id = ?", id).Update("webhook_url", url)
	if res.Error != nil {
		return dbError("set webhook url", res.Error)
	}
	if res.RowsAffected == 0 {
		return platformerrors.ErrBotNotFound
	}
	return nil
}

func (r *botRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []interface{}{
			&entities.Message{},
			&entities.AutoResponder{},
			&entities.Campaign{},
			&entities.Subscriber{},
		}
		for _, model := range owned {
			if err := tx.Where("bot_id = ?", id).Delete(model).Error; err != nil {
				return dbError("delete bot children", err)
			}
		}

		res := tx.Delete(&entities.Bot{}, "id = ?", id)
		if res.Error != nil {
			return dbError("delete bot", res.Error)
		}
		if res.RowsAffected == 0 {
			return platformerrors.ErrBotNotFound
		}
		return nil
	})
}

func dbError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", platformerrors.ErrDatabaseOperation, op, err)
}
