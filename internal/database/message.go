package database

import (
	"context"

	"github.com/thereayou/voxus/internal/models"
	"gorm.io/gorm"
)

// SaveMessage persists the message and its files together.
func (d *Database) SaveMessage(ctx context.Context, message *models.Message) error {
	return d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(message).Error
	})
}

// GetChannelMessages returns a newest-first page of messages with their files.
func (d *Database) GetChannelMessages(ctx context.Context, channelID uint, offset, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := d.conn(ctx).
		Where("channel_id = ?", channelID).
		Preload("Files").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (d *Database) GetFile(ctx context.Context, id uint) (*models.File, error) {
	var file models.File
	if err := d.conn(ctx).First(&file, id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}
