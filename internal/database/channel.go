package database

import (
	"context"

	"github.com/thereayou/voxus/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateChannelWithOwner inserts the channel and its owner member atomically.
func (d *Database) CreateChannelWithOwner(ctx context.Context, channel *models.Channel, owner *models.Member) error {
	return d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(channel).Error; err != nil {
			return err
		}
		owner.ChannelID = channel.ID
		owner.IsOwner = true
		return tx.Omit("User").Create(owner).Error
	})
}

func (d *Database) GetChannel(ctx context.Context, id uint) (*models.Channel, error) {
	var channel models.Channel
	if err := d.conn(ctx).First(&channel, id).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

func (d *Database) FindChannelByName(ctx context.Context, name string) (*models.Channel, error) {
	var channel models.Channel
	if err := d.conn(ctx).Where("name = ?", name).First(&channel).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

// GetUserChannels returns the channels userID belongs to, members and their users preloaded.
func (d *Database) GetUserChannels(ctx context.Context, userID uint) ([]models.Channel, error) {
	var channels []models.Channel
	channelIDs := d.conn(ctx).Model(&models.Member{}).Select("channel_id").Where("user_id = ?", userID)
	err := d.conn(ctx).
		Where("id IN (?)", channelIDs).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Members.User").
		Order("id ASC").
		Find(&channels).Error
	return channels, err
}

// DeleteChannel removes the channel and everything scoped to it and returns the user ids of the
// members it removed. The channel row is locked first so no member can be added meanwhile.
func (d *Database) DeleteChannel(ctx context.Context, id uint) ([]uint, error) {
	var userIDs []uint
	err := d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var channel models.Channel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&channel, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Member{}).Where("channel_id = ?", id).Pluck("user_id", &userIDs).Error; err != nil {
			return err
		}

		for _, scoped := range []interface{}{
			&models.File{},
			&models.Message{},
			&models.KickVote{},
			&models.Invite{},
			&models.Blacklist{},
			&models.Member{},
		} {
			if err := tx.Where("channel_id = ?", id).Delete(scoped).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Channel{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}
