package database

import (
	"context"

	"github.com/thereayou/voxus/internal/models"
	"gorm.io/gorm"
)

// CreateInvite inserts the invite; clearBlacklist also lifts the user's ban in the same transaction.
func (d *Database) CreateInvite(ctx context.Context, invite *models.Invite, clearBlacklist bool) error {
	return d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if clearBlacklist {
			err := tx.Where("user_id = ? AND channel_id = ?", invite.UserID, invite.ChannelID).
				Delete(&models.Blacklist{}).Error
			if err != nil {
				return err
			}
		}
		return tx.Omit("User", "Channel").Create(invite).Error
	})
}

func (d *Database) FindInvite(ctx context.Context, userID, channelID uint) (*models.Invite, error) {
	var invite models.Invite
	err := d.conn(ctx).Where("user_id = ? AND channel_id = ?", userID, channelID).First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// DeleteInvite reports whether the invite still existed.
func (d *Database) DeleteInvite(ctx context.Context, id uint) (bool, error) {
	res := d.conn(ctx).Delete(&models.Invite{}, id)
	return res.RowsAffected > 0, res.Error
}

// AcceptInvite turns the invite into a member row. ErrNotFound means a concurrent accept/decline won.
func (d *Database) AcceptInvite(ctx context.Context, invite *models.Invite, member *models.Member) error {
	return d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Invite{}, invite.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Omit("User").Create(member).Error
	})
}

// ListUserInvites returns pending invites of a user with their channels.
func (d *Database) ListUserInvites(ctx context.Context, userID uint) ([]models.Invite, error) {
	var invites []models.Invite
	err := d.conn(ctx).Where("user_id = ?", userID).Preload("Channel").Order("id ASC").Find(&invites).Error
	return invites, err
}

// ListChannelInvites returns pending invites of a channel with the invited users.
func (d *Database) ListChannelInvites(ctx context.Context, channelID uint) ([]models.Invite, error) {
	var invites []models.Invite
	err := d.conn(ctx).Where("channel_id = ?", channelID).Preload("User").Order("id ASC").Find(&invites).Error
	return invites, err
}
