package database

import (
	"context"

	"github.com/thereayou/voxus/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (d *Database) CreateMember(ctx context.Context, member *models.Member) error {
	return d.conn(ctx).Omit("User").Create(member).Error
}

// JoinWithInvite creates the member and consumes any pending invite of the pair in one transaction.
func (d *Database) JoinWithInvite(ctx context.Context, member *models.Member) error {
	return d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(member).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND channel_id = ?", member.UserID, member.ChannelID).
			Delete(&models.Invite{}).Error
	})
}

func (d *Database) GetMember(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	if err := d.conn(ctx).First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func (d *Database) FindMember(ctx context.Context, userID, channelID uint) (*models.Member, error) {
	var member models.Member
	err := d.conn(ctx).Where("user_id = ? AND channel_id = ?", userID, channelID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListChannelMembers returns members ordered by id with users preloaded.
func (d *Database) ListChannelMembers(ctx context.Context, channelID uint) ([]models.Member, error) {
	var members []models.Member
	err := d.conn(ctx).Where("channel_id = ?", channelID).Preload("User").Order("id ASC").Find(&members).Error
	return members, err
}

func (d *Database) ListUserMembers(ctx context.Context, userID uint) ([]models.Member, error) {
	var members []models.Member
	err := d.conn(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&members).Error
	return members, err
}

// DeleteMember reports whether a row was removed, so concurrent removals act once.
func (d *Database) DeleteMember(ctx context.Context, id uint) (bool, error) {
	res := d.conn(ctx).Delete(&models.Member{}, id)
	return res.RowsAffected > 0, res.Error
}

// KickMember deletes the member and blacklists the user for the channel.
func (d *Database) KickMember(ctx context.Context, member *models.Member) (bool, error) {
	removed := false
	err := d.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Member{}, member.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		entry := models.Blacklist{UserID: member.UserID, ChannelID: member.ChannelID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
	})
	return removed, err
}

func (d *Database) UpdateMemberNotifStatus(ctx context.Context, id uint, status models.NotifStatus) error {
	return d.conn(ctx).Model(&models.Member{}).Where("id = ?", id).Update("notif_status", status).Error
}

func (d *Database) UpdateMemberKickVotes(ctx context.Context, id uint, votes int) error {
	return d.conn(ctx).Model(&models.Member{}).Where("id = ?", id).Update("kick_votes", votes).Error
}
