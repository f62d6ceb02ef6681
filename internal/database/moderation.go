package database

import (
	"context"

	"github.com/thereayou/voxus/internal/models"
)

func (d *Database) CreateKickVote(ctx context.Context, vote *models.KickVote) error {
	return d.conn(ctx).Create(vote).Error
}

func (d *Database) FindKickVote(ctx context.Context, actingMemberID, targetMemberID uint) (*models.KickVote, error) {
	var vote models.KickVote
	err := d.conn(ctx).
		Where("acting_member_id = ? AND target_member_id = ?", actingMemberID, targetMemberID).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// CountKickVotes is the authoritative quorum count.
func (d *Database) CountKickVotes(ctx context.Context, targetMemberID uint) (int, error) {
	var count int64
	err := d.conn(ctx).Model(&models.KickVote{}).Where("target_member_id = ?", targetMemberID).Count(&count).Error
	return int(count), err
}

func (d *Database) ListChannelKickVotes(ctx context.Context, channelID uint) ([]models.KickVote, error) {
	var votes []models.KickVote
	err := d.conn(ctx).Where("channel_id = ?", channelID).Order("id ASC").Find(&votes).Error
	return votes, err
}

func (d *Database) IsBlacklisted(ctx context.Context, userID, channelID uint) (bool, error) {
	var count int64
	err := d.conn(ctx).Model(&models.Blacklist{}).
		Where("user_id = ? AND channel_id = ?", userID, channelID).
		Count(&count).Error
	return count > 0, err
}
