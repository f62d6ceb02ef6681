package database

import (
	"context"
	"time"

	"github.com/thereayou/voxus/internal/models"
)

func (d *Database) SaveUser(ctx context.Context, user *models.User) error {
	return d.conn(ctx).Create(user).Error
}

func (d *Database) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := d.conn(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := d.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByNick(ctx context.Context, nick string) (*models.User, error) {
	var user models.User
	if err := d.conn(ctx).Where("nick = ?", nick).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) UpdateUserStatus(ctx context.Context, id uint, status models.UserStatus) error {
	return d.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("status", status).Error
}

func (d *Database) SetUserConnected(ctx context.Context, id uint, connected bool) error {
	return d.conn(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
		"is_connected": connected,
		"last_seen_at": time.Now(),
	}).Error
}

// ResetConnections marks every user disconnected; nothing survives a restart.
func (d *Database) ResetConnections(ctx context.Context) error {
	return d.conn(ctx).Model(&models.User{}).Where("is_connected = ?", true).Update("is_connected", false).Error
}

func (d *Database) ListConnectedUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := d.conn(ctx).Model(&models.User{}).Where("is_connected = ?", true).Pluck("id", &ids).Error
	return ids, err
}

// FilterDisconnectedUserIDs returns the ids among ids whose row says disconnected.
func (d *Database) FilterDisconnectedUserIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []uint
	err := d.conn(ctx).Model(&models.User{}).
		Where("id IN ? AND is_connected = ?", ids, false).
		Order("id ASC").
		Pluck("id", &out).Error
	return out, err
}

// SharedChannelUserIDs lists every other user sharing at least one channel with userID.
func (d *Database) SharedChannelUserIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	channelIDs := d.conn(ctx).Model(&models.Member{}).Select("channel_id").Where("user_id = ?", userID)
	err := d.conn(ctx).Model(&models.Member{}).
		Distinct("user_id").
		Where("channel_id IN (?) AND user_id <> ?", channelIDs, userID).
		Pluck("user_id", &ids).Error
	return ids, err
}
