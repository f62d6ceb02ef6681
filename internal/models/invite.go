package models

import "time"

type Invite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_invite_user_channel" json:"userId"`
	ChannelID uint      `gorm:"not null;uniqueIndex:idx_invite_user_channel;index" json:"channelId"`
	CreatedAt time.Time `json:"createdAt"`

	User    User    `gorm:"foreignKey:UserID" json:"user"`
	Channel Channel `gorm:"foreignKey:ChannelID" json:"-"`
}
