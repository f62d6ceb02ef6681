package models

import "time"

type NotifStatus string

const (
	NotifAll      NotifStatus = "all"
	NotifMentions NotifStatus = "mentions"
	NotifNone     NotifStatus = "none"
)

func (s NotifStatus) Valid() bool {
	switch s {
	case NotifAll, NotifMentions, NotifNone:
		return true
	}
	return false
}

// Member binds one user to one channel. (UserID, ChannelID) is unique.
type Member struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"not null;uniqueIndex:idx_member_user_channel" json:"userId"`
	ChannelID   uint        `gorm:"not null;uniqueIndex:idx_member_user_channel;index" json:"channelId"`
	IsOwner     bool        `gorm:"not null;default:false" json:"isOwner"`
	JoinedAt    time.Time   `gorm:"not null" json:"joinedAt"`
	NotifStatus NotifStatus `gorm:"type:varchar(16);not null;default:all" json:"notifStatus"`
	// KickVotes is a display counter; the kick_votes table is authoritative.
	KickVotes int `gorm:"not null;default:0" json:"kickVotes"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}
