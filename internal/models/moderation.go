package models

import "time"

// KickVote rows are append-only history. ChannelID is kept so the votes go away with the channel.
type KickVote struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ChannelID      uint      `gorm:"not null;index" json:"channelId"`
	TargetMemberID uint      `gorm:"not null;uniqueIndex:idx_kick_vote_pair;index" json:"targetMemberId"`
	ActingMemberID uint      `gorm:"not null;uniqueIndex:idx_kick_vote_pair" json:"actingMemberId"`
	KickedByOwner  bool      `gorm:"not null;default:false" json:"kickedByOwner"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Blacklist bars a user from rejoining a channel until the owner invites them again.
type Blacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_blacklist_user_channel" json:"userId"`
	ChannelID uint      `gorm:"not null;uniqueIndex:idx_blacklist_user_channel;index" json:"channelId"`
	CreatedAt time.Time `json:"createdAt"`
}
