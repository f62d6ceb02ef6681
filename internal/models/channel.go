package models

import "time"

type Channel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	OwnerID   uint      `gorm:"not null;index" json:"ownerId"`
	IsPrivate bool      `gorm:"not null;default:false" json:"isPrivate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Members []Member `gorm:"foreignKey:ChannelID" json:"members,omitempty"`
}
