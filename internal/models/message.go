package models

import "time"

type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MemberID  uint      `gorm:"not null;index" json:"memberId"`
	ChannelID uint      `gorm:"not null;index" json:"channelId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	Files []File `gorm:"foreignKey:MessageID" json:"files"`
}

type File struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	MessageID uint   `gorm:"not null;index" json:"messageId"`
	ChannelID uint   `gorm:"not null;index" json:"channelId"`
	Path      string `gorm:"not null" json:"-"`
	Name      string `gorm:"not null" json:"name"`
	Size      int64  `gorm:"not null" json:"size"`
	MimeType  string `json:"mimeType"`
}
