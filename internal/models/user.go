package models

import "time"

type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusDND    UserStatus = "dnd"
)

func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusDND
}

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Nick         string     `gorm:"uniqueIndex;not null" json:"nick"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Status       UserStatus `gorm:"type:varchar(16);not null;default:active" json:"status"`
	// IsConnected is derived from live connections, never set by the user.
	IsConnected bool      `gorm:"not null;default:false" json:"isConnected"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
