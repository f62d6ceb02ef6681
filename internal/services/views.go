package services

import (
	"time"

	"github.com/thereayou/voxus/internal/models"
)

// MemberView is a member as clients see it.
type MemberView struct {
	ID                uint               `json:"id"`
	UserID            uint               `json:"userId"`
	ChannelID         uint               `json:"channelId"`
	Nickname          string             `json:"nickname"`
	Status            models.UserStatus  `json:"status"`
	IsConnected       bool               `json:"isConnected"`
	IsOwner           bool               `json:"isOwner"`
	NotifStatus       models.NotifStatus `json:"notifStatus"`
	JoinedAt          time.Time          `json:"joinedAt"`
	KickVotes         int                `json:"kickVotes"`
	ReceivedKickVotes []uint             `json:"receivedKickVotes"`
}

func newMemberView(m *models.Member, user *models.User) MemberView {
	view := MemberView{
		ID:                m.ID,
		UserID:            m.UserID,
		ChannelID:         m.ChannelID,
		IsOwner:           m.IsOwner,
		NotifStatus:       m.NotifStatus,
		JoinedAt:          m.JoinedAt,
		KickVotes:         m.KickVotes,
		ReceivedKickVotes: []uint{},
	}
	if user != nil {
		view.Nickname = user.Nick
		view.Status = user.Status
		view.IsConnected = user.IsConnected
	}
	return view
}

// ChannelView is a channel with its members.
type ChannelView struct {
	ID        uint         `json:"id"`
	Name      string       `json:"name"`
	OwnerID   uint         `json:"ownerId"`
	IsPrivate bool         `json:"isPrivate"`
	CreatedAt time.Time    `json:"createdAt"`
	Members   []MemberView `json:"members"`
}

func newChannelView(c *models.Channel) ChannelView {
	view := ChannelView{
		ID:        c.ID,
		Name:      c.Name,
		OwnerID:   c.OwnerID,
		IsPrivate: c.IsPrivate,
		CreatedAt: c.CreatedAt,
		Members:   make([]MemberView, 0, len(c.Members)),
	}
	for i := range c.Members {
		m := &c.Members[i]
		view.Members = append(view.Members, newMemberView(m, &m.User))
	}
	return view
}

type InviteView struct {
	ID          uint      `json:"id"`
	ChannelID   uint      `json:"channelId"`
	ChannelName string    `json:"channelName,omitempty"`
	UserID      uint      `json:"userId"`
	Nickname    string    `json:"nickname,omitempty"`
	InvitedAt   time.Time `json:"invitedAt"`
}

type AuthorView struct {
	MemberID uint   `json:"memberId"`
	UserID   uint   `json:"userId"`
	Nickname string `json:"nickname"`
}

type FileView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

// MessageView is the delivery-ready projection of a stored message.
type MessageView struct {
	ID        uint       `json:"id"`
	ChannelID uint       `json:"channelId"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	Author    AuthorView `json:"author"`
	Files     []FileView `json:"files"`
	Mentions  []uint     `json:"mentions"`
}

func newMessageView(m *models.Message, author AuthorView, mentions []uint) MessageView {
	view := MessageView{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		Author:    author,
		Files:     make([]FileView, 0, len(m.Files)),
		Mentions:  mentions,
	}
	if view.Mentions == nil {
		view.Mentions = []uint{}
	}
	for _, f := range m.Files {
		view.Files = append(view.Files, FileView{ID: f.ID, Name: f.Name, Size: f.Size, MimeType: f.MimeType})
	}
	return view
}
