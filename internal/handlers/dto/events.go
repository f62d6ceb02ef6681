package dto

import "github.com/thereayou/voxus/internal/services"

// Inbound event payloads. Domain rules live in services; tags only check shape.

type ChannelCreate struct {
	Name      string `json:"name" validate:"required"`
	IsPrivate bool   `json:"isPrivate"`
}

type ChannelJoin struct {
	Name string `json:"name" validate:"required"`
}

// ChannelRef is the payload of every event that only names a channel.
type ChannelRef struct {
	ChannelID uint `json:"channelId" validate:"required"`
}

type MemberTarget struct {
	ChannelID      uint `json:"channelId" validate:"required"`
	TargetMemberID uint `json:"targetMemberId" validate:"required"`
}

type NotifStatusUpdate struct {
	ChannelID uint   `json:"channelId" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=all mentions none"`
}

type InviteCreate struct {
	ChannelID uint   `json:"channelId" validate:"required"`
	Nickname  string `json:"nickname" validate:"required"`
}

type MessageList struct {
	ChannelID uint `json:"channelId" validate:"required"`
	Offset    int  `json:"offset" validate:"gte=0"`
}

type MessageSend struct {
	ChannelID uint                 `json:"channelId" validate:"required"`
	Content   string               `json:"content"`
	Files     []services.FileInput `json:"files" validate:"dive"`
}

type Typing struct {
	ChannelID uint   `json:"channelId" validate:"required"`
	Message   string `json:"message"`
}

type UserStatus struct {
	Status string `json:"status" validate:"required,oneof=active dnd"`
}
