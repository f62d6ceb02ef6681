package handlers

import (
	"context"

	"github.com/thereayou/voxus/internal/handlers/dto"
	"github.com/thereayou/voxus/internal/models"
	"github.com/thereayou/voxus/internal/services"
	"github.com/thereayou/voxus/internal/websocket"
)

type channelPayload struct {
	Channel *models.Channel     `json:"channel"`
	Member  services.MemberView `json:"member"`
}

type channelRefPayload struct {
	ChannelID uint   `json:"channelId"`
	Name      string `json:"name,omitempty"`
}

type memberLeftPayload struct {
	ChannelID uint `json:"channelId"`
	MemberID  uint `json:"memberId"`
	UserID    uint `json:"userId"`
}

func (h *EventHandler) listChannels(ctx context.Context, client *websocket.Client) error {
	channels, err := h.svc.ListChannels(ctx, client.UserID)
	if err != nil {
		return err
	}
	return reply(client, websocket.TypeChannelList, map[string]interface{}{"channels": channels})
}

func (h *EventHandler) createChannel(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.ChannelCreate
	if err := h.decode(event, &req); err != nil {
		return err
	}

	created, err := h.svc.CreateChannel(ctx, client.UserID, req.Name, req.IsPrivate)
	if err != nil {
		return err
	}
	return h.admitMember(ctx, created)
}

func (h *EventHandler) joinChannel(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.ChannelJoin
	if err := h.decode(event, &req); err != nil {
		return err
	}

	joined, err := h.svc.JoinChannel(ctx, client.UserID, req.Name)
	if err != nil {
		return err
	}
	return h.admitMember(ctx, joined)
}

// admitMember subscribes every connection of the new member and announces it.
func (h *EventHandler) admitMember(ctx context.Context, m *services.Membership) error {
	userID := m.Member.UserID
	channelID := m.Channel.ID

	h.resync(ctx, userID)

	view, err := h.svc.DescribeMember(ctx, m.Member)
	if err != nil {
		return err
	}
	payload := channelPayload{Channel: m.Channel, Member: view}

	if m.Created {
		h.toUser(userID, websocket.TypeChannelCreated, payload)
		return nil
	}

	h.toUser(userID, websocket.TypeChannelJoined, payload)
	h.toGroup(websocket.ChannelGroup(channelID), websocket.TypeMemberJoined, payload, func(id uint) bool {
		return id == userID
	})
	return nil
}

func (h *EventHandler) listMembers(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.ChannelRef
	if err := h.decode(event, &req); err != nil {
		return err
	}

	members, err := h.svc.ListMembers(ctx, client.UserID, req.ChannelID)
	if err != nil {
		return err
	}
	return reply(client, websocket.TypeChannelMembers, map[string]interface{}{
		"channelId": req.ChannelID,
		"members":   members,
	})
}

func (h *EventHandler) listChannelInvites(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.ChannelRef
	if err := h.decode(event, &req); err != nil {
		return err
	}

	invites, err := h.svc.ListChannelInvites(ctx, client.UserID, req.ChannelID)
	if err != nil {
		return err
	}
	return reply(client, websocket.TypeChannelInvites, map[string]interface{}{
		"channelId": req.ChannelID,
		"invites":   invites,
	})
}

// cancelChannel deletes the channel for its owner and is a plain leave for everyone else.
func (h *EventHandler) cancelChannel(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.ChannelRef
	if err := h.decode(event, &req); err != nil {
		return err
	}

	res, err := h.svc.LeaveOrCancel(ctx, client.UserID, req.ChannelID)
	if err != nil {
		return err
	}

	if res.Deleted {
		h.channelDeleted(ctx, res)
		return nil
	}
	h.memberRemoved(ctx, res.Channel.ID, res.Member, websocket.TypeMemberLeft, memberLeftPayload{
		ChannelID: res.Channel.ID,
		MemberID:  res.Member.ID,
		UserID:    res.Member.UserID,
	})
	h.toUser(res.Member.UserID, websocket.TypeChannelLeft, channelRefPayload{ChannelID: res.Channel.ID, Name: res.Channel.Name})
	return nil
}

func (h *EventHandler) quitChannel(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.ChannelRef
	if err := h.decode(event, &req); err != nil {
		return err
	}

	res, err := h.svc.Quit(ctx, client.UserID, req.ChannelID)
	if err != nil {
		return err
	}
	h.channelDeleted(ctx, res)
	return nil
}

// channelDeleted tells every member, then resyncs each removed user and drops what is left
// of both groups along with the typing state.
func (h *EventHandler) channelDeleted(ctx context.Context, res *services.CancelResult) {
	channel := res.Channel
	group := websocket.ChannelGroup(channel.ID)
	h.toGroup(group, websocket.TypeChannelDeleted, channelRefPayload{ChannelID: channel.ID, Name: channel.Name}, nil)
	for _, userID := range res.RemovedUserIDs {
		h.resync(ctx, userID)
	}
	h.hub.DropGroup(group)
	h.hub.DropGroup(websocket.GeneralGroup(channel.ID))
	h.typing.ClearChannel(channel.ID)
}

// memberRemoved announces a removal to the channel, the removed user included, and then unsubscribes them.
func (h *EventHandler) memberRemoved(ctx context.Context, channelID uint, member *models.Member, eventType websocket.EventType, payload interface{}) {
	h.toGroup(websocket.ChannelGroup(channelID), eventType, payload, nil)
	h.resync(ctx, member.UserID)
	h.clearTyping(channelID, member.ID)
}
