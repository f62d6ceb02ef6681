package handlers

import (
	"context"

	"github.com/thereayou/voxus/internal/handlers/dto"
	"github.com/thereayou/voxus/internal/models"
	"github.com/thereayou/voxus/internal/websocket"
)

type kickPayload struct {
	ChannelID uint   `json:"channelId"`
	MemberID  uint   `json:"memberId"`
	UserID    uint   `json:"userId"`
	Nickname  string `json:"nickname"`
	Votes     int    `json:"votes"`
	ByOwner   bool   `json:"byOwner"`
}

type notifPayload struct {
	ChannelID uint               `json:"channelId"`
	MemberID  uint               `json:"memberId"`
	Status    models.NotifStatus `json:"status"`
}

func (h *EventHandler) kickVote(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.MemberTarget
	if err := h.decode(event, &req); err != nil {
		return err
	}

	res, err := h.svc.CastKickVote(ctx, client.UserID, req.ChannelID, req.TargetMemberID)
	if err != nil {
		return err
	}

	payload := kickPayload{
		ChannelID: req.ChannelID,
		MemberID:  res.Target.ID,
		UserID:    res.Target.UserID,
		Nickname:  res.User.Nick,
		Votes:     res.Votes,
		ByOwner:   res.ByOwner,
	}

	switch {
	case !res.Kicked:
		h.toGroup(websocket.ChannelGroup(req.ChannelID), websocket.TypeMemberKickVoted, payload, nil)
	case res.Applied:
		h.memberRemoved(ctx, req.ChannelID, res.Target, websocket.TypeMemberKicked, payload)
	default:
		// a concurrent removal already announced it
		return reply(client, websocket.TypeMemberKicked, payload)
	}
	return nil
}

func (h *EventHandler) revokeMember(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.MemberTarget
	if err := h.decode(event, &req); err != nil {
		return err
	}

	res, err := h.svc.RevokeMember(ctx, client.UserID, req.ChannelID, req.TargetMemberID)
	if err != nil {
		return err
	}

	payload := kickPayload{
		ChannelID: req.ChannelID,
		MemberID:  res.Target.ID,
		UserID:    res.Target.UserID,
		Nickname:  res.User.Nick,
		ByOwner:   true,
	}
	if !res.Applied {
		return reply(client, websocket.TypeMemberRevoked, payload)
	}
	h.memberRemoved(ctx, req.ChannelID, res.Target, websocket.TypeMemberRevoked, payload)
	return nil
}

// updateNotifStatus moves the user's connections in or out of the general group before acknowledging.
func (h *EventHandler) updateNotifStatus(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.NotifStatusUpdate
	if err := h.decode(event, &req); err != nil {
		return err
	}

	member, err := h.svc.UpdateNotifStatus(ctx, client.UserID, req.ChannelID, models.NotifStatus(req.Status))
	if err != nil {
		return err
	}

	h.resync(ctx, client.UserID)

	h.toUser(client.UserID, websocket.TypeMemberNotifStatus, notifPayload{
		ChannelID: req.ChannelID,
		MemberID:  member.ID,
		Status:    member.NotifStatus,
	})
	return nil
}
