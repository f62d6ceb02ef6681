package handlers

import (
	"context"

	"github.com/thereayou/voxus/internal/handlers/dto"
	"github.com/thereayou/voxus/internal/websocket"
)

func (h *EventHandler) listInvites(ctx context.Context, client *websocket.Client) error {
	invites, err := h.svc.ListUserInvites(ctx, client.UserID)
	if err != nil {
		return err
	}
	return reply(client, websocket.TypeInviteList, map[string]interface{}{"invites": invites})
}

func (h *EventHandler) createInvite(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.InviteCreate
	if err := h.decode(event, &req); err != nil {
		return err
	}

	res, err := h.svc.InviteUser(ctx, client.UserID, req.ChannelID, req.Nickname)
	if err != nil {
		return err
	}

	h.toUser(res.Target.ID, websocket.TypeInviteReceived, res.View)
	return reply(client, websocket.TypeInviteCreated, res.View)
}

func (h *EventHandler) acceptInvite(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.ChannelRef
	if err := h.decode(event, &req); err != nil {
		return err
	}

	joined, err := h.svc.AcceptInvite(ctx, client.UserID, req.ChannelID)
	if err != nil {
		return err
	}
	return h.admitMember(ctx, joined)
}

func (h *EventHandler) declineInvite(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.ChannelRef
	if err := h.decode(event, &req); err != nil {
		return err
	}

	if _, err := h.svc.DeclineInvite(ctx, client.UserID, req.ChannelID); err != nil {
		return err
	}
	h.toUser(client.UserID, websocket.TypeInviteDeclined, channelRefPayload{ChannelID: req.ChannelID})
	return nil
}
