package handlers

import (
	"context"

	"github.com/thereayou/voxus/internal/handlers/dto"
	"github.com/thereayou/voxus/internal/logger"
	"github.com/thereayou/voxus/internal/models"
	"github.com/thereayou/voxus/internal/services"
	"github.com/thereayou/voxus/internal/websocket"
)

const (
	userEventConnected    = "connected"
	userEventDisconnected = "disconnected"
	userEventStatus       = "status"
	userEventProfile      = "profile"
)

type userEventPayload struct {
	Type string       `json:"type"`
	User *models.User `json:"user"`
}

// OnConnect subscribes a fresh connection to its channels. Only the user's first
// connection flips the stored flag and is announced.
func (h *EventHandler) OnConnect(client *websocket.Client, first bool) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	unlock := h.hub.LockUser(client.UserID)
	defer unlock()

	if first && !h.hub.IsUserConnected(client.UserID) {
		// closed before we got here; its disconnect already ran or will find nothing to do
		return
	}

	var (
		members  []models.Member
		presence *services.Presence
		err      error
	)
	if first {
		presence, err = h.svc.Connect(ctx, client.UserID)
		if presence != nil {
			members = presence.Members
		}
	} else {
		members, err = h.svc.MemberChannels(ctx, client.UserID)
	}
	if err != nil {
		logger.Error("connect failed", "user_id", client.UserID, "err", err)
		client.SendError(err)
		return
	}

	h.hub.SyncUserGroups(client.UserID, subscriptions(members))

	if presence != nil {
		h.toUsers(presence.Audience, websocket.TypeUserEvent, userEventPayload{Type: userEventConnected, User: presence.User})
	}
	logger.Info("client connected", "user_id", client.UserID, "client_id", client.ID, "channels", len(members))
}

// HandleDisconnect runs after the client left the hub. A newer connection that
// registered in the meantime keeps the user online.
func (h *EventHandler) HandleDisconnect(client *websocket.Client, last bool) {
	logger.Info("client disconnected", "user_id", client.UserID, "client_id", client.ID, "last", last)
	if !last {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	unlock := h.hub.LockUser(client.UserID)
	defer unlock()

	if h.hub.IsUserConnected(client.UserID) {
		logger.Debug("user reconnected before disconnect ran", "user_id", client.UserID)
		return
	}

	presence, err := h.svc.Disconnect(ctx, client.UserID)
	if err != nil {
		logger.Error("disconnect failed", "user_id", client.UserID, "err", err)
		return
	}

	h.toUsers(presence.Audience, websocket.TypeUserEvent, userEventPayload{Type: userEventDisconnected, User: presence.User})
	for _, m := range presence.Members {
		h.clearTyping(m.ChannelID, m.ID)
	}
}

// subscriptions lists the groups a user's connections belong in.
func subscriptions(members []models.Member) []string {
	groups := make([]string, 0, 2*len(members))
	for _, m := range members {
		groups = append(groups, websocket.ChannelGroup(m.ChannelID))
		if services.ReceivesGeneral(m.NotifStatus) {
			groups = append(groups, websocket.GeneralGroup(m.ChannelID))
		}
	}
	return groups
}

// resync replaces the user's subscriptions with the memberships stored right now.
// Callers run it after their change committed; whichever resync runs last wins with fresh data.
func (h *EventHandler) resync(ctx context.Context, userID uint) {
	unlock := h.hub.LockUser(userID)
	defer unlock()

	if !h.hub.IsUserConnected(userID) {
		return
	}
	members, err := h.svc.MemberChannels(ctx, userID)
	if err != nil {
		logger.Error("subscription resync failed", "user_id", userID, "err", err)
		return
	}
	h.hub.SyncUserGroups(userID, subscriptions(members))
}

func (h *EventHandler) updateStatus(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.UserStatus
	if err := h.decode(event, &req); err != nil {
		return err
	}

	presence, err := h.svc.UpdateStatus(ctx, client.UserID, models.UserStatus(req.Status))
	if err != nil {
		return err
	}

	payload := userEventPayload{Type: userEventStatus, User: presence.User}
	h.toUsers(presence.Audience, websocket.TypeUserEvent, payload)
	h.toUser(client.UserID, websocket.TypeUserEvent, payload)
	return nil
}

func (h *EventHandler) me(ctx context.Context, client *websocket.Client) error {
	user, err := h.svc.Me(ctx, client.UserID)
	if err != nil {
		return err
	}
	return reply(client, websocket.TypeUserEvent, userEventPayload{Type: userEventProfile, User: user})
}

// AnnouncePresence tells the audience of a user whose stored connection flag was corrected.
// It stays quiet when the live state moved on since the correction.
func (h *EventHandler) AnnouncePresence(ctx context.Context, userID uint, online bool) {
	unlock := h.hub.LockUser(userID)
	defer unlock()

	if h.hub.IsUserConnected(userID) != online {
		return
	}
	user, err := h.svc.Me(ctx, userID)
	if err != nil {
		logger.Warn("presence announcement skipped", "user_id", userID, "err", err)
		return
	}
	audience, err := h.svc.Audience(ctx, userID)
	if err != nil {
		logger.Warn("presence announcement skipped", "user_id", userID, "err", err)
		return
	}

	eventType := userEventDisconnected
	if online {
		eventType = userEventConnected
	}
	h.toUsers(audience, websocket.TypeUserEvent, userEventPayload{Type: eventType, User: user})
}
