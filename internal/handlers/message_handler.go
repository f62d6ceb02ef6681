package handlers

import (
	"context"
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/thereayou/voxus/internal/handlers/dto"
	"github.com/thereayou/voxus/internal/logger"
	"github.com/thereayou/voxus/internal/services"
	"github.com/thereayou/voxus/internal/typing"
	"github.com/thereayou/voxus/internal/validator"
	"github.com/thereayou/voxus/internal/websocket"
	"github.com/thereayou/voxus/pkg/apperrors"
)

const requestTimeout = 10 * time.Second

// EventHandler dispatches client events to the service and fans the results out through the hub.
// Broadcasts happen only after the service call returned without error.
type EventHandler struct {
	svc      *services.Service
	hub      *websocket.Hub
	typing   *typing.Cache
	validate *validator.Validator
}

func NewEventHandler(svc *services.Service, hub *websocket.Hub, typingCache *typing.Cache) *EventHandler {
	return &EventHandler{
		svc:      svc,
		hub:      hub,
		typing:   typingCache,
		validate: validator.New(),
	}
}

func (h *EventHandler) HandleMessage(client *websocket.Client, event *websocket.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch event.Type {
	case websocket.TypeChannelList:
		return h.listChannels(ctx, client)
	case websocket.TypeChannelCreate:
		return h.createChannel(ctx, client, event)
	case websocket.TypeChannelJoin:
		return h.joinChannel(ctx, client, event)
	case websocket.TypeChannelListMembers:
		return h.listMembers(ctx, client, event)
	case websocket.TypeChannelListInvites:
		return h.listChannelInvites(ctx, client, event)
	case websocket.TypeChannelCancel:
		return h.cancelChannel(ctx, client, event)
	case websocket.TypeChannelQuit:
		return h.quitChannel(ctx, client, event)

	case websocket.TypeMemberKickVote:
		return h.kickVote(ctx, client, event)
	case websocket.TypeMemberRevoke:
		return h.revokeMember(ctx, client, event)
	case websocket.TypeMemberNotifUpdate:
		return h.updateNotifStatus(ctx, client, event)

	case websocket.TypeInviteList:
		return h.listInvites(ctx, client)
	case websocket.TypeInviteCreate:
		return h.createInvite(ctx, client, event)
	case websocket.TypeInviteAccept:
		return h.acceptInvite(ctx, client, event)
	case websocket.TypeInviteDecline:
		return h.declineInvite(ctx, client, event)

	case websocket.TypeMsgList:
		return h.listMessages(ctx, client, event)
	case websocket.TypeMsgSend:
		return h.sendMessage(ctx, client, event)
	case websocket.TypeMsgTyping:
		return h.setTyping(ctx, client, event)

	case websocket.TypeUserStatus:
		return h.updateStatus(ctx, client, event)
	case websocket.TypeUserMe:
		return h.me(ctx, client)

	default:
		logger.Debug("unknown event type", "type", event.Type, "user_id", client.UserID)
		return apperrors.Validation("unknown event type " + string(event.Type))
	}
}

func (h *EventHandler) decode(event *websocket.Event, dst interface{}) error {
	if len(event.Data) > 0 {
		if err := json.Unmarshal(event.Data, dst); err != nil {
			return apperrors.Validation("malformed payload")
		}
	}
	return h.validate.Validate(dst)
}

func reply(client *websocket.Client, eventType websocket.EventType, data interface{}) error {
	if err := client.SendEvent(eventType, data); err != nil {
		logger.Warn("reply dropped", "type", eventType, "user_id", client.UserID, "err", err)
	}
	return nil
}

func encode(eventType websocket.EventType, data interface{}) []byte {
	msg, err := websocket.Encode(eventType, data)
	if err != nil {
		logger.Error("event encoding failed", "type", eventType, "err", err)
		return nil
	}
	return msg
}

func (h *EventHandler) toGroup(group string, eventType websocket.EventType, data interface{}, exclude func(uint) bool) map[uint]bool {
	msg := encode(eventType, data)
	if msg == nil {
		return nil
	}
	return h.hub.SendToGroup(group, msg, exclude)
}

func (h *EventHandler) toUser(userID uint, eventType websocket.EventType, data interface{}) {
	if msg := encode(eventType, data); msg != nil {
		h.hub.SendToUser(userID, msg)
	}
}

func (h *EventHandler) toUsers(userIDs []uint, eventType websocket.EventType, data interface{}) {
	if len(userIDs) == 0 {
		return
	}
	if msg := encode(eventType, data); msg != nil {
		h.hub.SendToUsers(userIDs, msg)
	}
}

func (h *EventHandler) listMessages(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.MessageList
	if err := h.decode(event, &req); err != nil {
		return err
	}

	page, err := h.svc.ListMessages(ctx, client.UserID, req.ChannelID, req.Offset)
	if err != nil {
		return err
	}
	return reply(client, websocket.TypeMessageList, page)
}

type messagePayload struct {
	ChannelID uint                 `json:"channelId"`
	Message   services.MessageView `json:"message"`
}

// sendMessage delivers message:new through the general group minus excluded users,
// then once to every mentioned user, then to the author when nothing reached them.
func (h *EventHandler) sendMessage(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.MessageSend
	if err := h.decode(event, &req); err != nil {
		return err
	}

	delivery, err := h.svc.SendMessage(ctx, client.UserID, req.ChannelID, req.Content, req.Files)
	if err != nil {
		return err
	}

	msg := encode(websocket.TypeMessageNew, messagePayload{ChannelID: req.ChannelID, Message: delivery.Message})
	if msg == nil {
		return nil
	}

	reached := h.hub.SendToGroup(websocket.GeneralGroup(req.ChannelID), msg, func(userID uint) bool {
		return delivery.Excluded[userID]
	})
	for _, userID := range delivery.MentionedUserIDs {
		h.hub.SendToUser(userID, msg)
		reached[userID] = true
	}
	if !reached[delivery.AuthorUserID] {
		h.hub.SendToUser(delivery.AuthorUserID, msg)
	}
	return nil
}

type typingPayload struct {
	ChannelID uint           `json:"channelId"`
	Typing    []typing.Entry `json:"typing"`
}

func (h *EventHandler) setTyping(ctx context.Context, client *websocket.Client, event *websocket.Event) error {
	var req dto.Typing
	if err := h.decode(event, &req); err != nil {
		return err
	}
	if limit := h.svc.Limits().MessageMaxLength; utf8.RuneCountInString(req.Message) > limit {
		return apperrors.MalformedMessage("typing text is too long")
	}

	member, err := h.svc.RequireMember(ctx, client.UserID, req.ChannelID, "type in a channel")
	if err != nil {
		return err
	}

	h.typing.Set(req.ChannelID, member.ID, req.Message, h.broadcastTyping)
	return nil
}

// broadcastTyping runs under the typing cache lock; hub sends only enqueue.
func (h *EventHandler) broadcastTyping(channelID uint, entries []typing.Entry) {
	h.toGroup(websocket.GeneralGroup(channelID), websocket.TypeMsgTyping, typingPayload{ChannelID: channelID, Typing: entries}, nil)
}

// clearTyping drops a departing member's entry and rebroadcasts when it existed.
func (h *EventHandler) clearTyping(channelID, memberID uint) {
	h.typing.Clear(channelID, memberID, h.broadcastTyping)
}
