package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names an event in both directions.
type EventType string

const (
	TypePing EventType = "ping"
	TypePong EventType = "pong"

	// client -> server
	TypeChannelList        EventType = "channel:list"
	TypeChannelCreate      EventType = "channel:create"
	TypeChannelJoin        EventType = "channel:join"
	TypeChannelListMembers EventType = "channel:list-members"
	TypeChannelListInvites EventType = "channel:list-invites"
	TypeChannelCancel      EventType = "channel:cancel"
	TypeChannelQuit        EventType = "channel:quit"
	TypeMemberKickVote     EventType = "member:kick-vote"
	TypeMemberRevoke       EventType = "member:revoke"
	TypeMemberNotifUpdate  EventType = "member:notif-status:update"
	TypeInviteList         EventType = "invite:list"
	TypeInviteCreate       EventType = "invite:create"
	TypeInviteAccept       EventType = "invite:accept"
	TypeInviteDecline      EventType = "invite:decline"
	TypeMsgList            EventType = "msg:list"
	TypeMsgSend            EventType = "msg:send"
	TypeMsgTyping          EventType = "msg:typing"
	TypeUserStatus         EventType = "user:status"
	TypeUserMe             EventType = "user:me"

	// server -> client
	TypeChannelCreated    EventType = "channel:created"
	TypeChannelJoined     EventType = "channel:joined"
	TypeChannelLeft       EventType = "channel:left"
	TypeChannelDeleted    EventType = "channel:deleted"
	TypeChannelMembers    EventType = "channel:members"
	TypeChannelInvites    EventType = "channel:invites"
	TypeMemberJoined      EventType = "member:joined"
	TypeMemberLeft        EventType = "member:left"
	TypeMemberKickVoted   EventType = "member:kick-voted"
	TypeMemberKicked      EventType = "member:kicked"
	TypeMemberRevoked     EventType = "member:revoked"
	TypeMemberNotifStatus EventType = "member:notif-status"
	TypeInviteCreated     EventType = "invite:created"
	TypeInviteReceived    EventType = "invite:received"
	TypeInviteDeclined    EventType = "invite:declined"
	TypeMessageNew        EventType = "message:new"
	TypeMessageList       EventType = "message:list"
	TypeUserEvent         EventType = "user:event"
	TypeError             EventType = "error"
)

// Event is the envelope of every frame.
type Event struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Encode builds a serialized event frame.
func Encode(eventType EventType, data interface{}) ([]byte, error) {
	event := Event{Type: eventType, Timestamp: time.Now().UTC()}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		event.Data = raw
	}
	return json.Marshal(event)
}

// ChannelGroup holds every connection of every member of the channel.
func ChannelGroup(channelID uint) string {
	return fmt.Sprintf("channel:%d", channelID)
}

// GeneralGroup holds the connections of members whose notifications are "all".
func GeneralGroup(channelID uint) string {
	return fmt.Sprintf("channel:%d:general", channelID)
}
