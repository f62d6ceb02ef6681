package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/thereayou/voxus/internal/logger"
	"github.com/thereayou/voxus/pkg/apperrors"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	// frames carry file descriptors, never file bytes
	maxMessageSize = 512 * 1024
)

// ClientMessageHandler processes the events of one connection in arrival order.
type ClientMessageHandler interface {
	HandleMessage(client *Client, event *Event) error
	// HandleDisconnect runs after the client left the hub; last is set when it was the user's final connection.
	HandleDisconnect(client *Client, last bool)
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Hub:    hub,
		groups: make(map[string]bool),
	}
}

func (c *Client) ReadPump(handler ClientMessageHandler) {
	defer func() {
		last := c.Hub.Unregister(c)
		c.Conn.Close()
		if handler != nil {
			handler.HandleDisconnect(c, last)
		}
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read failed", "client_id", c.ID, "user_id", c.UserID, "err", err)
			}
			break
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil || event.Type == "" {
			c.SendError(apperrors.Validation(ErrInvalidMessage.Error()))
			continue
		}

		if event.Type == TypePing {
			c.SendEvent(TypePong, nil)
			continue
		}

		if handler != nil {
			if err := handler.HandleMessage(c, &event); err != nil {
				c.SendError(err)
			}
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub closed the queue
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent queues an event for this connection only.
func (c *Client) SendEvent(eventType EventType, data interface{}) error {
	msg, err := Encode(eventType, data)
	if err != nil {
		return err
	}

	c.Hub.mu.RLock()
	defer c.Hub.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.Send <- msg:
		return nil
	default:
		return ErrClientQueueFull
	}
}

type errorPayload struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SendError reports a failed request to this connection. Infrastructure causes are logged, not sent.
func (c *Client) SendError(err error) {
	var appErr *apperrors.Error
	if !apperrors.As(err, &appErr) {
		appErr = apperrors.Internal(err)
	}
	if appErr.Kind == apperrors.KindInternal {
		logger.Error("request failed", "client_id", c.ID, "user_id", c.UserID, "err", err)
	}

	if sendErr := c.SendEvent(TypeError, errorPayload{Error: appErr.Message, Code: appErr.Code()}); sendErr != nil {
		logger.Warn("error event dropped", "user_id", c.UserID, "err", sendErr)
	}
}

// Groups lists the groups this connection holds.
func (c *Client) Groups() []string {
	c.Hub.mu.RLock()
	defer c.Hub.mu.RUnlock()

	groups := make([]string, 0, len(c.groups))
	for group := range c.groups {
		groups = append(groups, group)
	}
	return groups
}
