package websocket

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/thereayou/voxus/internal/logger"
)

type Client struct {
	ID     uuid.UUID
	UserID uint
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub

	// groups is guarded by Hub.mu
	groups map[string]bool
	closed bool
}

// Hub is the process-wide connection registry. It tracks every live connection,
// the connections of each user and the broadcast groups each connection holds.
type Hub struct {
	clients map[uuid.UUID]*Client

	// one user may hold several connections
	userClients map[uint]map[uuid.UUID]*Client

	groups map[string]map[uuid.UUID]*Client

	mu sync.RWMutex

	// userLocks serialize presence and subscription changes per user, striped by id.
	userLocks [userLockStripes]sync.Mutex
}

const userLockStripes = 64

func NewHub() *Hub {
	return &Hub{
		clients:     make(map[uuid.UUID]*Client),
		userClients: make(map[uint]map[uuid.UUID]*Client),
		groups:      make(map[string]map[uuid.UUID]*Client),
	}
}

// Stop closes every connection.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		h.removeUnsafe(client)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
}

// Register adds the client. first reports whether it is the user's only connection.
func (h *Hub) Register(client *Client) (first bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	if _, ok := h.userClients[client.UserID]; !ok {
		h.userClients[client.UserID] = make(map[uuid.UUID]*Client)
		first = true
	}
	h.userClients[client.UserID][client.ID] = client

	logger.Debug("client registered", "client_id", client.ID, "user_id", client.UserID)
	return first
}

// Unregister drops the client from every group. last reports whether the user has no connection left.
// A client that was already removed yields last=false.
func (h *Hub) Unregister(client *Client) (last bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return false
	}
	last = h.removeUnsafe(client)

	logger.Debug("client unregistered", "client_id", client.ID, "user_id", client.UserID)
	return last
}

func (h *Hub) removeUnsafe(client *Client) (last bool) {
	for group := range client.groups {
		h.leaveUnsafe(client, group)
	}

	if userClients, ok := h.userClients[client.UserID]; ok {
		delete(userClients, client.ID)
		if len(userClients) == 0 {
			delete(h.userClients, client.UserID)
			last = true
		}
	}

	delete(h.clients, client.ID)
	if !client.closed {
		client.closed = true
		close(client.Send)
	}
	return last
}

func (h *Hub) JoinGroup(client *Client, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.joinUnsafe(client, group)
}

func (h *Hub) LeaveGroup(client *Client, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveUnsafe(client, group)
}

// DropGroup unsubscribes everyone, used when a channel is deleted.
func (h *Hub) DropGroup(group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.groups[group] {
		delete(client.groups, group)
	}
	delete(h.groups, group)
}

// LockUser takes the user's lock. Handlers hold it while they read stored memberships
// and apply them to the user's connections, so the last writer always applies fresh state.
func (h *Hub) LockUser(userID uint) (unlock func()) {
	m := &h.userLocks[userID%userLockStripes]
	m.Lock()
	return m.Unlock
}

// SyncUserGroups makes every connection of the user hold exactly groups.
func (h *Hub) SyncUserGroups(userID uint, groups []string) {
	want := make(map[string]bool, len(groups))
	for _, group := range groups {
		want[group] = true
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.userClients[userID] {
		for group := range client.groups {
			if !want[group] {
				h.leaveUnsafe(client, group)
			}
		}
		for group := range want {
			h.joinUnsafe(client, group)
		}
	}
}

func (h *Hub) joinUnsafe(client *Client, group string) {
	if client.closed {
		return
	}
	if _, ok := h.groups[group]; !ok {
		h.groups[group] = make(map[uuid.UUID]*Client)
	}
	h.groups[group][client.ID] = client
	client.groups[group] = true
}

func (h *Hub) leaveUnsafe(client *Client, group string) {
	room, ok := h.groups[group]
	if !ok {
		return
	}
	delete(room, client.ID)
	delete(client.groups, group)
	if len(room) == 0 {
		delete(h.groups, group)
	}
}

// SendToUser delivers to every connection of the user and reports whether one existed.
func (h *Hub) SendToUser(userID uint, message []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.userClients[userID]
	for _, client := range clients {
		h.deliverUnsafe(client, message)
	}
	return ok
}

// SendToUsers delivers to every listed user.
func (h *Hub) SendToUsers(userIDs []uint, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range userIDs {
		for _, client := range h.userClients[id] {
			h.deliverUnsafe(client, message)
		}
	}
}

// SendToGroup delivers to the group's connections whose user is not excluded
// and returns the users reached. exclude may be nil.
func (h *Hub) SendToGroup(group string, message []byte, exclude func(userID uint) bool) map[uint]bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	reached := make(map[uint]bool)
	for _, client := range h.groups[group] {
		if exclude != nil && exclude(client.UserID) {
			continue
		}
		h.deliverUnsafe(client, message)
		reached[client.UserID] = true
	}
	return reached
}

// deliverUnsafe never blocks; a full queue drops the frame.
func (h *Hub) deliverUnsafe(client *Client, message []byte) bool {
	if client.closed {
		return false
	}
	select {
	case client.Send <- message:
		return true
	default:
		logger.Warn("client send queue full", "client_id", client.ID, "user_id", client.UserID)
		return false
	}
}

func (h *Hub) IsUserConnected(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.userClients[userID]
	return ok
}

// ConnectedUserIDs lists users with at least one live connection.
func (h *Hub) ConnectedUserIDs() []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	users := make([]uint, 0, len(h.userClients))
	for userID := range h.userClients {
		users = append(users, userID)
	}
	return users
}

// GroupUserIDs lists the distinct users subscribed to the group.
func (h *Hub) GroupUserIDs(group string) []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uint]bool)
	users := make([]uint, 0)
	for _, client := range h.groups[group] {
		if !seen[client.UserID] {
			seen[client.UserID] = true
			users = append(users, client.UserID)
		}
	}
	return users
}

// InGroup reports whether the client holds the group.
func (h *Hub) InGroup(client *Client, group string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return client.groups[group]
}
