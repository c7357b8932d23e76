package chat

import "sync"

// Hub tracks which connections are subscribed to which rooms, plus the
// live connection registry mapping each user id to its most recent
// connection. It is owned by the Server and passed in explicitly;
// there is no package-level state.
type Hub struct {
	mu            sync.Mutex
	rooms         map[string]map[*Client]struct{}
	roomsByClient map[*Client]map[string]struct{}
	connsByUser   map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		rooms:         make(map[string]map[*Client]struct{}),
		roomsByClient: make(map[*Client]map[string]struct{}),
		connsByUser:   make(map[string]*Client),
	}
}

// Join subscribes the client to a room. A client may be subscribed to
// any number of rooms at once.
func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.rooms[room]
	if !ok {
		subs = make(map[*Client]struct{})
		h.rooms[room] = subs
	}
	subs[client] = struct{}{}

	clientRooms, ok := h.roomsByClient[client]
	if !ok {
		clientRooms = make(map[string]struct{})
		h.roomsByClient[client] = clientRooms
	}
	clientRooms[room] = struct{}{}
}

// Leave unsubscribes the client from a room. The registry entry for
// the client's user is left alone; the user stays reachable for direct
// pushes.
func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoom(client, room)
}

// LeaveAll unsubscribes the client from every room and reports which
// rooms it was in.
func (h *Hub) LeaveAll(client *Client) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var left []string
	for room := range h.roomsByClient[client] {
		left = append(left, room)
		h.removeFromRoom(client, room)
	}
	return left
}

func (h *Hub) removeFromRoom(client *Client, room string) {
	if subs, ok := h.rooms[room]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.rooms, room)
		}
	}
	if clientRooms, ok := h.roomsByClient[client]; ok {
		delete(clientRooms, room)
		if len(clientRooms) == 0 {
			delete(h.roomsByClient, client)
		}
	}
}

// Subscribers snapshots the clients currently subscribed to a room.
func (h *Hub) Subscribers(room string) []*Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.rooms[room]
	clients := make([]*Client, 0, len(subs))
	for client := range subs {
		clients = append(clients, client)
	}
	return clients
}

// Upsert records the client as the active connection for a user.
// Last writer wins: a newer session replaces an older one, but the
// older connection keeps its room subscriptions until it disconnects.
func (h *Hub) Upsert(userID string, client *Client) {
	if userID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connsByUser[userID] = client
}

// RemoveIfCurrent drops the registry entry only if it still points at
// this client, so a stale disconnect never evicts a newer session.
func (h *Hub) RemoveIfCurrent(userID string, client *Client) {
	if userID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.connsByUser[userID] == client {
		delete(h.connsByUser, userID)
	}
}

// ClientByUser looks up the registered connection for a user.
func (h *Hub) ClientByUser(userID string) (*Client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.connsByUser[userID]
	return client, ok
}

// PushToUser queues an event on a user's registered connection.
// Reports whether a connection was on file.
func (h *Hub) PushToUser(userID string, msg WSMessage) bool {
	client, ok := h.ClientByUser(userID)
	if !ok {
		return false
	}
	safeSend(client, msg)
	return true
}
