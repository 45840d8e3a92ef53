package chat

import "sync"

// Hub tracks room membership and fans events out to connections. Room
// membership is the transport-level broadcast group; it carries no
// application state beyond "who receives what".
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[Sender]struct{}
	conns map[Sender]map[string]struct{}
	all   map[Sender]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[Sender]struct{}),
		conns: make(map[Sender]map[string]struct{}),
		all:   make(map[Sender]struct{}),
	}
}

// Register adds a connection to the hub's global broadcast group.
func (h *Hub) Register(conn Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.all[conn] = struct{}{}
}

// Unregister removes a connection from every room and the global group.
func (h *Hub) Unregister(conn Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.conns[conn] {
		delete(h.rooms[room], conn)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.conns, conn)
	delete(h.all, conn)
}

// Join subscribes a connection to a room's broadcasts.
func (h *Hub) Join(room string, conn Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[Sender]struct{})
	}
	h.rooms[room][conn] = struct{}{}
	if h.conns[conn] == nil {
		h.conns[conn] = make(map[string]struct{})
	}
	h.conns[conn][room] = struct{}{}
}

// Joined reports whether a connection is subscribed to a room.
func (h *Hub) Joined(room string, conn Sender) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[room][conn]
	return ok
}

// Broadcast delivers an event to every member of a room.
func (h *Hub) Broadcast(room string, ev Event) {
	for _, conn := range h.members(room) {
		conn.Send(ev)
	}
}

// BroadcastExcept delivers an event to every member of a room except one.
func (h *Hub) BroadcastExcept(room string, except Sender, ev Event) {
	for _, conn := range h.members(room) {
		if conn == except {
			continue
		}
		conn.Send(ev)
	}
}

// BroadcastAll delivers an event to every registered connection except one.
func (h *Hub) BroadcastAll(except Sender, ev Event) {
	h.mu.RLock()
	conns := make([]Sender, 0, len(h.all))
	for conn := range h.all {
		if conn == except {
			continue
		}
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.Send(ev)
	}
}

// members returns a snapshot of a room's connections so sends happen outside
// the lock.
func (h *Hub) members(room string) []Sender {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns := make([]Sender, 0, len(h.rooms[room]))
	for conn := range h.rooms[room] {
		conns = append(conns, conn)
	}
	return conns
}
