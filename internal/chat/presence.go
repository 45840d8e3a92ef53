package chat

import (
	"sync"
	"time"
)

// Entry holds the connection metadata tracked for an online user.
type Entry struct {
	Conn     Sender
	Username string
	LastSeen time.Time
}

// Registry maps user identities to their active connection. At most one
// entry exists per user; a second connection for the same identity replaces
// the first. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	users map[string]Entry
}

// NewRegistry creates an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{users: make(map[string]Entry)}
}

// Set registers or replaces the entry for a user.
func (r *Registry) Set(userID string, entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[userID] = entry
}

// Get returns the entry for a user, if present.
func (r *Registry) Get(userID string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.users[userID]
	return entry, ok
}

// Remove deletes the entry for a user.
func (r *Registry) Remove(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
}

// RemoveConn deletes the entry for a user only if it still belongs to conn.
// A connection disconnecting after being replaced by a newer one must not
// evict the newer entry.
func (r *Registry) RemoveConn(userID string, conn Sender) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.users[userID]
	if !ok || entry.Conn != conn {
		return false
	}
	delete(r.users, userID)
	return true
}

// All returns a snapshot of every online entry.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]Entry, 0, len(r.users))
	for _, entry := range r.users {
		entries = append(entries, entry)
	}
	return entries
}

// Online reports whether a user has a registered connection.
func (r *Registry) Online(userID string) bool {
	_, ok := r.Get(userID)
	return ok
}
