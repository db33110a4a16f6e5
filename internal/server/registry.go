package server

import "sync"

// ConnectionRegistry maps a user id to their single live connection. There is
// no multi-device fan-out: a second connection for the same user takes over
// all future routing for that user.
type ConnectionRegistry struct {
	mu          sync.RWMutex
	connections map[string]*Client
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{connections: make(map[string]*Client)}
}

// Register binds the user to the connection, replacing any existing binding.
func (r *ConnectionRegistry) Register(userID string, c *Client) {
	r.mu.Lock()
	r.connections[userID] = c
	r.mu.Unlock()
}

// Unregister removes the binding only while it still points at c. A stale
// teardown callback must not evict a newer connection the same user already
// established. Reports whether a binding was removed.
func (r *ConnectionRegistry) Unregister(userID string, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.connections[userID]; ok && current == c {
		delete(r.connections, userID)
		return true
	}
	return false
}

// Lookup returns the user's current connection, if any.
func (r *ConnectionRegistry) Lookup(userID string) (*Client, bool) {
	r.mu.RLock()
	c, ok := r.connections[userID]
	r.mu.RUnlock()
	return c, ok
}

// Count returns the number of registered users.
func (r *ConnectionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}
