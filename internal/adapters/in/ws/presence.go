package ws

import "sync"

// Presence maps connected user ids to their live connection. One
// connection per user: a second handshake for the same user replaces the
// previous entry, and only the entry owner removes itself on disconnect.
type Presence struct {
	mu      sync.RWMutex
	clients map[string]*client
}

// NewPresence creates an empty presence table.
func NewPresence() *Presence {
	return &Presence{clients: make(map[string]*client)}
}

func (p *Presence) register(c *client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clients[c.principal.UserID.String()] = c
}

func (p *Presence) remove(c *client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if current, ok := p.clients[c.principal.UserID.String()]; ok && current == c {
		delete(p.clients, c.principal.UserID.String())
	}
}

// IsUserConnected reports whether the user currently holds a live
// connection.
func (p *Presence) IsUserConnected(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.clients[userID]
	return ok
}

// ConnectionCount returns the number of live connections.
func (p *Presence) ConnectionCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.clients)
}
