package services

import (
	"log"
	"sync"
)

// Presence maps authenticated user ids to their live connections. A user may
// hold several at once (multiple tabs); unregistering removes only the handle
// that disconnected. Process-local by design: on restart clients reconnect
// and re-register.
type Presence struct {
	mu      sync.RWMutex
	clients map[string][]*Client
}

func NewPresence() *Presence {
	return &Presence{clients: make(map[string][]*Client)}
}

// Register adds a connection under its user id.
func (p *Presence) Register(c *Client) {
	p.mu.Lock()
	p.clients[c.UserID] = append(p.clients[c.UserID], c)
	p.mu.Unlock()
	log.Printf("Presence: user %s registered (%s)", c.UserID, c.DisplayName)
}

// Unregister removes exactly the given connection handle.
func (p *Presence) Unregister(c *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	handles := p.clients[c.UserID]
	for i, handle := range handles {
		if handle == c {
			p.clients[c.UserID] = append(handles[:i], handles[i+1:]...)
			break
		}
	}
	if len(p.clients[c.UserID]) == 0 {
		delete(p.clients, c.UserID)
	}
	log.Printf("Presence: user %s unregistered", c.UserID)
}

// Lookup returns the live connections for a user; empty means offline.
func (p *Presence) Lookup(userID string) []*Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	handles := p.clients[userID]
	out := make([]*Client, len(handles))
	copy(out, handles)
	return out
}

// Deliver enqueues v on every live connection of a user and reports how many
// accepted it. Zero is not an error: an offline user is steady state.
func (p *Presence) Deliver(userID string, v interface{}) int {
	delivered := 0
	for _, c := range p.Lookup(userID) {
		if c.EnqueueJSON(v) {
			delivered++
		}
	}
	return delivered
}
