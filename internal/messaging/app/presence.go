package app

import (
	"sync"

	"social_messaging_service/internal/messaging/domain"
)

// EventWriter is one side of a live connection the coordinator can push
// named events to. The websocket transport implements it; tests substitute
// an in-memory sink.
type EventWriter interface {
	WriteEvent(resp domain.WSResponse) error
}

// PresenceRegistry maps a user id to its active connection. At most one
// connection per user: a re-register replaces the old handle. The registry
// is shared by every connection goroutine, so all operations hold the lock.
type PresenceRegistry struct {
	mu     sync.Mutex
	byUser map[string]EventWriter
}

// NewPresenceRegistry create an empty registry
func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		byUser: make(map[string]EventWriter),
	}
}

// Register install or replace the mapping for userID. Idempotent for the
// same connection.
func (p *PresenceRegistry) Register(userID string, conn EventWriter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byUser[userID] = conn
}

// Lookup return the user's connection, nil when not reachable. Absence is
// not an error.
func (p *PresenceRegistry) Lookup(userID string) EventWriter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.byUser[userID]
}

// Unregister remove every mapping holding this handle. Removal is by handle,
// not by user id: when a user reconnected before the old connection's
// disconnect arrived, the stale disconnect must not evict the new mapping.
func (p *PresenceRegistry) Unregister(conn EventWriter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for userID, c := range p.byUser {
		if c == conn {
			delete(p.byUser, userID)
		}
	}
}

// Online count registered users, for logging
func (p *PresenceRegistry) Online() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.byUser)
}
