// pkg/memcache/seen_events.go
package mem

import (
	"sync"
	"time"
)

// SeenEvents remembers recently processed provider event ids so webhook
// replays can be acked without touching the database. It is a best-effort
// first line only; the unique index on payment_events is the real guard.
type SeenEvents struct {
	mu   sync.RWMutex
	data map[string]time.Time
}

func NewSeenEvents() *SeenEvents {
	return &SeenEvents{
		data: make(map[string]time.Time),
	}
}

func (s *SeenEvents) Mark(eventKey string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[eventKey] = time.Now().Add(ttl)
}

func (s *SeenEvents) Seen(eventKey string) bool {
	s.mu.RLock()
	expiresAt, ok := s.data[eventKey]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		s.mu.Lock()
		delete(s.data, eventKey) // cleanup expired
		s.mu.Unlock()
		return false
	}
	return true
}
