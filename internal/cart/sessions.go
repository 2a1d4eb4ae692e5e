package cart

import (
	"sync"
	"time"
)

// Sessions owns one Store per buyer session. A store is created empty the first time
// its session is opened and discarded when the session closes or sits idle too long.
type Sessions struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	opts    []Option
	now     func() time.Time
}

type sessionEntry struct {
	store    *Store
	lastSeen time.Time
}

// NewSessions builds a registry; opts are applied to every store it creates.
func NewSessions(opts ...Option) *Sessions {
	return &Sessions{
		entries: map[string]*sessionEntry{},
		opts:    opts,
		now:     time.Now,
	}
}

// Open returns the session's store, creating it on first use.
func (s *Sessions) Open(sessionID string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[sessionID]; ok {
		entry.lastSeen = s.now()
		return entry.store
	}
	store := NewStore(s.opts...)
	s.entries[sessionID] = &sessionEntry{store: store, lastSeen: s.now()}
	return store
}

// Get returns the session's store without creating one.
func (s *Sessions) Get(sessionID string) (*Store, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return nil, false
	}
	entry.lastSeen = s.now()
	return entry.store, true
}

// Close discards the session's cart.
func (s *Sessions) Close(sessionID string) {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
}

// Sweep closes every session not touched within idle and reports how many it closed.
func (s *Sessions) Sweep(idle time.Duration) int {
	s.mu.Lock()
	cutoff := s.now().Add(-idle)
	var stale []string
	for id, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	s.mu.Unlock()

	for _, id := range stale {
		s.Close(id)
	}
	return len(stale)
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
