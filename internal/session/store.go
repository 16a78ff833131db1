package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"coursehub_backend/internal/model"
)

// Record is what a live session resolves to.
type Record struct {
	UserID    uint
	Role      model.UserRole
	CreatedAt time.Time
}

// Store holds sessions for the lifetime of the process. An implementation
// must be safe for concurrent use by request handlers and the sweeper.
type Store interface {
	// Get returns the record for id, or false when the id is unknown or
	// the record has outlived the TTL.
	Get(id string) (Record, bool)
	Put(id string, rec Record)
	Delete(id string)
	// Sweep evicts every record older than the TTL and returns how many
	// were removed.
	Sweep() int
	Len() int
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Record
	ttl      time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Record),
		ttl:      ttl,
	}
}

func (s *MemoryStore) Get(id string) (Record, bool) {
	s.mu.RLock()
	rec, ok := s.sessions[id]
	s.mu.RUnlock()

	// Freshness is checked here too, not only by the sweeper, so a stale
	// session cannot authenticate between sweeps.
	if !ok || time.Since(rec.CreatedAt) > s.ttl {
		return Record{}, false
	}
	return rec, true
}

func (s *MemoryStore) Put(id string, rec Record) {
	s.mu.Lock()
	s.sessions[id] = rec
	s.mu.Unlock()
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *MemoryStore) Sweep() int {
	now := time.Now()
	evicted := 0

	s.mu.Lock()
	for id, rec := range s.sessions {
		if now.Sub(rec.CreatedAt) > s.ttl {
			delete(s.sessions, id)
			evicted++
		}
	}
	s.mu.Unlock()

	return evicted
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// NewSessionID keeps the session_ prefix the web client already expects.
func NewSessionID() string {
	buf := make([]byte, 16)
	rand.Read(buf)
	return "session_" + hex.EncodeToString(buf)
}
