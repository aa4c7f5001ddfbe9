package sessions

import (
	"context"
	"sync"

	"powercalc/backend/libs/models"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]models.Session)}
}

// Load returns a copy of the stored session.
func (s *MemoryStore) Load(_ context.Context, key string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

// Save replaces the session stored under key.
func (s *MemoryStore) Save(_ context.Context, key string, session *models.Session) error {
	if session == nil {
		return s.Delete(context.Background(), key)
	}
	s.mu.Lock()
	s.sessions[key] = *session
	s.mu.Unlock()
	return nil
}

// Delete removes the session stored under key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.sessions, key)
	s.mu.Unlock()
	return nil
}

// Len reports how many sessions are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
