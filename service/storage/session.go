package storage

import (
	"context"
	"sync"
	"time"
)

// SessionStore tracks revoked session tokens. Logout writes a denylist entry
// that lives as long as the token would have; the auth middleware checks it
// on every request, so clearing the cookie is not the only line of defense.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemorySessionStore is the in-process implementation used by tests.
type MemorySessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time // tokenID -> expiry of the denylist entry
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{revoked: make(map[string]time.Time)}
}

func (s *MemorySessionStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (s *MemorySessionStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
