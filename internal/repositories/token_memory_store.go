package repositories

import (
	"context"
	"sync"
	"time"
)

// MemoryTokenStore is an in-memory implementation of TokenStore, used when no Redis is
// configured. Revocations are lost on restart.
type MemoryTokenStore struct {
	revoked map[string]time.Time // token id -> entry expiry
	mu      sync.RWMutex
	now     func() time.Time
}

// NewMemoryTokenStore creates a new instance of MemoryTokenStore.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks a token id as revoked for ttl.
func (s *MemoryTokenStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, id)
		}
	}
	s.revoked[tokenID] = now.Add(ttl)
	return nil
}

// IsRevoked reports whether the token id has a live revocation entry.
func (s *MemoryTokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exp, ok := s.revoked[tokenID]
	return ok && exp.After(s.now()), nil
}
