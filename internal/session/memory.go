package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryStore keeps tokens in process memory. Used for single-instance
// deployments and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

// Put stores token; ttl <= 0 keeps it until deleted.
func (s *MemoryStore) Put(_ context.Context, sellerID, token string, ttl time.Duration) error {
	e := memoryEntry{token: token}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[sellerID] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sellerID string) (string, error) {
	s.mu.RLock()
	e, ok := s.entries[sellerID]
	s.mu.RUnlock()

	if !ok || (!e.expiresAt.IsZero() && s.now().After(e.expiresAt)) {
		return "", ErrNoCredential
	}
	return e.token, nil
}

func (s *MemoryStore) Delete(_ context.Context, sellerID string) error {
	s.mu.Lock()
	delete(s.entries, sellerID)
	s.mu.Unlock()
	return nil
}
