package revocation

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	digest    string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store implementation. Suitable for a single
// process only; multi-node deployments need the Redis store.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

// NewMemoryStore returns a new in-memory revocation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]entry),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Set records digest for jti until ttl elapses.
func (s *MemoryStore) Set(ctx context.Context, jti, digest string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[jti] = entry{digest: digest, expiresAt: s.nowF().Add(ttl)}
	return nil
}

// Get returns the digest for jti if present and not expired. Expired entries
// are removed lazily on read.
func (s *MemoryStore) Get(ctx context.Context, jti string) (string, bool, error) {
	s.mu.RLock()
	e, ok := s.m[jti]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		delete(s.m, jti)
		s.mu.Unlock()
		return "", false, nil
	}
	return e.digest, true, nil
}

// Delete removes the entry for jti.
func (s *MemoryStore) Delete(ctx context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, jti)
	return nil
}
