package cache

import (
	"context"
	"sync"
	"time"

	"forex-signal-bot/internal/domain"
)

// MemoryStore is a process-local Store. Expired entries stay in the map until
// overwritten or purged.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     now,
	}
}

func (s *MemoryStore) Get(_ context.Context, fingerprint string) (domain.Payload, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[fingerprint]
	s.mu.RUnlock()
	if !ok || !e.usable(s.now()) {
		return nil, false, nil
	}
	return domain.Payload(e.Payload), true, nil
}

func (s *MemoryStore) Put(_ context.Context, fingerprint string, payload domain.Payload, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	e := entry{
		Payload:   append([]byte(nil), payload...),
		ExpiresAt: s.now().Add(ttl),
	}
	s.mu.Lock()
	s.entries[fingerprint] = e
	s.mu.Unlock()
	return nil
}

// Purge drops expired entries and returns how many were removed.
func (s *MemoryStore) Purge(_ context.Context) (int, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if !e.usable(now) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed, nil
}

// Len counts stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
