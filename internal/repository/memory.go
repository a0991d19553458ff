package repository

import (
	"context"
	"sync"
	"time"

	"github.com/aristomax/shopbuddy/internal/domain"
)

type memoryEntry struct {
	token     string
	messages  []domain.Message
	expiresAt time.Time
}

// MemoryStore keeps widget state in process memory. It backs deployments
// without a database and the test suite. Entries expire after the TTL,
// refreshed on every write.
type MemoryStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*memoryEntry // client key -> token
	history  map[string]*memoryEntry // token -> snapshot

	now func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		sessions: make(map[string]*memoryEntry),
		history:  make(map[string]*memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) SessionToken(_ context.Context, clientKey string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[clientKey]
	if !ok || s.expired(e) {
		return "", domain.ErrSessionNotFound
	}
	return e.token, nil
}

func (s *MemoryStore) SaveSessionToken(_ context.Context, clientKey, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[clientKey] = &memoryEntry{token: token, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) History(_ context.Context, token string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.history[token]
	if !ok || s.expired(e) {
		return nil, nil
	}
	out := make([]domain.Message, len(e.messages))
	copy(out, e.messages)
	return out, nil
}

func (s *MemoryStore) SaveHistory(_ context.Context, token string, messages []domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := make([]domain.Message, len(messages))
	copy(snap, messages)
	s.history[token] = &memoryEntry{messages: snap, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) PurgeExpired(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, k)
		}
	}
	for k, e := range s.history {
		if s.expired(e) {
			delete(s.history, k)
		}
	}
	return nil
}

func (s *MemoryStore) Close() {}

func (s *MemoryStore) expired(e *memoryEntry) bool {
	return s.ttl > 0 && s.now().After(e.expiresAt)
}
