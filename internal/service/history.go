package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/aristomax/shopbuddy/internal/domain"
	"github.com/aristomax/shopbuddy/internal/repository"
)

// HistoryService owns the bounded per-session message history. All
// mutations go through Append and ReplacePlaceholder; each is applied
// atomically under the session's lock, trimmed from the front when over
// capacity and persisted before returning.
type HistoryService struct {
	store repository.Store
	limit int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewHistoryService(store repository.Store, limit int) *HistoryService {
	return &HistoryService{
		store: store,
		limit: limit,
		locks: make(map[string]*sync.Mutex),
	}
}

// Append adds a message to the end of the session's history and returns the
// resulting snapshot.
func (s *HistoryService) Append(ctx context.Context, token string, msgs ...domain.Message) ([]domain.Message, error) {
	lock := s.sessionLock(token)
	lock.Lock()
	defer lock.Unlock()

	history, err := s.store.History(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	for _, m := range msgs {
		history = append(history, m.Normalized())
	}
	return s.save(ctx, token, history)
}

// ReplacePlaceholder removes every entry matching the predicate, appends the
// replacement and returns the resulting snapshot. No reader can observe a
// matched entry coexisting with its replacement.
func (s *HistoryService) ReplacePlaceholder(ctx context.Context, token string, match func(domain.Message) bool, msg domain.Message) ([]domain.Message, error) {
	lock := s.sessionLock(token)
	lock.Lock()
	defer lock.Unlock()

	history, err := s.store.History(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	kept := history[:0]
	for _, m := range history {
		if !match(m) {
			kept = append(kept, m)
		}
	}
	kept = append(kept, msg.Normalized())
	return s.save(ctx, token, kept)
}

// Current returns a read-only snapshot of the session's history.
func (s *HistoryService) Current(ctx context.Context, token string) ([]domain.Message, error) {
	history, err := s.store.History(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return history, nil
}

// save trims over-capacity history from the front and persists it.
// Truncation always happens on write, never on read.
func (s *HistoryService) save(ctx context.Context, token string, history []domain.Message) ([]domain.Message, error) {
	if s.limit > 0 && len(history) > s.limit {
		history = history[len(history)-s.limit:]
	}
	if err := s.store.SaveHistory(ctx, token, history); err != nil {
		return nil, fmt.Errorf("save history: %w", err)
	}
	return history, nil
}

func (s *HistoryService) sessionLock(token string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[token]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[token] = lock
	}
	return lock
}
