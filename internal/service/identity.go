package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aristomax/shopbuddy/internal/domain"
	"github.com/aristomax/shopbuddy/internal/repository"
)

// IdentityService issues the stable per-browsing-session token. The first
// call for a client key generates and persists a token; later calls return
// it unchanged for as long as the session lives.
type IdentityService struct {
	store repository.Store
}

func NewIdentityService(store repository.Store) *IdentityService {
	return &IdentityService{store: store}
}

func (s *IdentityService) GetOrCreate(ctx context.Context, clientKey string) (string, error) {
	token, err := s.store.SessionToken(ctx, clientKey)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return "", fmt.Errorf("load session token: %w", err)
	}

	token = uuid.NewString()
	if err := s.store.SaveSessionToken(ctx, clientKey, token); err != nil {
		return "", fmt.Errorf("save session token: %w", err)
	}
	return token, nil
}
