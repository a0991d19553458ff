package repository

import (
	"context"

	"github.com/aristomax/shopbuddy/internal/domain"
)

// Store persists widget state scoped to a browsing session: the session
// token keyed by the client's opaque key, and the history snapshot keyed by
// the token. Both are kept independently, expire together after the session
// TTL and are purged by the janitor loop.
type Store interface {
	// SessionToken returns the persisted token for a client key, or
	// domain.ErrSessionNotFound when none exists or it has expired.
	SessionToken(ctx context.Context, clientKey string) (string, error)
	SaveSessionToken(ctx context.Context, clientKey, token string) error

	// History returns the persisted snapshot for a session token. A missing
	// or expired snapshot is an empty history, not an error.
	History(ctx context.Context, token string) ([]domain.Message, error)
	SaveHistory(ctx context.Context, token string, messages []domain.Message) error

	// PurgeExpired removes state past its TTL.
	PurgeExpired(ctx context.Context) error

	Close()
}
