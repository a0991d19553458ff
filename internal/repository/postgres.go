package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aristomax/shopbuddy/internal/domain"
)

// PostgresStore keeps widget state in Postgres so a browsing session
// survives gateway restarts. Rows carry an expiry refreshed on every write.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

func NewPostgresStore(pool *pgxpool.Pool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, ttl: ttl}
}

func (s *PostgresStore) SessionToken(ctx context.Context, clientKey string) (string, error) {
	var token string
	err := s.pool.QueryRow(ctx,
		`SELECT token FROM widget_sessions WHERE client_key = $1 AND expires_at > now()`,
		clientKey,
	).Scan(&token)
	if err == pgx.ErrNoRows {
		return "", domain.ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get session token: %w", err)
	}
	return token, nil
}

func (s *PostgresStore) SaveSessionToken(ctx context.Context, clientKey, token string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO widget_sessions (client_key, token, expires_at)
		 VALUES ($1, $2, now() + $3)
		 ON CONFLICT (client_key)
		 DO UPDATE SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at`,
		clientKey, token, s.ttl,
	)
	if err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	return nil
}

func (s *PostgresStore) History(ctx context.Context, token string) ([]domain.Message, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT messages FROM widget_history WHERE token = $1 AND expires_at > now()`,
		token,
	).Scan(&raw)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	var messages []domain.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return messages, nil
}

func (s *PostgresStore) SaveHistory(ctx context.Context, token string, messages []domain.Message) error {
	if messages == nil {
		messages = []domain.Message{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO widget_history (token, messages, expires_at, updated_at)
		 VALUES ($1, $2, now() + $3, now())
		 ON CONFLICT (token)
		 DO UPDATE SET messages = EXCLUDED.messages, expires_at = EXCLUDED.expires_at, updated_at = now()`,
		token, raw, s.ttl,
	)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (s *PostgresStore) PurgeExpired(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM widget_history WHERE expires_at <= now()`); err != nil {
		return fmt.Errorf("purge history: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM widget_sessions WHERE expires_at <= now()`); err != nil {
		return fmt.Errorf("purge sessions: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
