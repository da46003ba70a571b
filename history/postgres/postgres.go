// Package postgres provides a PostgreSQL-backed core.HistoryStore over a pgx
// connection pool. Arrival order is the BIGSERIAL row id; sequence indices are
// derived from scan position, which matches the stored order because sessions
// are strictly append-only and Clear removes whole sessions.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hupe1980/chatstore/core"
)

const schema = `
	CREATE TABLE IF NOT EXISTS conversation_messages (
		id BIGSERIAL PRIMARY KEY,
		session_key TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_conversation_messages_session_key
		ON conversation_messages (session_key, id);
`

// Store is a durable HistoryStore backed by a PostgreSQL database.
type Store struct {
	pool     *pgxpool.Pool
	ownsPool bool
}

// New connects to the database at the given DSN, pings it and initializes the
// message schema. The returned store owns the pool; call Close when done.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", core.ErrStorageUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %v", core.ErrStorageUnavailable, err)
	}

	store, err := NewWithPool(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	store.ownsPool = true
	return store, nil
}

// NewWithPool wraps an existing connection pool, initializing the message
// schema. The caller remains responsible for closing the pool.
func NewWithPool(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("%w: init schema: %v", core.ErrStorageUnavailable, err)
	}
	return &Store{pool: pool}, nil
}

// Messages returns all messages for the session key in arrival order.
func (s *Store) Messages(ctx context.Context, sessionKey string) ([]core.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT role, content, created_at FROM conversation_messages WHERE session_key = $1 ORDER BY id`,
		sessionKey,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query messages: %v", core.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	msgs := []core.Message{}
	for rows.Next() {
		var (
			role, content string
			createdAt     time.Time
		)
		if err := rows.Scan(&role, &content, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan message: %v", core.ErrStorageUnavailable, err)
		}
		msgs = append(msgs, core.Message{
			Index:     len(msgs),
			Role:      core.Role(role),
			Content:   content,
			Timestamp: createdAt.UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate messages: %v", core.ErrStorageUnavailable, err)
	}
	return msgs, nil
}

// Append inserts a message at the end of the session's sequence. Invalid
// roles are rejected before touching the database.
func (s *Store) Append(ctx context.Context, sessionKey string, role core.Role, content string) error {
	if err := role.Validate(); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO conversation_messages (session_key, role, content) VALUES ($1, $2, $3)`,
		sessionKey, string(role), content,
	)
	if err != nil {
		return fmt.Errorf("%w: insert message: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

// Clear deletes all messages for the session key.
func (s *Store) Clear(ctx context.Context, sessionKey string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM conversation_messages WHERE session_key = $1`, sessionKey)
	if err != nil {
		return fmt.Errorf("%w: delete messages: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

// Close releases the connection pool when the store owns it (created via
// New). For pools injected through NewWithPool it is a no-op.
func (s *Store) Close() {
	if s.ownsPool {
		s.pool.Close()
	}
}
