// Package sqlite provides a SQLite-backed core.HistoryStore. Arrival order is
// the autoincrement row id; sequence indices are derived from scan position,
// which matches the stored order because sessions are strictly append-only and
// Clear removes whole sessions. WAL mode plus a busy timeout keeps concurrent
// appenders from tripping over the database write lock.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hupe1980/chatstore/core"
)

const schema = `
	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_key TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL DEFAULT (unixepoch())
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session_key ON messages(session_key, id);
`

// Store is a durable HistoryStore backed by a SQLite database.
type Store struct {
	db     *sql.DB
	ownsDB bool
}

// Open opens (or creates) a SQLite database at the given path, ensuring that
// the parent directory exists, and initializes the message schema. The
// returned store owns the handle; call Close when done.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: open db at %s: %v", core.ErrStorageUnavailable, path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping db at %s: %v", core.ErrStorageUnavailable, path, err)
	}

	store, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	store.ownsDB = true
	return store, nil
}

// New wraps an existing database handle, initializing the message schema.
// The caller remains responsible for closing the handle.
func New(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("%w: init schema: %v", core.ErrStorageUnavailable, err)
	}
	return &Store{db: db}, nil
}

// Messages returns all messages for the session key in arrival order.
func (s *Store) Messages(ctx context.Context, sessionKey string) ([]core.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, created_at FROM messages WHERE session_key = ? ORDER BY id`,
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
			createdAt     int64
		)
		if err := rows.Scan(&role, &content, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scan message: %v", core.ErrStorageUnavailable, err)
		}
		msgs = append(msgs, core.Message{
			Index:     len(msgs),
			Role:      core.Role(role),
			Content:   content,
			Timestamp: time.Unix(createdAt, 0).UTC(),
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
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (session_key, role, content) VALUES (?, ?, ?)`,
		sessionKey, string(role), content,
	)
	if err != nil {
		return fmt.Errorf("%w: insert message: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

// Clear deletes all messages for the session key.
func (s *Store) Clear(ctx context.Context, sessionKey string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE session_key = ?`, sessionKey)
	if err != nil {
		return fmt.Errorf("%w: delete messages: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

// Close releases the database handle when the store owns it (created via
// Open). For handles injected through New it is a no-op.
func (s *Store) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}
