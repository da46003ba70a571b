package core

import "context"

// HistoryStore persists ordered, session-scoped conversation transcripts.
//
// Sessions are created lazily on first access by key; teardown is owned by
// the host environment. Implementations must serialize appends per session
// key so sequence indices stay gapless, and must never invoke or wait on any
// remote model operation.
type HistoryStore interface {
	// Messages returns all messages for the session key in arrival order.
	// A never-written key yields an empty slice, not an error.
	Messages(ctx context.Context, sessionKey string) ([]Message, error)

	// Append adds a message with the next sequence index to the end of the
	// session's sequence. Invalid roles are rejected with ErrInvalidRole
	// before any state is touched. The message is immediately visible to
	// subsequent Messages calls on the same key.
	Append(ctx context.Context, sessionKey string, role Role, content string) error

	// Clear removes all messages for the session key. Subsequent Messages
	// calls return an empty slice and appends restart at index 0.
	Clear(ctx context.Context, sessionKey string) error
}
