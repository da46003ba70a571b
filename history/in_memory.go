package history

import (
	"context"
	"sync"

	"github.com/hupe1980/chatstore/core"
)

// InMemoryStore is a volatile HistoryStore implementation storing sessions in
// a process local map. It is safe for concurrent access and best suited for
// tests, examples or single-process hosts. Sessions are created lazily on
// first append; reads return defensive copies so callers cannot mutate
// internal state. Appends to one key are serialized by the session's own
// lock, keeping sequence indices gapless under concurrent writers.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore constructs an empty in-memory history store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Messages returns the session's messages in arrival order. A never-written
// key yields an empty slice, never an error. The context is ignored; all
// operations are local and synchronous.
func (s *InMemoryStore) Messages(_ context.Context, sessionKey string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionKey]
	if !ok {
		return []core.Message{}, nil
	}
	return sess.Messages(), nil
}

// Append validates the role and adds the message to the end of the session's
// sequence, creating the session on first write. Index assignment and content
// become visible together.
func (s *InMemoryStore) Append(_ context.Context, sessionKey string, role core.Role, content string) error {
	if err := role.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	sess, ok := s.sessions[sessionKey]
	if !ok {
		sess = core.NewSession(sessionKey)
		s.sessions[sessionKey] = sess
	}
	s.mu.Unlock()
	_, err := sess.Append(role, content)
	return err
}

// Clear removes all messages for the session key. Subsequent appends restart
// at index 0. Clearing an unknown key is a no-op.
func (s *InMemoryStore) Clear(_ context.Context, sessionKey string) error {
	s.mu.RLock()
	sess, ok := s.sessions[sessionKey]
	s.mu.RUnlock()
	if ok {
		sess.Clear()
	}
	return nil
}

// Session returns a clone of the underlying session for host introspection
// (creation and update timestamps). The boolean reports whether the key has
// ever been written to.
func (s *InMemoryStore) Session(sessionKey string) (*core.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionKey]
	if !ok {
		return nil, false
	}
	return sess.Clone(), true
}
