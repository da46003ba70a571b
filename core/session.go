package core

import (
	"sync"
	"time"
)

// Session is an ordered, append-only container of messages scoped to a single
// session key. It is safe for concurrent access.
//
// Contract:
//   - Append validates the role before mutating and assigns the next sequence
//     index atomically with the content (readers never observe a partial append)
//   - Messages returns a defensive copy to avoid external mutation
//   - the sequence is never reordered or deduplicated; Clear is the only
//     removal operation and resets indexing to 0
//   - Clone copies the message slice for safe divergence.
type Session struct {
	Key      string    `json:"key"`
	Created  time.Time `json:"created"`
	Updated  time.Time `json:"updated"`
	messages []Message
	mu       sync.RWMutex
}

// NewSession creates an empty session for the given key.
func NewSession(key string) *Session {
	now := time.Now().UTC()
	return &Session{Key: key, Created: now, Updated: now}
}

// Append validates the role, assigns the next sequence index and adds the
// message to the end of the sequence, updating the Updated timestamp. The
// created message is returned. Invalid roles are rejected without mutating
// the session.
func (s *Session) Append(role Role, content string) (Message, error) {
	if err := role.Validate(); err != nil {
		return Message{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := NewMessage(role, content)
	msg.Index = len(s.messages)
	s.messages = append(s.messages, msg)
	s.Updated = time.Now().UTC()
	return msg, nil
}

// Messages returns a copy of the full message slice to prevent callers from
// mutating internal state.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := make([]Message, len(s.messages))
	copy(msgs, s.messages)
	return msgs
}

// Len returns the number of messages in the session.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Clear removes all messages. Subsequent appends restart at index 0.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.Updated = time.Now().UTC()
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{Key: s.Key, Created: s.Created, Updated: s.Updated, messages: make([]Message, len(s.messages))}
	copy(clone.messages, s.messages)
	return clone
}
