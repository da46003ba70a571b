// Package kv provides a core.HistoryStore over any redis-like key-value
// client. The client is a narrow interface so hosts can inject whichever
// library they already use and tests can run against an in-memory fake. The
// whole session transcript is stored as one JSON payload under
// "<prefix><session key>:messages"; appends are read-modify-write cycles
// serialized by an in-process per-key lock. Cross-process coordination, if
// needed, is owned by the host.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hupe1980/chatstore/core"
)

// Client is the interface for key-value operations needed by the store.
// This abstracts the actual client library. Get must return (nil, nil) for an
// absent key.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
}

// Options configure the key-value history store.
type Options struct {
	// Prefix is prepended to every storage key.
	Prefix string
}

// Store is a HistoryStore backed by a key-value server.
type Store struct {
	client Client
	prefix string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a key-value backed history store with optional overrides.
func New(client Client, optFns ...func(o *Options)) *Store {
	opts := Options{Prefix: "chatstore:session:"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{client: client, prefix: opts.Prefix, locks: make(map[string]*sync.Mutex)}
}

func (s *Store) messagesKey(sessionKey string) string {
	return s.prefix + sessionKey + ":messages"
}

// keyLock returns the mutex serializing writes for one session key.
func (s *Store) keyLock(sessionKey string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionKey]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionKey] = l
	}
	return l
}

func (s *Store) load(ctx context.Context, sessionKey string) ([]core.Message, error) {
	data, err := s.client.Get(ctx, s.messagesKey(sessionKey))
	if err != nil {
		return nil, fmt.Errorf("%w: get messages: %v", core.ErrStorageUnavailable, err)
	}
	if data == nil {
		return []core.Message{}, nil
	}
	var msgs []core.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("%w: unmarshal messages: %v", core.ErrStorageUnavailable, err)
	}
	return msgs, nil
}

// Messages returns all messages for the session key in arrival order.
func (s *Store) Messages(ctx context.Context, sessionKey string) ([]core.Message, error) {
	return s.load(ctx, sessionKey)
}

// Append loads the session payload, adds the message with the next sequence
// index and writes the whole payload back. Invalid roles are rejected before
// touching the server.
func (s *Store) Append(ctx context.Context, sessionKey string, role core.Role, content string) error {
	if err := role.Validate(); err != nil {
		return err
	}

	lock := s.keyLock(sessionKey)
	lock.Lock()
	defer lock.Unlock()

	msgs, err := s.load(ctx, sessionKey)
	if err != nil {
		return err
	}

	msg := core.NewMessage(role, content)
	msg.Index = len(msgs)
	msgs = append(msgs, msg)

	data, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("%w: marshal messages: %v", core.ErrStorageUnavailable, err)
	}
	if err := s.client.Set(ctx, s.messagesKey(sessionKey), data); err != nil {
		return fmt.Errorf("%w: set messages: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}

// Clear deletes the session payload. Subsequent appends restart at index 0.
func (s *Store) Clear(ctx context.Context, sessionKey string) error {
	lock := s.keyLock(sessionKey)
	lock.Lock()
	defer lock.Unlock()

	if err := s.client.Del(ctx, s.messagesKey(sessionKey)); err != nil {
		return fmt.Errorf("%w: del messages: %v", core.ErrStorageUnavailable, err)
	}
	return nil
}
