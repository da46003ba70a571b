// Package chatstore provides a high-level façade over the chat Engine and
// service abstractions (history stores, memory & logging) enabling rapid
// construction of session-scoped conversational systems. Most applications
// interact with this package by:
//  1. Creating a ChatStore via New() (optionally overriding the default in‑memory store)
//  2. Sending human messages per session key (Send) or streaming replies (Stream)
//  3. Reading back the ordered transcript (History) or resetting it (Clear)
//
// The façade delegates round orchestration to chat.Engine while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply a durable history
// store implementation and a structured logger.
package chatstore

import (
	"context"

	"github.com/hupe1980/chatstore/chat"
	"github.com/hupe1980/chatstore/core"
	"github.com/hupe1980/chatstore/history"
	"github.com/hupe1980/chatstore/logging"
	"github.com/hupe1980/chatstore/model"
)

// Options configures the ChatStore instance.
type Options struct {
	// Engine configuration (streaming, buffers, history window, call limits)
	EngineConfig chat.Config

	// Store persists conversation history (defaults to the in-memory
	// implementation if not provided).
	Store core.HistoryStore

	// Memory receives round transcripts for later recall. Optional.
	Memory core.MemoryService

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger

	// Callbacks hook into the round lifecycle.
	Callbacks *chat.CallbackManager

	// Instructions is the system prompt template prepended to every model
	// request.
	Instructions string

	// Vars are rendered into the instruction template.
	Vars map[string]any
}

// ChatStore is the high-level façade aggregating the round engine and its services.
type ChatStore struct {
	opts   Options
	engine *chat.Engine
}

// New creates a new ChatStore instance with optional overrides. Any unset
// service is initialized with an in-memory implementation.
func New(m model.Model, optFns ...func(o *Options)) *ChatStore {
	opts := Options{
		EngineConfig: chat.DefaultConfig,
		Store:        history.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	e := chat.New(m, func(o *chat.Options) {
		o.Config = opts.EngineConfig
		o.Store = opts.Store
		o.Memory = opts.Memory
		o.Logger = opts.Logger
		o.Callbacks = opts.Callbacks
		o.Instructions = opts.Instructions
		o.Vars = opts.Vars
	})

	return &ChatStore{opts: opts, engine: e}
}

// Stream starts an asynchronous round returning the round id plus response &
// error channels. Partial responses are forwarded in real-time when streaming
// is enabled; only the final response is persisted.
func (c *ChatStore) Stream(
	ctx context.Context,
	sessionKey string,
	content string,
) (string, <-chan model.Response, <-chan error, error) {
	return c.engine.Stream(ctx, sessionKey, content)
}

// Send is a synchronous helper that runs a full round and returns the final
// reply text.
func (c *ChatStore) Send(ctx context.Context, sessionKey string, content string) (string, error) {
	return c.engine.Send(ctx, sessionKey, content)
}

// Cancel forcibly terminates a running round by its ID.
func (c *ChatStore) Cancel(roundID string) error { return c.engine.Cancel(roundID) }

// History returns the ordered transcript for the session key. A key that was
// never written yields an empty slice.
func (c *ChatStore) History(ctx context.Context, sessionKey string) ([]core.Message, error) {
	return c.engine.History(ctx, sessionKey)
}

// Clear removes the stored transcript for the session key. Subsequent appends
// restart at sequence index zero.
func (c *ChatStore) Clear(ctx context.Context, sessionKey string) error {
	return c.engine.Clear(ctx, sessionKey)
}

// Append writes a message directly to the underlying history store without
// running a round. Useful for importing transcripts or recording out-of-band
// turns.
func (c *ChatStore) Append(ctx context.Context, sessionKey string, role core.Role, content string) error {
	return c.opts.Store.Append(ctx, sessionKey, role, content)
}
