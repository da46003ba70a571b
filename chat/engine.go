package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/chatstore/core"
	"github.com/hupe1980/chatstore/history"
	"github.com/hupe1980/chatstore/logging"
	"github.com/hupe1980/chatstore/model"
	"github.com/hupe1980/chatstore/prompt"
)

// Config defines tuning parameters for the Engine's operational behavior.
//
// Additional concerns such as timeouts or metrics collection should be
// configured via functional options rather than expanding this struct to
// maintain simplicity and focused responsibility.
type Config struct {
	// EnableStreaming determines whether partial model responses are
	// requested and forwarded in real-time or only the final response is
	// delivered. Streaming enables interactive experiences but may increase
	// overhead for simple request-response patterns.
	EnableStreaming bool

	// ResponseBufferSize sets the channel buffer size for response
	// forwarding. Larger buffers reduce blocking but increase memory usage.
	ResponseBufferSize int

	// MaxHistoryMessages caps how many of the most recent history messages
	// are spliced into each model request. The stored transcript is never
	// trimmed. Set to 0 for the full history.
	MaxHistoryMessages int

	// MaxModelCalls limits the number of model calls per session key. Set
	// to 0 for unlimited.
	MaxModelCalls int
}

// DefaultConfig provides production-ready default configuration values.
//
// Configuration values:
//   - EnableStreaming: true (enables real-time interactions)
//   - ResponseBufferSize: 100 (balances memory usage and performance)
//   - MaxHistoryMessages: 0 (full transcript per request)
//   - MaxModelCalls: 100 (guards against runaway sessions)
var DefaultConfig = Config{
	EnableStreaming:    true,
	ResponseBufferSize: 100,
	MaxHistoryMessages: 0,
	MaxModelCalls:      100,
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Config contains operational parameters for the engine behavior.
	// Defaults to DefaultConfig if not specified.
	Config Config

	// Store persists conversation history. Defaults to the in-memory
	// implementation if not provided.
	Store core.HistoryStore

	// Memory receives a transcript of every completed round for later
	// recall. Optional; nil disables recording.
	Memory core.MemoryService

	// Logger provides structured logging for debugging and monitoring.
	// Defaults to NoOp logger if nil to ensure no logging dependencies.
	Logger logging.Logger

	// Callbacks hook into the round lifecycle. Defaults to an empty manager.
	Callbacks *CallbackManager

	// Instructions is the system prompt template prepended to every model
	// request. May contain Go template markers resolved against Vars.
	Instructions string

	// Vars are rendered into the instruction template.
	Vars map[string]any
}

// Engine executes conversation rounds against a history store and a model.
//
// Each round appends the human message, reads the full session transcript,
// assembles a model request and streams the model's response, persisting only
// the final (non-partial) response content back into the store. Public
// methods are safe for concurrent use; appends to one session key stay
// ordered because the store serializes them.
type Engine struct {
	model     model.Model
	store     core.HistoryStore
	memory    core.MemoryService
	logger    logging.Logger
	callbacks *CallbackManager
	assembler *prompt.Assembler
	config    Config

	limiters   map[string]*core.CallLimiter
	limitersMu sync.Mutex

	activeRounds map[string]context.CancelFunc
	mu           sync.RWMutex
}

// New constructs an Engine with optional overrides. Any unset dependency is
// initialized with a sensible default (in-memory store, no-op logger).
func New(m model.Model, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config:    DefaultConfig,
		Store:     history.NewInMemoryStore(),
		Logger:    logging.NoOpLogger{},
		Callbacks: NewCallbackManager(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Store == nil {
		opts.Store = history.NewInMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Callbacks == nil {
		opts.Callbacks = NewCallbackManager()
	}

	return &Engine{
		model:     m,
		store:     opts.Store,
		memory:    opts.Memory,
		logger:    opts.Logger,
		callbacks: opts.Callbacks,
		assembler: prompt.NewAssembler(opts.Instructions, func(o *prompt.Options) {
			o.MaxMessages = opts.Config.MaxHistoryMessages
			o.Vars = opts.Vars
		}),
		config:       opts.Config,
		limiters:     make(map[string]*core.CallLimiter),
		activeRounds: make(map[string]context.CancelFunc),
	}
}

// limiter returns the per-session model call limiter, creating it lazily.
func (e *Engine) limiter(sessionKey string) *core.CallLimiter {
	e.limitersMu.Lock()
	defer e.limitersMu.Unlock()
	cl, ok := e.limiters[sessionKey]
	if !ok {
		cl = core.NewCallLimiter(e.config.MaxModelCalls)
		e.limiters[sessionKey] = cl
	}
	return cl
}

// Stream starts an asynchronous round: the human message is persisted
// synchronously, then a worker goroutine reads the history, invokes the model
// and persists the final response as the ai turn. Partial responses are
// forwarded on the response channel but never persisted.
//
// Returns the round id (usable with Cancel), the response channel, the error
// channel and an immediate error if the round could not be started. Both
// channels are closed when the round completes or fails.
func (e *Engine) Stream(
	ctx context.Context,
	sessionKey string,
	content string,
) (string, <-chan model.Response, <-chan error, error) {
	if err := e.limiter(sessionKey).Increment(); err != nil {
		return "", nil, nil, err
	}

	// Persist the human turn before generation so a store failure surfaces
	// immediately and the model never sees an unrecorded message.
	if err := e.store.Append(ctx, sessionKey, core.RoleHuman, content); err != nil {
		return "", nil, nil, fmt.Errorf("failed to append human message: %w", err)
	}

	roundID := core.NewID()

	cbCtx := &CallbackContext{SessionKey: sessionKey, RoundID: roundID, Metadata: map[string]interface{}{}}
	humanMsg := core.NewMessage(core.RoleHuman, content)
	cbCtx.Message = &humanMsg
	cbCtx.Type = CallbackOnAppend
	if err := e.callbacks.Execute(ctx, CallbackOnAppend, cbCtx); err != nil {
		return "", nil, nil, fmt.Errorf("callback rejected message: %w", err)
	}

	respCh := make(chan model.Response, e.config.ResponseBufferSize)
	errCh := make(chan error, 1)

	roundCtx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.activeRounds[roundID] = cancel
	e.mu.Unlock()

	go func() {
		defer func() {
			e.mu.Lock()
			delete(e.activeRounds, roundID)
			e.mu.Unlock()
			cancel()
			close(respCh)
			close(errCh)
		}()

		e.runRound(roundCtx, sessionKey, roundID, content, cbCtx, respCh, errCh)
	}()

	return roundID, respCh, errCh, nil
}

// runRound executes the model side of a round and persists the outcome.
func (e *Engine) runRound(
	ctx context.Context,
	sessionKey string,
	roundID string,
	humanContent string,
	cbCtx *CallbackContext,
	respCh chan<- model.Response,
	errCh chan<- error,
) {
	msgs, err := e.store.Messages(ctx, sessionKey)
	if err != nil {
		e.fail(ctx, errCh, cbCtx, fmt.Errorf("failed to read history: %w", err))
		return
	}

	req, err := e.assembler.Build(msgs)
	if err != nil {
		e.fail(ctx, errCh, cbCtx, fmt.Errorf("failed to assemble request: %w", err))
		return
	}
	req.Stream = e.config.EnableStreaming

	cbCtx.Request = &req
	cbCtx.Type = CallbackBeforeModel
	if err := e.callbacks.Execute(ctx, CallbackBeforeModel, cbCtx); err != nil {
		e.fail(ctx, errCh, cbCtx, fmt.Errorf("before model callback failed: %w", err))
		return
	}

	modelRespCh, modelErrCh := e.model.Generate(ctx, req)

	var finalContent string
	var sawFinal bool
	for modelRespCh != nil {
		select {
		case <-ctx.Done():
			return

		case resp, ok := <-modelRespCh:
			if !ok {
				modelRespCh = nil
				continue
			}
			if resp.Partial {
				select {
				case <-ctx.Done():
					return
				case respCh <- resp:
				}
				continue
			}

			cbCtx.Response = &resp
			cbCtx.Type = CallbackAfterModel
			if err := e.callbacks.Execute(ctx, CallbackAfterModel, cbCtx); err != nil {
				e.fail(ctx, errCh, cbCtx, fmt.Errorf("after model callback failed: %w", err))
				return
			}

			// Persist only the final response as the ai turn.
			if err := e.store.Append(ctx, sessionKey, core.RoleAI, resp.Content); err != nil {
				e.fail(ctx, errCh, cbCtx, fmt.Errorf("failed to append ai message: %w", err))
				return
			}
			aiMsg := core.NewMessage(core.RoleAI, resp.Content)
			cbCtx.Message = &aiMsg
			cbCtx.Type = CallbackOnAppend
			if err := e.callbacks.Execute(ctx, CallbackOnAppend, cbCtx); err != nil {
				e.fail(ctx, errCh, cbCtx, fmt.Errorf("callback rejected message: %w", err))
				return
			}

			finalContent = resp.Content
			sawFinal = true

			select {
			case <-ctx.Done():
				return
			case respCh <- resp:
				e.logger.Debug("engine delivered final response round_id=%s session_key=%s", roundID, sessionKey)
			}

		case err, ok := <-modelErrCh:
			if !ok {
				modelErrCh = nil
				continue
			}
			if err != nil {
				e.fail(ctx, errCh, cbCtx, fmt.Errorf("model generation failed: %w", err))
				return
			}
		}
	}

	if sawFinal && e.memory != nil {
		transcript := core.BufferString([]core.Message{
			{Role: core.RoleHuman, Content: humanContent},
			{Role: core.RoleAI, Content: finalContent},
		}, "Human", "AI")
		if err := e.memory.Record(sessionKey, transcript, map[string]any{"round_id": roundID}); err != nil {
			e.logger.Warn("failed to record round transcript: %v", err)
		}
	}
}

// fail runs on_error callbacks and forwards the terminal error unless the
// round was already cancelled.
func (e *Engine) fail(ctx context.Context, errCh chan<- error, cbCtx *CallbackContext, err error) {
	cbCtx.Type = CallbackOnError
	if cbErr := e.callbacks.Execute(ctx, CallbackOnError, cbCtx); cbErr != nil {
		e.logger.Warn("on error callback failed: %v", cbErr)
	}
	select {
	case <-ctx.Done():
	case errCh <- err:
	}
}

// Send executes a round synchronously and returns the final reply text.
//
// This is a convenience wrapper around Stream() that drains the channels and
// discards partials. It's useful for simple request-response patterns where
// real-time streaming is not required.
func (e *Engine) Send(ctx context.Context, sessionKey string, content string) (string, error) {
	_, respCh, errCh, err := e.Stream(ctx, sessionKey, content)
	if err != nil {
		return "", err
	}

	var final string
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case resp, ok := <-respCh:
			if !ok {
				// Response channel closed - check for terminal error
				select {
				case err := <-errCh:
					if err != nil {
						return "", err
					}
				default:
				}
				return final, nil
			}
			if !resp.Partial {
				final = resp.Content
			}

		case err := <-errCh:
			// Terminal error occurred
			if err != nil {
				return "", err
			}
		}
	}
}

// Cancel forcibly terminates a running round by its ID.
//
// The round's context is cancelled: the model call is interrupted, no ai
// message is appended, and the response channels are closed.
//
// Returns an error if the round ID is not found (unknown or already
// completed).
func (e *Engine) Cancel(roundID string) error {
	e.mu.Lock()
	cancel, exists := e.activeRounds[roundID]
	e.mu.Unlock()

	if !exists {
		return fmt.Errorf("round %s not found", roundID)
	}

	cancel()
	return nil
}

// History returns the stored transcript for the session key. It delegates to
// the underlying history store; a never-written key yields an empty slice.
func (e *Engine) History(ctx context.Context, sessionKey string) ([]core.Message, error) {
	return e.store.Messages(ctx, sessionKey)
}

// Clear removes the stored transcript for the session key.
func (e *Engine) Clear(ctx context.Context, sessionKey string) error {
	return e.store.Clear(ctx, sessionKey)
}
