package chat

import (
	"context"
	"fmt"

	"github.com/hupe1980/chatstore/core"
	"github.com/hupe1980/chatstore/model"
)

// CallbackType defines the specific lifecycle points where callbacks can be executed.
//
// Callbacks provide a flexible mechanism for hooking into the engine's round
// pipeline without modifying core logic. They are executed synchronously and
// can influence execution flow by returning errors that abort the round.
type CallbackType string

const (
	// CallbackBeforeModel is triggered before the model call of a round.
	// Use for request modification, caching, or rate limiting.
	CallbackBeforeModel CallbackType = "before_model"

	// CallbackAfterModel is triggered after the model produced its final
	// response, before it is persisted. Use for response processing,
	// logging, or metrics collection.
	CallbackAfterModel CallbackType = "after_model"

	// CallbackOnAppend is triggered after a message was appended to the
	// history store. Use for validation, auditing, or reactive processing.
	CallbackOnAppend CallbackType = "on_append"

	// CallbackOnError is triggered when errors occur during a round.
	// Use for error handling, alerting, or recovery mechanisms.
	CallbackOnError CallbackType = "on_error"
)

// CallbackContext provides context information for callback execution.
//
// The context is populated by the engine and passed to each callback,
// allowing callbacks to inspect the round state. Request, Response and
// Message are set only for the callback types that operate on them.
type CallbackContext struct {
	// SessionKey identifies the conversation the round belongs to.
	SessionKey string

	// RoundID identifies the round being executed.
	RoundID string

	// Request is the assembled model request (before_model, after_model).
	Request *model.Request

	// Response is the final model response (after_model).
	Response *model.Response

	// Message is the message just appended to the history (on_append).
	Message *core.Message

	// Type indicates which callback type triggered this execution. Allows
	// shared callback implementations to behave differently per phase.
	Type CallbackType

	// Metadata provides extensible storage for custom callback data.
	Metadata map[string]interface{}
}

// Callback defines the interface for round lifecycle hooks.
//
// Implementations should be:
//   - Fast: Callbacks run synchronously and can block the round
//   - Safe: Handle errors gracefully and avoid panics
//   - Stateless: Don't rely on mutable state between invocations
//
// Callbacks that return errors abort the round; for before_model and
// after_model this means the model response is never persisted.
type Callback interface {
	// Type returns the callback type this implementation handles.
	Type() CallbackType

	// Execute performs the callback logic with the provided context.
	// Returning an error aborts the round.
	Execute(ctx context.Context, callbackCtx *CallbackContext) error
}

// FunctionCallback wraps a function as a callback implementation.
//
// This is a convenience wrapper that allows simple functions to be used
// as callbacks without implementing the full Callback interface.
//
// Example:
//
//	auditCallback := NewFunctionCallback(
//	    CallbackOnAppend,
//	    func(ctx context.Context, callbackCtx *CallbackContext) error {
//	        log.Printf("appended %s message in %s", callbackCtx.Message.Role, callbackCtx.SessionKey)
//	        return nil
//	    },
//	)
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, callbackCtx *CallbackContext) error
}

// NewFunctionCallback creates a new function-based callback.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, callbackCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType {
	return c.callbackType
}

// Execute calls the wrapped function with the provided context.
func (c *FunctionCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	return c.fn(ctx, callbackCtx)
}

// CallbackManager orchestrates callback execution throughout the round lifecycle.
//
// Callbacks are executed in registration order, and any callback returning
// an error aborts execution and prevents subsequent callbacks from running.
//
// Thread Safety:
// The CallbackManager is not inherently thread-safe for registration. Once
// registration is complete, callback execution is safe for concurrent use.
type CallbackManager struct {
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates a new callback manager instance.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// Register adds a callback to the manager for its declared type.
//
// Multiple callbacks can be registered for the same type and will be
// executed in registration order.
func (cm *CallbackManager) Register(callback Callback) {
	callbackType := callback.Type()
	cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
}

// Execute runs all registered callbacks for the specified type.
//
// Callbacks are executed sequentially in registration order. If any callback
// returns an error, execution stops immediately and the error is returned.
func (cm *CallbackManager) Execute(
	ctx context.Context,
	callbackType CallbackType,
	callbackCtx *CallbackContext,
) error {
	callbacks, exists := cm.callbacks[callbackType]
	if !exists {
		return nil // No callbacks registered for this type
	}

	for _, callback := range callbacks {
		if err := callback.Execute(ctx, callbackCtx); err != nil {
			return err
		}
	}

	return nil
}

// LoggingCallback provides simple textual logging for round lifecycle events.
//
// This callback implementation captures round events and forwards them to a
// logging function. It's useful for debugging, monitoring, and audit trails.
//
// Example:
//
//	logger := func(message string) {
//	    log.Printf("[CHAT] %s", message)
//	}
//	callback := NewLoggingCallback(CallbackBeforeModel, logger)
type LoggingCallback struct {
	callbackType CallbackType
	logger       func(message string)
}

// NewLoggingCallback creates a new logging callback.
func NewLoggingCallback(callbackType CallbackType, logger func(message string)) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logger,
	}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType {
	return c.callbackType
}

// Execute logs the round event with context information.
//
// If no logger function is configured, the callback silently succeeds.
func (c *LoggingCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	if c.logger != nil {
		message := fmt.Sprintf("[%s] Session: %s, Round: %s",
			c.callbackType, callbackCtx.SessionKey, callbackCtx.RoundID)
		c.logger(message)
	}
	return nil
}

// MessageValidationCallback validates messages as they are appended to the
// history during a round.
//
// This callback provides a mechanism to enforce content rules on persisted
// messages. It can be used to:
//   - Enforce content policies on persisted turns
//   - Reject oversized messages
//   - Log appended messages for auditing purposes
//
// The validation function receives the appended message and can return an
// error to abort the round.
//
// Example:
//
//	validator := func(msg core.Message) error {
//	    if len(msg.Content) > 64*1024 {
//	        return errors.New("message too large")
//	    }
//	    return nil
//	}
//	callback := NewMessageValidationCallback(validator)
type MessageValidationCallback struct {
	validator func(msg core.Message) error
}

// NewMessageValidationCallback creates a new message validation callback.
func NewMessageValidationCallback(validator func(msg core.Message) error) *MessageValidationCallback {
	return &MessageValidationCallback{
		validator: validator,
	}
}

// Type returns the callback type (always CallbackOnAppend).
func (c *MessageValidationCallback) Type() CallbackType {
	return CallbackOnAppend
}

// Execute validates the appended message.
//
// If a validator is configured and the context carries a message, the
// validator is called; its error aborts the round.
func (c *MessageValidationCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	if c.validator != nil && callbackCtx.Message != nil {
		return c.validator(*callbackCtx.Message)
	}
	return nil
}
