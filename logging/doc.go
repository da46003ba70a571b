// Package logging provides a minimal logging interface and adapters for chatstore.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the chat engine and stores use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - ChatStoreLogger with contextual helpers (session, round, component)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	eng := chat.New(model, func(o *chat.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
