// Package core provides the foundational domain types and interfaces used by
// chatstore. It defines the core abstractions for:
//
//   - Messages (immutable conversational turns tagged with a role)
//   - Sessions (ordered, append-only message containers keyed by session key)
//   - HistoryStore (pluggable persistence for session transcripts)
//   - MemoryService (searchable recall over recorded conversation snippets)
//
// The package intentionally keeps implementation concerns (persistence
// backends, chat orchestration, provider adapters) out of scope, exposing
// small interfaces to enable custom backends and extensions. All exported
// identifiers include concise documentation to aid discoverability and
// external consumption.
package core
