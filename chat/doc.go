// Package chat implements the round orchestration layer for chatstore.
//
// The Engine executes conversation rounds — one human input followed by one
// model response — against a core.HistoryStore and a model.Model. It owns the
// glue the history store deliberately does not: reading the transcript,
// assembling the prompt, driving generation, and persisting both sides of the
// round back into the store.
//
// # Responsibilities
//   - Round lifecycle: async streaming (Stream) and sync helper (Send)
//   - History persistence: the human turn before generation, the final model
//     turn after it; streaming partials are forwarded but never persisted
//   - Per-session model-call limiting
//   - Round cancellation and cleanup
//   - Callback hooks around model calls and history appends
//
// The engine is storage-backend agnostic and never blocks a store operation
// on a model call; history reads/appends and generation are decoupled per the
// store's contract.
package chat
