// Package history houses concrete implementations of the core.HistoryStore.
// The interface itself (and the Session struct) live in the core package to
// centralize domain contracts. Keeping only implementations here prevents
// higher level packages (chat engine, prompt assembly) from depending on
// concrete storage.
//
// Additional backends live in sub-packages (sqlite, postgres, kv) without
// changing any calling code — only the wiring layer needs to decide which
// implementation to instantiate.
package history
