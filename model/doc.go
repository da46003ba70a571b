// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with language models inside chatstore.
//
// Core goals:
//   - Unify streaming + non-streaming generation behind a single interface
//   - Keep request/response shapes minimal and transport independent
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (chat engine, prompt assembly) remain decoupled
// from vendor SDKs. The model is a black box that generates a completion
// given instructions and an ordered message history; storage of that history
// is entirely the history store's concern.
package model
