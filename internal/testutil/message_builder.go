package testutil

import (
	"time"

	"github.com/hupe1980/chatstore/core"
)

// MessageBuilder provides a fluent helper for constructing messages in tests.
// Example:
//
//	msg := NewMessageBuilder().Human("hi!").Index(0).Build()
//
// Chain only the parts you need; sensible defaults are applied.
type MessageBuilder struct {
	role      core.Role
	content   string
	index     int
	timestamp *time.Time
}

// NewMessageBuilder creates a builder with default role human.
func NewMessageBuilder() *MessageBuilder { return &MessageBuilder{role: core.RoleHuman} }

// System sets the role to system with the given content (chainable).
func (b *MessageBuilder) System(content string) *MessageBuilder {
	b.role = core.RoleSystem
	b.content = content
	return b
}

// Human sets the role to human with the given content (chainable).
func (b *MessageBuilder) Human(content string) *MessageBuilder {
	b.role = core.RoleHuman
	b.content = content
	return b
}

// AI sets the role to ai with the given content (chainable).
func (b *MessageBuilder) AI(content string) *MessageBuilder {
	b.role = core.RoleAI
	b.content = content
	return b
}

// Index sets the sequence index (chainable).
func (b *MessageBuilder) Index(i int) *MessageBuilder { b.index = i; return b }

// Timestamp overrides the auto-assigned timestamp (chainable). Use mainly in
// tests where determinism matters.
func (b *MessageBuilder) Timestamp(t time.Time) *MessageBuilder { b.timestamp = &t; return b }

// Build returns the assembled message.
func (b *MessageBuilder) Build() core.Message {
	msg := core.NewMessage(b.role, b.content)
	msg.Index = b.index
	if b.timestamp != nil {
		msg.Timestamp = *b.timestamp
	}
	return msg
}
