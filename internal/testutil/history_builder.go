package testutil

import (
	"context"
	"fmt"

	"github.com/hupe1980/chatstore/core"
)

// HistoryBuilder helps construct conversation transcripts with fluent
// chaining for tests. Example:
//
//	msgs := NewHistoryBuilder().Human("hi!").AI("hello").Build()
//
// Indices are assigned in append order starting at zero.
type HistoryBuilder struct {
	turns []turn
}

type turn struct {
	role    core.Role
	content string
}

// NewHistoryBuilder creates a new empty transcript builder.
func NewHistoryBuilder() *HistoryBuilder { return &HistoryBuilder{} }

// System appends a system turn (chainable).
func (b *HistoryBuilder) System(content string) *HistoryBuilder {
	b.turns = append(b.turns, turn{core.RoleSystem, content})
	return b
}

// Human appends a human turn (chainable).
func (b *HistoryBuilder) Human(content string) *HistoryBuilder {
	b.turns = append(b.turns, turn{core.RoleHuman, content})
	return b
}

// AI appends an ai turn (chainable).
func (b *HistoryBuilder) AI(content string) *HistoryBuilder {
	b.turns = append(b.turns, turn{core.RoleAI, content})
	return b
}

// Rounds appends n alternating human/ai turns with generated content
// (chainable). Useful for windowing and pagination tests.
func (b *HistoryBuilder) Rounds(n int) *HistoryBuilder {
	for i := 0; i < n; i++ {
		b.Human(fmt.Sprintf("question %d", i))
		b.AI(fmt.Sprintf("answer %d", i))
	}
	return b
}

// Build returns the transcript as an indexed message slice.
func (b *HistoryBuilder) Build() []core.Message {
	msgs := make([]core.Message, 0, len(b.turns))
	for i, tr := range b.turns {
		msg := core.NewMessage(tr.role, tr.content)
		msg.Index = i
		msgs = append(msgs, msg)
	}
	return msgs
}

// Seed appends the built transcript into a history store under the given
// session key.
func (b *HistoryBuilder) Seed(ctx context.Context, store core.HistoryStore, sessionKey string) error {
	for _, tr := range b.turns {
		if err := store.Append(ctx, sessionKey, tr.role, tr.content); err != nil {
			return err
		}
	}
	return nil
}
