// Package prompt splices instruction text and stored conversation history
// into normalized model requests. The assembler is the only component that
// decides how much history a model sees; the stored history itself is never
// trimmed, preserving the append-only transcript.
package prompt

import (
	"fmt"

	"github.com/hupe1980/chatstore/core"
	"github.com/hupe1980/chatstore/internal/util"
	"github.com/hupe1980/chatstore/model"
)

// Options configure a prompt Assembler.
type Options struct {
	// MaxMessages caps how many of the most recent history messages are
	// spliced into a request. 0 means the full history is used.
	MaxMessages int
	// Vars are rendered into the instruction template on every Build.
	Vars map[string]any
}

// Assembler builds model requests from instruction text and session history.
// Instructions may contain Go template markers ({{.name}}) resolved against
// the configured vars.
type Assembler struct {
	instructions string
	maxMessages  int
	vars         map[string]any
}

// NewAssembler creates an assembler with optional overrides.
func NewAssembler(instructions string, optFns ...func(o *Options)) *Assembler {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Assembler{instructions: instructions, maxMessages: opts.MaxMessages, vars: opts.Vars}
}

// Build renders the instructions and splices the (windowed) history into a
// model request. The input slice is copied; callers keep ownership of theirs.
func (a *Assembler) Build(history []core.Message) (model.Request, error) {
	rendered, err := util.RenderTemplate(a.instructions, a.vars)
	if err != nil {
		return model.Request{}, fmt.Errorf("render instructions: %w", err)
	}

	window := history
	if a.maxMessages > 0 && len(window) > a.maxMessages {
		window = window[len(window)-a.maxMessages:]
	}
	msgs := make([]core.Message, len(window))
	copy(msgs, window)

	return model.Request{Instructions: rendered, Messages: msgs}, nil
}
