package prompt

import (
	"fmt"
	"testing"

	"github.com/hupe1980/chatstore/core"
)

func history(n int) []core.Message {
	msgs := make([]core.Message, n)
	for i := range msgs {
		role := core.RoleHuman
		if i%2 == 1 {
			role = core.RoleAI
		}
		msgs[i] = core.Message{Index: i, Role: role, Content: fmt.Sprintf("msg-%d", i)}
	}
	return msgs
}

func TestAssembler_FullHistoryByDefault(t *testing.T) {
	a := NewAssembler("You are a helpful assistant.")

	req, err := a.Build(history(6))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if req.Instructions != "You are a helpful assistant." {
		t.Errorf("unexpected instructions: %q", req.Instructions)
	}
	if len(req.Messages) != 6 {
		t.Fatalf("got %d messages, want 6", len(req.Messages))
	}
}

func TestAssembler_WindowsLastMaxMessages(t *testing.T) {
	a := NewAssembler("instructions", func(o *Options) { o.MaxMessages = 4 })

	full := history(10)
	req, err := a.Build(full)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(req.Messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(req.Messages))
	}
	// The window keeps the most recent turns.
	if req.Messages[0].Content != "msg-6" || req.Messages[3].Content != "msg-9" {
		t.Errorf("unexpected window: %+v", req.Messages)
	}
	// Windowing happens only at build time; the input is untouched.
	if len(full) != 10 {
		t.Errorf("input history must not be trimmed, got %d", len(full))
	}
}

func TestAssembler_WindowSmallerThanHistory(t *testing.T) {
	a := NewAssembler("", func(o *Options) { o.MaxMessages = 10 })

	req, err := a.Build(history(3))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if len(req.Messages) != 3 {
		t.Errorf("got %d messages, want 3", len(req.Messages))
	}
}

func TestAssembler_RendersTemplateVars(t *testing.T) {
	a := NewAssembler("You are {{.name}}, speaking {{.lang}}.", func(o *Options) {
		o.Vars = map[string]any{"name": "Ada", "lang": "English"}
	})

	req, err := a.Build(nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	want := "You are Ada, speaking English."
	if req.Instructions != want {
		t.Errorf("got %q, want %q", req.Instructions, want)
	}
}

func TestAssembler_BadTemplateFails(t *testing.T) {
	a := NewAssembler("{{.name")

	if _, err := a.Build(nil); err == nil {
		t.Fatal("expected error for malformed template")
	}
}

func TestAssembler_CopiesHistory(t *testing.T) {
	a := NewAssembler("")
	full := history(2)

	req, _ := a.Build(full)
	req.Messages[0].Content = "mutated"
	if full[0].Content != "msg-0" {
		t.Error("build must copy the history slice")
	}
}
