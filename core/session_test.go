package core

import (
	"errors"
	"testing"
)

func TestSession_AppendAssignsIndices(t *testing.T) {
	s := NewSession("s1")

	if _, err := s.Append(RoleHuman, "hi!"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if _, err := s.Append(RoleAI, "whats up?"); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Index != 0 || msgs[0].Role != RoleHuman || msgs[0].Content != "hi!" {
		t.Errorf("unexpected first message: %+v", msgs[0])
	}
	if msgs[1].Index != 1 || msgs[1].Role != RoleAI || msgs[1].Content != "whats up?" {
		t.Errorf("unexpected second message: %+v", msgs[1])
	}
}

func TestSession_AppendRejectsInvalidRole(t *testing.T) {
	s := NewSession("s2")
	_, err := s.Append(Role("user"), "hi")
	if !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("session should be unchanged after rejected append, got %d messages", s.Len())
	}
}

func TestSession_MessagesCopiedOnRead(t *testing.T) {
	s := NewSession("s3")
	s.Append(RoleHuman, "hello")

	msgs := s.Messages()
	msgs[0].Content = "changed"
	if s.Messages()[0].Content != "hello" {
		t.Error("messages slice should be copied on read")
	}
}

func TestSession_ClearRestartsIndexing(t *testing.T) {
	s := NewSession("s4")
	s.Append(RoleHuman, "one")
	s.Append(RoleAI, "two")

	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("expected empty session after clear, got %d", s.Len())
	}

	msg, err := s.Append(RoleHuman, "fresh")
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if msg.Index != 0 {
		t.Errorf("expected index 0 after clear, got %d", msg.Index)
	}
}

func TestSession_Clone(t *testing.T) {
	s := NewSession("s5")
	s.Append(RoleHuman, "hi")

	clone := s.Clone()
	if clone == s {
		t.Error("Clone should be a different pointer")
	}

	clone.Append(RoleAI, "divergent")
	if s.Len() != 1 {
		t.Errorf("original should not see clone's appends, got %d messages", s.Len())
	}
}
