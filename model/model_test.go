package model

import (
	"context"
	"strings"
	"testing"

	"github.com/hupe1980/chatstore/core"
)

func drain(t *testing.T, respCh <-chan Response, errCh <-chan error) ([]Response, error) {
	t.Helper()
	var responses []Response
	for r := range respCh {
		responses = append(responses, r)
	}
	return responses, <-errCh
}

func TestMockModel_CannedResponse(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	m.AddResponse("hi!", "whats up?")

	respCh, errCh := m.Generate(context.Background(), Request{
		Messages: []core.Message{{Index: 0, Role: core.RoleHuman, Content: "hi!"}},
	})
	responses, err := drain(t, respCh, errCh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(responses) != 1 {
		t.Fatalf("expected 1 final response, got %d", len(responses))
	}
	if responses[0].Partial || responses[0].Content != "whats up?" || responses[0].FinishReason != "stop" {
		t.Errorf("unexpected response: %+v", responses[0])
	}
}

func TestMockModel_DefaultResponse(t *testing.T) {
	m := NewMockModel("test-model", "mock")

	respCh, errCh := m.Generate(context.Background(), Request{
		Messages: []core.Message{{Role: core.RoleHuman, Content: "anything"}},
	})
	responses, err := drain(t, respCh, errCh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(responses[0].Content, "anything") {
		t.Errorf("default response should echo the input, got %q", responses[0].Content)
	}
}

func TestMockModel_Streaming(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	m.AddResponse("hi!", "hello")

	respCh, errCh := m.Generate(context.Background(), Request{
		Messages: []core.Message{{Role: core.RoleHuman, Content: "hi!"}},
		Stream:   true,
	})
	responses, err := drain(t, respCh, errCh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var partials strings.Builder
	var finals int
	for _, r := range responses {
		if r.Partial {
			partials.WriteString(r.Content)
		} else {
			finals++
			if r.Content != "hello" {
				t.Errorf("final content %q, want %q", r.Content, "hello")
			}
		}
	}
	if finals != 1 {
		t.Fatalf("expected exactly 1 final response, got %d", finals)
	}
	if partials.String() != "hello" {
		t.Errorf("concatenated partials %q, want %q", partials.String(), "hello")
	}
}

func TestMockModel_EmptyRequest(t *testing.T) {
	m := NewMockModel("test-model", "mock")

	respCh, errCh := m.Generate(context.Background(), Request{})
	responses, err := drain(t, respCh, errCh)
	if err == nil {
		t.Fatal("expected error for empty request")
	}
	if len(responses) != 0 {
		t.Errorf("expected no responses, got %d", len(responses))
	}
}

func TestMockModel_Info(t *testing.T) {
	m := NewMockModel("test-model", "mock")
	info := m.Info()
	if info.Name != "test-model" || info.Provider != "mock" {
		t.Errorf("unexpected info: %+v", info)
	}
}
