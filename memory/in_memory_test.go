package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/chatstore/core"
)

// Interface compliance (compile-time assertion)
var _ core.MemoryService = (*InMemoryService)(nil)

func TestInMemoryService_RecordSearchDelete(t *testing.T) {
	svc := NewInMemoryService()
	// record memories
	for i := 0; i < 5; i++ {
		if err := svc.Record("s1", "content"+string(rune('A'+i)), map[string]any{"idx": i}); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}
	// search all (empty query) limit larger than stored
	res, err := svc.Search("s1", "", 10)
	if err != nil {
		t.Fatalf("search all failed: %v", err)
	}
	if len(res) != 5 {
		t.Fatalf("expected 5 results, got %d", len(res))
	}
	// search with query substring
	res2, _ := svc.Search("s1", "contentA", 5)
	if len(res2) != 1 || res2[0].Content == "" {
		t.Fatalf("expected single match, got %#v", res2)
	}
	// limit test
	res3, _ := svc.Search("s1", "", 3)
	if len(res3) != 3 {
		t.Fatalf("expected 3 limited results, got %d", len(res3))
	}
	// delete existing id (take first)
	if err := svc.Delete("s1", res[0].ID); err != nil {
		t.Fatalf("delete existing failed: %v", err)
	}
	res4, _ := svc.Search("s1", "", 10)
	if len(res4) != 4 {
		t.Fatalf("expected 4 after delete, got %d", len(res4))
	}
	// delete nonexistent
	if err := svc.Delete("s1", "does_not_exist"); err == nil {
		t.Fatalf("expected error deleting nonexistent memory")
	}
}

func TestInMemoryService_SessionScoping(t *testing.T) {
	svc := NewInMemoryService()
	svc.Record("a", "alpha transcript", nil)
	svc.Record("b", "beta transcript", nil)

	res, _ := svc.Search("a", "transcript", 10)
	if len(res) != 1 || res[0].Content != "alpha transcript" {
		t.Fatalf("search must be session scoped, got %#v", res)
	}
	empty, _ := svc.Search("never-written", "transcript", 10)
	if len(empty) != 0 {
		t.Fatalf("expected no results for unknown session, got %d", len(empty))
	}
}

func TestInMemoryService_ConcurrentAccess(t *testing.T) {
	svc := NewInMemoryService()
	wg := sync.WaitGroup{}
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := svc.Record("s4", fmt.Sprintf("snippet %d", i), nil); err != nil {
				t.Errorf("record error: %v", err)
			}
			if _, err := svc.Search("s4", "snippet", 5); err != nil {
				t.Errorf("search error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	res, _ := svc.Search("s4", "", 100)
	if len(res) == 0 {
		t.Fatalf("expected records after concurrent writes")
	}
}
