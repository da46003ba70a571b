package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/hupe1980/chatstore/core"
)

// Interface compliance (compile-time assertion)
var _ core.HistoryStore = (*Store)(nil)

// openTestStore connects to the database named by CHATSTORE_POSTGRES_DSN and
// skips the test when the variable is unset. Each test uses its own session
// keys so a shared database stays usable.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("CHATSTORE_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CHATSTORE_POSTGRES_DSN not set; skipping postgres integration test")
	}
	store, err := New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

// testKey returns a session key unique to this test run.
func testKey(t *testing.T, name string) string {
	t.Helper()
	key := fmt.Sprintf("%s-%s", name, core.NewID())
	return key
}

func TestStore_AppendOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := testKey(t, "order")
	defer store.Clear(ctx, key)

	if err := store.Append(ctx, key, core.RoleHuman, "hi!"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := store.Append(ctx, key, core.RoleAI, "whats up?"); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	msgs, err := store.Messages(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Index != 0 || msgs[0].Role != core.RoleHuman || msgs[0].Content != "hi!" {
		t.Errorf("unexpected first message: %+v", msgs[0])
	}
	if msgs[1].Index != 1 || msgs[1].Role != core.RoleAI || msgs[1].Content != "whats up?" {
		t.Errorf("unexpected second message: %+v", msgs[1])
	}
}

func TestStore_SessionIsolation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	a, b := testKey(t, "iso-a"), testKey(t, "iso-b")
	defer store.Clear(ctx, a)
	defer store.Clear(ctx, b)

	store.Append(ctx, a, core.RoleHuman, "for a")
	store.Append(ctx, b, core.RoleHuman, "for b")
	store.Append(ctx, a, core.RoleAI, "more for a")

	ma, _ := store.Messages(ctx, a)
	mb, _ := store.Messages(ctx, b)
	if len(ma) != 2 || len(mb) != 1 {
		t.Errorf("got %d/%d messages, want 2/1", len(ma), len(mb))
	}
}

func TestStore_UntouchedKeyIsEmpty(t *testing.T) {
	store := openTestStore(t)

	msgs, err := store.Messages(context.Background(), testKey(t, "untouched"))
	if err != nil {
		t.Fatalf("untouched key should not error: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("got %d messages, want 0", len(msgs))
	}
}

func TestStore_ClearRestartsIndexing(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := testKey(t, "clear")
	defer store.Clear(ctx, key)

	store.Append(ctx, key, core.RoleHuman, "one")
	store.Append(ctx, key, core.RoleAI, "two")

	if err := store.Clear(ctx, key); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	msgs, _ := store.Messages(ctx, key)
	if len(msgs) != 0 {
		t.Fatalf("got %d messages after clear, want 0", len(msgs))
	}

	store.Append(ctx, key, core.RoleHuman, "fresh")
	msgs, _ = store.Messages(ctx, key)
	if len(msgs) != 1 || msgs[0].Index != 0 {
		t.Errorf("expected single message with index 0, got %+v", msgs)
	}
}

func TestStore_InvalidRoleRejected(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := testKey(t, "role")

	err := store.Append(ctx, key, core.Role("assistant"), "nope")
	if !errors.Is(err, core.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	msgs, _ := store.Messages(ctx, key)
	if len(msgs) != 0 {
		t.Errorf("store should be unchanged, got %d messages", len(msgs))
	}
}

func TestStore_ClosedPoolSurfacesStorageUnavailable(t *testing.T) {
	dsn := os.Getenv("CHATSTORE_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CHATSTORE_POSTGRES_DSN not set; skipping postgres integration test")
	}
	ctx := context.Background()
	store, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	store.Close()

	if err := store.Append(ctx, "s1", core.RoleHuman, "hi"); !errors.Is(err, core.ErrStorageUnavailable) {
		t.Errorf("append: expected ErrStorageUnavailable, got %v", err)
	}
	if _, err := store.Messages(ctx, "s1"); !errors.Is(err, core.ErrStorageUnavailable) {
		t.Errorf("messages: expected ErrStorageUnavailable, got %v", err)
	}
}

func TestStore_ConcurrentAppends(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := testKey(t, "conc")
	defer store.Clear(ctx, key)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			if err := store.Append(ctx, key, core.RoleHuman, fmt.Sprintf("msg-%d", i)); err != nil {
				t.Errorf("append failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	msgs, err := store.Messages(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != n {
		t.Fatalf("got %d messages, want %d", len(msgs), n)
	}
	for i, m := range msgs {
		if m.Index != i {
			t.Errorf("message %d: got index %d, want %d", i, m.Index, i)
		}
	}
}
