package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/chatstore/core"
)

// StoredMemory is the internal representation persisted by InMemoryService.
// It mirrors the core.SearchResult shape (ID, content, metadata) without a
// score field since scoring is trivial here.
type StoredMemory struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// InMemoryService is a naive process-local MemoryService holding append-only
// recorded snippets with substring Search.
//
// Concurrency: protected by RWMutex.
// Search: linear scan with substring matching (case sensitive) assigning a
// constant score of 1.0 to every hit. Suitable only for tests / demos; swap
// for a vector DB or semantic index for production retrieval.
type InMemoryService struct {
	mu      sync.RWMutex
	storage map[string]map[string]StoredMemory // sessionKey -> memoryID -> stored memory
}

// NewInMemoryService creates a new in-memory memory service.
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{storage: make(map[string]map[string]StoredMemory)}
}

// Record appends a new stored memory generating a simple incremental id.
func (m *InMemoryService) Record(sessionKey string, content string, metadata map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.storage[sessionKey]; !exists {
		m.storage[sessionKey] = make(map[string]StoredMemory)
	}
	memoryID := fmt.Sprintf("mem_%d", len(m.storage[sessionKey]))
	m.storage[sessionKey][memoryID] = StoredMemory{ID: memoryID, Content: content, Metadata: metadata}
	return nil
}

// Search performs a simple substring match over stored memories. Results are
// returned in unspecified order up to the provided limit. Each result receives
// a constant score of 1.0.
func (m *InMemoryService) Search(sessionKey string, query string, limit int) ([]core.SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sessionStorage, exists := m.storage[sessionKey]
	if !exists {
		return []core.SearchResult{}, nil
	}
	results := make([]core.SearchResult, 0, limit)
	count := 0
	for _, stored := range sessionStorage {
		if count >= limit {
			break
		}
		if query == "" || strings.Contains(stored.Content, query) {
			md := make(map[string]any, len(stored.Metadata))
			for k, v := range stored.Metadata {
				md[k] = v
			}
			results = append(results, core.SearchResult{ID: stored.ID, Content: stored.Content, Score: 1.0, Metadata: md})
			count++
		}
	}
	return results, nil
}

// Delete removes a stored memory entry by id.
func (m *InMemoryService) Delete(sessionKey string, memoryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sessionStorage, exists := m.storage[sessionKey]
	if !exists {
		return fmt.Errorf("memory not found")
	}
	if _, exists := sessionStorage[memoryID]; !exists {
		return fmt.Errorf("memory not found")
	}
	delete(sessionStorage, memoryID)
	return nil
}
