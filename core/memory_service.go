package core

// MemoryService defines persistence + retrieval (search) for conversational
// memory snippets. Implementations can back search with embeddings, keywords
// or any heuristic.
type MemoryService interface {
	Record(sessionKey string, content string, metadata map[string]any) error
	Search(sessionKey string, query string, limit int) ([]SearchResult, error)
	Delete(sessionKey string, memoryID string) error
}

// SearchResult represents a retrieved memory item with a relevance score and
// arbitrary metadata.
type SearchResult struct {
	ID       string
	Content  string
	Score    float64
	Metadata map[string]any
}
