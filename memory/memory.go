package memory

import (
	"context"

	"github.com/danielos/arthur/core"
)

// Store is the durable memory backend: workspaces, personas, spine items,
// and run logs, with hybrid similarity search over the spine.
//
// Implementations live under memory/store: postgres (production,
// pgvector) and chromem (embedded). The pipeline treats every operation as
// independently fallible; no failure is assumed correlated with another.
type Store interface {
	// GetOrCreateWorkspace finds the workspace by name, creating it on
	// first use. Calling twice with the same name returns the same id
	// and performs exactly one insert.
	GetOrCreateWorkspace(ctx context.Context, name string) (string, error)

	// FindPersona returns the persona with the given name, or
	// core.ErrPersonaNotFound when no such row exists.
	FindPersona(ctx context.Context, name string) (*core.Persona, error)

	// InsertMemory persists a spine item and returns its id.
	// The item's embedding must already be set.
	InsertMemory(ctx context.Context, item *core.SpineItem) (string, error)

	// InsertRunLog persists one turn's audit record.
	InsertRunLog(ctx context.Context, run *core.RunLog) error

	// HybridSearch returns spine items relevant to the query, ranked by
	// the store, capped at limit, filtered to similarity >= threshold
	// and to the given workspace.
	HybridSearch(ctx context.Context, query SearchQuery) ([]core.SearchResult, error)

	// Close releases resources.
	Close() error
}

// SearchQuery carries one hybrid search request: the raw text for keyword
// matching and its embedding for vector ranking.
type SearchQuery struct {
	Text        string
	Embedding   []float32
	Threshold   float64
	Limit       int
	WorkspaceID string
}
