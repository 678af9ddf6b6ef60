// Package chromem implements memory.Store on chromem-go, a pure Go
// embedded vector database. It backs local development and tests;
// workspaces, personas, and run logs live in process memory, spine items
// in one chromem collection per workspace.
//
// Search here is vector-only: chromem has no keyword index, so the
// hybrid contract degrades to cosine ranking with the same threshold and
// limit semantics as the production store.
package chromem

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"

	"github.com/danielos/arthur/core"
	"github.com/danielos/arthur/memory"
)

// Store is an embedded, in-process memory.Store.
type Store struct {
	db *chromem.DB

	mu          sync.RWMutex
	collections map[string]*chromem.Collection // workspace id -> spine collection
	workspaces  map[string]string              // name -> id
	personas    map[string]string              // name -> prompt
	runs        []core.RunLog
}

// New creates an empty embedded store.
func New() (*Store, error) {
	return &Store{
		db:          chromem.NewDB(),
		collections: make(map[string]*chromem.Collection),
		workspaces:  make(map[string]string),
		personas:    make(map[string]string),
	}, nil
}

// GetOrCreateWorkspace finds or lazily creates the named workspace.
func (s *Store) GetOrCreateWorkspace(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.workspaces[name]; ok {
		return id, nil
	}

	id := uuid.New().String()
	s.workspaces[name] = id
	log.Printf("[CHROMEM] Created workspace %q (%s)", name, id)
	return id, nil
}

// SeedPersona inserts or replaces a persona row. The pipeline never
// writes personas; seeding is the ignite command's job.
func (s *Store) SeedPersona(ctx context.Context, p core.Persona) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personas[p.Name] = p.Prompt
	return nil
}

// FindPersona returns the named persona or core.ErrPersonaNotFound.
func (s *Store) FindPersona(ctx context.Context, name string) (*core.Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prompt, ok := s.personas[name]
	if !ok {
		return nil, core.ErrPersonaNotFound
	}
	return &core.Persona{Name: name, Prompt: prompt}, nil
}

// InsertMemory persists a spine item into its workspace's collection.
func (s *Store) InsertMemory(ctx context.Context, item *core.SpineItem) (string, error) {
	if len(item.Embedding) == 0 {
		return "", fmt.Errorf("chromem: spine item has no embedding")
	}

	col, err := s.workspaceCollection(item.WorkspaceID)
	if err != nil {
		return "", err
	}

	id := item.ID
	if id == "" {
		id = uuid.New().String()
	}

	affect, err := json.Marshal(item.AffectiveContext)
	if err != nil {
		return "", fmt.Errorf("chromem: marshal affective context: %w", err)
	}

	doc := chromem.Document{
		ID:        id,
		Content:   item.Body,
		Embedding: item.Embedding,
		Metadata: map[string]string{
			"title":             item.Title,
			"source":            string(item.Source),
			"type":              string(item.Type),
			"affective_context": string(affect),
		},
	}
	if err := col.AddDocument(ctx, doc); err != nil {
		return "", fmt.Errorf("chromem: add document: %w", err)
	}

	log.Printf("[CHROMEM] Stored spine item %s in workspace %s", id, item.WorkspaceID)
	return id, nil
}

// InsertRunLog appends a run log entry.
func (s *Store) InsertRunLog(ctx context.Context, run *core.RunLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, *run)
	return nil
}

// RunLogs returns a copy of all recorded runs, oldest first.
func (s *Store) RunLogs() []core.RunLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.RunLog, len(s.runs))
	copy(out, s.runs)
	return out
}

// HybridSearch ranks spine items by cosine similarity against the query
// embedding, filtered to similarity >= threshold.
func (s *Store) HybridSearch(ctx context.Context, query memory.SearchQuery) ([]core.SearchResult, error) {
	col, err := s.workspaceCollection(query.WorkspaceID)
	if err != nil {
		return nil, err
	}

	// chromem rejects nResults larger than the collection.
	n := query.Limit
	if count := col.Count(); n > count {
		n = count
	}
	if n <= 0 {
		return nil, nil
	}

	results, err := col.QueryEmbedding(ctx, query.Embedding, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: query: %w", err)
	}

	var out []core.SearchResult
	for _, r := range results {
		sim := float64(r.Similarity)
		if sim < query.Threshold {
			continue
		}
		out = append(out, core.SearchResult{
			Title:      r.Metadata["title"],
			Body:       r.Content,
			Similarity: sim,
		})
	}

	log.Printf("[CHROMEM] Search in workspace %s: %d hits (threshold %.2f)",
		query.WorkspaceID, len(out), query.Threshold)
	return out, nil
}

// Close releases resources. chromem keeps everything in memory, so this
// is a no-op.
func (s *Store) Close() error {
	return nil
}

// workspaceCollection returns the spine collection for a workspace,
// creating it on first use.
func (s *Store) workspaceCollection(workspaceID string) (*chromem.Collection, error) {
	s.mu.RLock()
	col, ok := s.collections[workspaceID]
	s.mu.RUnlock()
	if ok {
		return col, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if col, ok := s.collections[workspaceID]; ok {
		return col, nil
	}

	name := "spine_" + workspaceID
	if workspaceID == "" {
		return nil, fmt.Errorf("chromem: empty workspace id")
	}

	col, err := s.db.CreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: create collection: %w", err)
	}
	s.collections[workspaceID] = col
	return col, nil
}
