// Package mock provides deterministic llm implementations for tests and
// offline development: a hash-based embedder and a scripted generator.
package mock

import (
	"context"
	"hash/fnv"
	"math"
	"sync"

	"github.com/danielos/arthur/llm"
)

// Embedder generates deterministic unit vectors from a text hash.
// Identical text always yields the identical vector, which is enough for
// exercising cache and store plumbing without a provider.
type Embedder struct {
	dimensions int
}

// NewEmbedder creates a mock embedder. dims defaults to 1536 to match
// the production embedding size.
func NewEmbedder(dims int) *Embedder {
	if dims == 0 {
		dims = 1536
	}
	return &Embedder{dimensions: dims}
}

// Embed creates a deterministic embedding from text.
func (m *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	embedding := make([]float32, m.dimensions)
	for i := 0; i < m.dimensions; i++ {
		// LCG seeded by the text hash keeps output stable across runs.
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}

	return normalize(embedding), nil
}

// Dimensions returns the embedding size.
func (m *Embedder) Dimensions() int {
	return m.dimensions
}

// Generator replays scripted completions in order, falling back to a
// fixed response when the script runs out. It records every request for
// assertion.
type Generator struct {
	mu       sync.Mutex
	script   []llm.Completion
	errs     []error
	fallback string

	Requests []llm.GenerateRequest
}

// NewGenerator creates a scripted generator with the given fallback text.
func NewGenerator(fallback string) *Generator {
	return &Generator{fallback: fallback}
}

// Queue appends a scripted completion.
func (g *Generator) Queue(text string, tokens *int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.script = append(g.script, llm.Completion{Text: text, Tokens: tokens})
	g.errs = append(g.errs, nil)
}

// QueueError appends a scripted failure.
func (g *Generator) QueueError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.script = append(g.script, llm.Completion{})
	g.errs = append(g.errs, err)
}

// Generate returns the next scripted completion.
func (g *Generator) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.Completion, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Requests = append(g.Requests, req)

	if len(g.script) == 0 {
		return &llm.Completion{Text: g.fallback}, nil
	}

	next, err := g.script[0], g.errs[0]
	g.script, g.errs = g.script[1:], g.errs[1:]
	if err != nil {
		return nil, err
	}
	return &next, nil
}

// normalize converts a vector to unit length.
func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}

	norm = float32(math.Sqrt(float64(norm)))
	for i, v := range vec {
		vec[i] = v / norm
	}
	return vec
}
