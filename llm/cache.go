package llm

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// CachedEmbedder wraps an Embedder with a ristretto cache keyed on the
// raw text. One turn embeds the same utterance for perception, retrieval,
// and the memory write; the cache coalesces those into a single provider
// call without changing observable behavior.
type CachedEmbedder struct {
	inner Embedder
	cache *ristretto.Cache
}

// NewCachedEmbedder wraps inner with an embedding cache.
// maxBytes bounds the cache size; zero selects a 16 MiB default.
func NewCachedEmbedder(inner Embedder, maxBytes int64) (*CachedEmbedder, error) {
	if maxBytes <= 0 {
		maxBytes = 16 << 20
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &CachedEmbedder{inner: inner, cache: cache}, nil
}

// Embed returns the cached vector for text, calling the inner embedder
// on a miss.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		if vec, ok := v.([]float32); ok {
			return vec, nil
		}
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	// Cost is the vector's byte size. Wait makes the write visible to the
	// turn's own follow-up reads; admission may still reject the entry,
	// which only costs a recompute later.
	c.cache.Set(text, vec, int64(len(vec)*4))
	c.cache.Wait()
	return vec, nil
}

// Dimensions returns the inner embedder's vector size.
func (c *CachedEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}

// Close releases the cache's internal goroutines.
func (c *CachedEmbedder) Close() {
	c.cache.Close()
}
