package memory_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielos/arthur/core"
	"github.com/danielos/arthur/memory"
)

func TestRenderContext(t *testing.T) {
	items := []core.SearchResult{
		{Title: "Journal Entry: deadline...", Body: "The audit is due Friday.", Similarity: 0.91},
		{Title: "", Body: "Untitled thought.", Similarity: 0.42},
	}

	got := memory.RenderContext(items)

	assert.True(t, strings.HasPrefix(got, "Relevant Context:\n"))
	assert.Contains(t, got, "1. Journal Entry: deadline...: The audit is due Friday.... (similarity: 0.91)")
	assert.Contains(t, got, "2. Memory: Untitled thought.... (similarity: 0.42)")
}

func TestRenderContext_Empty(t *testing.T) {
	assert.Empty(t, memory.RenderContext(nil))
	assert.Empty(t, memory.RenderContext([]core.SearchResult{}))
}

func TestRenderContext_TruncatesLongBodies(t *testing.T) {
	long := strings.Repeat("x", 250)
	got := memory.RenderContext([]core.SearchResult{{Title: "T", Body: long, Similarity: 0.5}})

	assert.Contains(t, got, strings.Repeat("x", 100)+"...")
	assert.NotContains(t, got, strings.Repeat("x", 101))
}

func TestSnippet(t *testing.T) {
	// The ellipsis is unconditional; short bodies carry it too.
	assert.Equal(t, "short...", memory.Snippet("short", 10))
	assert.Equal(t, "exactly10!...", memory.Snippet("exactly10!", 10))
	assert.Equal(t, "trunc...", memory.Snippet("truncated", 5))

	// Rune-aware: multi-byte characters are never split.
	assert.Equal(t, "héllo...", memory.Snippet("héllo wörld", 5))
}
