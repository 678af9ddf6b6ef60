package memory

import (
	"fmt"
	"strings"

	"github.com/danielos/arthur/core"
)

// snippetLen caps how much of each item's body enters the prompt.
const snippetLen = 100

// RenderContext formats retrieved spine items into the context block
// injected ahead of the user message. Items keep the store's ranking
// order; each contributes its index, title, a truncated body snippet,
// and its similarity score. Empty input renders to an empty string.
func RenderContext(items []core.SearchResult) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Relevant Context:\n")
	for i, item := range items {
		title := item.Title
		if title == "" {
			title = "Memory"
		}
		fmt.Fprintf(&b, "%d. %s: %s (similarity: %.2f)\n",
			i+1, title, Snippet(item.Body, snippetLen), item.Similarity)
	}
	return b.String()
}

// Snippet truncates s to maxRunes and appends "..." regardless; every
// rendered body carries the ellipsis, truncated or not. Truncation counts
// runes so multi-byte text is never split mid-character.
func Snippet(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) > maxRunes {
		s = string(runes[:maxRunes])
	}
	return s + "..."
}
