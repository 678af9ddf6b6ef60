// Package memory defines the store boundary for Arthur's persistent
// memory: workspaces, persona prompt templates, spine items (embedded
// text memories with affect metadata), and run logs.
//
// Architecture:
//   - Store: durable backend with hybrid text+vector search
//     (postgres/pgvector for production, chromem-go for local)
//   - SearchQuery/SearchResult: the narrow search contract the turn
//     pipeline consumes
//   - Context rendering: formatting retrieved items into the bounded
//     block injected into the generation prompt
//
// The pipeline owns nothing here after insertion; rows are write-once
// and never read back except through HybridSearch.
package memory
