package chromem_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielos/arthur/core"
	"github.com/danielos/arthur/llm/mock"
	"github.com/danielos/arthur/memory"
	"github.com/danielos/arthur/memory/store/chromem"
)

func newStore(t *testing.T) *chromem.Store {
	t.Helper()
	s, err := chromem.New()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedMemory(t *testing.T, s *chromem.Store, wsID, body string, embedding []float32) string {
	t.Helper()
	id, err := s.InsertMemory(context.Background(), &core.SpineItem{
		WorkspaceID: wsID,
		Title:       "Journal Entry: " + body,
		Body:        body,
		Embedding:   embedding,
		Source:      core.SourceAgent,
		Type:        core.TypeJournal,
	})
	require.NoError(t, err)
	return id
}

func TestGetOrCreateWorkspace_Idempotent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	first, err := s.GetOrCreateWorkspace(ctx, "DanielOS Home")
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := s.GetOrCreateWorkspace(ctx, "DanielOS Home")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := s.GetOrCreateWorkspace(ctx, "Scratch")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestPersonaLifecycle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.FindPersona(ctx, "Manager")
	assert.ErrorIs(t, err, core.ErrPersonaNotFound)

	require.NoError(t, s.SeedPersona(ctx, core.Persona{Name: "Manager", Prompt: "be direct"}))

	p, err := s.FindPersona(ctx, "Manager")
	require.NoError(t, err)
	assert.Equal(t, "be direct", p.Prompt)

	// Re-seeding replaces the prompt.
	require.NoError(t, s.SeedPersona(ctx, core.Persona{Name: "Manager", Prompt: "be concise"}))
	p, err = s.FindPersona(ctx, "Manager")
	require.NoError(t, err)
	assert.Equal(t, "be concise", p.Prompt)
}

func TestInsertMemory_RequiresEmbedding(t *testing.T) {
	s := newStore(t)
	wsID, err := s.GetOrCreateWorkspace(context.Background(), "ws")
	require.NoError(t, err)

	_, err = s.InsertMemory(context.Background(), &core.SpineItem{
		WorkspaceID: wsID,
		Body:        "no vector",
	})
	require.Error(t, err)
}

func TestHybridSearch_ThresholdAndLimit(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	embedder := mock.NewEmbedder(8)

	wsID, err := s.GetOrCreateWorkspace(ctx, "ws")
	require.NoError(t, err)

	bodies := []string{
		"Complete the Q3 financial audit by Friday.",
		"I went hiking over the weekend.",
		"Remember to water the plants.",
	}
	for _, body := range bodies {
		vec, err := embedder.Embed(ctx, body)
		require.NoError(t, err)
		seedMemory(t, s, wsID, body, vec)
	}

	// Querying with an item's own vector puts it first at similarity ~1.
	query, err := embedder.Embed(ctx, bodies[0])
	require.NoError(t, err)

	results, err := s.HybridSearch(ctx, memory.SearchQuery{
		Embedding:   query,
		Threshold:   0.9,
		Limit:       5,
		WorkspaceID: wsID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, bodies[0], results[0].Body)
	assert.InDelta(t, 1.0, results[0].Similarity, 0.01)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Similarity, 0.9)
	}

	// A permissive threshold returns everything, capped by limit.
	results, err = s.HybridSearch(ctx, memory.SearchQuery{
		Embedding:   query,
		Threshold:   -1,
		Limit:       2,
		WorkspaceID: wsID,
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestHybridSearch_EmptyWorkspace(t *testing.T) {
	s := newStore(t)
	wsID, err := s.GetOrCreateWorkspace(context.Background(), "ws")
	require.NoError(t, err)

	results, err := s.HybridSearch(context.Background(), memory.SearchQuery{
		Embedding:   []float32{1, 0, 0, 0, 0, 0, 0, 0},
		Threshold:   0.3,
		Limit:       5,
		WorkspaceID: wsID,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestHybridSearch_WorkspaceIsolation(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	embedder := mock.NewEmbedder(8)

	home, err := s.GetOrCreateWorkspace(ctx, "home")
	require.NoError(t, err)
	work, err := s.GetOrCreateWorkspace(ctx, "work")
	require.NoError(t, err)

	vec, err := embedder.Embed(ctx, "only in home")
	require.NoError(t, err)
	seedMemory(t, s, home, "only in home", vec)

	results, err := s.HybridSearch(ctx, memory.SearchQuery{
		Embedding:   vec,
		Threshold:   -1,
		Limit:       5,
		WorkspaceID: work,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunLogRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	tokens := int64(128)
	require.NoError(t, s.InsertRunLog(ctx, &core.RunLog{
		WorkspaceID:   "ws",
		UserMessage:   "hello",
		AgentResponse: "hi there",
		PersonaUsed:   "Friend",
		TokensUsed:    &tokens,
	}))
	require.NoError(t, s.InsertRunLog(ctx, &core.RunLog{
		WorkspaceID:   "ws",
		UserMessage:   "status?",
		AgentResponse: "on track",
		PersonaUsed:   "Manager",
	}))

	runs := s.RunLogs()
	require.Len(t, runs, 2)
	assert.Equal(t, "hello", runs[0].UserMessage)
	assert.Equal(t, "Friend", runs[0].PersonaUsed)
	require.NotNil(t, runs[0].TokensUsed)
	assert.Equal(t, int64(128), *runs[0].TokensUsed)
	assert.Nil(t, runs[1].TokensUsed)
}
