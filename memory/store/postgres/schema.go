package postgres

import (
	"context"
	"fmt"
)

// schema is the full DDL for a fresh database: the four tables, the
// pgvector extension, and the search_spine hybrid-search function. It
// mirrors the hosted store's migrations so either backend serves the
// same contract.
const schema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS workspaces (
	id   uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	name text UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS personas (
	name   text PRIMARY KEY,
	prompt text NOT NULL
);

CREATE TABLE IF NOT EXISTS spine_items (
	id                uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	workspace_id      uuid NOT NULL REFERENCES workspaces(id),
	title             text,
	body              text NOT NULL,
	embedding         vector(1536),
	affective_context jsonb,
	source            text NOT NULL DEFAULT 'agent',
	type              text NOT NULL DEFAULT 'journal',
	created_at        timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS spine_items_workspace_idx ON spine_items (workspace_id);

CREATE TABLE IF NOT EXISTS agent_runs (
	id             uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	workspace_id   uuid NOT NULL REFERENCES workspaces(id),
	user_message   text NOT NULL,
	agent_response text NOT NULL,
	persona_used   text NOT NULL,
	tokens_used    bigint,
	created_at     timestamptz NOT NULL DEFAULT now()
);

CREATE OR REPLACE FUNCTION search_spine(
	query_text          text,
	query_embedding     vector(1536),
	match_threshold     double precision,
	match_count         int,
	filter_workspace_id uuid
)
RETURNS TABLE (
	id         uuid,
	title      text,
	body       text,
	similarity double precision
)
LANGUAGE sql STABLE
AS $$
	WITH scored AS (
		SELECT
			s.id,
			s.title,
			s.body,
			GREATEST(
				1 - (s.embedding <=> query_embedding),
				ts_rank(
					to_tsvector('english', coalesce(s.title, '') || ' ' || s.body),
					plainto_tsquery('english', query_text)
				)::double precision
			) AS similarity
		FROM spine_items s
		WHERE s.workspace_id = filter_workspace_id
		  AND s.embedding IS NOT NULL
	)
	SELECT id, title, body, similarity
	FROM scored
	WHERE similarity >= match_threshold
	ORDER BY similarity DESC
	LIMIT match_count;
$$;
`

// EnsureSchema creates the tables and the search function if absent.
// Safe to call on every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
