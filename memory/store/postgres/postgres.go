// Package postgres implements memory.Store on PostgreSQL with pgvector.
// The schema is Supabase-compatible: the same four tables and the same
// search_spine hybrid-search function the hosted store exposes as an RPC.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/danielos/arthur/core"
	"github.com/danielos/arthur/memory"
)

// Config contains connection settings. Either DSN or the ProjectURL +
// ServiceKey pair must be set; DSN wins when both are present.
type Config struct {
	// DSN is a full PostgreSQL connection string.
	DSN string

	// ProjectURL is a hosted store project URL
	// (e.g. https://abcd1234.supabase.co). The database host is derived
	// from it.
	ProjectURL string

	// ServiceKey is the database password for the derived connection.
	ServiceKey string

	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}

// Store implements memory.Store on PostgreSQL.
type Store struct {
	db *sql.DB
}

// New opens and pings the database.
func New(cfg Config) (*Store, error) {
	dsn := cfg.DSN
	if dsn == "" {
		var err error
		dsn, err = dsnFromProjectURL(cfg.ProjectURL, cfg.ServiceKey)
		if err != nil {
			return nil, err
		}
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 10
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnLifetime == 0 {
		cfg.ConnLifetime = 5 * time.Minute
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// dsnFromProjectURL derives the direct database connection string from a
// hosted project URL and its service key.
func dsnFromProjectURL(projectURL, serviceKey string) (string, error) {
	if projectURL == "" || serviceKey == "" {
		return "", fmt.Errorf("postgres: project URL and service key are required")
	}
	u, err := url.Parse(projectURL)
	if err != nil {
		return "", fmt.Errorf("postgres: parse project URL: %w", err)
	}
	host := u.Host
	if host == "" {
		host = strings.TrimSuffix(projectURL, "/")
	}
	return fmt.Sprintf("postgres://postgres:%s@db.%s:5432/postgres?sslmode=require",
		url.QueryEscape(serviceKey), host), nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetOrCreateWorkspace finds the workspace by name, inserting it on
// first use. A concurrent insert racing on the unique name constraint is
// resolved by re-reading.
func (s *Store) GetOrCreateWorkspace(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM workspaces WHERE name = $1`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("query workspace: %w", err)
	}

	log.Printf("[PG] Creating workspace %q", name)
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO workspaces (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err == nil {
		return id, nil
	}

	// Lost the race: someone else inserted the name first.
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
		if rerr := s.db.QueryRowContext(ctx,
			`SELECT id FROM workspaces WHERE name = $1`, name).Scan(&id); rerr == nil {
			return id, nil
		}
	}
	return "", fmt.Errorf("insert workspace: %w", err)
}

// FindPersona returns the named persona or core.ErrPersonaNotFound.
func (s *Store) FindPersona(ctx context.Context, name string) (*core.Persona, error) {
	var prompt string
	err := s.db.QueryRowContext(ctx,
		`SELECT prompt FROM personas WHERE name = $1`, name).Scan(&prompt)
	if err == sql.ErrNoRows {
		return nil, core.ErrPersonaNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query persona: %w", err)
	}
	return &core.Persona{Name: name, Prompt: prompt}, nil
}

// SeedPersona upserts a persona row.
func (s *Store) SeedPersona(ctx context.Context, p core.Persona) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO personas (name, prompt) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET prompt = EXCLUDED.prompt`,
		p.Name, p.Prompt)
	if err != nil {
		return fmt.Errorf("seed persona: %w", err)
	}
	return nil
}

// InsertMemory persists a spine item and returns its id.
func (s *Store) InsertMemory(ctx context.Context, item *core.SpineItem) (string, error) {
	if len(item.Embedding) == 0 {
		return "", fmt.Errorf("spine item has no embedding")
	}

	affect, err := json.Marshal(item.AffectiveContext)
	if err != nil {
		return "", fmt.Errorf("marshal affective context: %w", err)
	}

	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO spine_items
			(workspace_id, title, body, embedding, affective_context, source, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		item.WorkspaceID, item.Title, item.Body,
		pgvector.NewVector(item.Embedding), affect,
		string(item.Source), string(item.Type),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert spine item: %w", err)
	}
	return id, nil
}

// InsertRunLog persists one turn's audit record.
func (s *Store) InsertRunLog(ctx context.Context, run *core.RunLog) error {
	tokens := sql.NullInt64{}
	if run.TokensUsed != nil {
		tokens = sql.NullInt64{Int64: *run.TokensUsed, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agent_runs
			(workspace_id, user_message, agent_response, persona_used, tokens_used)
		VALUES ($1, $2, $3, $4, $5)`,
		run.WorkspaceID, run.UserMessage, run.AgentResponse, run.PersonaUsed, tokens)
	if err != nil {
		return fmt.Errorf("insert run log: %w", err)
	}
	return nil
}

// HybridSearch calls the search_spine function: keyword rank and vector
// similarity combined server-side, rows already ordered by relevance.
func (s *Store) HybridSearch(ctx context.Context, query memory.SearchQuery) ([]core.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, body, similarity
		FROM search_spine($1, $2, $3, $4, $5)`,
		query.Text, pgvector.NewVector(query.Embedding),
		query.Threshold, query.Limit, query.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("search spine: %w", err)
	}
	defer rows.Close()

	var out []core.SearchResult
	for rows.Next() {
		var r core.SearchResult
		var title sql.NullString
		if err := rows.Scan(&title, &r.Body, &r.Similarity); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		r.Title = title.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search rows: %w", err)
	}
	return out, nil
}
