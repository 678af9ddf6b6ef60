package main

import (
	"context"
	"fmt"

	"github.com/danielos/arthur/agent"
	"github.com/danielos/arthur/config"
	"github.com/danielos/arthur/llm"
	anthropicllm "github.com/danielos/arthur/llm/anthropic"
	openaillm "github.com/danielos/arthur/llm/openai"
	"github.com/danielos/arthur/memory/store/postgres"
)

// newStore opens the production store from configuration.
func newStore(cfg *config.Config) (*postgres.Store, error) {
	store, err := postgres.New(postgres.Config{
		DSN:        cfg.DatabaseDSN,
		ProjectURL: cfg.SupabaseURL,
		ServiceKey: cfg.SupabaseKey,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to store: %w", err)
	}
	return store, nil
}

// newAgent assembles the full pipeline: store, cached OpenAI embedder,
// and the generator (Claude when an Anthropic key is present, OpenAI
// otherwise; routing always uses OpenAI's JSON mode).
func newAgent(ctx context.Context, cfg *config.Config, store *postgres.Store) (*agent.Agent, func(), error) {
	oai := openaillm.New(openaillm.Config{APIKey: cfg.OpenAIKey})

	embedder, err := llm.NewCachedEmbedder(oai, 0)
	if err != nil {
		return nil, nil, err
	}

	var generator llm.Generator = oai
	if cfg.AnthropicKey != "" {
		generator = anthropicllm.New(anthropicllm.Config{APIKey: cfg.AnthropicKey})
	}

	opts := []agent.Option{agent.WithRouter(oai)}
	if cfg.Workspace != "" {
		opts = append(opts, agent.WithWorkspace(cfg.Workspace))
	}

	a, err := agent.New(ctx, store, embedder, generator, opts...)
	if err != nil {
		embedder.Close()
		return nil, nil, err
	}

	return a, embedder.Close, nil
}
