package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielos/arthur/agent"
	"github.com/danielos/arthur/config"
	"github.com/danielos/arthur/core"
	"github.com/danielos/arthur/llm"
	openaillm "github.com/danielos/arthur/llm/openai"
	"github.com/danielos/arthur/memory"
	"github.com/danielos/arthur/persona"
)

// seedPersonas are the rows ignite installs. The pipeline only ever
// reads these; re-running ignite refreshes them.
var seedPersonas = []core.Persona{
	{
		Name:   persona.DefaultName,
		Prompt: persona.FallbackPrompt,
	},
	{
		Name: persona.ManagerName,
		Prompt: "You are Arthur in Manager mode. Be direct, structured, and efficient. " +
			"Prioritize deadlines, action items, and clear next steps. Keep small talk to a minimum.",
	},
	{
		Name: persona.FriendName,
		Prompt: "You are Arthur in Friend mode. Be warm, empathetic, and encouraging. " +
			"Listen first, acknowledge feelings, and offer gentle, practical support.",
	},
}

func newIgniteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ignite",
		Short: "Bootstrap the store and prove the brain works end to end",
		Long: `Ignite prepares a fresh deployment: it creates the schema, seeds the
persona table, resolves the workspace, writes two test memories, and
runs a search to prove retrieval works.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Minute)
			defer cancel()

			fmt.Println("IGNITION SEQUENCE STARTED")

			store, err := newStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}
			fmt.Println("Schema ready")

			for _, p := range seedPersonas {
				if err := store.SeedPersona(ctx, p); err != nil {
					return fmt.Errorf("seed persona %q: %w", p.Name, err)
				}
			}
			fmt.Printf("Seeded %d personas\n", len(seedPersonas))

			workspace := cfg.Workspace
			if workspace == "" {
				workspace = agent.DefaultWorkspace
			}
			wsID, err := store.GetOrCreateWorkspace(ctx, workspace)
			if err != nil {
				return err
			}
			fmt.Printf("Operating in workspace %q (%s)\n", workspace, wsID)

			embedder := openaillm.New(openaillm.Config{APIKey: cfg.OpenAIKey})

			// One work-mode and one personal-mode memory, so the first
			// real conversation has something to retrieve.
			seeds := []struct {
				body   string
				affect core.AffectiveContext
			}{
				{
					body:   "Complete the Q3 financial audit by Friday. Priority P1.",
					affect: core.AffectiveContext{Valence: 0.1, Arousal: 0.8, Mode: core.ModeWork},
				},
				{
					body:   "I'm feeling really overwhelmed by the amount of coding I have to learn.",
					affect: core.AffectiveContext{Valence: -0.8, Arousal: 0.6, Mode: core.ModePersonal, Label: "anxiety"},
				},
			}

			for _, seed := range seeds {
				if err := igniteMemory(ctx, store, embedder, wsID, seed.body, seed.affect); err != nil {
					return err
				}
			}

			if err := igniteRecall(ctx, store, embedder, wsID, "audit"); err != nil {
				return err
			}

			fmt.Println("System is ONLINE. The brain is accepting data.")
			return nil
		},
	}
}

// igniteMemory stores one manual test memory.
func igniteMemory(ctx context.Context, store memory.Store, embedder llm.Embedder, wsID, body string, affect core.AffectiveContext) error {
	vector, err := embedder.Embed(ctx, body)
	if err != nil {
		return fmt.Errorf("embed test memory: %w", err)
	}

	id, err := store.InsertMemory(ctx, &core.SpineItem{
		WorkspaceID:      wsID,
		Title:            "Ignition Test Memory",
		Body:             body,
		Embedding:        vector,
		AffectiveContext: affect,
		Source:           core.SourceManual,
		Type:             core.TypeNote,
	})
	if err != nil {
		return fmt.Errorf("store test memory: %w", err)
	}

	fmt.Printf("Memory stored (ID: %s)\n", id)
	return nil
}

// igniteRecall proves hybrid search returns the seeded data.
func igniteRecall(ctx context.Context, store memory.Store, embedder llm.Embedder, wsID, query string) error {
	fmt.Printf("Searching for %q...\n", query)

	vector, err := embedder.Embed(ctx, query)
	if err != nil {
		return fmt.Errorf("embed query: %w", err)
	}

	results, err := store.HybridSearch(ctx, memory.SearchQuery{
		Text:        query,
		Embedding:   vector,
		Threshold:   0.5,
		Limit:       5,
		WorkspaceID: wsID,
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	for _, r := range results {
		fmt.Printf("Found: %s (similarity: %.2f)\n", r.Title, r.Similarity)
	}
	return nil
}
