// Package config resolves process configuration from the environment.
// A .env file in the working directory is honored when present.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the process configuration. The three credential fields are
// required; their absence is a fatal startup error, never a runtime one.
type Config struct {
	// SupabaseURL is the hosted store's project URL.
	SupabaseURL string

	// SupabaseKey is the store's service key.
	SupabaseKey string

	// OpenAIKey authenticates the embedding/generation provider.
	OpenAIKey string

	// AnthropicKey, when set, switches the main generator to Claude.
	// Embeddings stay on OpenAI.
	AnthropicKey string

	// Workspace overrides the default workspace name.
	Workspace string

	// Port is the HTTP server listen port (serve command only).
	Port string

	// DatabaseDSN overrides the connection string derived from
	// SupabaseURL/SupabaseKey, for plain PostgreSQL deployments.
	DatabaseDSN string
}

// Load reads the environment (and .env, when present) and validates the
// required credentials. All missing variables are reported together.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		SupabaseURL:  os.Getenv("SUPABASE_URL"),
		SupabaseKey:  os.Getenv("SUPABASE_KEY"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		Workspace:    os.Getenv("ARTHUR_WORKSPACE"),
		Port:         os.Getenv("PORT"),
		DatabaseDSN:  os.Getenv("DATABASE_URL"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	var missing []string
	if cfg.SupabaseURL == "" && cfg.DatabaseDSN == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if cfg.SupabaseKey == "" && cfg.DatabaseDSN == "" {
		missing = append(missing, "SUPABASE_KEY")
	}
	if cfg.OpenAIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}
