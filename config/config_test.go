package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielos/arthur/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SUPABASE_URL", "SUPABASE_KEY", "OPENAI_API_KEY",
		"ANTHROPIC_API_KEY", "ARTHUR_WORKSPACE", "PORT", "DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_AllCredentialsPresent(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_KEY", "service-key")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://abc.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "service-key", cfg.SupabaseKey)
	assert.Equal(t, "sk-test", cfg.OpenAIKey)
	assert.Equal(t, "8080", cfg.Port)
}

func TestLoad_AllMissingReportedTogether(t *testing.T) {
	clearEnv(t)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SUPABASE_URL")
	assert.Contains(t, err.Error(), "SUPABASE_KEY")
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestLoad_DatabaseURLReplacesSupabaseCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/arthur?sslmode=disable")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/arthur?sslmode=disable", cfg.DatabaseDSN)
}

func TestLoad_OpenAIKeyAlwaysRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/arthur")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	assert.NotContains(t, err.Error(), "SUPABASE_URL")
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("SUPABASE_KEY", "service-key")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("ARTHUR_WORKSPACE", "Lab")
	t.Setenv("PORT", "9000")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-test", cfg.AnthropicKey)
	assert.Equal(t, "Lab", cfg.Workspace)
	assert.Equal(t, "9000", cfg.Port)
}
