// Package anthropic implements llm.Generator with the Anthropic Messages
// API. Anthropic exposes no embeddings endpoint, so this provider covers
// generation only; pair it with an Embedder from another package.
package anthropic

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/danielos/arthur/llm"
)

// Config configures the Anthropic generator.
type Config struct {
	APIKey string

	// Model is the Claude model to use (default: claude-sonnet-4-20250514).
	Model string

	// MaxTokens is the response cap when the request leaves it unset.
	// The Messages API requires a positive value (default: 1024).
	MaxTokens int64

	// Timeout bounds each API call (default: 60s).
	Timeout time.Duration
}

// Generator implements llm.Generator against Claude.
type Generator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// New creates an Anthropic-backed generator.
func New(cfg Config) *Generator {
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-20250514"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	)

	return &Generator{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// Generate issues a Messages API call. There is no structured-output
// mode; JSONObject requests rely on the prompt instructing Claude to
// emit bare JSON, and the caller's parse-or-default contract absorbs
// any drift.
func (g *Generator) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.Completion, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.maxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	tokens := resp.Usage.InputTokens + resp.Usage.OutputTokens
	out := &llm.Completion{Text: text}
	if tokens > 0 {
		out.Tokens = &tokens
	}
	return out, nil
}
