// Package openai implements the llm boundary with the OpenAI API:
// chat completions (with JSON response mode) for generation and
// text-embedding-3-small for 1536-dim embeddings.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/danielos/arthur/llm"
)

// Config configures the OpenAI client.
type Config struct {
	APIKey string

	// ChatModel is the generation model (default: gpt-4o).
	ChatModel string

	// RouterModel is the model for small structured calls
	// (default: gpt-4o-mini).
	RouterModel string

	// EmbedModel is the embedding model (default: text-embedding-3-small).
	EmbedModel string

	// Dimensions is the embedding vector size (default: 1536).
	Dimensions int

	// Timeout bounds each API call (default: 60s). The pipeline has no
	// retry logic, so calls must fail in bounded time.
	Timeout time.Duration
}

// Client implements llm.Embedder and llm.Generator against OpenAI.
type Client struct {
	api         openai.Client
	chatModel   string
	routerModel string
	embedModel  string
	dimensions  int
}

// New creates an OpenAI-backed provider client.
func New(cfg Config) *Client {
	if cfg.ChatModel == "" {
		cfg.ChatModel = openai.ChatModelGPT4o
	}
	if cfg.RouterModel == "" {
		cfg.RouterModel = openai.ChatModelGPT4oMini
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = string(openai.EmbeddingModelTextEmbedding3Small)
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 1536
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	api := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	)

	return &Client{
		api:         api,
		chatModel:   cfg.ChatModel,
		routerModel: cfg.RouterModel,
		embedModel:  cfg.EmbedModel,
		dimensions:  cfg.Dimensions,
	}
}

// Embed converts text to a fixed-dimension vector.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.api.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:      openai.EmbeddingModel(c.embedModel),
		Input:      openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Dimensions: openai.Int(int64(c.dimensions)),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embeddings: empty response")
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}

// Dimensions returns the embedding vector size.
func (c *Client) Dimensions() int {
	return c.dimensions
}

// Generate issues a chat completion. JSON-mode requests go to the smaller
// router model; free-text requests go to the chat model.
func (c *Client) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.Completion, error) {
	model := c.chatModel
	if req.JSONObject {
		model = c.routerModel
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: messages,
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(req.MaxTokens)
	}
	if req.JSONObject {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai chat completion: no choices returned")
	}

	out := &llm.Completion{Text: resp.Choices[0].Message.Content}
	if resp.Usage.TotalTokens > 0 {
		tokens := resp.Usage.TotalTokens
		out.Tokens = &tokens
	}
	return out, nil
}
