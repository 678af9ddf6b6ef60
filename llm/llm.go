package llm

import "context"

// Embedder converts text to a fixed-dimension vector.
// Implementations: openai.Client (production), the onnx embedder
// (offline, build tag "onnx"), and mock.Embedder (testing).
//
// The pipeline does not retry: a failed Embed call is fatal to the turn
// that issued it.
type Embedder interface {
	// Embed converts a single text to its embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the fixed embedding vector size.
	Dimensions() int
}

// Generator produces free-text completions from a system/user prompt pair.
// Implementations: openai.Client, anthropic.Generator, mock.Generator.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Completion, error)
}

// GenerateRequest is a single generation call.
type GenerateRequest struct {
	// System is the system prompt. May be empty.
	System string

	// User is the user-turn prompt.
	User string

	// Temperature biases sampling: low for classification, high for
	// conversation. Zero means provider default.
	Temperature float64

	// JSONObject requests strictly-parseable structured output from
	// providers that support a JSON response mode. Providers without
	// one treat it as an instruction to emit bare JSON.
	JSONObject bool

	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int64
}

// Completion is a generation result. Tokens is nil when the provider
// reported no usage; absence is tolerated, not an error.
type Completion struct {
	Text   string
	Tokens *int64
}
