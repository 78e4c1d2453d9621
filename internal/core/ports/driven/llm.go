package driven

import "context"

// LLMService provides the text-generation step that turns retrieved
// context into a final answer.
//
// Implementations may include:
//   - OpenAI-compatible chat completion APIs
//   - Google Gemini
type LLMService interface {
	// Generate produces a complete text response for the prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// GenerateStream produces a response incrementally, invoking onToken
	// for each token/fragment as it arrives, and returns the full text.
	GenerateStream(ctx context.Context, prompt string, opts GenerateOptions, onToken func(string)) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
