// Package gemini provides an LLM service adapter using the Google
// Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultModel is the generation model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the generation model to use (default: gemini-1.5-flash).
	Model string
}

// LLMService provides text generation using the Gemini API.
type LLMService struct {
	client    *genai.Client
	modelName string
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	return &LLMService{client: client, modelName: cfg.Model}, nil
}

// model builds a configured generative model for one call.
func (s *LLMService) model(opts driven.GenerateOptions) *genai.GenerativeModel {
	model := s.client.GenerativeModel(s.modelName)
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		model.SetTemperature(float32(opts.Temperature))
	}
	return model
}

// Generate produces a complete text response for the prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	resp, err := s.model(opts).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: generating content: %w", err)
	}
	return responseText(resp)
}

// GenerateStream produces a response incrementally, invoking onToken
// for each fragment, and returns the full text.
func (s *LLMService) GenerateStream(ctx context.Context, prompt string, opts driven.GenerateOptions, onToken func(string)) (string, error) {
	iter := s.model(opts).GenerateContentStream(ctx, genai.Text(prompt))

	var full strings.Builder
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return full.String(), fmt.Errorf("gemini: streaming content: %w", err)
		}

		text, err := responseText(resp)
		if err != nil {
			continue // empty candidate frames are expected mid-stream
		}
		if text != "" {
			full.WriteString(text)
			if onToken != nil {
				onToken(text)
			}
		}
	}

	return full.String(), nil
}

// responseText extracts the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: no response candidates returned")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	return out.String(), nil
}

// ModelName returns the name of the model being used.
func (s *LLMService) ModelName() string {
	return s.modelName
}

// Ping validates the service is reachable with a minimal generation
// request.
func (s *LLMService) Ping(ctx context.Context) error {
	model := s.client.GenerativeModel(s.modelName)
	model.SetMaxOutputTokens(1)
	if _, err := model.GenerateContent(ctx, genai.Text("ping")); err != nil {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *LLMService) Close() error {
	return s.client.Close()
}
