// Package ai provides factory functions for creating AI service
// adapters from settings.
package ai

import (
	"context"
	"fmt"
	"time"

	geminiembed "github.com/doqa-labs/docq-cli/internal/adapters/driven/embedding/gemini"
	openaiembed "github.com/doqa-labs/docq-cli/internal/adapters/driven/embedding/openai"
	geminillm "github.com/doqa-labs/docq-cli/internal/adapters/driven/llm/gemini"
	openaillm "github.com/doqa-labs/docq-cli/internal/adapters/driven/llm/openai"
	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateEmbeddingService creates an embedding service and
// validates connectivity. Returns nil without error when the provider
// is not configured.
func CreateAndValidateEmbeddingService(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'docq settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'docq settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates
// connectivity. Returns nil without error when the provider is not
// configured.
func CreateAndValidateLLMService(ctx context.Context, settings domain.LLMSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'docq settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'docq settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the embedding service for the
// configured provider.
func CreateEmbeddingService(ctx context.Context, settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGemini:
		return geminiembed.NewEmbeddingService(ctx, geminiembed.Config{
			APIKey:     settings.APIKey,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the LLM service for the configured
// provider.
func CreateLLMService(ctx context.Context, settings domain.LLMSettings) (driven.LLMService, error) {
	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderGemini:
		return geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
