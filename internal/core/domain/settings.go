package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is the OpenAI cloud API, or any compatible
	// endpoint reached through a custom base URL.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGemini is the Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderGemini:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI (or compatible endpoint)"
	case AIProviderGemini:
		return "Google Gemini"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL is a custom API endpoint (OpenAI-compatible servers).
	BaseURL string `toml:"base_url,omitempty"`

	// APIKey is the provider API key.
	APIKey string `toml:"api_key,omitempty"`
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider.IsValid() && e.APIKey != ""
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider `toml:"provider"`

	// Model is the LLM model name.
	Model string `toml:"model"`

	// BaseURL is a custom API endpoint (OpenAI-compatible servers).
	BaseURL string `toml:"base_url,omitempty"`

	// APIKey is the provider API key.
	APIKey string `toml:"api_key,omitempty"`
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && l.APIKey != ""
}

// ChunkingSettings holds the text chunking thresholds.
type ChunkingSettings struct {
	// MaxChars is the hard upper bound on chunk size.
	MaxChars int `toml:"max_chars"`

	// NewAfterChars is the soft boundary that starts a new chunk.
	NewAfterChars int `toml:"new_after_chars"`

	// CombineUnderChars merges sections shorter than this forward.
	CombineUnderChars int `toml:"combine_under_chars"`

	// OverlapChars is the tail carried into the next chunk.
	OverlapChars int `toml:"overlap_chars"`
}

// RetrievalSettings holds the retrieval defaults.
type RetrievalSettings struct {
	// TopK is the default number of chunks to return.
	TopK int `toml:"top_k"`

	// FetchK is the default candidate pool size for MMR.
	FetchK int `toml:"fetch_k"`

	// Lambda balances relevance against diversity in MMR (0..1).
	Lambda float64 `toml:"lambda"`

	// MMR enables maximal marginal relevance re-ranking by default.
	MMR bool `toml:"mmr"`

	// ScoreThreshold drops hits whose similarity falls below it.
	// Zero disables the cut-off.
	ScoreThreshold float64 `toml:"score_threshold"`
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Chunking holds the chunking thresholds.
	Chunking ChunkingSettings `toml:"chunking"`

	// Retrieval holds the retrieval defaults.
	Retrieval RetrievalSettings `toml:"retrieval"`

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings `toml:"embedding"`

	// LLM holds LLM provider settings.
	LLM LLMSettings `toml:"llm"`
}

// DefaultAppSettings returns settings with sensible defaults. AI
// providers are left unconfigured; users set them up via
// 'docq settings'.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: ChunkingSettings{
			MaxChars:          2000,
			NewAfterChars:     1500,
			CombineUnderChars: 200,
			OverlapChars:      100,
		},
		Retrieval: RetrievalSettings{
			TopK:   4,
			FetchK: 20,
			Lambda: 0.5,
			MMR:    false,
		},
	}
}

// AllProviders returns all available AI providers.
func AllProviders() []AIProvider {
	return []AIProvider{AIProviderOpenAI, AIProviderGemini}
}

// DefaultEmbeddingModels returns default models for each provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI: "gpt-4o-mini",
		AIProviderGemini: "gemini-1.5-flash",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		"text-embedding-004":     768,
	}
}
