// Package cli implements the docq command tree and wires the service
// layer to its adapters.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doqa-labs/docq-cli/internal/adapters/driven/ai"
	configfile "github.com/doqa-labs/docq-cli/internal/adapters/driven/config/file"
	"github.com/doqa-labs/docq-cli/internal/adapters/driven/storage/sqlite"
	"github.com/doqa-labs/docq-cli/internal/cache"
	"github.com/doqa-labs/docq-cli/internal/chunker"
	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driving"
	"github.com/doqa-labs/docq-cli/internal/core/services"
	"github.com/doqa-labs/docq-cli/internal/logger"
	"github.com/doqa-labs/docq-cli/internal/parsers"
)

// version is set from main at startup.
var version = "dev"

// Persistent flag values.
var (
	flagVerbose    bool
	flagDataDir    string
	flagCollection string
)

// Wired services, populated by ensureServices.
var (
	settingsStore    driven.SettingsStore
	vectorStore      driven.VectorStore
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	ingestService    driving.IngestService
	retrievalService driving.RetrievalService
	answerService    driving.AnswerService
	workspace        domain.Workspace
	appSettings      domain.AppSettings
	wired            bool
)

var rootCmd = &cobra.Command{
	Use:   "docq",
	Short: "Ask questions about your documents",
	Long: `docq ingests PDF, Word, PowerPoint, Excel, text, Markdown and HTML
files into a local vector index and answers questions about them using
a configured AI provider.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "workspace data directory (default ~/.docq/data)")
	rootCmd.PersistentFlags().StringVar(&flagCollection, "collection", "", "index collection name (default documents)")
}

// Execute runs the command tree.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	defer closeServices()
	return rootCmd.Execute()
}

// ensureServices wires the workspace, settings, storage and AI
// services once per invocation. The embedding provider is mandatory
// here; commands that need no AI (settings, version) never call this.
func ensureServices(ctx context.Context) error {
	if wired {
		return nil
	}

	if err := ensureSettings(); err != nil {
		return err
	}

	var err error
	workspace, err = domain.NewWorkspace(flagDataDir, flagCollection)
	if err != nil {
		return fmt.Errorf("resolving workspace: %w", err)
	}

	sqlStore, err := sqlite.NewStore(workspace.DataDir, workspace.Collection)
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}
	vectorStore = sqlStore

	embeddingService, err = ai.CreateAndValidateEmbeddingService(ctx, appSettings.Embedding)
	if err != nil {
		return err
	}
	if embeddingService == nil {
		return fmt.Errorf("%w: no embedding provider configured. Run 'docq settings embedding'",
			domain.ErrEmbeddingUnavailable)
	}

	// The LLM is optional; ask/chat check for it themselves.
	llmService, err = ai.CreateAndValidateLLMService(ctx, appSettings.LLM)
	if err != nil {
		logger.Warn("%v", err)
		llmService = nil
	}

	builder := chunker.New(
		chunker.WithMaxChars(appSettings.Chunking.MaxChars),
		chunker.WithNewAfterChars(appSettings.Chunking.NewAfterChars),
		chunker.WithCombineUnderChars(appSettings.Chunking.CombineUnderChars),
		chunker.WithOverlapChars(appSettings.Chunking.OverlapChars),
	)
	indexer := services.NewIndexer(embeddingService, vectorStore, workspace.Collection)
	ingestService = services.NewIngestService(parsers.Default(), cache.New(), builder, indexer, vectorStore)
	retrievalService = services.NewRetrievalService(embeddingService, vectorStore, appSettings.Retrieval)
	answerService = services.NewAnswerService(retrievalService, llmService)

	wired = true
	return nil
}

// ensureSettings loads the settings store and settings, applying
// environment variable API keys as fallback.
func ensureSettings() error {
	if settingsStore != nil {
		return nil
	}

	store, err := configfile.NewSettingsStore("")
	if err != nil {
		return fmt.Errorf("opening settings: %w", err)
	}

	settings, err := store.Load()
	if err != nil {
		return err
	}
	applyEnvKeys(&settings)

	settingsStore = store
	appSettings = settings
	return nil
}

// applyEnvKeys fills missing API keys from the environment so keys can
// stay out of the config file.
func applyEnvKeys(settings *domain.AppSettings) {
	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = envKeyFor(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = envKeyFor(settings.LLM.Provider)
	}
}

func envKeyFor(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case domain.AIProviderGemini:
		return os.Getenv("GEMINI_API_KEY")
	default:
		return ""
	}
}

// closeServices releases wired resources.
func closeServices() {
	if embeddingService != nil {
		embeddingService.Close() //nolint:errcheck
	}
	if llmService != nil {
		llmService.Close() //nolint:errcheck
	}
	if vectorStore != nil {
		vectorStore.Close() //nolint:errcheck
	}
}

// requireLLM returns the LLM-dependent answer service or a guidance
// error.
func requireLLM() (driving.AnswerService, error) {
	if llmService == nil {
		return nil, errors.New("no LLM provider configured. Run 'docq settings llm'")
	}
	return answerService, nil
}
