package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/doqa-labs/docq-cli/internal/adapters/driven/ai"
	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, chunking and retrieval options.

Use subcommands to configure specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure the embedding provider",
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure the LLM provider",
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := ensureSettings(); err != nil {
		return err
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("File: %s\n", settingsStore.Path())
	cmd.Println()

	cmd.Println("[Embedding]")
	printProvider(cmd, settingsSection{
		provider:   appSettings.Embedding.Provider,
		model:      appSettings.Embedding.Model,
		apiKey:     appSettings.Embedding.APIKey,
		configured: appSettings.Embedding.IsConfigured(),
	})

	cmd.Println("[LLM]")
	printProvider(cmd, settingsSection{
		provider:   appSettings.LLM.Provider,
		model:      appSettings.LLM.Model,
		apiKey:     appSettings.LLM.APIKey,
		configured: appSettings.LLM.IsConfigured(),
	})

	cmd.Println("[Chunking]")
	cmd.Printf("  Max chars: %d\n", appSettings.Chunking.MaxChars)
	cmd.Printf("  New after chars: %d\n", appSettings.Chunking.NewAfterChars)
	cmd.Printf("  Combine under chars: %d\n", appSettings.Chunking.CombineUnderChars)
	cmd.Printf("  Overlap chars: %d\n", appSettings.Chunking.OverlapChars)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", appSettings.Retrieval.TopK)
	cmd.Printf("  Fetch K: %d\n", appSettings.Retrieval.FetchK)
	cmd.Printf("  Lambda: %.2f\n", appSettings.Retrieval.Lambda)
	cmd.Printf("  MMR by default: %t\n", appSettings.Retrieval.MMR)

	return nil
}

type settingsSection struct {
	provider   domain.AIProvider
	model      string
	apiKey     string
	configured bool
}

func printProvider(cmd *cobra.Command, s settingsSection) {
	cmd.Printf("  Provider: %s\n", s.provider.Description())
	cmd.Printf("  Model: %s\n", s.model)
	if s.apiKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(s.apiKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	status := "configured"
	if !s.configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if err := ensureSettings(); err != nil {
		return err
	}
	reader := bufio.NewReader(os.Stdin)

	provider, model, apiKey, err := promptProvider(cmd, reader, domain.DefaultEmbeddingModels())
	if err != nil {
		return err
	}

	settings := appSettings
	settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}

	cmd.Print("Validating configuration... ")
	svc, err := ai.CreateAndValidateEmbeddingService(cmd.Context(), settings.Embedding)
	if err != nil {
		cmd.Println("FAILED")
		return err
	}
	svc.Close() //nolint:errcheck
	cmd.Println("OK")

	if err := settingsStore.Save(settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	appSettings = settings
	cmd.Printf("Embedding provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if err := ensureSettings(); err != nil {
		return err
	}
	reader := bufio.NewReader(os.Stdin)

	provider, model, apiKey, err := promptProvider(cmd, reader, domain.DefaultLLMModels())
	if err != nil {
		return err
	}

	settings := appSettings
	settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}

	cmd.Print("Validating configuration... ")
	svc, err := ai.CreateAndValidateLLMService(cmd.Context(), settings.LLM)
	if err != nil {
		cmd.Println("FAILED")
		return err
	}
	svc.Close() //nolint:errcheck
	cmd.Println("OK")

	if err := settingsStore.Save(settings); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	appSettings = settings
	cmd.Printf("LLM provider configured: %s (%s)\n", provider.Description(), model)
	return nil
}

// promptProvider interactively selects a provider, model and API key.
func promptProvider(cmd *cobra.Command, reader *bufio.Reader, defaults map[domain.AIProvider]string) (domain.AIProvider, string, string, error) {
	cmd.Println("Select Provider")
	providers := domain.AllProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	provider := providers[idx-1]

	defaultModel := defaults[provider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	cmd.Print("Enter API key: ")
	apiKey := readPassword()
	cmd.Println()
	if apiKey == "" {
		return "", "", "", errors.New("API key is required")
	}

	return provider, model, apiKey, nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Read without echo when attached to a terminal.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// maskAPIKey shows only the first and last few characters of a key.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
