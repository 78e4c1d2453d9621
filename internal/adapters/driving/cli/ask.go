package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

var (
	askTopK     int
	askFilter   string
	askMMR      bool
	askFetchK   int
	askLambda   float64
	askJSON     bool
	askNoStream bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed documents",
	Long: `Retrieves the most relevant chunks for the question and generates an
answer with the configured LLM, citing the sources it used.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of context chunks (default from settings)")
	askCmd.Flags().StringVarP(&askFilter, "filter", "f", "", "restrict context to one filename")
	askCmd.Flags().BoolVar(&askMMR, "mmr", false, "diversify context with maximal marginal relevance")
	askCmd.Flags().IntVar(&askFetchK, "fetch-k", 0, "MMR candidate pool size")
	askCmd.Flags().Float64Var(&askLambda, "lambda", 0, "MMR relevance/diversity trade-off (0-1)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().BoolVar(&askNoStream, "no-stream", false, "print the answer all at once")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}
	svc, err := requireLLM()
	if err != nil {
		return err
	}

	opts := domain.RetrievalOptions{
		TopK:     askTopK,
		Filename: askFilter,
		MMR:      askMMR,
		FetchK:   askFetchK,
		Lambda:   askLambda,
	}

	var answer *domain.Answer
	if askJSON || askNoStream {
		answer, err = svc.Ask(cmd.Context(), args[0], opts)
	} else {
		answer, err = svc.AskStream(cmd.Context(), args[0], opts, func(token string) {
			cmd.Print(token)
		})
		cmd.Println()
	}
	if err != nil {
		return err
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if askNoStream {
		cmd.Println(answer.Text)
	}
	printSources(cmd, answer.Sources)
	return nil
}

// printSources lists the cited chunks under the answer.
func printSources(cmd *cobra.Command, sources []domain.SourceRef) {
	if len(sources) == 0 {
		return
	}
	cmd.Println("\nSources:")
	for _, src := range sources {
		line := fmt.Sprintf("  [%d] %s (%s)", src.SourceID, src.Filename, src.ChunkType)
		if src.Page != nil {
			line = fmt.Sprintf("  [%d] %s, page %d (%s)", src.SourceID, src.Filename, *src.Page, src.ChunkType)
		}
		cmd.Println(line)
	}
}
