package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doqa-labs/docq-cli/internal/core/domain"
)

var (
	searchTopK   int
	searchFilter string
	searchMMR    bool
	searchFetchK int
	searchLambda float64
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Retrieve the most relevant chunks for a query",
	Long: `Performs similarity search over the indexed chunks and prints the
ranked results without invoking the LLM. Useful for inspecting what
context a question would be answered from.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from settings)")
	searchCmd.Flags().StringVarP(&searchFilter, "filter", "f", "", "restrict results to one filename")
	searchCmd.Flags().BoolVar(&searchMMR, "mmr", false, "re-rank with maximal marginal relevance")
	searchCmd.Flags().IntVar(&searchFetchK, "fetch-k", 0, "MMR candidate pool size")
	searchCmd.Flags().Float64Var(&searchLambda, "lambda", 0, "MMR relevance/diversity trade-off (0-1)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	results := retrievalService.Retrieve(cmd.Context(), args[0], domain.RetrievalOptions{
		TopK:     searchTopK,
		Filename: searchFilter,
		MMR:      searchMMR,
		FetchK:   searchFetchK,
		Lambda:   searchLambda,
	})

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, rc := range results {
		md := rc.Chunk.Metadata
		cmd.Printf("[%d] %s (%s, score %.3f)\n", i+1, md.Filename, rc.Chunk.Type, rc.Score)
		if md.PageNumber != nil {
			cmd.Printf("    Page %d\n", *md.PageNumber)
		}
		cmd.Printf("    %s\n\n", snippet(rc.Chunk.Content, 200))
	}
	return nil
}

// snippet truncates content to n characters on a rune boundary.
func snippet(content string, n int) string {
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n]) + "..."
}
