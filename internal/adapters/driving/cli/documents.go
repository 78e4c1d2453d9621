package cli

import (
	"sort"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List indexed documents",
	RunE:  runDocuments,
}

func init() {
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	counts, err := ingestService.Documents(cmd.Context())
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		cmd.Println("No documents indexed. Run 'docq ingest <path>' first.")
		return nil
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd.Printf("  %s (%d chunks)\n", name, counts[name])
	}
	return nil
}
