package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest a document or directory into the index",
	Long: `Parses the file (or every supported file under the directory),
splits it into chunks and indexes them. Re-ingesting the same content
is a no-op: chunks are addressed by content, not by run.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}

	if info.IsDir() {
		stats, err := ingestService.IngestDirectory(cmd.Context(), path)
		if err != nil {
			return err
		}
		cmd.Printf("Ingested %d file(s): %d chunk(s) indexed, %d skipped, %d failed\n",
			stats.Processed, stats.Chunks, stats.Skipped, stats.Failed)
		return nil
	}

	count, err := ingestService.IngestFile(cmd.Context(), path)
	if err != nil {
		return err
	}
	cmd.Printf("Indexed %d chunk(s) from %s\n", count, path)
	return nil
}
