package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/doqa-labs/docq-cli/internal/cache"
	"github.com/doqa-labs/docq-cli/internal/logger"
)

var deletePurge bool

var deleteCmd = &cobra.Command{
	Use:   "delete [filename]",
	Short: "Remove a document's chunks from the index",
	Long: `Deletes every indexed chunk originating from the named file. The
index stays consistent: a deleted document can no longer appear in
retrieval results. Deleting a file that was never indexed is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVar(&deletePurge, "purge", false, "also remove the uploaded file and its element cache")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := ensureServices(cmd.Context()); err != nil {
		return err
	}

	filename := args[0]
	deleted, err := ingestService.DeleteDocument(cmd.Context(), filename)
	if err != nil {
		return err
	}

	if deleted == 0 {
		cmd.Printf("No indexed chunks found for %s\n", filename)
	} else {
		cmd.Printf("Deleted %d chunk(s) for %s\n", deleted, filename)
	}

	if deletePurge {
		purgeUpload(filename)
	}
	return nil
}

// purgeUpload removes the uploaded copy and its element cache, if
// present.
func purgeUpload(filename string) {
	path := filepath.Join(workspace.UploadDir(), filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("Removing %s failed: %v", path, err)
	}
	if err := cache.New().Invalidate(path); err != nil {
		logger.Warn("Invalidating element cache for %s failed: %v", filename, err)
	}
}
