package cli

import (
	"github.com/spf13/cobra"

	"github.com/doqa-labs/docq-cli/internal/cache"
	"github.com/doqa-labs/docq-cli/internal/parsers"
	"github.com/doqa-labs/docq-cli/internal/watcher"
)

var flagWatchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a directory and keep the index in sync",
	Long: `Watches a directory for changes. New and modified supported files are
ingested; removed files are deleted from the index. Runs until
interrupted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureServices(cmd.Context()); err != nil {
			return err
		}

		dir := flagWatchDir
		if dir == "" {
			dir = workspace.UploadDir()
		}

		w, err := watcher.New(dir, ingestService, cache.New(), parsers.Default().Supported)
		if err != nil {
			return err
		}
		defer w.Close() //nolint:errcheck

		cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)
		return w.Run(cmd.Context())
	},
}

func init() {
	watchCmd.Flags().StringVarP(&flagWatchDir, "dir", "d", "", "directory to watch (default: workspace upload dir)")
	rootCmd.AddCommand(watchCmd)
}
