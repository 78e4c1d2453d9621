package cli

import "github.com/spf13/cobra"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the docq version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("docq version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
