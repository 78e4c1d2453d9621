package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/doqa-labs/docq-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question session",
	Long: `Opens a terminal chat where each question is answered from the
indexed documents. Press Esc or Ctrl+C to leave.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureServices(cmd.Context()); err != nil {
			return err
		}
		answers, err := requireLLM()
		if err != nil {
			return err
		}

		model := tui.NewChat(answers, workspace.Collection).WithContext(cmd.Context())
		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("running chat: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
