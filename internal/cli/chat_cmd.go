package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive scheduling chat",
		Long: `Start the interactive chat. Describe what you want in plain
English; TimeBuddy proposes each change and saves it only after you
confirm.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(app)
		},
	}
}

func runChat(app *App) error {
	p := tea.NewProgram(newChatModel(app))
	_, err := p.Run()
	return err
}
