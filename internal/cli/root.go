package cli

import (
	"github.com/spf13/cobra"
	"github.com/timebuddy-app/timebuddy/internal/conversation"
)

// App holds the wired session and environment checks used by CLI
// commands.
type App struct {
	Session *conversation.Session

	// IsInteractive reports whether stdin is a terminal; the bare
	// "timebuddy" invocation starts the chat only when it is.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "timebuddy" command and registers
// all subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "timebuddy",
		Short: "Conversational scheduling assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runChat(app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newChatCmd(app),
		newSendCmd(app),
		newAgendaCmd(app),
	)

	return root
}
