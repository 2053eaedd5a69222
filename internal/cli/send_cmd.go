package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newSendCmd is the one-shot entrypoint for scripts and non-TTY use:
// each invocation submits one utterance against the persisted agenda.
// Multi-turn flows work across invocations only within one process, so
// pair it with --yes for unattended confirmation.
func newSendCmd(app *App) *cobra.Command {
	var autoConfirm bool

	cmd := &cobra.Command{
		Use:   "send <message...>",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			reply, err := app.Session.Submit(cmd.Context(), text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)

			if autoConfirm && app.Session.AwaitingConfirmation() {
				reply, err = app.Session.Submit(cmd.Context(), "yes")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), reply)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&autoConfirm, "yes", "y", false, "auto-confirm a resulting proposal")
	return cmd
}
