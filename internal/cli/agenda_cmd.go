package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/timebuddy-app/timebuddy/internal/conversation"
	"github.com/timebuddy-app/timebuddy/internal/domain"
)

type agendaOptions struct {
	date string
	from string
	to   string
	all  bool
}

// bindAgendaFlags registers the agenda window flags on fs.
func bindAgendaFlags(fs *pflag.FlagSet, opts *agendaOptions) {
	fs.StringVar(&opts.date, "date", "", "single day (YYYY-MM-DD), defaults to today")
	fs.StringVar(&opts.from, "from", "", "range start (YYYY-MM-DD)")
	fs.StringVar(&opts.to, "to", "", "range end (YYYY-MM-DD)")
	fs.BoolVar(&opts.all, "all", false, "every stored task")
}

func newAgendaCmd(app *App) *cobra.Command {
	var opts agendaOptions

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "List scheduled tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := conversation.TaskFilter{}
			switch {
			case opts.all:
			case opts.from != "" && opts.to != "":
				filter.From, filter.To = opts.from, opts.to
			case opts.date != "":
				filter.Date = opts.date
			default:
				filter.Date = time.Now().In(app.Session.Timezone()).Format(domain.DateLayout)
			}

			tasks, err := app.Session.GetTasks(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing scheduled.")
				return nil
			}
			lastDate := ""
			for _, t := range tasks {
				if t.Date != lastDate {
					fmt.Fprintln(cmd.OutOrStdout(), styleBold.Render(t.Date))
					lastDate = t.Date
				}
				mark := " "
				if t.Completed {
					mark = "✓"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s-%s  %s %s\n",
					mark, t.StartTime, t.EndTime, t.Title, dim("("+string(t.Type)+")"))
			}
			return nil
		},
	}

	bindAgendaFlags(cmd.Flags(), &opts)
	return cmd
}
