package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/machinetrack/shopfloor/internal/cli/formatter"
	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show project progress, workload and what needs attention",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			progress, err := app.Dashboard.Progress(ctx)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(progress))
			for _, p := range progress {
				rows = append(rows, []string{
					p.Code, p.Title,
					fmt.Sprintf("%d/%d", p.Done, p.Total),
					strconv.Itoa(p.Pct) + "%",
				})
			}
			fmt.Fprintln(out, formatter.StyleBold.Render("Projects"))
			fmt.Fprint(out, formatter.RenderTable([]string{"Code", "Title", "Done", "Progress"}, rows))
			fmt.Fprintln(out)

			filter, err := resolveUserFilter(ctx, app, user)
			if err != nil {
				return err
			}
			workload, err := app.Dashboard.Workload(ctx, filter)
			if err != nil {
				return err
			}
			rows = rows[:0]
			for _, w := range workload {
				rows = append(rows, []string{
					w.UserName,
					strconv.Itoa(w.TaskCount),
					strconv.FormatFloat(w.EstHours, 'f', -1, 64) + "h",
				})
			}
			fmt.Fprintln(out, formatter.StyleBold.Render("Workload"))
			fmt.Fprint(out, formatter.RenderTable([]string{"User", "Open Tasks", "Booked"}, rows))
			fmt.Fprintln(out)

			dueSoon, err := app.Dashboard.DueSoon(ctx)
			if err != nil {
				return err
			}
			if len(dueSoon) > 0 {
				fmt.Fprintln(out, formatter.StyleYellow.Bold(true).Render("Due soon"))
				for _, t := range dueSoon {
					fmt.Fprintf(out, "  %s %s %s\n",
						formatter.PriorityLabel(t.Priority),
						t.Title,
						formatter.StyleDim.Render("due "+domain.FormatDate(t.DueDate)))
				}
				fmt.Fprintln(out)
			}

			blocked, err := app.Dashboard.Blocked(ctx)
			if err != nil {
				return err
			}
			if len(blocked) > 0 {
				fmt.Fprintln(out, formatter.StyleRed.Bold(true).Render("Blocked"))
				for _, t := range blocked {
					line := fmt.Sprintf("  %s %s", formatter.PriorityLabel(t.Priority), t.Title)
					if t.Description != "" {
						line += formatter.StyleDim.Render(" · " + firstLine(t.Description))
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "restrict workload to this user (id or email)")
	return cmd
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
