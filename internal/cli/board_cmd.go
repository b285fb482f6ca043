package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/machinetrack/shopfloor/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the kanban board",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := resolveUserFilter(cmd.Context(), app, user)
			if err != nil {
				return err
			}
			board, err := app.Dashboard.Board(cmd.Context(), filter)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderBoard(board))
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "only tasks assigned to this user (id or email)")
	return cmd
}

// resolveUserFilter accepts a user id or an email address.
func resolveUserFilter(ctx context.Context, app *App, input string) (*string, error) {
	if input == "" {
		return nil, nil
	}
	if strings.Contains(input, "@") {
		u, err := app.UserStore.GetByEmail(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("resolving user %q: %w", input, err)
		}
		return &u.ID, nil
	}
	return &input, nil
}
