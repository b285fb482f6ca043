package cli

import (
	"fmt"

	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create or reset the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the database already ran the migrations.
			if reset {
				if err := db.Reset(app.Database); err != nil {
					return fmt.Errorf("resetting database: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Database reset at %s\n", app.Config.DBPath)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database ready at %s\n", app.Config.DBPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "drop all data and recreate the schema")
	return cmd
}
