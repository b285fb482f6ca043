// Package cli wires the shopfloor commands.
package cli

import (
	"database/sql"

	"github.com/machinetrack/shopfloor/internal/auth"
	"github.com/machinetrack/shopfloor/internal/config"
	"github.com/machinetrack/shopfloor/internal/event"
	"github.com/machinetrack/shopfloor/internal/export"
	"github.com/machinetrack/shopfloor/internal/repository"
	"github.com/machinetrack/shopfloor/internal/service"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App holds the wired services and stores the CLI commands run against.
type App struct {
	Config   config.Config
	Logger   zerolog.Logger
	Database *sql.DB
	Bus      *event.Bus

	Users     service.UserService
	Machines  service.MachineService
	Projects  service.ProjectService
	Tasks     service.TaskService
	Dashboard service.DashboardService
	Audits    service.AuditService
	Exporter  *export.CSVExporter
	Sessions  *auth.SessionStore

	// Direct store access for bootstrap paths that predate any actor.
	UserStore    repository.UserRepo
	MachineStore repository.MachineRepo
}

// NewRootCmd creates the top-level "shopfloor" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "shopfloor",
		Short:         "Shop floor task tracker for a small machine shop",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(app),
		newInitCmd(app),
		newSeedCmd(app),
		newBoardCmd(app),
		newStatusCmd(app),
		newExportCmd(app),
	)

	return root
}
