package main

import (
	"fmt"
	"os"

	"github.com/machinetrack/shopfloor/internal/auth"
	"github.com/machinetrack/shopfloor/internal/cli"
	"github.com/machinetrack/shopfloor/internal/config"
	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/machinetrack/shopfloor/internal/event"
	"github.com/machinetrack/shopfloor/internal/export"
	"github.com/machinetrack/shopfloor/internal/repository"
	"github.com/machinetrack/shopfloor/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	userRepo := repository.NewSQLiteUserRepo(database)
	machineRepo := repository.NewSQLiteMachineRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(database)
	commentRepo := repository.NewSQLiteCommentRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)
	dashRepo := repository.NewSQLiteDashboardRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)
	bus := event.NewBus(cfg.EventBuffer, logger)
	defer bus.Close()

	app := &cli.App{
		Config:   cfg,
		Logger:   logger,
		Database: database,
		Bus:      bus,

		Users:     service.NewUserService(userRepo, uow),
		Machines:  service.NewMachineService(machineRepo),
		Projects:  service.NewProjectService(projectRepo, uow),
		Tasks:     service.NewTaskService(taskRepo, projectRepo, assignmentRepo, commentRepo, uow, bus),
		Dashboard: service.NewDashboardService(dashRepo),
		Audits:    service.NewAuditService(auditRepo),
		Exporter:  export.NewCSVExporter(projectRepo, taskRepo, dashRepo),
		Sessions:  auth.NewSessionStore(cfg.SessionTTLDuration()),

		UserStore:    userRepo,
		MachineStore: machineRepo,
	}

	return cli.NewRootCmd(app).Execute()
}

func newLogger(cfg config.Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var out = os.Stderr
	logger := zerolog.New(out)
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out})
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}
