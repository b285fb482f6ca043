package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/machinetrack/shopfloor/internal/auth"
	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/service"
	"github.com/spf13/cobra"
)

// seedPassword is the shared password for demo accounts.
const seedPassword = "password"

func newSeedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo users, machines and projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			existing, err := app.UserStore.List(ctx)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Database already has users, skipping seed")
				return nil
			}

			manager, err := seedUsers(ctx, app)
			if err != nil {
				return err
			}
			if err := seedMachines(ctx, app); err != nil {
				return err
			}
			actor := service.ActorFor(manager)
			if err := seedProjects(ctx, app, actor); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Seeded demo data (all accounts use password %q)\n", seedPassword)
			return nil
		},
	}
}

// seedUsers writes accounts through the store directly: there is no actor
// yet to authorize a service call. Returns the manager account the rest of
// the seed acts as.
func seedUsers(ctx context.Context, app *App) (*domain.User, error) {
	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		return nil, err
	}

	var manager *domain.User
	accounts := []struct {
		name  string
		email string
		role  domain.Role
	}{
		{"Avery Admin", "admin@shop.local", domain.RoleAdmin},
		{"Dana Manager", "dana@shop.local", domain.RoleManager},
		{"Alex Engineer", "alex@shop.local", domain.RoleEngineer},
		{"Sam Programmer", "sam@shop.local", domain.RoleProgrammer},
		{"Kim Operator", "kim@shop.local", domain.RoleOperator},
	}
	for _, acct := range accounts {
		u := &domain.User{
			ID:           uuid.New().String(),
			Name:         acct.name,
			Email:        acct.email,
			Role:         acct.role,
			PasswordHash: hash,
			IsActive:     true,
			CreatedAt:    time.Now().UTC(),
		}
		if err := app.UserStore.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("seeding user %s: %w", acct.email, err)
		}
		if acct.role == domain.RoleManager {
			manager = u
		}
	}
	return manager, nil
}

func seedMachines(ctx context.Context, app *App) error {
	machines := []struct {
		name, typ string
		status    domain.MachineStatus
	}{
		{"Haas VF-2", "Mill", domain.MachineAvailable},
		{"DMG Mori NLX 2500", "Lathe", domain.MachineAvailable},
		{"Okuma Genos M560", "Mill", domain.MachineSetup},
		{"Zeiss Contura", "CMM", domain.MachineDown},
	}
	for _, m := range machines {
		err := app.MachineStore.Create(ctx, &domain.Machine{
			ID:        uuid.New().String(),
			Name:      m.name,
			Type:      m.typ,
			Status:    m.status,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("seeding machine %s: %w", m.name, err)
		}
	}
	return nil
}

// seedProjects runs through the services so the demo data carries a real
// audit trail.
func seedProjects(ctx context.Context, app *App, actor service.Actor) error {
	today := time.Now().UTC()
	date := func(days int) string {
		return today.AddDate(0, 0, days).Format(domain.DateLayout)
	}

	housing, err := app.Projects.Create(ctx, actor, service.CreateProjectInput{
		Code: "JOB-1001", Title: "Gearbox Housing Rev B",
		Customer: "Apex Drives", Revision: "B",
		DueDate: date(14), Priority: 2,
	})
	if err != nil {
		return err
	}
	impeller, err := app.Projects.Create(ctx, actor, service.CreateProjectInput{
		Code: "JOB-1002", Title: "Impeller 5-Axis",
		Customer: "Nordwind Pumps", Revision: "A",
		DueDate: date(30), Priority: 3,
	})
	if err != nil {
		return err
	}

	users, err := app.UserStore.List(ctx)
	if err != nil {
		return err
	}
	byEmail := make(map[string]string, len(users))
	for _, u := range users {
		byEmail[u.Email] = u.ID
	}

	tasks := []struct {
		project  string
		in       service.CreateTaskInput
		assignee string
	}{
		{housing.ID, service.CreateTaskInput{Title: "CAM program op10", State: domain.TaskInProgress, Priority: 2, EstHours: 6, DueDate: date(2)}, "sam@shop.local"},
		{housing.ID, service.CreateTaskInput{Title: "Fixture design", State: domain.TaskReady, Priority: 2, EstHours: 4, DueDate: date(3)}, "alex@shop.local"},
		{housing.ID, service.CreateTaskInput{Title: "First article inspection", State: domain.TaskBacklog, Priority: 3, EstHours: 2, DueDate: date(10)}, ""},
		{housing.ID, service.CreateTaskInput{Title: "Order tooling", State: domain.TaskBlocked, Priority: 1, EstHours: 1, DueDate: date(1)}, "dana@shop.local"},
		{impeller.ID, service.CreateTaskInput{Title: "Stock prep", State: domain.TaskDone, Priority: 3, EstHours: 3}, "kim@shop.local"},
		{impeller.ID, service.CreateTaskInput{Title: "5-axis roughing program", State: domain.TaskReady, Priority: 2, EstHours: 10, DueDate: date(7)}, "sam@shop.local"},
	}
	for _, seed := range tasks {
		task, err := app.Tasks.Create(ctx, actor, seed.project, seed.in)
		if err != nil {
			return err
		}
		if seed.assignee != "" {
			if _, err := app.Tasks.Assign(ctx, actor, task.ID, []string{byEmail[seed.assignee]}, nil); err != nil {
				return err
			}
		}
	}

	blocked, err := app.Dashboard.Blocked(ctx)
	if err != nil {
		return err
	}
	for _, t := range blocked {
		if _, err := app.Tasks.Comment(ctx, actor, t.ID, "Waiting on tooling quote from supplier"); err != nil {
			return err
		}
	}
	return nil
}
