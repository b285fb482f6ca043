package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/event"
	"github.com/machinetrack/shopfloor/internal/repository"
	"github.com/machinetrack/shopfloor/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db          *sql.DB
	uow         db.UnitOfWork
	users       repository.UserRepo
	machines    repository.MachineRepo
	projects    repository.ProjectRepo
	tasks       repository.TaskRepo
	assignments repository.AssignmentRepo
	comments    repository.CommentRepo
	audits      repository.AuditRepo
	dash        repository.DashboardRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:          database,
		uow:         testutil.NewTestUoW(database),
		users:       repository.NewSQLiteUserRepo(database),
		machines:    repository.NewSQLiteMachineRepo(database),
		projects:    repository.NewSQLiteProjectRepo(database),
		tasks:       repository.NewSQLiteTaskRepo(database),
		assignments: repository.NewSQLiteAssignmentRepo(database),
		comments:    repository.NewSQLiteCommentRepo(database),
		audits:      repository.NewSQLiteAuditRepo(database),
		dash:        repository.NewSQLiteDashboardRepo(database),
	}
}

func (e *testEnv) userService() UserService {
	return NewUserService(e.users, e.uow)
}

func (e *testEnv) machineService() MachineService {
	return NewMachineService(e.machines)
}

func (e *testEnv) projectService() ProjectService {
	return NewProjectService(e.projects, e.uow)
}

func (e *testEnv) taskService(events event.Publisher) TaskService {
	return NewTaskService(e.tasks, e.projects, e.assignments, e.comments, e.uow, events)
}

func (e *testEnv) dashboardService() DashboardService {
	return NewDashboardService(e.dash)
}

// actor creates a real user row and returns it as an Actor. Audit rows
// reference the actor by foreign key, so actors must exist in the store.
func (e *testEnv) actor(t *testing.T, name string, role domain.Role) Actor {
	t.Helper()
	u := testutil.NewTestUser(name, testutil.WithRole(role))
	require.NoError(t, e.users.Create(context.Background(), u))
	return ActorFor(u)
}

// auditCount counts trail entries for one entity.
func (e *testEnv) auditCount(t *testing.T, entityType, entityID string) int {
	t.Helper()
	n, err := e.audits.CountByEntity(context.Background(), entityType, entityID)
	require.NoError(t, err)
	return n
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	events []event.Event
}

func (p *capturePublisher) Publish(e event.Event) {
	p.events = append(p.events, e)
}
