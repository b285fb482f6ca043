package repository

import (
	"context"
	"testing"
	"time"

	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardRepo_ProjectProgress(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(db)
	taskRepo := NewSQLiteTaskRepo(db)
	dash := NewSQLiteDashboardRepo(db)

	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	older := testutil.NewTestProject("JOB-4001", testutil.WithProjectCreatedAt(base))
	newer := testutil.NewTestProject("JOB-4002", testutil.WithProjectCreatedAt(base.Add(time.Hour)))
	empty := testutil.NewTestProject("JOB-4003", testutil.WithProjectCreatedAt(base.Add(2*time.Hour)))
	require.NoError(t, projRepo.Create(ctx, older))
	require.NoError(t, projRepo.Create(ctx, newer))
	require.NoError(t, projRepo.Create(ctx, empty))

	require.NoError(t, taskRepo.Create(ctx, testutil.NewTestTask(older.ID, "a", testutil.WithState(domain.TaskDone))))
	require.NoError(t, taskRepo.Create(ctx, testutil.NewTestTask(older.ID, "b", testutil.WithState(domain.TaskDone))))
	require.NoError(t, taskRepo.Create(ctx, testutil.NewTestTask(older.ID, "c", testutil.WithState(domain.TaskReady))))
	require.NoError(t, taskRepo.Create(ctx, testutil.NewTestTask(newer.ID, "d", testutil.WithState(domain.TaskBacklog))))

	rows, err := dash.ProjectProgress(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Newest project first.
	assert.Equal(t, "JOB-4003", rows[0].Code)
	assert.Equal(t, 0, rows[0].Total, "zero-task project included with zero counts")
	assert.Equal(t, "JOB-4002", rows[1].Code)
	assert.Equal(t, 0, rows[1].Done)
	assert.Equal(t, 1, rows[1].Total)
	assert.Equal(t, "JOB-4001", rows[2].Code)
	assert.Equal(t, 2, rows[2].Done)
	assert.Equal(t, 3, rows[2].Total)
}

func TestDashboardRepo_OpenAssignments(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(db)
	taskRepo := NewSQLiteTaskRepo(db)
	userRepo := NewSQLiteUserRepo(db)
	assignRepo := NewSQLiteAssignmentRepo(db)
	dash := NewSQLiteDashboardRepo(db)

	active := testutil.NewTestProject("JOB-4101")
	archived := testutil.NewTestProject("JOB-4102", testutil.WithProjectStatus(domain.ProjectArchived))
	require.NoError(t, projRepo.Create(ctx, active))
	require.NoError(t, projRepo.Create(ctx, archived))

	alex := testutil.NewTestUser("Alex Eng")
	sam := testutil.NewTestUser("Sam Prog")
	require.NoError(t, userRepo.Create(ctx, alex))
	require.NoError(t, userRepo.Create(ctx, sam))

	open := testutil.NewTestTask(active.ID, "open", testutil.WithEstHours(3))
	done := testutil.NewTestTask(active.ID, "done", testutil.WithState(domain.TaskDone), testutil.WithEstHours(5))
	shelved := testutil.NewTestTask(archived.ID, "shelved", testutil.WithEstHours(7))
	shared := testutil.NewTestTask(active.ID, "shared", testutil.WithEstHours(2))
	require.NoError(t, taskRepo.Create(ctx, open))
	require.NoError(t, taskRepo.Create(ctx, done))
	require.NoError(t, taskRepo.Create(ctx, shelved))
	require.NoError(t, taskRepo.Create(ctx, shared))

	require.NoError(t, assignRepo.Create(ctx, testutil.NewTestAssignment(open.ID, alex.ID)))
	require.NoError(t, assignRepo.Create(ctx, testutil.NewTestAssignment(done.ID, alex.ID)))
	require.NoError(t, assignRepo.Create(ctx, testutil.NewTestAssignment(shelved.ID, alex.ID)))
	require.NoError(t, assignRepo.Create(ctx, testutil.NewTestAssignment(shared.ID, alex.ID)))
	require.NoError(t, assignRepo.Create(ctx, testutil.NewTestAssignment(shared.ID, sam.ID)))

	// Unfiltered: done and archived-project tasks are excluded.
	entries, err := dash.OpenAssignments(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Filtered to sam: only tasks sam is on, but both assignees reported.
	entries, err = dash.OpenAssignments(ctx, &sam.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	names := []string{entries[0].UserName, entries[1].UserName}
	assert.ElementsMatch(t, []string{"Alex Eng", "Sam Prog"}, names)
}

func TestDashboardRepo_DueSoon(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(db)
	taskRepo := NewSQLiteTaskRepo(db)
	dash := NewSQLiteDashboardRepo(db)

	proj := testutil.NewTestProject("JOB-4201")
	require.NoError(t, projRepo.Create(ctx, proj))

	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	inTwo := today.AddDate(0, 0, 2)
	inFive := today.AddDate(0, 0, 5)
	overdue := today.AddDate(0, 0, -1)

	soon := testutil.NewTestTask(proj.ID, "soon", testutil.WithState(domain.TaskReady), testutil.WithDueDate(inTwo))
	late := testutil.NewTestTask(proj.ID, "late", testutil.WithState(domain.TaskReady), testutil.WithDueDate(overdue))
	far := testutil.NewTestTask(proj.ID, "far", testutil.WithState(domain.TaskReady), testutil.WithDueDate(inFive))
	finished := testutil.NewTestTask(proj.ID, "finished", testutil.WithState(domain.TaskDone), testutil.WithDueDate(inTwo))
	undated := testutil.NewTestTask(proj.ID, "undated", testutil.WithState(domain.TaskReady))
	for _, task := range []*domain.Task{soon, late, far, finished, undated} {
		require.NoError(t, taskRepo.Create(ctx, task))
	}

	tasks, err := dash.DueSoon(ctx, today, 3*24*time.Hour, 20)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "late", tasks[0].Title, "earliest due date first")
	assert.Equal(t, "soon", tasks[1].Title)
}

func TestDashboardRepo_DueSoon_Cap(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(db)
	taskRepo := NewSQLiteTaskRepo(db)
	dash := NewSQLiteDashboardRepo(db)

	proj := testutil.NewTestProject("JOB-4202")
	require.NoError(t, projRepo.Create(ctx, proj))

	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	due := today.AddDate(0, 0, 1)
	for i := 0; i < 25; i++ {
		require.NoError(t, taskRepo.Create(ctx,
			testutil.NewTestTask(proj.ID, "t", testutil.WithDueDate(due))))
	}

	tasks, err := dash.DueSoon(ctx, today, 3*24*time.Hour, 20)
	require.NoError(t, err)
	assert.Len(t, tasks, 20)
}

func TestDashboardRepo_Blocked(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(db)
	taskRepo := NewSQLiteTaskRepo(db)
	dash := NewSQLiteDashboardRepo(db)

	proj := testutil.NewTestProject("JOB-4301")
	require.NoError(t, projRepo.Create(ctx, proj))

	low := testutil.NewTestTask(proj.ID, "low", testutil.WithState(domain.TaskBlocked), testutil.WithPriority(4))
	hot := testutil.NewTestTask(proj.ID, "hot", testutil.WithState(domain.TaskBlocked), testutil.WithPriority(1))
	running := testutil.NewTestTask(proj.ID, "running", testutil.WithState(domain.TaskInProgress), testutil.WithPriority(1))
	require.NoError(t, taskRepo.Create(ctx, low))
	require.NoError(t, taskRepo.Create(ctx, hot))
	require.NoError(t, taskRepo.Create(ctx, running))

	tasks, err := dash.Blocked(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "hot", tasks[0].Title, "priority 1 first")
	assert.Equal(t, "low", tasks[1].Title)
}

func TestDashboardRepo_Board_UserFilter(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(db)
	taskRepo := NewSQLiteTaskRepo(db)
	userRepo := NewSQLiteUserRepo(db)
	assignRepo := NewSQLiteAssignmentRepo(db)
	dash := NewSQLiteDashboardRepo(db)

	active := testutil.NewTestProject("JOB-4401")
	archived := testutil.NewTestProject("JOB-4402", testutil.WithProjectStatus(domain.ProjectArchived))
	require.NoError(t, projRepo.Create(ctx, active))
	require.NoError(t, projRepo.Create(ctx, archived))

	alex := testutil.NewTestUser("Alex Eng")
	require.NoError(t, userRepo.Create(ctx, alex))

	mine := testutil.NewTestTask(active.ID, "mine")
	others := testutil.NewTestTask(active.ID, "others")
	hidden := testutil.NewTestTask(archived.ID, "hidden")
	require.NoError(t, taskRepo.Create(ctx, mine))
	require.NoError(t, taskRepo.Create(ctx, others))
	require.NoError(t, taskRepo.Create(ctx, hidden))
	require.NoError(t, assignRepo.Create(ctx, testutil.NewTestAssignment(mine.ID, alex.ID)))

	all, err := dash.Board(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2, "archived project tasks excluded")

	filtered, err := dash.Board(ctx, &alex.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "mine", filtered[0].Title)

	names, err := dash.AssigneeNames(ctx, []string{mine.ID, others.ID})
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "Alex Eng", names[0].Name)
}
