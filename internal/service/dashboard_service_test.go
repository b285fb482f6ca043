package service

import (
	"context"
	"testing"
	"time"

	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Progress_Rounding(t *testing.T) {
	env := newTestEnv(t)
	svc := env.dashboardService()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	third := testutil.NewTestProject("JOB-9001", testutil.WithProjectCreatedAt(base))
	twoThirds := testutil.NewTestProject("JOB-9002", testutil.WithProjectCreatedAt(base.Add(time.Hour)))
	empty := testutil.NewTestProject("JOB-9003", testutil.WithProjectCreatedAt(base.Add(2*time.Hour)))
	eighth := testutil.NewTestProject("JOB-9004", testutil.WithProjectCreatedAt(base.Add(3*time.Hour)))
	for _, p := range []*domain.Project{third, twoThirds, empty, eighth} {
		require.NoError(t, env.projects.Create(ctx, p))
	}
	for _, state := range []domain.TaskState{domain.TaskDone, domain.TaskReady, domain.TaskReady} {
		require.NoError(t, env.tasks.Create(ctx, testutil.NewTestTask(third.ID, "t", testutil.WithState(state))))
	}
	for _, state := range []domain.TaskState{domain.TaskDone, domain.TaskDone, domain.TaskReady} {
		require.NoError(t, env.tasks.Create(ctx, testutil.NewTestTask(twoThirds.ID, "t", testutil.WithState(state))))
	}
	for i := 0; i < 8; i++ {
		state := domain.TaskReady
		if i == 0 {
			state = domain.TaskDone
		}
		require.NoError(t, env.tasks.Create(ctx, testutil.NewTestTask(eighth.ID, "t", testutil.WithState(state))))
	}

	rows, err := svc.Progress(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "JOB-9004", rows[0].Code, "newest first")
	assert.Equal(t, 13, rows[0].Pct, "1/8 = 12.5 rounds half away from zero")
	assert.Equal(t, 0, rows[1].Pct)
	assert.Equal(t, 67, rows[2].Pct, "2/3 rounds up")
	assert.Equal(t, 33, rows[3].Pct, "1/3 rounds down")
}

func TestDashboardService_Workload_Scenario(t *testing.T) {
	env := newTestEnv(t)
	dashSvc := env.dashboardService()
	taskSvc := env.taskService(nil)
	ctx := context.Background()
	manager := env.actor(t, "Morgan Mgr", domain.RoleManager)
	sam := env.actor(t, "Sam Prog", domain.RoleProgrammer)

	proj := seedProject(t, env, "JOB-9010")
	task, err := taskSvc.Create(ctx, manager, proj.ID, CreateTaskInput{Title: "T1", EstHours: 3})
	require.NoError(t, err)
	_, err = taskSvc.Assign(ctx, manager, task.ID, []string{sam.ID}, nil)
	require.NoError(t, err)

	entries, err := dashSvc.Workload(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Sam Prog", entries[0].UserName)
	assert.Equal(t, 1, entries[0].TaskCount)
	assert.Equal(t, 3.0, entries[0].EstHours)

	// Marking the task done removes it from everyone's workload.
	done := domain.TaskDone
	_, err = taskSvc.Update(ctx, manager, task.ID, UpdateTaskInput{State: &done})
	require.NoError(t, err)

	entries, err = dashSvc.Workload(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDashboardService_Workload_SortAndFilter(t *testing.T) {
	env := newTestEnv(t)
	dashSvc := env.dashboardService()
	taskSvc := env.taskService(nil)
	ctx := context.Background()
	manager := env.actor(t, "Morgan Mgr", domain.RoleManager)
	alex := env.actor(t, "Alex Eng", domain.RoleEngineer)
	sam := env.actor(t, "Sam Prog", domain.RoleProgrammer)

	proj := seedProject(t, env, "JOB-9011")
	light, err := taskSvc.Create(ctx, manager, proj.ID, CreateTaskInput{Title: "light", EstHours: 2})
	require.NoError(t, err)
	heavy, err := taskSvc.Create(ctx, manager, proj.ID, CreateTaskInput{Title: "heavy", EstHours: 8})
	require.NoError(t, err)
	shared, err := taskSvc.Create(ctx, manager, proj.ID, CreateTaskInput{Title: "shared", EstHours: 1})
	require.NoError(t, err)

	_, err = taskSvc.Assign(ctx, manager, light.ID, []string{alex.ID}, nil)
	require.NoError(t, err)
	_, err = taskSvc.Assign(ctx, manager, heavy.ID, []string{sam.ID}, nil)
	require.NoError(t, err)
	_, err = taskSvc.Assign(ctx, manager, shared.ID, []string{alex.ID, sam.ID}, nil)
	require.NoError(t, err)

	entries, err := dashSvc.Workload(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Sam Prog", entries[0].UserName, "most booked hours first")
	assert.Equal(t, 9.0, entries[0].EstHours)
	assert.Equal(t, 3.0, entries[1].EstHours)

	// Filtering to alex keeps only alex's tasks, but the shared task still
	// reports both assignees.
	entries, err = dashSvc.Workload(ctx, &alex.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	var samHours float64
	for _, e := range entries {
		if e.UserName == "Sam Prog" {
			samHours = e.EstHours
		}
	}
	assert.Equal(t, 1.0, samHours, "sam appears only through the shared task")
}

func TestDashboardService_DueSoon_Scenario(t *testing.T) {
	env := newTestEnv(t)
	svc := env.dashboardService().(*dashboardService)
	today := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return today }

	taskSvc := env.taskService(nil)
	ctx := context.Background()
	manager := env.actor(t, "Morgan Mgr", domain.RoleManager)
	proj := seedProject(t, env, "JOB-9020")

	near, err := taskSvc.Create(ctx, manager, proj.ID, CreateTaskInput{Title: "near", DueDate: "2026-09-02"})
	require.NoError(t, err)
	_, err = taskSvc.Create(ctx, manager, proj.ID, CreateTaskInput{Title: "far", DueDate: "2026-09-05"})
	require.NoError(t, err)

	tasks, err := svc.DueSoon(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "near", tasks[0].Title)

	// Finishing the task drops it from the list.
	done := domain.TaskDone
	_, err = taskSvc.Update(ctx, manager, near.ID, UpdateTaskInput{State: &done})
	require.NoError(t, err)

	tasks, err = svc.DueSoon(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestDashboardService_Board(t *testing.T) {
	env := newTestEnv(t)
	dashSvc := env.dashboardService()
	taskSvc := env.taskService(nil)
	ctx := context.Background()
	manager := env.actor(t, "Morgan Mgr", domain.RoleManager)
	alex := env.actor(t, "Alex Eng", domain.RoleEngineer)

	proj := seedProject(t, env, "JOB-9030")
	task, err := taskSvc.Create(ctx, manager, proj.ID, CreateTaskInput{Title: "mine"})
	require.NoError(t, err)
	_, err = taskSvc.Create(ctx, manager, proj.ID, CreateTaskInput{Title: "unassigned"})
	require.NoError(t, err)
	_, err = taskSvc.Assign(ctx, manager, task.ID, []string{alex.ID}, nil)
	require.NoError(t, err)

	board, err := dashSvc.Board(ctx, nil)
	require.NoError(t, err)
	require.Len(t, board, 2)
	byTitle := map[string][]string{}
	for _, bt := range board {
		byTitle[bt.Task.Title] = bt.Assignees
	}
	assert.Equal(t, []string{"Alex Eng"}, byTitle["mine"])
	assert.Empty(t, byTitle["unassigned"])

	filtered, err := dashSvc.Board(ctx, &alex.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "mine", filtered[0].Task.Title)
}

func TestAuditService_RecentGated(t *testing.T) {
	env := newTestEnv(t)
	auditSvc := NewAuditService(env.audits)
	taskSvc := env.taskService(nil)
	ctx := context.Background()
	manager := env.actor(t, "Morgan Mgr", domain.RoleManager)
	engineer := env.actor(t, "Alex Eng", domain.RoleEngineer)

	proj := seedProject(t, env, "JOB-9040")
	_, err := taskSvc.Create(ctx, manager, proj.ID, CreateTaskInput{Title: "T"})
	require.NoError(t, err)

	_, err = auditSvc.Recent(ctx, engineer, 10)
	assert.ErrorIs(t, err, ErrDenied)

	audits, err := auditSvc.Recent(ctx, manager, 10)
	require.NoError(t, err)
	assert.Len(t, audits, 1)
}
