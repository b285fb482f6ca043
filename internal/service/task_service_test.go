package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/event"
	"github.com/machinetrack/shopfloor/internal/repository"
	"github.com/machinetrack/shopfloor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProject(t *testing.T, env *testEnv, code string) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(code)
	require.NoError(t, env.projects.Create(context.Background(), p))
	return p
}

func TestTaskService_Create(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService(nil)
	ctx := context.Background()
	actor := env.actor(t, "Alex Eng", domain.RoleEngineer)
	proj := seedProject(t, env, "JOB-8001")

	task, err := svc.Create(ctx, actor, proj.ID, CreateTaskInput{
		Title:    "Program op10",
		EstHours: 4,
		DueDate:  "2026-09-10",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskBacklog, task.State, "state defaults to backlog")
	assert.Equal(t, 3, task.Priority)
	require.NotNil(t, task.CreatedBy)
	assert.Equal(t, actor.ID, *task.CreatedBy)
	assert.Equal(t, 1, env.auditCount(t, "task", task.ID))
}

func TestTaskService_Create_Failures(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService(nil)
	ctx := context.Background()
	actor := env.actor(t, "Alex Eng", domain.RoleEngineer)
	proj := seedProject(t, env, "JOB-8002")

	_, err := svc.Create(ctx, actor, "no-such-project", CreateTaskInput{Title: "X"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Create(ctx, actor, proj.ID, CreateTaskInput{Title: "X", Priority: 9})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, actor, proj.ID, CreateTaskInput{})
	assert.ErrorIs(t, err, ErrValidation, "title required")

	tasks, err := env.tasks.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks, "failed creates store nothing")
}

func TestTaskService_Update_AuditsAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	pub := &capturePublisher{}
	svc := env.taskService(pub)
	ctx := context.Background()
	actor := env.actor(t, "Alex Eng", domain.RoleEngineer)
	proj := seedProject(t, env, "JOB-8010")

	task, err := svc.Create(ctx, actor, proj.ID, CreateTaskInput{Title: "Deburr"})
	require.NoError(t, err)

	state := domain.TaskInProgress
	prio := 1
	updated, err := svc.Update(ctx, actor, task.ID, UpdateTaskInput{State: &state, Priority: &prio})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, updated.State)

	audits, err := env.audits.ListByEntity(ctx, "task", task.ID)
	require.NoError(t, err)
	require.Len(t, audits, 2)
	var diff struct {
		Before map[string]any `json:"before"`
		After  map[string]any `json:"after"`
	}
	require.NoError(t, json.Unmarshal(audits[1].Diff, &diff))
	assert.Equal(t, "backlog", diff.Before["state"])
	assert.Equal(t, "in_progress", diff.After["state"])
	assert.NotContains(t, diff.After, "title", "untouched fields stay out of the diff")

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.KindTaskUpdated, pub.events[0].Kind)
	assert.Equal(t, task.ID, pub.events[0].TaskID)
	assert.Equal(t, "in_progress", pub.events[0].Changed["state"])
}

func TestTaskService_Update_NoOp(t *testing.T) {
	env := newTestEnv(t)
	pub := &capturePublisher{}
	svc := env.taskService(pub)
	ctx := context.Background()
	actor := env.actor(t, "Alex Eng", domain.RoleEngineer)
	proj := seedProject(t, env, "JOB-8011")

	task, err := svc.Create(ctx, actor, proj.ID, CreateTaskInput{Title: "Deburr"})
	require.NoError(t, err)

	state := domain.TaskBacklog
	_, err = svc.Update(ctx, actor, task.ID, UpdateTaskInput{State: &state})
	require.NoError(t, err)
	assert.Equal(t, 1, env.auditCount(t, "task", task.ID), "no audit for a no-op")
	assert.Empty(t, pub.events, "no event for a no-op")
}

func TestTaskService_Update_DeniedLeavesStateAlone(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService(nil)
	ctx := context.Background()
	actor := env.actor(t, "Alex Eng", domain.RoleEngineer)
	proj := seedProject(t, env, "JOB-8012")

	task, err := svc.Create(ctx, actor, proj.ID, CreateTaskInput{Title: "Deburr"})
	require.NoError(t, err)

	state := domain.TaskDone
	_, err = svc.Update(ctx, Actor{}, task.ID, UpdateTaskInput{State: &state})
	require.ErrorIs(t, err, ErrDenied)

	got, err := env.tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskBacklog, got.State)
	assert.Equal(t, 1, env.auditCount(t, "task", task.ID))
}

func TestTaskService_Assign_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService(nil)
	ctx := context.Background()
	actor := env.actor(t, "Morgan Mgr", domain.RoleManager)
	proj := seedProject(t, env, "JOB-8020")

	task, err := svc.Create(ctx, actor, proj.ID, CreateTaskInput{Title: "Setup op20"})
	require.NoError(t, err)
	alex := env.actor(t, "Alex Eng", domain.RoleEngineer)
	sam := env.actor(t, "Sam Prog", domain.RoleProgrammer)

	created, err := svc.Assign(ctx, actor, task.ID, []string{alex.ID, sam.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	rows, err := env.assignments.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	// One create plus one audit per assignment made.
	assert.Equal(t, 3, env.auditCount(t, "task", task.ID))

	// Assigning again is a silent no-op: no row, no audit.
	created, err = svc.Assign(ctx, actor, task.ID, []string{alex.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	rows, err = env.assignments.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, 3, env.auditCount(t, "task", task.ID))
}

func TestTaskService_Assign_PartialFailureKeepsEarlier(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService(nil)
	ctx := context.Background()
	actor := env.actor(t, "Morgan Mgr", domain.RoleManager)
	proj := seedProject(t, env, "JOB-8021")

	task, err := svc.Create(ctx, actor, proj.ID, CreateTaskInput{Title: "Inspect"})
	require.NoError(t, err)
	alex := env.actor(t, "Alex Eng", domain.RoleEngineer)

	// Each user is its own transaction: the first commit survives the
	// second user not existing.
	created, err := svc.Assign(ctx, actor, task.ID, []string{alex.ID, "no-such-user"}, nil)
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 1, created)

	rows, err := env.assignments.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestTaskService_Assign_MissingTask(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService(nil)
	actor := env.actor(t, "Morgan Mgr", domain.RoleManager)

	_, err := svc.Assign(context.Background(), actor, "no-such-task", []string{actor.ID}, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskService_Assign_MachineOnly(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService(nil)
	ctx := context.Background()
	actor := env.actor(t, "Morgan Mgr", domain.RoleManager)
	proj := seedProject(t, env, "JOB-8022")

	task, err := svc.Create(ctx, actor, proj.ID, CreateTaskInput{Title: "Run op30"})
	require.NoError(t, err)
	machine := testutil.NewTestMachine("Haas VF-2")
	require.NoError(t, env.machines.Create(ctx, machine))

	created, err := svc.Assign(ctx, actor, task.ID, nil, &machine.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	// Booking the same machine again does not duplicate.
	created, err = svc.Assign(ctx, actor, task.ID, nil, &machine.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	rows, err := env.assignments.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].UserID)
}

func TestTaskService_Unassign(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService(nil)
	ctx := context.Background()
	actor := env.actor(t, "Morgan Mgr", domain.RoleManager)
	alex := env.actor(t, "Alex Eng", domain.RoleEngineer)
	proj := seedProject(t, env, "JOB-8030")

	task, err := svc.Create(ctx, actor, proj.ID, CreateTaskInput{Title: "Fixture"})
	require.NoError(t, err)
	other, err := svc.Create(ctx, actor, proj.ID, CreateTaskInput{Title: "Other"})
	require.NoError(t, err)

	_, err = svc.Assign(ctx, actor, task.ID, []string{alex.ID}, nil)
	require.NoError(t, err)
	rows, err := env.assignments.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assignmentID := rows[0].ID

	// The assignment belongs to task, not other: reject the mismatch.
	err = svc.Unassign(ctx, actor, other.ID, assignmentID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	rows, err = env.assignments.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "mismatched unassign removes nothing")

	require.NoError(t, svc.Unassign(ctx, actor, task.ID, assignmentID))
	rows, err = env.assignments.ListByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)

	audits, err := env.audits.ListByEntity(ctx, "task", task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionUnassign, audits[len(audits)-1].Action)
}

func TestTaskService_Comment(t *testing.T) {
	env := newTestEnv(t)
	pub := &capturePublisher{}
	svc := env.taskService(pub)
	ctx := context.Background()
	actor := env.actor(t, "Alex Eng", domain.RoleEngineer)
	proj := seedProject(t, env, "JOB-8040")

	task, err := svc.Create(ctx, actor, proj.ID, CreateTaskInput{Title: "Polish"})
	require.NoError(t, err)

	_, err = svc.Comment(ctx, actor, task.ID, "   ")
	assert.ErrorIs(t, err, ErrValidation, "blank comments rejected")

	c, err := svc.Comment(ctx, actor, task.ID, "tool chatter on op20, slowed feed")
	require.NoError(t, err)

	comments, err := svc.Comments(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, c.ID, comments[0].Comment.ID)
	assert.Equal(t, "Alex Eng", comments[0].AuthorName)

	require.Len(t, pub.events, 1)
	assert.Equal(t, event.KindTaskCommented, pub.events[0].Kind)
	assert.Equal(t, "Alex Eng", pub.events[0].Author)

	audits, err := env.audits.ListByEntity(ctx, "task", task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionComment, audits[len(audits)-1].Action)
}

func TestTaskService_Delete(t *testing.T) {
	env := newTestEnv(t)
	svc := env.taskService(nil)
	ctx := context.Background()
	actor := env.actor(t, "Alex Eng", domain.RoleEngineer)
	proj := seedProject(t, env, "JOB-8050")

	task, err := svc.Create(ctx, actor, proj.ID, CreateTaskInput{Title: "Scrap"})
	require.NoError(t, err)
	_, err = svc.Comment(ctx, actor, task.ID, "superseded by rev B")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, actor, task.ID))
	_, err = env.tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	comments, err := svc.Comments(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, comments, "comments cascade with the task")

	// create, comment, delete all on the trail.
	assert.Equal(t, 3, env.auditCount(t, "task", task.ID))
}
