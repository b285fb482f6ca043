package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/event"
	"github.com/machinetrack/shopfloor/internal/repository"
)

// errAlreadyAssigned aborts an assign transaction when the (task, user) pair
// already exists. The rollback discards the audit row with it, so repeated
// assigns leave no trace.
var errAlreadyAssigned = errors.New("already assigned")

type taskService struct {
	tasks       repository.TaskRepo
	projects    repository.ProjectRepo
	assignments repository.AssignmentRepo
	comments    repository.CommentRepo
	uow         db.UnitOfWork
	events      event.Publisher
}

func NewTaskService(tasks repository.TaskRepo, projects repository.ProjectRepo, assignments repository.AssignmentRepo, comments repository.CommentRepo, uow db.UnitOfWork, events event.Publisher) TaskService {
	return &taskService{
		tasks:       tasks,
		projects:    projects,
		assignments: assignments,
		comments:    comments,
		uow:         uow,
		events:      events,
	}
}

func (s *taskService) publish(e event.Event) {
	if s.events != nil {
		s.events.Publish(e)
	}
}

func (s *taskService) Create(ctx context.Context, actor Actor, projectID string, in CreateTaskInput) (*domain.Task, error) {
	if !actor.Authenticated() {
		return nil, deniedf("login required")
	}
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	due, ok := domain.ParseDate(in.DueDate)
	if !ok {
		return nil, validationf("unrecognized due date %q", in.DueDate)
	}
	state := in.State
	if state == "" {
		state = domain.TaskBacklog
	}
	priority := in.Priority
	if priority == 0 {
		priority = 3
	}

	t := &domain.Task{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		State:       state,
		Priority:    priority,
		EstHours:    in.EstHours,
		DueDate:     due,
		CreatedBy:   actor.ref(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := t.Validate(); err != nil {
		return nil, validationf("%v", err)
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteTaskRepo(tx).Create(ctx, t); err != nil {
			return err
		}
		return appendAudit(ctx, tx, actor, "task", t.ID, domain.ActionCreate, map[string]any{
			"title": t.Title, "project_id": t.ProjectID,
		})
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) Update(ctx context.Context, actor Actor, id string, in UpdateTaskInput) (*domain.Task, error) {
	if !actor.Authenticated() {
		return nil, deniedf("login required")
	}
	var due *time.Time
	if in.DueDate != nil {
		parsed, ok := domain.ParseDate(*in.DueDate)
		if !ok {
			return nil, validationf("unrecognized due date %q", *in.DueDate)
		}
		due = parsed
	}

	var updated *domain.Task
	after := map[string]any{}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}

		before := map[string]any{}
		if in.Title != nil && *in.Title != t.Title {
			before["title"], after["title"] = t.Title, *in.Title
			t.Title = *in.Title
		}
		if in.Description != nil && *in.Description != t.Description {
			before["description"], after["description"] = t.Description, *in.Description
			t.Description = *in.Description
		}
		if in.State != nil && *in.State != t.State {
			before["state"], after["state"] = string(t.State), string(*in.State)
			t.State = *in.State
		}
		if in.Priority != nil && *in.Priority != t.Priority {
			before["priority"], after["priority"] = t.Priority, *in.Priority
			t.Priority = *in.Priority
		}
		if in.EstHours != nil && *in.EstHours != t.EstHours {
			before["est_hours"], after["est_hours"] = t.EstHours, *in.EstHours
			t.EstHours = *in.EstHours
		}
		if in.DueDate != nil && domain.FormatDate(due) != domain.FormatDate(t.DueDate) {
			before["due_date"], after["due_date"] = domain.FormatDate(t.DueDate), domain.FormatDate(due)
			t.DueDate = due
		}
		if err := t.Validate(); err != nil {
			return validationf("%v", err)
		}
		updated = t
		if len(after) == 0 {
			return nil
		}

		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}
		return appendAudit(ctx, tx, actor, "task", t.ID, domain.ActionUpdate, map[string]any{
			"before": before, "after": after,
		})
	})
	if err != nil {
		return nil, err
	}
	if len(after) > 0 {
		s.publish(event.Event{Kind: event.KindTaskUpdated, TaskID: updated.ID, Changed: after})
	}
	return updated, nil
}

func (s *taskService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.Authenticated() {
		return deniedf("login required")
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txTasks.Delete(ctx, id); err != nil {
			return err
		}
		return appendAudit(ctx, tx, actor, "task", id, domain.ActionDelete, map[string]any{
			"title": t.Title, "project_id": t.ProjectID,
		})
	})
}

func (s *taskService) Assign(ctx context.Context, actor Actor, taskID string, userIDs []string, machineID *string) (int, error) {
	if !actor.Authenticated() {
		return 0, deniedf("login required")
	}
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return 0, err
	}

	created := 0
	for _, userID := range userIDs {
		err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
			if _, err := repository.NewSQLiteUserRepo(tx).GetByID(ctx, userID); err != nil {
				return err
			}
			txAssign := repository.NewSQLiteAssignmentRepo(tx)
			if _, err := txAssign.GetByTaskUser(ctx, taskID, userID); err == nil {
				return errAlreadyAssigned
			} else if !errors.Is(err, repository.ErrNotFound) {
				return err
			}

			a := &domain.TaskAssignment{
				ID:         uuid.New().String(),
				TaskID:     taskID,
				UserID:     &userID,
				MachineID:  machineID,
				AssignedAt: time.Now().UTC(),
			}
			if err := txAssign.Create(ctx, a); err != nil {
				// A concurrent assign won the race between the check and the
				// insert; treat it like the check having caught it.
				if errors.Is(err, repository.ErrConstraint) {
					return errAlreadyAssigned
				}
				return err
			}
			diff := map[string]any{"user_id": userID}
			if machineID != nil {
				diff["machine_id"] = *machineID
			}
			return appendAudit(ctx, tx, actor, "task", taskID, domain.ActionAssign, diff)
		})
		if errors.Is(err, errAlreadyAssigned) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}

	if len(userIDs) == 0 && machineID != nil {
		n, err := s.assignMachineOnly(ctx, actor, taskID, *machineID)
		if err != nil {
			return created, err
		}
		created += n
	}
	return created, nil
}

// assignMachineOnly books a machine on a task with no user attached. The
// uniqueness index does not cover NULL users, so the duplicate check is a
// scan over the task's assignments.
func (s *taskService) assignMachineOnly(ctx context.Context, actor Actor, taskID, machineID string) (int, error) {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAssign := repository.NewSQLiteAssignmentRepo(tx)
		existing, err := txAssign.ListByTask(ctx, taskID)
		if err != nil {
			return err
		}
		for _, a := range existing {
			if a.UserID == nil && a.MachineID != nil && *a.MachineID == machineID {
				return errAlreadyAssigned
			}
		}
		a := &domain.TaskAssignment{
			ID:         uuid.New().String(),
			TaskID:     taskID,
			MachineID:  &machineID,
			AssignedAt: time.Now().UTC(),
		}
		if err := txAssign.Create(ctx, a); err != nil {
			return err
		}
		return appendAudit(ctx, tx, actor, "task", taskID, domain.ActionAssign, map[string]any{
			"machine_id": machineID,
		})
	})
	if errors.Is(err, errAlreadyAssigned) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return 1, nil
}

func (s *taskService) Unassign(ctx context.Context, actor Actor, taskID, assignmentID string) error {
	if !actor.Authenticated() {
		return deniedf("login required")
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAssign := repository.NewSQLiteAssignmentRepo(tx)
		a, err := txAssign.GetByID(ctx, assignmentID)
		if err != nil {
			return err
		}
		// An assignment id from another task is treated as absent rather
		// than leaking that it exists elsewhere.
		if a.TaskID != taskID {
			return repository.ErrNotFound
		}
		if err := txAssign.Delete(ctx, assignmentID); err != nil {
			return err
		}
		diff := map[string]any{"assignment_id": a.ID}
		if a.UserID != nil {
			diff["user_id"] = *a.UserID
		}
		return appendAudit(ctx, tx, actor, "task", taskID, domain.ActionUnassign, diff)
	})
}

func (s *taskService) Assignments(ctx context.Context, taskID string) ([]*domain.TaskAssignment, error) {
	return s.assignments.ListByTask(ctx, taskID)
}

func (s *taskService) Comment(ctx context.Context, actor Actor, taskID, body string) (*domain.Comment, error) {
	if !actor.Authenticated() {
		return nil, deniedf("login required")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, validationf("comment body is required")
	}
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	c := &domain.Comment{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		UserID:    actor.ref(),
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteCommentRepo(tx).Create(ctx, c); err != nil {
			return err
		}
		return appendAudit(ctx, tx, actor, "task", taskID, domain.ActionComment, map[string]any{
			"comment_id": c.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	s.publish(event.Event{Kind: event.KindTaskCommented, TaskID: taskID, Author: actor.Name, Body: c.Body})
	return c, nil
}

func (s *taskService) Comments(ctx context.Context, taskID string) ([]repository.CommentWithAuthor, error) {
	return s.comments.ListByTask(ctx, taskID)
}
