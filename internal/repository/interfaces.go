package repository

import (
	"context"
	"time"

	"github.com/machinetrack/shopfloor/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

type MachineRepo interface {
	Create(ctx context.Context, m *domain.Machine) error
	GetByID(ctx context.Context, id string) (*domain.Machine, error)
	List(ctx context.Context) ([]*domain.Machine, error)
	Update(ctx context.Context, m *domain.Machine) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByCode(ctx context.Context, code string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	// List returns every task, newest first (export order).
	List(ctx context.Context) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type AssignmentRepo interface {
	Create(ctx context.Context, a *domain.TaskAssignment) error
	GetByID(ctx context.Context, id string) (*domain.TaskAssignment, error)
	// GetByTaskUser returns the assignment for a (task, user) pair, or
	// ErrNotFound. Backs the idempotent-assign check.
	GetByTaskUser(ctx context.Context, taskID, userID string) (*domain.TaskAssignment, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.TaskAssignment, error)
	Delete(ctx context.Context, id string) error
}

type CommentRepo interface {
	Create(ctx context.Context, c *domain.Comment) error
	// ListByTask returns comments oldest first, with author names resolved.
	ListByTask(ctx context.Context, taskID string) ([]CommentWithAuthor, error)
	Delete(ctx context.Context, id string) error
}

type AuditRepo interface {
	// Append writes an audit row. The audit log is append-only: there is
	// deliberately no update or delete.
	Append(ctx context.Context, a *domain.Audit) error
	ListRecent(ctx context.Context, limit int) ([]*domain.Audit, error)
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*domain.Audit, error)
	CountByEntity(ctx context.Context, entityType, entityID string) (int, error)
}

// CommentWithAuthor pairs a comment with its resolved author name.
// AuthorName is "Unknown" when the author account has been deleted.
type CommentWithAuthor struct {
	Comment    domain.Comment
	AuthorName string
}

// ProgressRow is one project's task completion counts.
type ProgressRow struct {
	ProjectID string
	Code      string
	Title     string
	Done      int
	Total     int
}

// OpenAssignment is one (open task, assignee) pair feeding the workload view.
type OpenAssignment struct {
	UserID   string
	UserName string
	TaskID   string
	EstHours float64
}

// AssigneeName resolves an assignment row to its user name for display.
type AssigneeName struct {
	TaskID string
	Name   string
}

// DashboardRepo exposes the read-only derived queries behind the dashboard.
type DashboardRepo interface {
	// ProjectProgress returns done/total task counts per project, ordered
	// by project creation time descending. Zero-task projects are included.
	ProjectProgress(ctx context.Context) ([]ProgressRow, error)
	// OpenAssignments returns (task, user) pairs over open tasks in
	// non-archived projects. When filterUserID is non-nil, only tasks on
	// which that user has an assignment are considered; all assignees of
	// those tasks are still reported.
	OpenAssignments(ctx context.Context, filterUserID *string) ([]OpenAssignment, error)
	// DueSoon returns tasks with a due date within the window after today,
	// excluding done tasks, due date ascending, at most limit rows.
	DueSoon(ctx context.Context, today time.Time, window time.Duration, limit int) ([]*domain.Task, error)
	// Blocked returns blocked tasks, most urgent (priority 1) first.
	Blocked(ctx context.Context) ([]*domain.Task, error)
	// Board returns tasks in non-archived projects, optionally restricted
	// to tasks the given user is assigned to.
	Board(ctx context.Context, filterUserID *string) ([]*domain.Task, error)
	// AssigneeNames resolves assignee display names for a set of tasks.
	AssigneeNames(ctx context.Context, taskIDs []string) ([]AssigneeName, error)
}
