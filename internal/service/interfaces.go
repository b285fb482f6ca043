package service

import (
	"context"

	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/repository"
)

// CreateUserInput carries the fields for a new account. Password is the
// plaintext; it is hashed before storage and never kept.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserInput carries partial account changes. Nil fields are untouched.
type UpdateUserInput struct {
	Name     *string
	Role     *domain.Role
	IsActive *bool
	Password *string
}

type UserService interface {
	Create(ctx context.Context, actor Actor, in CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, actor Actor) ([]*domain.User, error)
	Update(ctx context.Context, actor Actor, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor Actor, id string) error
	// Authenticate verifies credentials for login. Wrong email, wrong
	// password and deactivated accounts are indistinguishable to the caller.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

type CreateMachineInput struct {
	Name   string
	Type   string
	Status domain.MachineStatus
}

type MachineService interface {
	Create(ctx context.Context, actor Actor, in CreateMachineInput) (*domain.Machine, error)
	GetByID(ctx context.Context, id string) (*domain.Machine, error)
	List(ctx context.Context) ([]*domain.Machine, error)
	UpdateStatus(ctx context.Context, actor Actor, id string, status domain.MachineStatus) (*domain.Machine, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

// CreateProjectInput carries the fields for a new project. DueDate accepts
// ISO (2026-03-01) or US (03/01/2026) form; empty means no due date.
type CreateProjectInput struct {
	Code     string
	Title    string
	Customer string
	Revision string
	DueDate  string
	Priority int
}

// UpdateProjectInput carries partial project changes. Nil fields are
// untouched; a pointer to the empty string clears the due date.
type UpdateProjectInput struct {
	Title    *string
	Customer *string
	Revision *string
	DueDate  *string
	Priority *int
	Status   *domain.ProjectStatus
}

type ProjectService interface {
	Create(ctx context.Context, actor Actor, in CreateProjectInput) (*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByCode(ctx context.Context, code string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, actor Actor, id string, in UpdateProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type CreateTaskInput struct {
	Title       string
	Description string
	State       domain.TaskState
	Priority    int
	EstHours    float64
	DueDate     string
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	State       *domain.TaskState
	Priority    *int
	EstHours    *float64
	DueDate     *string
}

type TaskService interface {
	Create(ctx context.Context, actor Actor, projectID string, in CreateTaskInput) (*domain.Task, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, actor Actor, id string, in UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, actor Actor, id string) error
	// Assign adds the given users (and optionally a machine) to the task.
	// Each user is a separate transaction; already-assigned users are
	// skipped silently. Returns how many assignments were actually created.
	Assign(ctx context.Context, actor Actor, taskID string, userIDs []string, machineID *string) (int, error)
	Unassign(ctx context.Context, actor Actor, taskID, assignmentID string) error
	Assignments(ctx context.Context, taskID string) ([]*domain.TaskAssignment, error)
	Comment(ctx context.Context, actor Actor, taskID, body string) (*domain.Comment, error)
	Comments(ctx context.Context, taskID string) ([]repository.CommentWithAuthor, error)
}

// ProjectProgress is one project's completion summary for the dashboard.
type ProjectProgress struct {
	ProjectID string
	Code      string
	Title     string
	Done      int
	Total     int
	Pct       int
}

// WorkloadEntry aggregates one user's open assignments.
type WorkloadEntry struct {
	UserID    string
	UserName  string
	TaskCount int
	EstHours  float64
}

// BoardTask pairs a task with its assignee display names for the kanban view.
type BoardTask struct {
	Task      *domain.Task
	Assignees []string
}

type DashboardService interface {
	Progress(ctx context.Context) ([]ProjectProgress, error)
	// Workload reports per-user open task counts and estimated hours, busiest
	// first. With a filter user, only tasks that user is assigned to are
	// considered, but every assignee of those tasks is still reported.
	Workload(ctx context.Context, filterUserID *string) ([]WorkloadEntry, error)
	DueSoon(ctx context.Context) ([]*domain.Task, error)
	Blocked(ctx context.Context) ([]*domain.Task, error)
	Board(ctx context.Context, filterUserID *string) ([]BoardTask, error)
}

type AuditService interface {
	Recent(ctx context.Context, actor Actor, limit int) ([]*domain.Audit, error)
	ForEntity(ctx context.Context, entityType, entityID string) ([]*domain.Audit, error)
}
