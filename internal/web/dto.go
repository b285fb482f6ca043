package web

import (
	"encoding/json"
	"time"

	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/repository"
	"github.com/machinetrack/shopfloor/internal/service"
)

type userJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserJSON(u *domain.User) userJSON {
	return userJSON{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type machineJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

func toMachineJSON(m *domain.Machine) machineJSON {
	return machineJSON{ID: m.ID, Name: m.Name, Type: m.Type, Status: string(m.Status)}
}

type projectJSON struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	Customer  string    `json:"customer,omitempty"`
	Revision  string    `json:"revision,omitempty"`
	DueDate   string    `json:"due_date,omitempty"`
	Priority  int       `json:"priority"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toProjectJSON(p *domain.Project) projectJSON {
	return projectJSON{
		ID:        p.ID,
		Code:      p.Code,
		Title:     p.Title,
		Customer:  p.Customer,
		Revision:  p.Revision,
		DueDate:   domain.FormatDate(p.DueDate),
		Priority:  p.Priority,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

type taskJSON struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	State       string    `json:"state"`
	Priority    int       `json:"priority"`
	EstHours    float64   `json:"est_hours"`
	DueDate     string    `json:"due_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Assignees   []string  `json:"assignees,omitempty"`
}

func toTaskJSON(t *domain.Task) taskJSON {
	return taskJSON{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		State:       string(t.State),
		Priority:    t.Priority,
		EstHours:    t.EstHours,
		DueDate:     domain.FormatDate(t.DueDate),
		CreatedAt:   t.CreatedAt,
	}
}

func toTaskListJSON(tasks []*domain.Task) []taskJSON {
	out := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskJSON(t))
	}
	return out
}

func toBoardJSON(board []service.BoardTask) []taskJSON {
	out := make([]taskJSON, 0, len(board))
	for _, bt := range board {
		tj := toTaskJSON(bt.Task)
		tj.Assignees = bt.Assignees
		out = append(out, tj)
	}
	return out
}

type assignmentJSON struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	UserID     *string   `json:"user_id,omitempty"`
	MachineID  *string   `json:"machine_id,omitempty"`
	AssignedAt time.Time `json:"assigned_at"`
}

func toAssignmentJSON(a *domain.TaskAssignment) assignmentJSON {
	return assignmentJSON{
		ID:         a.ID,
		TaskID:     a.TaskID,
		UserID:     a.UserID,
		MachineID:  a.MachineID,
		AssignedAt: a.AssignedAt,
	}
}

type commentJSON struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentJSON(c repository.CommentWithAuthor) commentJSON {
	return commentJSON{
		ID:        c.Comment.ID,
		TaskID:    c.Comment.TaskID,
		Author:    c.AuthorName,
		Body:      c.Comment.Body,
		CreatedAt: c.Comment.CreatedAt,
	}
}

type auditJSON struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"`
	ActorID    *string         `json:"actor_id,omitempty"`
	Diff       json.RawMessage `json:"diff"`
	At         time.Time       `json:"at"`
}

func toAuditJSON(a *domain.Audit) auditJSON {
	return auditJSON{
		ID:         a.ID,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		Action:     string(a.Action),
		ActorID:    a.ActorID,
		Diff:       a.Diff,
		At:         a.At,
	}
}

type progressJSON struct {
	ProjectID string `json:"project_id"`
	Code      string `json:"code"`
	Title     string `json:"title"`
	Done      int    `json:"done"`
	Total     int    `json:"total"`
	Pct       int    `json:"pct"`
}

type workloadJSON struct {
	UserID    string  `json:"user_id"`
	UserName  string  `json:"user_name"`
	TaskCount int     `json:"task_count"`
	EstHours  float64 `json:"est_hours"`
}
