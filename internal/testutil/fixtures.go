package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/machinetrack/shopfloor/internal/domain"
)

var testEmailCounter atomic.Int64

// User options
type UserOption func(*domain.User)

func WithRole(r domain.Role) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func WithInactive() UserOption {
	return func(u *domain.User) {
		u.IsActive = false
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	n := testEmailCounter.Add(1)
	u := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        fmt.Sprintf("user%d@example.com", n),
		Role:         domain.RoleEngineer,
		PasswordHash: "x",
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Machine options
type MachineOption func(*domain.Machine)

func WithMachineStatus(s domain.MachineStatus) MachineOption {
	return func(m *domain.Machine) {
		m.Status = s
	}
}

func NewTestMachine(name string, opts ...MachineOption) *domain.Machine {
	m := &domain.Machine{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      "Mill",
		Status:    domain.MachineAvailable,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithProjectDueDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.DueDate = &d
	}
}

func WithProjectCreatedAt(t time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.CreatedAt = t
	}
}

func NewTestProject(code string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		ID:        uuid.New().String(),
		Code:      code,
		Title:     "Project " + code,
		Customer:  "Acme",
		Revision:  "A",
		Priority:  3,
		Status:    domain.ProjectActive,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithState(s domain.TaskState) TaskOption {
	return func(t *domain.Task) {
		t.State = s
	}
}

func WithPriority(p int) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithEstHours(h float64) TaskOption {
	return func(t *domain.Task) {
		t.EstHours = h
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func WithTaskCreatedAt(at time.Time) TaskOption {
	return func(t *domain.Task) {
		t.CreatedAt = at
	}
}

func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		State:     domain.TaskBacklog,
		Priority:  3,
		EstHours:  1,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Assignment options
type AssignmentOption func(*domain.TaskAssignment)

func WithMachine(machineID string) AssignmentOption {
	return func(a *domain.TaskAssignment) {
		a.MachineID = &machineID
	}
}

func NewTestAssignment(taskID, userID string, opts ...AssignmentOption) *domain.TaskAssignment {
	a := &domain.TaskAssignment{
		ID:         uuid.New().String(),
		TaskID:     taskID,
		UserID:     &userID,
		AssignedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func NewTestComment(taskID, userID, body string) *domain.Comment {
	return &domain.Comment{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		UserID:    &userID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}
