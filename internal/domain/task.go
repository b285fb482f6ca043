package domain

import (
	"fmt"
	"time"
)

type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	State       TaskState
	Priority    int // 1 = hot .. 5 = low
	EstHours    float64
	DueDate     *time.Time
	CreatedBy   *string
	CreatedAt   time.Time
}

// Validate checks the fields required before a task may be stored.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	if t.State != "" && !ValidTaskStates[string(t.State)] {
		return fmt.Errorf("unknown task state %q", t.State)
	}
	if t.Priority < 1 || t.Priority > 5 {
		return fmt.Errorf("task priority %d out of range 1..5", t.Priority)
	}
	if t.EstHours < 0 {
		return fmt.Errorf("estimated hours must not be negative")
	}
	return nil
}

// Open reports whether the task still counts toward workload.
func (t *Task) Open() bool {
	return t.State != TaskDone
}
