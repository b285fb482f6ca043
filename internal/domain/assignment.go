package domain

import "time"

// TaskAssignment links a task to a user and optionally a machine.
// At most one assignment may exist per (task, user) pair; re-assigning
// an already assigned user is a no-op at the service layer.
type TaskAssignment struct {
	ID         string
	TaskID     string
	UserID     *string
	MachineID  *string
	AssignedAt time.Time
}
