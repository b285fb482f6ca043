package domain

import (
	"fmt"
	"time"
)

type Project struct {
	ID        string
	Code      string
	Title     string
	Customer  string
	Revision  string
	DueDate   *time.Time
	Priority  int // 1 = hot .. 5 = low
	Status    ProjectStatus
	CreatedBy *string
	CreatedAt time.Time
}

// Validate checks the fields required before a project may be stored.
func (p *Project) Validate() error {
	if p.Code == "" {
		return fmt.Errorf("project code is required")
	}
	if p.Title == "" {
		return fmt.Errorf("project title is required")
	}
	if p.Priority < 1 || p.Priority > 5 {
		return fmt.Errorf("project priority %d out of range 1..5", p.Priority)
	}
	return nil
}
