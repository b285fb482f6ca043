package domain

import "time"

type Comment struct {
	ID        string
	TaskID    string
	UserID    *string
	Body      string
	CreatedAt time.Time
}
