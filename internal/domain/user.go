package domain

import "time"

type User struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// CanManageUsers reports whether the user may create or list user accounts.
func (u *User) CanManageUsers() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}
