package service

import "github.com/machinetrack/shopfloor/internal/domain"

// Actor identifies who performs a mutation. Every mutating operation takes
// one explicitly; authorization is decided from this value alone, never from
// ambient state.
type Actor struct {
	ID   string
	Name string
	Role domain.Role
}

// ActorFor builds an Actor from a loaded user account.
func ActorFor(u *domain.User) Actor {
	return Actor{ID: u.ID, Name: u.Name, Role: u.Role}
}

// Authenticated reports whether the actor is a logged-in user.
func (a Actor) Authenticated() bool {
	return a.ID != ""
}

// CanManageUsers reports whether the actor may create, list or edit accounts.
func (a Actor) CanManageUsers() bool {
	return a.Role == domain.RoleManager || a.Role == domain.RoleAdmin
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

// ref returns the actor id for audit rows, nil when unauthenticated.
func (a Actor) ref() *string {
	if a.ID == "" {
		return nil
	}
	id := a.ID
	return &id
}
