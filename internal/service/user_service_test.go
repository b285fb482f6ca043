package service

import (
	"context"
	"testing"

	"github.com/machinetrack/shopfloor/internal/auth"
	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Create(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()
	manager := env.actor(t, "Morgan Mgr", domain.RoleManager)

	u, err := svc.Create(ctx, manager, CreateUserInput{
		Name:     "Riley Prog",
		Email:    "riley@machinetrack.test",
		Password: "fixture#1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEngineer, u.Role, "role defaults to engineer")
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "fixture#1", u.PasswordHash)
	assert.True(t, auth.CheckPassword(u.PasswordHash, "fixture#1"))

	assert.Equal(t, 1, env.auditCount(t, "user", u.ID), "create leaves one audit row")
	audits, err := env.audits.ListByEntity(ctx, "user", u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ActionCreate, audits[0].Action)
	require.NotNil(t, audits[0].ActorID)
	assert.Equal(t, manager.ID, *audits[0].ActorID)
}

func TestUserService_Create_DeniedForEngineer(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()
	engineer := env.actor(t, "Alex Eng", domain.RoleEngineer)

	_, err := svc.Create(ctx, engineer, CreateUserInput{
		Name: "X", Email: "x@machinetrack.test", Password: "pw",
	})
	require.ErrorIs(t, err, ErrDenied)

	// Denied means untouched: no account, no trail entry.
	_, err = env.users.GetByEmail(ctx, "x@machinetrack.test")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	recent, err := env.audits.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestUserService_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()
	manager := env.actor(t, "Morgan Mgr", domain.RoleManager)

	_, err := svc.Create(ctx, manager, CreateUserInput{Email: "a@b.test", Password: "pw"})
	assert.ErrorIs(t, err, ErrValidation, "missing name")

	_, err = svc.Create(ctx, manager, CreateUserInput{Name: "A", Email: "a@b.test"})
	assert.ErrorIs(t, err, ErrValidation, "missing password")

	_, err = svc.Create(ctx, manager, CreateUserInput{
		Name: "A", Email: "a@b.test", Password: "pw", Role: "welder",
	})
	assert.ErrorIs(t, err, ErrValidation, "unknown role")
}

func TestUserService_Create_DuplicateEmailRollsBack(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()
	manager := env.actor(t, "Morgan Mgr", domain.RoleManager)

	first, err := svc.Create(ctx, manager, CreateUserInput{
		Name: "First", Email: "dup@machinetrack.test", Password: "pw",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, manager, CreateUserInput{
		Name: "Second", Email: "dup@machinetrack.test", Password: "pw",
	})
	require.ErrorIs(t, err, repository.ErrConstraint)

	// Only the first create left an audit row.
	recent, err := env.audits.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, first.ID, recent[0].EntityID)
}

func TestUserService_Update_DiffAndNoOp(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()
	manager := env.actor(t, "Morgan Mgr", domain.RoleManager)

	u, err := svc.Create(ctx, manager, CreateUserInput{
		Name: "Riley", Email: "riley@machinetrack.test", Password: "pw",
	})
	require.NoError(t, err)

	role := domain.RoleProgrammer
	updated, err := svc.Update(ctx, manager, u.ID, UpdateUserInput{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleProgrammer, updated.Role)
	assert.Equal(t, 2, env.auditCount(t, "user", u.ID))

	// Re-applying the same role changes nothing and leaves no trail entry.
	_, err = svc.Update(ctx, manager, u.ID, UpdateUserInput{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, 2, env.auditCount(t, "user", u.ID))
}

func TestUserService_Delete(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()
	admin := env.actor(t, "Ada Admin", domain.RoleAdmin)
	manager := env.actor(t, "Morgan Mgr", domain.RoleManager)
	victim := env.actor(t, "Viktor", domain.RoleEngineer)

	err := svc.Delete(ctx, manager, victim.ID)
	require.ErrorIs(t, err, ErrDenied, "managers may not delete accounts")
	_, err = env.users.GetByID(ctx, victim.ID)
	require.NoError(t, err, "denied delete leaves the account")

	err = svc.Delete(ctx, admin, admin.ID)
	require.ErrorIs(t, err, ErrDenied, "no self-delete")

	require.NoError(t, svc.Delete(ctx, admin, victim.ID))
	_, err = env.users.GetByID(ctx, victim.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 1, env.auditCount(t, "user", victim.ID))
}

func TestUserService_Authenticate(t *testing.T) {
	env := newTestEnv(t)
	svc := env.userService()
	ctx := context.Background()
	manager := env.actor(t, "Morgan Mgr", domain.RoleManager)

	u, err := svc.Create(ctx, manager, CreateUserInput{
		Name: "Riley", Email: "riley@machinetrack.test", Password: "fixture#1",
	})
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "riley@machinetrack.test", "fixture#1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "riley@machinetrack.test", "wrong")
	assert.ErrorIs(t, err, ErrDenied)

	_, err = svc.Authenticate(ctx, "nobody@machinetrack.test", "fixture#1")
	assert.ErrorIs(t, err, ErrDenied)

	inactive := false
	_, err = svc.Update(ctx, manager, u.ID, UpdateUserInput{IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "riley@machinetrack.test", "fixture#1")
	assert.ErrorIs(t, err, ErrDenied, "deactivated accounts cannot log in")
}
