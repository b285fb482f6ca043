package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/machinetrack/shopfloor/internal/auth"
	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/repository"
)

type userService struct {
	users repository.UserRepo
	uow   db.UnitOfWork
}

func NewUserService(users repository.UserRepo, uow db.UnitOfWork) UserService {
	return &userService{users: users, uow: uow}
}

func (s *userService) Create(ctx context.Context, actor Actor, in CreateUserInput) (*domain.User, error) {
	if !actor.CanManageUsers() {
		return nil, deniedf("only managers may create users")
	}
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return nil, validationf("name and email are required")
	}
	if in.Password == "" {
		return nil, validationf("password is required")
	}
	role := in.Role
	if role == "" {
		role = domain.RoleEngineer
	}
	if !domain.ValidRoles[string(role)] {
		return nil, validationf("unknown role %q", role)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteUserRepo(tx).Create(ctx, u); err != nil {
			return err
		}
		return appendAudit(ctx, tx, actor, "user", u.ID, domain.ActionCreate, map[string]any{
			"name": u.Name, "email": u.Email, "role": string(u.Role),
		})
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context, actor Actor) ([]*domain.User, error) {
	if !actor.CanManageUsers() {
		return nil, deniedf("only managers may list users")
	}
	return s.users.List(ctx)
}

func (s *userService) Update(ctx context.Context, actor Actor, id string, in UpdateUserInput) (*domain.User, error) {
	if !actor.CanManageUsers() {
		return nil, deniedf("only managers may edit users")
	}
	if in.Role != nil && !domain.ValidRoles[string(*in.Role)] {
		return nil, validationf("unknown role %q", *in.Role)
	}

	var updated *domain.User
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txUsers := repository.NewSQLiteUserRepo(tx)
		u, err := txUsers.GetByID(ctx, id)
		if err != nil {
			return err
		}

		before := map[string]any{}
		after := map[string]any{}
		if in.Name != nil && *in.Name != u.Name {
			before["name"], after["name"] = u.Name, *in.Name
			u.Name = *in.Name
		}
		if in.Role != nil && *in.Role != u.Role {
			before["role"], after["role"] = string(u.Role), string(*in.Role)
			u.Role = *in.Role
		}
		if in.IsActive != nil && *in.IsActive != u.IsActive {
			before["is_active"], after["is_active"] = u.IsActive, *in.IsActive
			u.IsActive = *in.IsActive
		}
		if in.Password != nil {
			hash, err := auth.HashPassword(*in.Password)
			if err != nil {
				return validationf("%v", err)
			}
			u.PasswordHash = hash
			after["password"] = "changed"
		}
		updated = u
		if len(after) == 0 {
			return nil
		}

		if err := txUsers.Update(ctx, u); err != nil {
			return err
		}
		return appendAudit(ctx, tx, actor, "user", u.ID, domain.ActionUpdate, map[string]any{
			"before": before, "after": after,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *userService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return deniedf("only admins may delete users")
	}
	if actor.ID == id {
		return deniedf("cannot delete your own account")
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txUsers := repository.NewSQLiteUserRepo(tx)
		u, err := txUsers.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txUsers.Delete(ctx, id); err != nil {
			return err
		}
		return appendAudit(ctx, tx, actor, "user", id, domain.ActionDelete, map[string]any{
			"name": u.Name, "email": u.Email,
		})
	})
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, deniedf("invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive || !auth.CheckPassword(u.PasswordHash, password) {
		return nil, deniedf("invalid credentials")
	}
	return u, nil
}
