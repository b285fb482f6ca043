package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork) ProjectService {
	return &projectService{projects: projects, uow: uow}
}

func (s *projectService) Create(ctx context.Context, actor Actor, in CreateProjectInput) (*domain.Project, error) {
	if !actor.Authenticated() {
		return nil, deniedf("login required")
	}
	due, ok := domain.ParseDate(in.DueDate)
	if !ok {
		return nil, validationf("unrecognized due date %q", in.DueDate)
	}
	priority := in.Priority
	if priority == 0 {
		priority = 3
	}

	p := &domain.Project{
		ID:        uuid.New().String(),
		Code:      strings.ToUpper(strings.TrimSpace(in.Code)),
		Title:     strings.TrimSpace(in.Title),
		Customer:  in.Customer,
		Revision:  in.Revision,
		DueDate:   due,
		Priority:  priority,
		Status:    domain.ProjectActive,
		CreatedBy: actor.ref(),
		CreatedAt: time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, validationf("%v", err)
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, p); err != nil {
			return err
		}
		return appendAudit(ctx, tx, actor, "project", p.ID, domain.ActionCreate, map[string]any{
			"code": p.Code, "title": p.Title,
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) GetByCode(ctx context.Context, code string) (*domain.Project, error) {
	return s.projects.GetByCode(ctx, code)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, actor Actor, id string, in UpdateProjectInput) (*domain.Project, error) {
	if !actor.Authenticated() {
		return nil, deniedf("login required")
	}
	if in.Status != nil && *in.Status != domain.ProjectActive && *in.Status != domain.ProjectArchived {
		return nil, validationf("unknown project status %q", *in.Status)
	}
	var due *time.Time
	if in.DueDate != nil {
		parsed, ok := domain.ParseDate(*in.DueDate)
		if !ok {
			return nil, validationf("unrecognized due date %q", *in.DueDate)
		}
		due = parsed
	}

	var updated *domain.Project
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		p, err := txProjects.GetByID(ctx, id)
		if err != nil {
			return err
		}

		before := map[string]any{}
		after := map[string]any{}
		if in.Title != nil && *in.Title != p.Title {
			before["title"], after["title"] = p.Title, *in.Title
			p.Title = *in.Title
		}
		if in.Customer != nil && *in.Customer != p.Customer {
			before["customer"], after["customer"] = p.Customer, *in.Customer
			p.Customer = *in.Customer
		}
		if in.Revision != nil && *in.Revision != p.Revision {
			before["revision"], after["revision"] = p.Revision, *in.Revision
			p.Revision = *in.Revision
		}
		if in.Priority != nil && *in.Priority != p.Priority {
			before["priority"], after["priority"] = p.Priority, *in.Priority
			p.Priority = *in.Priority
		}
		if in.Status != nil && *in.Status != p.Status {
			before["status"], after["status"] = string(p.Status), string(*in.Status)
			p.Status = *in.Status
		}
		if in.DueDate != nil && domain.FormatDate(due) != domain.FormatDate(p.DueDate) {
			before["due_date"], after["due_date"] = domain.FormatDate(p.DueDate), domain.FormatDate(due)
			p.DueDate = due
		}
		if err := p.Validate(); err != nil {
			return validationf("%v", err)
		}
		updated = p
		if len(after) == 0 {
			return nil
		}

		if err := txProjects.Update(ctx, p); err != nil {
			return err
		}
		return appendAudit(ctx, tx, actor, "project", p.ID, domain.ActionUpdate, map[string]any{
			"before": before, "after": after,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *projectService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdmin() {
		return deniedf("only admins may delete projects")
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		p, err := txProjects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		// Tasks, assignments and comments go with the project via ON DELETE
		// CASCADE; audit rows stay.
		if err := txProjects.Delete(ctx, id); err != nil {
			return err
		}
		return appendAudit(ctx, tx, actor, "project", id, domain.ActionDelete, map[string]any{
			"code": p.Code, "title": p.Title,
		})
	})
}
