package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/machinetrack/shopfloor/internal/domain"
	"github.com/machinetrack/shopfloor/internal/repository"
)

// appendAudit writes one audit row inside the caller's transaction so the
// entity change and its trail entry commit together or not at all.
func appendAudit(ctx context.Context, tx db.DBTX, actor Actor, entityType, entityID string, action domain.AuditAction, diff map[string]any) error {
	return repository.NewSQLiteAuditRepo(tx).Append(ctx, &domain.Audit{
		ID:         uuid.New().String(),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorID:    actor.ref(),
		Diff:       domain.NewDiff(diff),
		At:         time.Now().UTC(),
	})
}

type auditService struct {
	audits repository.AuditRepo
}

func NewAuditService(audits repository.AuditRepo) AuditService {
	return &auditService{audits: audits}
}

func (s *auditService) Recent(ctx context.Context, actor Actor, limit int) ([]*domain.Audit, error) {
	if !actor.CanManageUsers() {
		return nil, deniedf("only managers may browse the audit trail")
	}
	if limit <= 0 {
		limit = 50
	}
	return s.audits.ListRecent(ctx, limit)
}

func (s *auditService) ForEntity(ctx context.Context, entityType, entityID string) ([]*domain.Audit, error) {
	return s.audits.ListByEntity(ctx, entityType, entityID)
}
