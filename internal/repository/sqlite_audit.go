package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/machinetrack/shopfloor/internal/domain"
)

const auditColumns = `id, entity_type, entity_id, action, actor_id, diff, at`

// SQLiteAuditRepo implements AuditRepo over a DBTX. The table is append-only:
// this repo intentionally has no update or delete.
type SQLiteAuditRepo struct {
	db db.DBTX
}

// NewSQLiteAuditRepo creates a new SQLiteAuditRepo.
func NewSQLiteAuditRepo(dbtx db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: dbtx}
}

func (r *SQLiteAuditRepo) Append(ctx context.Context, a *domain.Audit) error {
	diff := a.Diff
	if len(diff) == 0 {
		diff = json.RawMessage("{}")
	}
	query := `INSERT INTO audits (` + auditColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.EntityType,
		a.EntityID,
		string(a.Action),
		nullableStr(a.ActorID),
		string(diff),
		a.At.Format(time.RFC3339),
	)
	return wrapWriteErr("appending audit", err)
}

func (r *SQLiteAuditRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Audit, error) {
	query := `SELECT ` + auditColumns + ` FROM audits ORDER BY at DESC, id LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing recent audits: %w", err)
	}
	defer rows.Close()
	return scanAudits(rows)
}

func (r *SQLiteAuditRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]*domain.Audit, error) {
	query := `SELECT ` + auditColumns + ` FROM audits WHERE entity_type = ? AND entity_id = ? ORDER BY at, id`
	rows, err := r.db.QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("listing audits by entity: %w", err)
	}
	defer rows.Close()
	return scanAudits(rows)
}

func (r *SQLiteAuditRepo) CountByEntity(ctx context.Context, entityType, entityID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audits WHERE entity_type = ? AND entity_id = ?`,
		entityType, entityID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting audits: %w", err)
	}
	return count, nil
}

func scanAudits(rows *sql.Rows) ([]*domain.Audit, error) {
	var audits []*domain.Audit
	for rows.Next() {
		var a domain.Audit
		var actionStr, diffStr, atStr string
		var actorIDStr sql.NullString
		if err := rows.Scan(&a.ID, &a.EntityType, &a.EntityID, &actionStr, &actorIDStr, &diffStr, &atStr); err != nil {
			return nil, fmt.Errorf("scanning audit row: %w", err)
		}
		a.Action = domain.AuditAction(actionStr)
		a.ActorID = strPtr(actorIDStr)
		a.Diff = json.RawMessage(diffStr)
		var err error
		a.At, err = time.Parse(time.RFC3339, atStr)
		if err != nil {
			return nil, fmt.Errorf("parsing audit timestamp: %w", err)
		}
		audits = append(audits, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audits: %w", err)
	}
	return audits, nil
}
