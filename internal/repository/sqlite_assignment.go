package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/machinetrack/shopfloor/internal/domain"
)

const assignmentColumns = `id, task_id, user_id, machine_id, assigned_at`

// SQLiteAssignmentRepo implements AssignmentRepo over a DBTX.
type SQLiteAssignmentRepo struct {
	db db.DBTX
}

// NewSQLiteAssignmentRepo creates a new SQLiteAssignmentRepo.
func NewSQLiteAssignmentRepo(dbtx db.DBTX) *SQLiteAssignmentRepo {
	return &SQLiteAssignmentRepo{db: dbtx}
}

// Create inserts an assignment row. The UNIQUE(task_id, user_id) index makes
// a duplicate (task, user) insert fail with ErrConstraint; the service layer
// treats that as the lost half of a concurrent idempotent assign.
func (r *SQLiteAssignmentRepo) Create(ctx context.Context, a *domain.TaskAssignment) error {
	query := `INSERT INTO task_assignments (` + assignmentColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.TaskID,
		nullableStr(a.UserID),
		nullableStr(a.MachineID),
		a.AssignedAt.Format(time.RFC3339),
	)
	return wrapWriteErr("inserting assignment", err)
}

func (r *SQLiteAssignmentRepo) GetByID(ctx context.Context, id string) (*domain.TaskAssignment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM task_assignments WHERE id = ?`, id)
	return r.scanAssignment(row)
}

func (r *SQLiteAssignmentRepo) GetByTaskUser(ctx context.Context, taskID, userID string) (*domain.TaskAssignment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM task_assignments WHERE task_id = ? AND user_id = ?`,
		taskID, userID)
	return r.scanAssignment(row)
}

func (r *SQLiteAssignmentRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM task_assignments WHERE task_id = ? ORDER BY assigned_at`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing assignments by task: %w", err)
	}
	defer rows.Close()

	var assignments []*domain.TaskAssignment
	for rows.Next() {
		var a domain.TaskAssignment
		var userIDStr, machineIDStr sql.NullString
		var assignedAtStr string
		if err := rows.Scan(&a.ID, &a.TaskID, &userIDStr, &machineIDStr, &assignedAtStr); err != nil {
			return nil, fmt.Errorf("scanning assignment row: %w", err)
		}
		if err := populateAssignment(&a, userIDStr, machineIDStr, assignedAtStr); err != nil {
			return nil, err
		}
		assignments = append(assignments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}
	return assignments, nil
}

func (r *SQLiteAssignmentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task_assignments WHERE id = ?`, id)
	if err != nil {
		return wrapWriteErr("deleting assignment", err)
	}
	return requireRow(res, "assignment")
}

func (r *SQLiteAssignmentRepo) scanAssignment(row *sql.Row) (*domain.TaskAssignment, error) {
	var a domain.TaskAssignment
	var userIDStr, machineIDStr sql.NullString
	var assignedAtStr string
	err := row.Scan(&a.ID, &a.TaskID, &userIDStr, &machineIDStr, &assignedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("assignment: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning assignment: %w", err)
	}
	if err := populateAssignment(&a, userIDStr, machineIDStr, assignedAtStr); err != nil {
		return nil, err
	}
	return &a, nil
}

func populateAssignment(a *domain.TaskAssignment, userIDStr, machineIDStr sql.NullString, assignedAtStr string) error {
	a.UserID = strPtr(userIDStr)
	a.MachineID = strPtr(machineIDStr)
	var err error
	a.AssignedAt, err = time.Parse(time.RFC3339, assignedAtStr)
	if err != nil {
		return fmt.Errorf("parsing assigned_at: %w", err)
	}
	return nil
}
