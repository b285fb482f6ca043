package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/machinetrack/shopfloor/internal/domain"
)

// SQLiteDashboardRepo implements the derived read queries behind the
// dashboard views. All methods are read-only.
type SQLiteDashboardRepo struct {
	db db.DBTX
}

// NewSQLiteDashboardRepo creates a new SQLiteDashboardRepo.
func NewSQLiteDashboardRepo(dbtx db.DBTX) *SQLiteDashboardRepo {
	return &SQLiteDashboardRepo{db: dbtx}
}

func (r *SQLiteDashboardRepo) ProjectProgress(ctx context.Context) ([]ProgressRow, error) {
	query := `SELECT p.id, p.code, p.title,
			COALESCE(SUM(CASE WHEN t.state = 'done' THEN 1 ELSE 0 END), 0),
			COUNT(t.id)
		FROM projects p
		LEFT JOIN tasks t ON t.project_id = p.id
		GROUP BY p.id
		ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying project progress: %w", err)
	}
	defer rows.Close()

	var progress []ProgressRow
	for rows.Next() {
		var row ProgressRow
		if err := rows.Scan(&row.ProjectID, &row.Code, &row.Title, &row.Done, &row.Total); err != nil {
			return nil, fmt.Errorf("scanning progress row: %w", err)
		}
		progress = append(progress, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating progress rows: %w", err)
	}
	return progress, nil
}

func (r *SQLiteDashboardRepo) OpenAssignments(ctx context.Context, filterUserID *string) ([]OpenAssignment, error) {
	// The user filter restricts which tasks are considered, not which
	// assignees are reported: a shared task still shows every assignee.
	query := `SELECT a.user_id, u.name, t.id, t.est_hours
		FROM task_assignments a
		JOIN users u ON a.user_id = u.id
		JOIN tasks t ON a.task_id = t.id
		JOIN projects p ON t.project_id = p.id
		WHERE p.status != 'archived' AND t.state != 'done'`
	args := []any{}
	if filterUserID != nil {
		query += ` AND t.id IN (SELECT task_id FROM task_assignments WHERE user_id = ?)`
		args = append(args, *filterUserID)
	}
	query += ` ORDER BY t.created_at, a.assigned_at, a.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying open assignments: %w", err)
	}
	defer rows.Close()

	var entries []OpenAssignment
	for rows.Next() {
		var e OpenAssignment
		if err := rows.Scan(&e.UserID, &e.UserName, &e.TaskID, &e.EstHours); err != nil {
			return nil, fmt.Errorf("scanning open assignment: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating open assignments: %w", err)
	}
	return entries, nil
}

func (r *SQLiteDashboardRepo) DueSoon(ctx context.Context, today time.Time, window time.Duration, limit int) ([]*domain.Task, error) {
	cutoff := today.Add(window).Format(dateLayout)
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE due_date IS NOT NULL AND due_date <= ? AND state != 'done'
		ORDER BY due_date, created_at
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("querying due-soon tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteDashboardRepo) Blocked(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE state = 'blocked'
		ORDER BY priority, created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying blocked tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteDashboardRepo) Board(ctx context.Context, filterUserID *string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumnsAliased + `
		FROM tasks t
		JOIN projects p ON t.project_id = p.id
		WHERE p.status != 'archived'`
	args := []any{}
	if filterUserID != nil {
		query += ` AND t.id IN (SELECT task_id FROM task_assignments WHERE user_id = ?)`
		args = append(args, *filterUserID)
	}
	query += ` ORDER BY t.created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying board tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteDashboardRepo) AssigneeNames(ctx context.Context, taskIDs []string) ([]AssigneeName, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(taskIDs)), ", ")
	query := `SELECT a.task_id, u.name
		FROM task_assignments a
		JOIN users u ON a.user_id = u.id
		WHERE a.task_id IN (` + placeholders + `)
		ORDER BY a.assigned_at, a.id`
	args := make([]any, len(taskIDs))
	for i, id := range taskIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying assignee names: %w", err)
	}
	defer rows.Close()

	var names []AssigneeName
	for rows.Next() {
		var n AssigneeName
		if err := rows.Scan(&n.TaskID, &n.Name); err != nil {
			return nil, fmt.Errorf("scanning assignee name: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignee names: %w", err)
	}
	return names, nil
}
