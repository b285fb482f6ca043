package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/machinetrack/shopfloor/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, project_id, title, description, state, priority, est_hours, due_date, created_by, created_at`

// taskColumnsAliased is the same column list prefixed with "t." for join queries.
const taskColumnsAliased = `t.id, t.project_id, t.title, t.description, t.state, t.priority,
		t.est_hours, t.due_date, t.created_by, t.created_at`

// SQLiteTaskRepo implements TaskRepo over a DBTX.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(dbtx db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: dbtx}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.Title,
		t.Description,
		string(t.State),
		t.Priority,
		t.EstHours,
		nullableTimeToString(t.DueDate, dateLayout),
		nullableStr(t.CreatedBy),
		t.CreatedAt.Format(time.RFC3339),
	)
	return wrapWriteErr("inserting task", err)
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks by project: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteTaskRepo) List(ctx context.Context) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET title = ?, description = ?, state = ?, priority = ?,
		est_hours = ?, due_date = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		string(t.State),
		t.Priority,
		t.EstHours,
		nullableTimeToString(t.DueDate, dateLayout),
		t.ID,
	)
	if err != nil {
		return wrapWriteErr("updating task", err)
	}
	return requireRow(res, "task")
}

// Delete removes a task. Assignments and comments cascade with it.
func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return wrapWriteErr("deleting task", err)
	}
	return requireRow(res, "task")
}

// scanTask scans a single task from a *sql.Row.
func scanTask(row *sql.Row) (*domain.Task, error) {
	var t domain.Task
	var stateStr, createdAtStr string
	var dueDateStr, createdByStr sql.NullString
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &stateStr,
		&t.Priority, &t.EstHours, &dueDateStr, &createdByStr, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return populateTask(&t, stateStr, createdAtStr, dueDateStr, createdByStr)
}

// scanTasks scans multiple tasks from *sql.Rows.
func scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		var stateStr, createdAtStr string
		var dueDateStr, createdByStr sql.NullString
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &stateStr,
			&t.Priority, &t.EstHours, &dueDateStr, &createdByStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		task, err := populateTask(&t, stateStr, createdAtStr, dueDateStr, createdByStr)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func populateTask(t *domain.Task, stateStr, createdAtStr string, dueDateStr, createdByStr sql.NullString) (*domain.Task, error) {
	t.State = domain.TaskState(stateStr)
	t.DueDate = parseNullableTime(dueDateStr, dateLayout)
	t.CreatedBy = strPtr(createdByStr)
	var err error
	t.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return t, nil
}
