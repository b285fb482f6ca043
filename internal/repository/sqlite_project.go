package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/machinetrack/shopfloor/internal/domain"
)

const projectColumns = `id, code, title, customer, revision, due_date, priority, status, created_by, created_at`

// SQLiteProjectRepo implements ProjectRepo over a DBTX.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(dbtx db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: dbtx}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Code,
		p.Title,
		p.Customer,
		p.Revision,
		nullableTimeToString(p.DueDate, dateLayout),
		p.Priority,
		string(p.Status),
		nullableStr(p.CreatedBy),
		p.CreatedAt.Format(time.RFC3339),
	)
	return wrapWriteErr("inserting project", err)
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return r.scanProject(row)
}

func (r *SQLiteProjectRepo) GetByCode(ctx context.Context, code string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE UPPER(code) = UPPER(?)`, code)
	return r.scanProject(row)
}

// List returns all projects, newest first (dashboard order).
func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := r.scanProjectFromRows(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET code = ?, title = ?, customer = ?, revision = ?,
		due_date = ?, priority = ?, status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Code,
		p.Title,
		p.Customer,
		p.Revision,
		nullableTimeToString(p.DueDate, dateLayout),
		p.Priority,
		string(p.Status),
		p.ID,
	)
	if err != nil {
		return wrapWriteErr("updating project", err)
	}
	return requireRow(res, "project")
}

// Delete removes a project. Its tasks, and their assignments and comments,
// go with it via ON DELETE CASCADE.
func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return wrapWriteErr("deleting project", err)
	}
	return requireRow(res, "project")
}

func (r *SQLiteProjectRepo) scanProject(row *sql.Row) (*domain.Project, error) {
	var p domain.Project
	var statusStr, createdAtStr string
	var dueDateStr, createdByStr sql.NullString
	err := row.Scan(&p.ID, &p.Code, &p.Title, &p.Customer, &p.Revision,
		&dueDateStr, &p.Priority, &statusStr, &createdByStr, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return populateProject(&p, statusStr, createdAtStr, dueDateStr, createdByStr)
}

func (r *SQLiteProjectRepo) scanProjectFromRows(rows *sql.Rows) (*domain.Project, error) {
	var p domain.Project
	var statusStr, createdAtStr string
	var dueDateStr, createdByStr sql.NullString
	if err := rows.Scan(&p.ID, &p.Code, &p.Title, &p.Customer, &p.Revision,
		&dueDateStr, &p.Priority, &statusStr, &createdByStr, &createdAtStr); err != nil {
		return nil, fmt.Errorf("scanning project row: %w", err)
	}
	return populateProject(&p, statusStr, createdAtStr, dueDateStr, createdByStr)
}

func populateProject(p *domain.Project, statusStr, createdAtStr string, dueDateStr, createdByStr sql.NullString) (*domain.Project, error) {
	p.Status = domain.ProjectStatus(statusStr)
	p.DueDate = parseNullableTime(dueDateStr, dateLayout)
	p.CreatedBy = strPtr(createdByStr)
	var err error
	p.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return p, nil
}
