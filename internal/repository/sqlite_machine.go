package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/machinetrack/shopfloor/internal/domain"
)

const machineColumns = `id, name, type, status, created_at`

// SQLiteMachineRepo implements MachineRepo over a DBTX.
type SQLiteMachineRepo struct {
	db db.DBTX
}

// NewSQLiteMachineRepo creates a new SQLiteMachineRepo.
func NewSQLiteMachineRepo(dbtx db.DBTX) *SQLiteMachineRepo {
	return &SQLiteMachineRepo{db: dbtx}
}

func (r *SQLiteMachineRepo) Create(ctx context.Context, m *domain.Machine) error {
	query := `INSERT INTO machines (` + machineColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.Name,
		m.Type,
		string(m.Status),
		m.CreatedAt.Format(time.RFC3339),
	)
	return wrapWriteErr("inserting machine", err)
}

func (r *SQLiteMachineRepo) GetByID(ctx context.Context, id string) (*domain.Machine, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+machineColumns+` FROM machines WHERE id = ?`, id)
	return r.scanMachine(row)
}

func (r *SQLiteMachineRepo) List(ctx context.Context) ([]*domain.Machine, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+machineColumns+` FROM machines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing machines: %w", err)
	}
	defer rows.Close()

	var machines []*domain.Machine
	for rows.Next() {
		var m domain.Machine
		var statusStr, createdAtStr string
		if err := rows.Scan(&m.ID, &m.Name, &m.Type, &statusStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning machine row: %w", err)
		}
		if err := populateMachine(&m, statusStr, createdAtStr); err != nil {
			return nil, err
		}
		machines = append(machines, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating machines: %w", err)
	}
	return machines, nil
}

func (r *SQLiteMachineRepo) Update(ctx context.Context, m *domain.Machine) error {
	query := `UPDATE machines SET name = ?, type = ?, status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, m.Name, m.Type, string(m.Status), m.ID)
	if err != nil {
		return wrapWriteErr("updating machine", err)
	}
	return requireRow(res, "machine")
}

func (r *SQLiteMachineRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM machines WHERE id = ?`, id)
	if err != nil {
		return wrapWriteErr("deleting machine", err)
	}
	return requireRow(res, "machine")
}

func (r *SQLiteMachineRepo) scanMachine(row *sql.Row) (*domain.Machine, error) {
	var m domain.Machine
	var statusStr, createdAtStr string
	err := row.Scan(&m.ID, &m.Name, &m.Type, &statusStr, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("machine: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning machine: %w", err)
	}
	if err := populateMachine(&m, statusStr, createdAtStr); err != nil {
		return nil, err
	}
	return &m, nil
}

func populateMachine(m *domain.Machine, statusStr, createdAtStr string) error {
	m.Status = domain.MachineStatus(statusStr)
	var err error
	m.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	return nil
}
