package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/machinetrack/shopfloor/internal/domain"
)

const userColumns = `id, name, email, role, password_hash, is_active, created_at`

// SQLiteUserRepo implements UserRepo over a DBTX.
type SQLiteUserRepo struct {
	db db.DBTX
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(dbtx db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: dbtx}
}

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		string(u.Role),
		u.PasswordHash,
		boolToInt(u.IsActive),
		u.CreatedAt.Format(time.RFC3339),
	)
	return wrapWriteErr("inserting user", err)
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return r.scanUser(row)
}

func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER(?)`, email)
	return r.scanUser(row)
}

func (r *SQLiteUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := r.scanUserFromRows(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

func (r *SQLiteUserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name = ?, email = ?, role = ?, password_hash = ?, is_active = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		u.Name,
		u.Email,
		string(u.Role),
		u.PasswordHash,
		boolToInt(u.IsActive),
		u.ID,
	)
	if err != nil {
		return wrapWriteErr("updating user", err)
	}
	return requireRow(res, "user")
}

func (r *SQLiteUserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return wrapWriteErr("deleting user", err)
	}
	return requireRow(res, "user")
}

func (r *SQLiteUserRepo) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var roleStr, createdAtStr string
	var activeInt int
	err := row.Scan(&u.ID, &u.Name, &u.Email, &roleStr, &u.PasswordHash, &activeInt, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return populateUser(&u, roleStr, activeInt, createdAtStr)
}

func (r *SQLiteUserRepo) scanUserFromRows(rows *sql.Rows) (*domain.User, error) {
	var u domain.User
	var roleStr, createdAtStr string
	var activeInt int
	if err := rows.Scan(&u.ID, &u.Name, &u.Email, &roleStr, &u.PasswordHash, &activeInt, &createdAtStr); err != nil {
		return nil, fmt.Errorf("scanning user row: %w", err)
	}
	return populateUser(&u, roleStr, activeInt, createdAtStr)
}

func populateUser(u *domain.User, roleStr string, activeInt int, createdAtStr string) (*domain.User, error) {
	u.Role = domain.Role(roleStr)
	u.IsActive = intToBool(activeInt)
	var err error
	u.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return u, nil
}

// requireRow converts a zero-row write result into ErrNotFound.
func requireRow(res sql.Result, entity string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return nil
}
