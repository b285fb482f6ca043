package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/machinetrack/shopfloor/internal/db"
	"github.com/machinetrack/shopfloor/internal/domain"
)

// SQLiteCommentRepo implements CommentRepo over a DBTX.
type SQLiteCommentRepo struct {
	db db.DBTX
}

// NewSQLiteCommentRepo creates a new SQLiteCommentRepo.
func NewSQLiteCommentRepo(dbtx db.DBTX) *SQLiteCommentRepo {
	return &SQLiteCommentRepo{db: dbtx}
}

func (r *SQLiteCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	query := `INSERT INTO comments (id, task_id, user_id, body, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.TaskID,
		nullableStr(c.UserID),
		c.Body,
		c.CreatedAt.Format(time.RFC3339),
	)
	return wrapWriteErr("inserting comment", err)
}

func (r *SQLiteCommentRepo) ListByTask(ctx context.Context, taskID string) ([]CommentWithAuthor, error) {
	query := `SELECT c.id, c.task_id, c.user_id, c.body, c.created_at, COALESCE(u.name, 'Unknown')
		FROM comments c
		LEFT JOIN users u ON c.user_id = u.id
		WHERE c.task_id = ?
		ORDER BY c.created_at`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing comments by task: %w", err)
	}
	defer rows.Close()

	var comments []CommentWithAuthor
	for rows.Next() {
		var cw CommentWithAuthor
		var userIDStr sql.NullString
		var createdAtStr string
		if err := rows.Scan(&cw.Comment.ID, &cw.Comment.TaskID, &userIDStr,
			&cw.Comment.Body, &createdAtStr, &cw.AuthorName); err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		cw.Comment.UserID = strPtr(userIDStr)
		cw.Comment.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		comments = append(comments, cw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}
	return comments, nil
}

func (r *SQLiteCommentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return wrapWriteErr("deleting comment", err)
	}
	return requireRow(res, "comment")
}
