package db

import (
	"database/sql"
	"fmt"
)

// migrations holds the schema statements, applied in order. Statements use
// IF NOT EXISTS so the set can be re-run against an existing database.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		role          TEXT NOT NULL DEFAULT 'engineer'
		              CHECK(role IN ('engineer','programmer','operator','manager','admin')),
		password_hash TEXT NOT NULL,
		is_active     INTEGER NOT NULL DEFAULT 1,
		created_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS machines (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		type       TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'available'
		           CHECK(status IN ('available','down','setup','offline')),
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		code       TEXT NOT NULL UNIQUE,
		title      TEXT NOT NULL,
		customer   TEXT NOT NULL DEFAULT '',
		revision   TEXT NOT NULL DEFAULT '',
		due_date   TEXT,
		priority   INTEGER NOT NULL DEFAULT 3,
		status     TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active','archived')),
		created_by TEXT REFERENCES users(id) ON DELETE SET NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		state       TEXT NOT NULL DEFAULT 'backlog'
		            CHECK(state IN ('backlog','ready','in_progress','blocked','review','done')),
		priority    INTEGER NOT NULL DEFAULT 3,
		est_hours   REAL NOT NULL DEFAULT 0,
		due_date    TEXT,
		created_by  TEXT REFERENCES users(id) ON DELETE SET NULL,
		created_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS task_assignments (
		id          TEXT PRIMARY KEY,
		task_id     TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		user_id     TEXT REFERENCES users(id) ON DELETE CASCADE,
		machine_id  TEXT REFERENCES machines(id) ON DELETE SET NULL,
		assigned_at TEXT NOT NULL,
		UNIQUE(task_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS comments (
		id         TEXT PRIMARY KEY,
		task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		user_id    TEXT REFERENCES users(id) ON DELETE SET NULL,
		body       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS audits (
		id          TEXT PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id   TEXT NOT NULL,
		action      TEXT NOT NULL
		            CHECK(action IN ('create','update','delete','assign','unassign','comment')),
		actor_id    TEXT REFERENCES users(id) ON DELETE SET NULL,
		diff        TEXT NOT NULL DEFAULT '{}',
		at          TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_state ON tasks(state)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_date)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_task ON task_assignments(task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_user ON task_assignments(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_task ON comments(task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audits_entity ON audits(entity_type, entity_id)`,
}

// tables in child-first order, used by Reset.
var tables = []string{
	"audits", "comments", "task_assignments", "tasks", "projects", "machines", "users",
}

// Migrate applies all schema statements.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Reset drops every table and re-runs the migrations. Used by
// `shopfloor init --reset`.
func Reset(db *sql.DB) error {
	for _, table := range tables {
		if _, err := db.Exec(`DROP TABLE IF EXISTS ` + table); err != nil {
			return fmt.Errorf("dropping %s: %w", table, err)
		}
	}
	return Migrate(db)
}
