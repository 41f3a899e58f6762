package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent; ALTER TABLE
// additions tolerate re-runs via the duplicate-column check.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id           TEXT PRIMARY KEY,
		tenant_id    TEXT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
		email        TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL,
		UNIQUE(tenant_id, email)
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		tenant_id   TEXT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS statuses (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		is_terminal INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		UNIQUE(project_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                TEXT PRIMARY KEY,
		project_id        TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_task_id    TEXT REFERENCES tasks(id) ON DELETE CASCADE,
		status_id         TEXT NOT NULL REFERENCES statuses(id),
		assignee_id       TEXT REFERENCES users(id) ON DELETE SET NULL,
		title             TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		priority          INTEGER NOT NULL DEFAULT 1 CHECK(priority BETWEEN 0 AND 3),
		start_date        TEXT,
		due_date          TEXT,
		estimated_minutes INTEGER NOT NULL DEFAULT 0,
		row_version       INTEGER NOT NULL DEFAULT 1,
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS task_dependencies (
		id                  TEXT PRIMARY KEY,
		predecessor_task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		successor_task_id   TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		dep_type            TEXT NOT NULL DEFAULT 'FS',
		created_at          TEXT NOT NULL
	)`,

	// user_id is RESTRICT on purpose: an audit entry must always be
	// attributable, so a missing actor aborts the insert (and with it the
	// enclosing batch).
	`CREATE TABLE IF NOT EXISTS audit_logs (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		tenant_id  TEXT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
		table_name TEXT NOT NULL,
		record_id  TEXT NOT NULL,
		action     TEXT NOT NULL CHECK(action IN ('CREATE','UPDATE','DELETE')),
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		old_values TEXT,
		new_values TEXT,
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_users_tenant ON users(tenant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_tenant ON projects(tenant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_statuses_project ON statuses(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status_id)`,
	`CREATE INDEX IF NOT EXISTS idx_deps_predecessor ON task_dependencies(predecessor_task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_deps_successor ON task_dependencies(successor_task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_tenant_seq ON audit_logs(tenant_id, seq)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_record ON audit_logs(table_name, record_id)`,
}
