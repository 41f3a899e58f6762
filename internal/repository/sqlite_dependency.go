package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/db"
	"github.com/karlrobeck/SovereignTask/internal/domain"
)

const dependencyColumns = `id, predecessor_task_id, successor_task_id, dep_type, created_at`

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a new SQLiteDependencyRepo.
func NewSQLiteDependencyRepo(dbtx db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: dbtx}
}

func (r *SQLiteDependencyRepo) Create(ctx context.Context, d *domain.Dependency) error {
	query := `INSERT INTO task_dependencies (` + dependencyColumns + `) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.PredecessorTaskID,
		d.SuccessorTaskID,
		string(d.Type),
		d.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting dependency %s: %w", d.ID, err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) GetByID(ctx context.Context, id string) (*domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM task_dependencies WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var d domain.Dependency
	var typeStr, createdAtStr string
	err := row.Scan(&d.ID, &d.PredecessorTaskID, &d.SuccessorTaskID, &typeStr, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("dependency %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning dependency: %w", err)
	}
	d.Type = domain.DependencyType(typeStr)
	d.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &d, nil
}

// UpdateType changes only the edge's type tag. The topology is unchanged,
// so no acyclicity re-validation happens here or in the caller.
func (r *SQLiteDependencyRepo) UpdateType(ctx context.Context, id string, depType domain.DependencyType) error {
	query := `UPDATE task_dependencies SET dep_type = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, string(depType), id)
	if err != nil {
		return fmt.Errorf("updating dependency %s type: %w", id, err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM task_dependencies WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting dependency %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) ListPredecessors(ctx context.Context, taskID string) ([]domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + `
		FROM task_dependencies WHERE successor_task_id = ?`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing predecessors of task %s: %w", taskID, err)
	}
	defer rows.Close()
	return r.scanDependencies(rows)
}

func (r *SQLiteDependencyRepo) ListSuccessors(ctx context.Context, taskID string) ([]domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + `
		FROM task_dependencies WHERE predecessor_task_id = ?`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing successors of task %s: %w", taskID, err)
	}
	defer rows.Close()
	return r.scanDependencies(rows)
}

// ListByProject returns every edge whose successor belongs to the project.
// Edge creation rejects cross-project endpoints, so this covers the whole
// graph.
func (r *SQLiteDependencyRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	query := `SELECT d.id, d.predecessor_task_id, d.successor_task_id, d.dep_type, d.created_at
		FROM task_dependencies d
		JOIN tasks t ON d.successor_task_id = t.id
		WHERE t.project_id = ?`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies for project %s: %w", projectID, err)
	}
	defer rows.Close()
	return r.scanDependencies(rows)
}

// ListBlocking returns the tasks that must finish before taskID can start.
func (r *SQLiteDependencyRepo) ListBlocking(ctx context.Context, taskID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumnsAliased + `
		FROM task_dependencies d
		JOIN tasks t ON d.predecessor_task_id = t.id
		WHERE d.successor_task_id = ?
		ORDER BY t.created_at, t.id`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks blocking %s: %w", taskID, err)
	}
	defer rows.Close()
	return (&SQLiteTaskRepo{db: r.db}).scanTasks(rows)
}

// ListBlockedBy returns the tasks that cannot start until taskID finishes.
func (r *SQLiteDependencyRepo) ListBlockedBy(ctx context.Context, taskID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumnsAliased + `
		FROM task_dependencies d
		JOIN tasks t ON d.successor_task_id = t.id
		WHERE d.predecessor_task_id = ?
		ORDER BY t.created_at, t.id`
	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks blocked by %s: %w", taskID, err)
	}
	defer rows.Close()
	return (&SQLiteTaskRepo{db: r.db}).scanTasks(rows)
}

// scanDependencies scans multiple dependency rows from *sql.Rows.
func (r *SQLiteDependencyRepo) scanDependencies(rows *sql.Rows) ([]domain.Dependency, error) {
	var deps []domain.Dependency
	for rows.Next() {
		var d domain.Dependency
		var typeStr, createdAtStr string
		if err := rows.Scan(&d.ID, &d.PredecessorTaskID, &d.SuccessorTaskID, &typeStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		d.Type = domain.DependencyType(typeStr)
		parsed, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		d.CreatedAt = parsed
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}
