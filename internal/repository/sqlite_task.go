package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/db"
	"github.com/karlrobeck/SovereignTask/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, project_id, parent_task_id, status_id, assignee_id,
		title, description, priority, start_date, due_date, estimated_minutes,
		row_version, created_at, updated_at`

// taskColumnsAliased is the same column list prefixed with "t." for join queries.
const taskColumnsAliased = `t.id, t.project_id, t.parent_task_id, t.status_id, t.assignee_id,
		t.title, t.description, t.priority, t.start_date, t.due_date, t.estimated_minutes,
		t.row_version, t.created_at, t.updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(dbtx db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: dbtx}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableStrToValue(t.ParentTaskID),
		t.StatusID,
		nullableStrToValue(t.AssigneeID),
		t.Title,
		t.Description,
		int(t.Priority),
		nullableTimeToString(t.StartDate, time.RFC3339),
		nullableTimeToString(t.DueDate, time.RFC3339),
		t.EstimatedMinutes,
		t.RowVersion,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task %s: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanTask(row)
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks for project %s: %w", projectID, err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) ListChildren(ctx context.Context, parentTaskID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE parent_task_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, parentTaskID)
	if err != nil {
		return nil, fmt.Errorf("listing children of task %s: %w", parentTaskID, err)
	}
	defer rows.Close()
	return r.scanTasks(rows)
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET parent_task_id = ?, status_id = ?, assignee_id = ?,
		title = ?, description = ?, priority = ?, start_date = ?, due_date = ?,
		estimated_minutes = ?, row_version = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableStrToValue(t.ParentTaskID),
		t.StatusID,
		nullableStrToValue(t.AssigneeID),
		t.Title,
		t.Description,
		int(t.Priority),
		nullableTimeToString(t.StartDate, time.RFC3339),
		nullableTimeToString(t.DueDate, time.RFC3339),
		t.EstimatedMinutes,
		t.RowVersion,
		t.UpdatedAt.Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}

// scanTask scans a single task from a *sql.Row.
func (r *SQLiteTaskRepo) scanTask(row *sql.Row) (*domain.Task, error) {
	var t domain.Task
	var parentStr, assigneeStr, startStr, dueStr sql.NullString
	var priorityInt int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&t.ID, &t.ProjectID, &parentStr, &t.StatusID, &assigneeStr,
		&t.Title, &t.Description, &priorityInt, &startStr, &dueStr, &t.EstimatedMinutes,
		&t.RowVersion, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	return r.populateTask(&t, parentStr, assigneeStr, startStr, dueStr, priorityInt, createdAtStr, updatedAtStr)
}

// scanTasks scans multiple tasks from *sql.Rows.
func (r *SQLiteTaskRepo) scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		var parentStr, assigneeStr, startStr, dueStr sql.NullString
		var priorityInt int
		var createdAtStr, updatedAtStr string

		err := rows.Scan(
			&t.ID, &t.ProjectID, &parentStr, &t.StatusID, &assigneeStr,
			&t.Title, &t.Description, &priorityInt, &startStr, &dueStr, &t.EstimatedMinutes,
			&t.RowVersion, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}

		task, err := r.populateTask(&t, parentStr, assigneeStr, startStr, dueStr, priorityInt, createdAtStr, updatedAtStr)
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

// populateTask fills in parsed fields on a Task after scanning raw values.
func (r *SQLiteTaskRepo) populateTask(
	t *domain.Task,
	parentStr, assigneeStr, startStr, dueStr sql.NullString,
	priorityInt int,
	createdAtStr, updatedAtStr string,
) (*domain.Task, error) {
	t.ParentTaskID = nullStrToPtr(parentStr)
	t.AssigneeID = nullStrToPtr(assigneeStr)
	t.Priority = domain.Priority(priorityInt)
	t.StartDate = parseNullableTime(startStr, time.RFC3339)
	t.DueDate = parseNullableTime(dueStr, time.RFC3339)

	if err := parseTimestamps(&t.CreatedAt, &t.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return t, nil
}
