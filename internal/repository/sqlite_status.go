package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/db"
	"github.com/karlrobeck/SovereignTask/internal/domain"
)

// SQLiteStatusRepo implements StatusRepo using a SQLite database.
type SQLiteStatusRepo struct {
	db db.DBTX
}

// NewSQLiteStatusRepo creates a new SQLiteStatusRepo.
func NewSQLiteStatusRepo(dbtx db.DBTX) *SQLiteStatusRepo {
	return &SQLiteStatusRepo{db: dbtx}
}

const statusColumns = `id, project_id, name, order_index, is_terminal, created_at, updated_at`

func (r *SQLiteStatusRepo) Create(ctx context.Context, s *domain.Status) error {
	query := `INSERT INTO statuses (` + statusColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.ProjectID,
		s.Name,
		s.OrderIndex,
		boolToInt(s.IsTerminal),
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting status %s: %w", s.ID, err)
	}
	return nil
}

func (r *SQLiteStatusRepo) GetByID(ctx context.Context, id string) (*domain.Status, error) {
	query := `SELECT ` + statusColumns + ` FROM statuses WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var s domain.Status
	var terminalInt int
	var createdAtStr, updatedAtStr string
	err := row.Scan(&s.ID, &s.ProjectID, &s.Name, &s.OrderIndex, &terminalInt, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("status %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning status: %w", err)
	}
	s.IsTerminal = intToBool(terminalInt)
	if err := parseTimestamps(&s.CreatedAt, &s.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteStatusRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Status, error) {
	query := `SELECT ` + statusColumns + ` FROM statuses WHERE project_id = ? ORDER BY order_index`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing statuses for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var statuses []*domain.Status
	for rows.Next() {
		var s domain.Status
		var terminalInt int
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.OrderIndex, &terminalInt, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning status row: %w", err)
		}
		s.IsTerminal = intToBool(terminalInt)
		if err := parseTimestamps(&s.CreatedAt, &s.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		statuses = append(statuses, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating statuses: %w", err)
	}
	return statuses, nil
}

func (r *SQLiteStatusRepo) Update(ctx context.Context, s *domain.Status) error {
	query := `UPDATE statuses SET name = ?, order_index = ?, is_terminal = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		s.Name, s.OrderIndex, boolToInt(s.IsTerminal), s.UpdatedAt.Format(time.RFC3339), s.ID)
	if err != nil {
		return fmt.Errorf("updating status %s: %w", s.ID, err)
	}
	return nil
}

func (r *SQLiteStatusRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM statuses WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting status %s: %w", id, err)
	}
	return nil
}
