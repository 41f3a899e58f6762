package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/db"
	"github.com/karlrobeck/SovereignTask/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(dbtx db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: dbtx}
}

const projectColumns = `id, tenant_id, name, description, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.TenantID,
		p.Name,
		p.Description,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project %s: %w", p.ID, err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var p domain.Project
	var createdAtStr, updatedAtStr string
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	if err := parseTimestamps(&p.CreatedAt, &p.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteProjectRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE tenant_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing projects for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		var p domain.Project
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		if err := parseTimestamps(&p.CreatedAt, &p.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET name = ?, description = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.UpdatedAt.Format(time.RFC3339), p.ID)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", p.ID, err)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	return nil
}
