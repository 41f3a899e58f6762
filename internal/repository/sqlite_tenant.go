package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/db"
	"github.com/karlrobeck/SovereignTask/internal/domain"
)

// SQLiteTenantRepo implements TenantRepo over a db.DBTX, so the same repo
// works against the pooled *sql.DB or a transaction handle.
type SQLiteTenantRepo struct {
	db db.DBTX
}

// NewSQLiteTenantRepo creates a new SQLiteTenantRepo.
func NewSQLiteTenantRepo(dbtx db.DBTX) *SQLiteTenantRepo {
	return &SQLiteTenantRepo{db: dbtx}
}

func (r *SQLiteTenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	query := `INSERT INTO tenants (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Name,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting tenant %s: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteTenantRepo) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	query := `SELECT id, name, created_at, updated_at FROM tenants WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanTenant(row)
}

func (r *SQLiteTenantRepo) List(ctx context.Context) ([]*domain.Tenant, error) {
	query := `SELECT id, name, created_at, updated_at FROM tenants ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		var t domain.Tenant
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&t.ID, &t.Name, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning tenant row: %w", err)
		}
		if err := parseTimestamps(&t.CreatedAt, &t.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		tenants = append(tenants, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tenants: %w", err)
	}
	return tenants, nil
}

func (r *SQLiteTenantRepo) Update(ctx context.Context, t *domain.Tenant) error {
	query := `UPDATE tenants SET name = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, t.Name, t.UpdatedAt.Format(time.RFC3339), t.ID)
	if err != nil {
		return fmt.Errorf("updating tenant %s: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteTenantRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tenants WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting tenant %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteTenantRepo) scanTenant(row *sql.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	var createdAtStr, updatedAtStr string
	err := row.Scan(&t.ID, &t.Name, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("tenant: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning tenant: %w", err)
	}
	if err := parseTimestamps(&t.CreatedAt, &t.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &t, nil
}

// parseTimestamps parses the created_at/updated_at pair every table carries.
func parseTimestamps(createdAt, updatedAt *time.Time, createdStr, updatedStr string) error {
	var err error
	*createdAt, err = time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	*updatedAt, err = time.Parse(time.RFC3339, updatedStr)
	if err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}
	return nil
}
