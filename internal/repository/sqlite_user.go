package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/db"
	"github.com/karlrobeck/SovereignTask/internal/domain"
)

// SQLiteUserRepo implements UserRepo using a SQLite database.
type SQLiteUserRepo struct {
	db db.DBTX
}

// NewSQLiteUserRepo creates a new SQLiteUserRepo.
func NewSQLiteUserRepo(dbtx db.DBTX) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: dbtx}
}

const userColumns = `id, tenant_id, email, display_name, created_at, updated_at`

func (r *SQLiteUserRepo) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.TenantID,
		u.Email,
		u.DisplayName,
		u.CreatedAt.Format(time.RFC3339),
		u.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting user %s: %w", u.ID, err)
	}
	return nil
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var u domain.User
	var createdAtStr, updatedAtStr string
	err := row.Scan(&u.ID, &u.TenantID, &u.Email, &u.DisplayName, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	if err := parseTimestamps(&u.CreatedAt, &u.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *SQLiteUserRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = ? ORDER BY email`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing users for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&u.ID, &u.TenantID, &u.Email, &u.DisplayName, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		if err := parseTimestamps(&u.CreatedAt, &u.UpdatedAt, createdAtStr, updatedAtStr); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}
	return users, nil
}

func (r *SQLiteUserRepo) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email = ?, display_name = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, u.Email, u.DisplayName, u.UpdatedAt.Format(time.RFC3339), u.ID)
	if err != nil {
		return fmt.Errorf("updating user %s: %w", u.ID, err)
	}
	return nil
}

func (r *SQLiteUserRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	return nil
}
