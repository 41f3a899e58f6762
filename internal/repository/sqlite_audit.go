package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/db"
	"github.com/karlrobeck/SovereignTask/internal/domain"
)

const auditColumns = `seq, tenant_id, table_name, record_id, action, user_id,
		old_values, new_values, created_at`

// SQLiteAuditRepo implements AuditRepo using a SQLite database. Entries are
// insert-only; there is no update path by construction.
type SQLiteAuditRepo struct {
	db db.DBTX
}

// NewSQLiteAuditRepo creates a new SQLiteAuditRepo.
func NewSQLiteAuditRepo(dbtx db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: dbtx}
}

func (r *SQLiteAuditRepo) Insert(ctx context.Context, e *domain.AuditLog) error {
	query := `INSERT INTO audit_logs (tenant_id, table_name, record_id, action, user_id,
		old_values, new_values, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		e.TenantID,
		e.TableName,
		e.RecordID,
		string(e.Action),
		e.UserID,
		nullableStrToValue(e.OldValues),
		nullableStrToValue(e.NewValues),
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry for %s/%s: %w", e.TableName, e.RecordID, err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading audit sequence: %w", err)
	}
	e.Seq = seq
	return nil
}

func (r *SQLiteAuditRepo) ListByRecord(ctx context.Context, tableName, recordID string) ([]*domain.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs
		WHERE table_name = ? AND record_id = ?
		ORDER BY seq DESC`
	rows, err := r.db.QueryContext(ctx, query, tableName, recordID)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries for %s/%s: %w", tableName, recordID, err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLiteAuditRepo) ListByActorWindow(ctx context.Context, tenantID string, from, to time.Time) ([]*domain.AuditEntryWithActor, error) {
	query := `SELECT a.seq, a.tenant_id, a.table_name, a.record_id, a.action, a.user_id,
			a.old_values, a.new_values, a.created_at, u.email, u.display_name
		FROM audit_logs a
		JOIN users u ON a.user_id = u.id
		WHERE a.tenant_id = ? AND a.created_at >= ? AND a.created_at <= ?
		ORDER BY a.seq DESC`
	rows, err := r.db.QueryContext(ctx, query, tenantID,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("listing audit entries with actors for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntryWithActor
	for rows.Next() {
		var e domain.AuditEntryWithActor
		var actionStr, createdAtStr string
		var oldStr, newStr sql.NullString
		if err := rows.Scan(
			&e.Seq, &e.TenantID, &e.TableName, &e.RecordID, &actionStr, &e.UserID,
			&oldStr, &newStr, &createdAtStr, &e.ActorEmail, &e.ActorDisplayName,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry with actor: %w", err)
		}
		e.Action = domain.AuditAction(actionStr)
		e.OldValues = nullStrToPtr(oldStr)
		e.NewValues = nullStrToPtr(newStr)
		parsed, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		e.CreatedAt = parsed
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries with actors: %w", err)
	}
	return entries, nil
}

// Paginate returns one page of the tenant's entries, newest first, along
// with the total entry count. Pages are 1-based.
func (r *SQLiteAuditRepo) Paginate(ctx context.Context, tenantID string, page, size int) ([]*domain.AuditLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM audit_logs WHERE tenant_id = ?`
	if err := r.db.QueryRowContext(ctx, countQuery, tenantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting audit entries for tenant %s: %w", tenantID, err)
	}

	query := `SELECT ` + auditColumns + ` FROM audit_logs
		WHERE tenant_id = ?
		ORDER BY seq DESC
		LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, tenantID, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("paginating audit entries for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	entries, err := r.scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *SQLiteAuditRepo) CountByActor(ctx context.Context, tenantID string) ([]domain.ActorActionCount, error) {
	query := `SELECT user_id, action, COUNT(*)
		FROM audit_logs
		WHERE tenant_id = ?
		GROUP BY user_id, action
		ORDER BY user_id, action`
	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("counting audit entries by actor for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	var counts []domain.ActorActionCount
	for rows.Next() {
		var c domain.ActorActionCount
		var actionStr string
		if err := rows.Scan(&c.UserID, &actionStr, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning actor action count: %w", err)
		}
		c.Action = domain.AuditAction(actionStr)
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating actor action counts: %w", err)
	}
	return counts, nil
}

func (r *SQLiteAuditRepo) Latest(ctx context.Context, tableName, recordID string) (*domain.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs
		WHERE table_name = ? AND record_id = ?
		ORDER BY seq DESC
		LIMIT 1`
	row := r.db.QueryRowContext(ctx, query, tableName, recordID)
	return r.scanEntry(row)
}

func (r *SQLiteAuditRepo) Filter(ctx context.Context, tenantID string, q AuditQuery) ([]*domain.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE tenant_id = ?`
	args := []any{tenantID}

	if q.TableName != "" {
		query += ` AND table_name = ?`
		args = append(args, q.TableName)
	}
	if q.Action != "" {
		query += ` AND action = ?`
		args = append(args, string(q.Action))
	}
	if q.From != nil {
		query += ` AND created_at >= ?`
		args = append(args, q.From.UTC().Format(time.RFC3339))
	}
	if q.To != nil {
		query += ` AND created_at <= ?`
		args = append(args, q.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY seq DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filtering audit entries for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

// Purge removes the tenant's entries older than the cutoff and reports how
// many were removed. Retention's one exception to immutability.
func (r *SQLiteAuditRepo) Purge(ctx context.Context, tenantID string, olderThan time.Time) (int64, error) {
	query := `DELETE FROM audit_logs WHERE tenant_id = ? AND created_at < ?`
	res, err := r.db.ExecContext(ctx, query, tenantID, olderThan.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("purging audit entries for tenant %s: %w", tenantID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading purge row count: %w", err)
	}
	return n, nil
}

// scanEntry scans a single audit entry from a *sql.Row.
func (r *SQLiteAuditRepo) scanEntry(row *sql.Row) (*domain.AuditLog, error) {
	var e domain.AuditLog
	var actionStr, createdAtStr string
	var oldStr, newStr sql.NullString

	err := row.Scan(&e.Seq, &e.TenantID, &e.TableName, &e.RecordID, &actionStr, &e.UserID,
		&oldStr, &newStr, &createdAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("audit entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning audit entry: %w", err)
	}

	e.Action = domain.AuditAction(actionStr)
	e.OldValues = nullStrToPtr(oldStr)
	e.NewValues = nullStrToPtr(newStr)
	parsed, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	e.CreatedAt = parsed
	return &e, nil
}

// scanEntries scans multiple audit entries from *sql.Rows.
func (r *SQLiteAuditRepo) scanEntries(rows *sql.Rows) ([]*domain.AuditLog, error) {
	var entries []*domain.AuditLog
	for rows.Next() {
		var e domain.AuditLog
		var actionStr, createdAtStr string
		var oldStr, newStr sql.NullString

		if err := rows.Scan(&e.Seq, &e.TenantID, &e.TableName, &e.RecordID, &actionStr, &e.UserID,
			&oldStr, &newStr, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning audit entry row: %w", err)
		}

		e.Action = domain.AuditAction(actionStr)
		e.OldValues = nullStrToPtr(oldStr)
		e.NewValues = nullStrToPtr(newStr)
		parsed, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		e.CreatedAt = parsed
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return entries, nil
}
