package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/db"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/repository"
)

// tableTasks and friends name the audited tables.
const (
	tableTasks        = "tasks"
	tableDependencies = "task_dependencies"
)

// taskSnapshot serializes a task for an audit before/after column.
func taskSnapshot(t *domain.Task) *string {
	if t == nil {
		return nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}

// depSnapshot serializes a dependency edge for an audit before/after column.
func depSnapshot(d *domain.Dependency) *string {
	if d == nil {
		return nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil
	}
	s := string(data)
	return &s
}

// appendAudit writes one audit entry inside the caller's transaction. It is
// how every mutating operation makes its change and its trail atomic.
func appendAudit(
	ctx context.Context,
	tx db.DBTX,
	tenantID, tableName, recordID string,
	action domain.AuditAction,
	actorID string,
	oldValues, newValues *string,
	at time.Time,
) error {
	audit := repository.NewSQLiteAuditRepo(tx)
	return audit.Insert(ctx, &domain.AuditLog{
		TenantID:  tenantID,
		TableName: tableName,
		RecordID:  recordID,
		Action:    action,
		UserID:    actorID,
		OldValues: oldValues,
		NewValues: newValues,
		CreatedAt: at,
	})
}

// tenantForProject resolves the tenant that owns a project, inside the
// caller's transaction.
func tenantForProject(ctx context.Context, tx db.DBTX, projectID string) (string, error) {
	project, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID)
	if err != nil {
		return "", err
	}
	return project.TenantID, nil
}
