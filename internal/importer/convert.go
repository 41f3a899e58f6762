package importer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/domain"
)

// ConvertBatch turns a validated schema into audit entries ready for
// AppendBatch. Entries without a created_at get the provided default.
func ConvertBatch(schema *BatchSchema, defaultCreatedAt time.Time) ([]*domain.AuditLog, error) {
	entries := make([]*domain.AuditLog, 0, len(schema.Entries))

	for i, e := range schema.Entries {
		old, err := snapshotJSON(e.Old)
		if err != nil {
			return nil, fmt.Errorf("entries[%d].old: %w", i, err)
		}
		neu, err := snapshotJSON(e.New)
		if err != nil {
			return nil, fmt.Errorf("entries[%d].new: %w", i, err)
		}

		createdAt := defaultCreatedAt
		if e.CreatedAt != "" {
			createdAt, err = time.Parse(time.RFC3339, e.CreatedAt)
			if err != nil {
				return nil, fmt.Errorf("entries[%d].created_at: %w", i, err)
			}
			// Offsets are accepted on input but storage and window
			// comparisons are UTC-only.
			createdAt = createdAt.UTC()
		}

		entries = append(entries, &domain.AuditLog{
			TenantID:  schema.TenantID,
			TableName: e.Table,
			RecordID:  e.Record,
			Action:    domain.AuditAction(e.Action),
			UserID:    e.Actor,
			OldValues: old,
			NewValues: neu,
			CreatedAt: createdAt,
		})
	}

	return entries, nil
}

func snapshotJSON(m map[string]any) (*string, error) {
	if len(m) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	s := string(data)
	return &s, nil
}
