package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSchema() *BatchSchema {
	return &BatchSchema{
		TenantID: "tenant-1",
		Entries: []EntryImport{
			{Table: "tasks", Record: "t1", Action: "CREATE", Actor: "user-1",
				New: map[string]any{"title": "Ship"}},
			{Table: "tasks", Record: "t1", Action: "UPDATE", Actor: "user-1",
				Old: map[string]any{"title": "Ship"}, New: map[string]any{"title": "Ship v2"},
				CreatedAt: "2024-03-01T09:00:00Z"},
		},
	}
}

func TestValidateBatchSchema_Valid(t *testing.T) {
	assert.Empty(t, ValidateBatchSchema(validSchema()))
}

func TestValidateBatchSchema_MissingFields(t *testing.T) {
	schema := &BatchSchema{
		Entries: []EntryImport{{}},
	}
	errs := ValidateBatchSchema(schema)
	require.NotEmpty(t, errs)

	var messages []string
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	assert.Contains(t, messages, "tenant_id is required")
	assert.Contains(t, messages, "entries[0].table is required")
	assert.Contains(t, messages, "entries[0].record is required")
	assert.Contains(t, messages, "entries[0].actor is required")
	assert.Contains(t, messages, "entries[0].action is required")
}

func TestValidateBatchSchema_UnknownAction(t *testing.T) {
	schema := validSchema()
	schema.Entries[0].Action = "ARCHIVE"
	errs := ValidateBatchSchema(schema)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "invalid value")
}

func TestValidateBatchSchema_SnapshotShapeMismatch(t *testing.T) {
	schema := validSchema()
	schema.Entries[0].Old = map[string]any{"title": "ghost of a row that never existed"}
	errs := ValidateBatchSchema(schema)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "CREATE entries must not carry an old snapshot")
}

func TestValidateBatchSchema_BadTimestamp(t *testing.T) {
	schema := validSchema()
	schema.Entries[1].CreatedAt = "2024-03-01"
	errs := ValidateBatchSchema(schema)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "RFC 3339")
}

func TestValidateBatchSchema_EmptyEntries(t *testing.T) {
	schema := &BatchSchema{TenantID: "tenant-1"}
	errs := ValidateBatchSchema(schema)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "entries is empty")
}
