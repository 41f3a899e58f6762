package importer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertBatch(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	entries, err := ConvertBatch(validSchema(), now)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "tenant-1", first.TenantID)
	assert.Equal(t, "tasks", first.TableName)
	assert.Equal(t, domain.ActionCreate, first.Action)
	assert.Equal(t, "user-1", first.UserID)
	assert.Nil(t, first.OldValues)
	require.NotNil(t, first.NewValues)
	assert.JSONEq(t, `{"title":"Ship"}`, *first.NewValues)
	assert.Equal(t, now, first.CreatedAt, "missing created_at falls back to the default")

	second := entries[1]
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), second.CreatedAt)
	require.NotNil(t, second.OldValues)
	assert.JSONEq(t, `{"title":"Ship"}`, *second.OldValues)
}

func TestConvertBatch_NormalizesOffsetsToUTC(t *testing.T) {
	schema := validSchema()
	schema.Entries[1].CreatedAt = "2024-06-01T09:00:00+09:00"

	entries, err := ConvertBatch(schema, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	got := entries[1].CreatedAt
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestLoadBatchSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	content := `tenant_id: tenant-1
entries:
  - table: tasks
    record: t1
    action: CREATE
    actor: user-1
    new:
      title: Ship it
  - table: task_dependencies
    record: d1
    action: DELETE
    actor: user-2
    old:
      type: FS
    created_at: "2024-03-01T09:00:00Z"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	schema, err := LoadBatchSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", schema.TenantID)
	require.Len(t, schema.Entries, 2)
	assert.Equal(t, "Ship it", schema.Entries[0].New["title"])
	assert.Equal(t, "DELETE", schema.Entries[1].Action)
	assert.Empty(t, ValidateBatchSchema(schema))
}

func TestLoadBatchSchema_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entries: {not: [a, list"), 0o644))

	_, err := LoadBatchSchema(path)
	require.Error(t, err)
}
