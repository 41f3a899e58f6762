package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BatchSchema is the top-level YAML structure for an audit batch import file.
type BatchSchema struct {
	TenantID string        `yaml:"tenant_id"`
	Entries  []EntryImport `yaml:"entries"`
}

// EntryImport defines one audit entry in the import file. Old and New carry
// freeform snapshots; they are stored as JSON.
type EntryImport struct {
	Table     string         `yaml:"table"`
	Record    string         `yaml:"record"`
	Action    string         `yaml:"action"`
	Actor     string         `yaml:"actor"`
	Old       map[string]any `yaml:"old,omitempty"`
	New       map[string]any `yaml:"new,omitempty"`
	CreatedAt string         `yaml:"created_at,omitempty"`
}

// LoadBatchSchema reads and parses an audit batch import YAML file.
func LoadBatchSchema(path string) (*BatchSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema BatchSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
