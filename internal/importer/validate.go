package importer

import (
	"fmt"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/domain"
)

// ValidateBatchSchema checks the import schema before conversion. Returns a
// slice of all validation errors found, so a bad file reports every problem
// in one pass.
func ValidateBatchSchema(schema *BatchSchema) []error {
	var errs []error

	if schema.TenantID == "" {
		errs = append(errs, fmt.Errorf("tenant_id is required"))
	}
	if len(schema.Entries) == 0 {
		errs = append(errs, fmt.Errorf("entries is empty"))
	}

	for i, e := range schema.Entries {
		prefix := fmt.Sprintf("entries[%d]", i)

		if e.Table == "" {
			errs = append(errs, fmt.Errorf("%s.table is required", prefix))
		}
		if e.Record == "" {
			errs = append(errs, fmt.Errorf("%s.record is required", prefix))
		}
		if e.Actor == "" {
			errs = append(errs, fmt.Errorf("%s.actor is required", prefix))
		}

		if e.Action == "" {
			errs = append(errs, fmt.Errorf("%s.action is required", prefix))
		} else if !domain.ValidAuditActions[e.Action] {
			errs = append(errs, fmt.Errorf("%s.action: invalid value %q (expected CREATE, UPDATE, or DELETE)", prefix, e.Action))
		}

		switch e.Action {
		case "CREATE":
			if len(e.Old) > 0 {
				errs = append(errs, fmt.Errorf("%s: CREATE entries must not carry an old snapshot", prefix))
			}
		case "DELETE":
			if len(e.New) > 0 {
				errs = append(errs, fmt.Errorf("%s: DELETE entries must not carry a new snapshot", prefix))
			}
		}

		if e.CreatedAt != "" {
			if _, err := time.Parse(time.RFC3339, e.CreatedAt); err != nil {
				errs = append(errs, fmt.Errorf("%s.created_at: invalid timestamp %q (expected RFC 3339)", prefix, e.CreatedAt))
			}
		}
	}

	return errs
}
