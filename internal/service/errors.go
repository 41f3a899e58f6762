package service

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching. The structured error types below carry
// the identifying detail and map onto these through Is.
var (
	ErrCycleDetected   = errors.New("cycle detected")
	ErrVersionConflict = errors.New("version conflict")
	ErrBatchAborted    = errors.New("audit batch aborted")
)

// CycleError reports that linking FromID to ToID (as parent/child or as
// predecessor/successor) would close a cycle. Both ids are always set so the
// caller can name the conflicting pair.
type CycleError struct {
	FromID string
	ToID   string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("linking %s -> %s would create a cycle", e.FromID, e.ToID)
}

func (e *CycleError) Is(target error) bool { return target == ErrCycleDetected }

// VersionConflictError reports a stale write: the caller supplied an
// expected version that no longer matches the stored row_version.
type VersionConflictError struct {
	TaskID   string
	Expected int64
	Actual   int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("task %s: expected version %d, stored version is %d", e.TaskID, e.Expected, e.Actual)
}

func (e *VersionConflictError) Is(target error) bool { return target == ErrVersionConflict }
