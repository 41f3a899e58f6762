package service

import (
	"context"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/repository"
)

// TaskUpdate carries field edits for a task. Nil pointers leave the field
// unchanged; the Clear flags reset the optional dates to unset.
type TaskUpdate struct {
	Title            *string
	Description      *string
	Priority         *domain.Priority
	StartDate        *time.Time
	DueDate          *time.Time
	ClearStartDate   bool
	ClearDueDate     bool
	EstimatedMinutes *int
}

// TaskService owns field-level task mutation. Every successful mutation
// increments the task's row_version by exactly 1 and refreshes updated_at.
// Passing a non-nil expected version turns the write into a compare-and-set:
// a mismatch fails with ErrVersionConflict and writes nothing. A nil
// expected version preserves last-write-wins.
type TaskService interface {
	Create(ctx context.Context, t *domain.Task, actorID string) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, taskID string, upd TaskUpdate, expected *int64, actorID string) (*domain.Task, error)
	Assign(ctx context.Context, taskID, userID string, expected *int64, actorID string) (*domain.Task, error)
	Unassign(ctx context.Context, taskID string, expected *int64, actorID string) (*domain.Task, error)
	MoveStatus(ctx context.Context, taskID, statusID string, expected *int64, actorID string) (*domain.Task, error)
}

// HierarchyService owns the parent/child tree of tasks.
type HierarchyService interface {
	// SetParent reparents a task. A nil parentID clears the parent. Fails
	// with ErrCycleDetected if parentID is the task itself or one of its
	// descendants, leaving the tree unchanged.
	SetParent(ctx context.Context, taskID string, parentID *string, expected *int64, actorID string) (*domain.Task, error)
	// ListSubtasks returns direct children only; deep traversal is the
	// caller's responsibility via repeated shallow calls.
	ListSubtasks(ctx context.Context, taskID string) ([]*domain.Task, error)
	// DeleteTask removes the task and its whole subtree depth-first, with
	// one audit entry per deleted task, all in one transaction.
	DeleteTask(ctx context.Context, taskID, actorID string) error
}

// DependencyService owns the predecessor -> successor edge graph.
type DependencyService interface {
	Create(ctx context.Context, predecessorID, successorID string, depType domain.DependencyType, actorID string) (*domain.Dependency, error)
	// WouldCycle reports whether adding predecessor -> successor would close
	// a cycle, without mutating anything.
	WouldCycle(ctx context.Context, predecessorID, successorID string) (bool, error)
	UpdateType(ctx context.Context, depID string, depType domain.DependencyType, actorID string) (*domain.Dependency, error)
	Delete(ctx context.Context, depID, actorID string) error
	ListPredecessors(ctx context.Context, taskID string) ([]domain.Dependency, error)
	ListSuccessors(ctx context.Context, taskID string) ([]domain.Dependency, error)
	ListBlocking(ctx context.Context, taskID string) ([]*domain.Task, error)
	ListBlockedBy(ctx context.Context, taskID string) ([]*domain.Task, error)
	// CriticalPath returns the tasks reachable from the project's root tasks
	// (tasks with no incoming edge) ordered by start date. It is a
	// reachability pass, not a duration-weighted CPM computation.
	CriticalPath(ctx context.Context, projectID string) ([]*domain.Task, error)
}

// AuditService is the public surface of the change history.
type AuditService interface {
	Append(ctx context.Context, e *domain.AuditLog) (*domain.AuditLog, error)
	// AppendBatch applies all entries atomically: if any single append
	// fails, zero entries from the batch are visible and the call fails
	// with ErrBatchAborted wrapping the cause.
	AppendBatch(ctx context.Context, tenantID string, entries []*domain.AuditLog) error
	ListByRecord(ctx context.Context, tableName, recordID string) ([]*domain.AuditLog, error)
	ListByActorWindow(ctx context.Context, tenantID string, from, to time.Time) ([]*domain.AuditEntryWithActor, error)
	Paginate(ctx context.Context, tenantID string, page, size int) ([]*domain.AuditLog, int64, error)
	CountByActor(ctx context.Context, tenantID string) ([]domain.ActorActionCount, error)
	Latest(ctx context.Context, tableName, recordID string) (*domain.AuditLog, error)
	Filter(ctx context.Context, tenantID string, q repository.AuditQuery) ([]*domain.AuditLog, error)
	Purge(ctx context.Context, tenantID string, olderThan time.Time) (int64, error)
}

type TenantService interface {
	Create(ctx context.Context, t *domain.Tenant) error
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	List(ctx context.Context) ([]*domain.Tenant, error)
	Update(ctx context.Context, t *domain.Tenant) error
	Delete(ctx context.Context, id string) error
}

type UserService interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type StatusService interface {
	Create(ctx context.Context, s *domain.Status) error
	GetByID(ctx context.Context, id string) (*domain.Status, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Status, error)
	Update(ctx context.Context, s *domain.Status) error
	Delete(ctx context.Context, id string) error
}
