package repository

import (
	"context"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/domain"
)

type TenantRepo interface {
	Create(ctx context.Context, t *domain.Tenant) error
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	List(ctx context.Context) ([]*domain.Tenant, error)
	Update(ctx context.Context, t *domain.Tenant) error
	Delete(ctx context.Context, id string) error
}

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type StatusRepo interface {
	Create(ctx context.Context, s *domain.Status) error
	GetByID(ctx context.Context, id string) (*domain.Status, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Status, error)
	Update(ctx context.Context, s *domain.Status) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	ListChildren(ctx context.Context, parentTaskID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type DependencyRepo interface {
	Create(ctx context.Context, d *domain.Dependency) error
	GetByID(ctx context.Context, id string) (*domain.Dependency, error)
	UpdateType(ctx context.Context, id string, depType domain.DependencyType) error
	Delete(ctx context.Context, id string) error
	ListPredecessors(ctx context.Context, taskID string) ([]domain.Dependency, error)
	ListSuccessors(ctx context.Context, taskID string) ([]domain.Dependency, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error)
	ListBlocking(ctx context.Context, taskID string) ([]*domain.Task, error)
	ListBlockedBy(ctx context.Context, taskID string) ([]*domain.Task, error)
}

// AuditQuery filters audit entries. Zero-valued fields are ignored; set
// fields combine with logical AND.
type AuditQuery struct {
	TableName string
	Action    domain.AuditAction
	From      *time.Time
	To        *time.Time
}

type AuditRepo interface {
	Insert(ctx context.Context, e *domain.AuditLog) error
	ListByRecord(ctx context.Context, tableName, recordID string) ([]*domain.AuditLog, error)
	ListByActorWindow(ctx context.Context, tenantID string, from, to time.Time) ([]*domain.AuditEntryWithActor, error)
	Paginate(ctx context.Context, tenantID string, page, size int) ([]*domain.AuditLog, int64, error)
	CountByActor(ctx context.Context, tenantID string) ([]domain.ActorActionCount, error)
	Latest(ctx context.Context, tableName, recordID string) (*domain.AuditLog, error)
	Filter(ctx context.Context, tenantID string, q AuditQuery) ([]*domain.AuditLog, error)
	Purge(ctx context.Context, tenantID string, olderThan time.Time) (int64, error)
}
