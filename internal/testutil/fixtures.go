package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/karlrobeck/SovereignTask/internal/domain"
)

func NewTestTenant(name string) *domain.Tenant {
	now := time.Now().UTC()
	return &domain.Tenant{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestUser(tenantID, email string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Email:       email,
		DisplayName: email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func NewTestProject(tenantID, name string) *domain.Project {
	now := time.Now().UTC()
	return &domain.Project{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestStatus(projectID, name string) *domain.Status {
	now := time.Now().UTC()
	return &domain.Status{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Task options
type TaskOption func(*domain.Task)

func WithParentTask(id string) TaskOption {
	return func(t *domain.Task) {
		t.ParentTaskID = &id
	}
}

func WithAssignee(userID string) TaskOption {
	return func(t *domain.Task) {
		t.AssigneeID = &userID
	}
}

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithStartDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartDate = &d
	}
}

func WithDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func WithEstimatedMinutes(m int) TaskOption {
	return func(t *domain.Task) {
		t.EstimatedMinutes = m
	}
}

func NewTestTask(projectID, statusID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		StatusID:   statusID,
		Title:      title,
		Priority:   domain.PriorityMedium,
		RowVersion: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestDependency(predecessorID, successorID string) *domain.Dependency {
	return &domain.Dependency{
		ID:                uuid.New().String(),
		PredecessorTaskID: predecessorID,
		SuccessorTaskID:   successorID,
		Type:              domain.DepFinishToStart,
		CreatedAt:         time.Now().UTC(),
	}
}

func NewTestAuditEntry(tenantID, userID, table, recordID string, action domain.AuditAction) *domain.AuditLog {
	return &domain.AuditLog{
		TenantID:  tenantID,
		TableName: table,
		RecordID:  recordID,
		Action:    action,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}
