package service

import (
	"context"
	"fmt"

	"github.com/karlrobeck/SovereignTask/internal/clock"
	"github.com/karlrobeck/SovereignTask/internal/db"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/identity"
	"github.com/karlrobeck/SovereignTask/internal/repository"
)

type taskService struct {
	tasks repository.TaskRepo
	uow   db.UnitOfWork
	clk   clock.Clock
	ids   identity.Generator
}

func NewTaskService(tasks repository.TaskRepo, uow db.UnitOfWork, clk clock.Clock, ids identity.Generator) TaskService {
	return &taskService{tasks: tasks, uow: uow, clk: clk, ids: ids}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task, actorID string) error {
	if t.ID == "" {
		t.ID = s.ids.NewID()
	}
	now := s.clk.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.RowVersion = 1
	if err := t.Validate(); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		tenantID, err := tenantForProject(ctx, tx, t.ProjectID)
		if err != nil {
			return err
		}
		if err := repository.NewSQLiteTaskRepo(tx).Create(ctx, t); err != nil {
			return err
		}
		return appendAudit(ctx, tx, tenantID, tableTasks, t.ID,
			domain.ActionCreate, actorID, nil, taskSnapshot(t), now)
	})
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) Update(ctx context.Context, taskID string, upd TaskUpdate, expected *int64, actorID string) (*domain.Task, error) {
	return s.mutate(ctx, taskID, expected, actorID, func(ctx context.Context, tx db.DBTX, t *domain.Task) error {
		if upd.Title != nil {
			t.Title = *upd.Title
		}
		if upd.Description != nil {
			t.Description = *upd.Description
		}
		if upd.Priority != nil {
			t.Priority = *upd.Priority
		}
		if upd.StartDate != nil {
			t.StartDate = upd.StartDate
		}
		if upd.ClearStartDate {
			t.StartDate = nil
		}
		if upd.DueDate != nil {
			t.DueDate = upd.DueDate
		}
		if upd.ClearDueDate {
			t.DueDate = nil
		}
		if upd.EstimatedMinutes != nil {
			t.EstimatedMinutes = *upd.EstimatedMinutes
		}
		return nil
	})
}

func (s *taskService) Assign(ctx context.Context, taskID, userID string, expected *int64, actorID string) (*domain.Task, error) {
	return s.mutate(ctx, taskID, expected, actorID, func(ctx context.Context, tx db.DBTX, t *domain.Task) error {
		// The assignee must exist; FK enforcement would catch this at write
		// time, but checking here yields a proper NotFound.
		if _, err := repository.NewSQLiteUserRepo(tx).GetByID(ctx, userID); err != nil {
			return err
		}
		t.AssigneeID = &userID
		return nil
	})
}

func (s *taskService) Unassign(ctx context.Context, taskID string, expected *int64, actorID string) (*domain.Task, error) {
	return s.mutate(ctx, taskID, expected, actorID, func(ctx context.Context, tx db.DBTX, t *domain.Task) error {
		t.AssigneeID = nil
		return nil
	})
}

func (s *taskService) MoveStatus(ctx context.Context, taskID, statusID string, expected *int64, actorID string) (*domain.Task, error) {
	return s.mutate(ctx, taskID, expected, actorID, func(ctx context.Context, tx db.DBTX, t *domain.Task) error {
		status, err := repository.NewSQLiteStatusRepo(tx).GetByID(ctx, statusID)
		if err != nil {
			return err
		}
		if status.ProjectID != t.ProjectID {
			return fmt.Errorf("status %s belongs to project %s, task %s is in project %s",
				statusID, status.ProjectID, taskID, t.ProjectID)
		}
		t.StatusID = statusID
		return nil
	})
}

// mutate runs one field-level task mutation as a single transaction:
// read, optional expected-version check, apply, validate, bump row_version,
// write, audit. A version mismatch writes nothing.
func (s *taskService) mutate(
	ctx context.Context,
	taskID string,
	expected *int64,
	actorID string,
	apply func(ctx context.Context, tx db.DBTX, t *domain.Task) error,
) (*domain.Task, error) {
	var out *domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)

		t, err := txTasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if expected != nil && *expected != t.RowVersion {
			return &VersionConflictError{TaskID: taskID, Expected: *expected, Actual: t.RowVersion}
		}

		before := taskSnapshot(t)
		if err := apply(ctx, tx, t); err != nil {
			return err
		}
		if err := t.Validate(); err != nil {
			return err
		}

		t.RowVersion++
		t.UpdatedAt = s.clk.Now()
		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}

		tenantID, err := tenantForProject(ctx, tx, t.ProjectID)
		if err != nil {
			return err
		}
		if err := appendAudit(ctx, tx, tenantID, tableTasks, t.ID,
			domain.ActionUpdate, actorID, before, taskSnapshot(t), t.UpdatedAt); err != nil {
			return err
		}

		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
