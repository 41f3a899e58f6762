package service

import (
	"context"
	"fmt"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/clock"
	"github.com/karlrobeck/SovereignTask/internal/db"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/lock"
	"github.com/karlrobeck/SovereignTask/internal/repository"
)

type hierarchyService struct {
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	clk      clock.Clock
	locks    *lock.MutexMap
	observer UseCaseObserver
}

func NewHierarchyService(
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	clk clock.Clock,
	locks *lock.MutexMap,
	observers ...UseCaseObserver,
) HierarchyService {
	return &hierarchyService{
		tasks:    tasks,
		uow:      uow,
		clk:      clk,
		locks:    locks,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *hierarchyService) SetParent(ctx context.Context, taskID string, parentID *string, expected *int64, actorID string) (*domain.Task, error) {
	// Resolve the project before locking; two concurrent reparenting calls
	// in one project must not interleave their ancestor checks.
	probe, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	s.locks.Lock(probe.ProjectID)
	defer s.locks.Unlock(probe.ProjectID)

	var out *domain.Task
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)

		t, err := txTasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if expected != nil && *expected != t.RowVersion {
			return &VersionConflictError{TaskID: taskID, Expected: *expected, Actual: t.RowVersion}
		}

		if parentID != nil {
			if *parentID == taskID {
				return &CycleError{FromID: taskID, ToID: *parentID}
			}
			parent, err := txTasks.GetByID(ctx, *parentID)
			if err != nil {
				return err
			}
			if parent.ProjectID != t.ProjectID {
				return fmt.Errorf("task %s and parent %s belong to different projects", taskID, *parentID)
			}
			// Walk the proposed parent's ancestor chain; finding taskID
			// there means parentID sits inside taskID's own subtree.
			cur := parent
			for {
				if cur.ID == taskID {
					return &CycleError{FromID: taskID, ToID: *parentID}
				}
				if cur.ParentTaskID == nil {
					break
				}
				cur, err = txTasks.GetByID(ctx, *cur.ParentTaskID)
				if err != nil {
					return err
				}
			}
		}

		before := taskSnapshot(t)
		t.ParentTaskID = parentID
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

func (s *hierarchyService) ListSubtasks(ctx context.Context, taskID string) ([]*domain.Task, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.tasks.ListChildren(ctx, taskID)
}

func (s *hierarchyService) DeleteTask(ctx context.Context, taskID, actorID string) (err error) {
	startedAt := s.clk.Now()
	fields := map[string]any{"task": taskID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "delete-task-subtree",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	probe, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	s.locks.Lock(probe.ProjectID)
	defer s.locks.Unlock(probe.ProjectID)

	deleted := 0
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)

		t, err := txTasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		tenantID, err := tenantForProject(ctx, tx, t.ProjectID)
		if err != nil {
			return err
		}

		now := s.clk.Now()

		// Depth-first, children before parents, one audit entry per task.
		// Dependency edges referencing deleted tasks cascade away in storage.
		var deleteSubtree func(t *domain.Task) error
		deleteSubtree = func(t *domain.Task) error {
			children, err := txTasks.ListChildren(ctx, t.ID)
			if err != nil {
				return err
			}
			for _, child := range children {
				if err := deleteSubtree(child); err != nil {
					return err
				}
			}
			before := taskSnapshot(t)
			if err := txTasks.Delete(ctx, t.ID); err != nil {
				return err
			}
			deleted++
			return appendAudit(ctx, tx, tenantID, tableTasks, t.ID,
				domain.ActionDelete, actorID, before, nil, now)
		}

		return deleteSubtree(t)
	})
	fields["deleted_count"] = deleted
	return err
}
