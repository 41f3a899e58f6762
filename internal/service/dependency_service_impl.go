package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/clock"
	"github.com/karlrobeck/SovereignTask/internal/db"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/identity"
	"github.com/karlrobeck/SovereignTask/internal/lock"
	"github.com/karlrobeck/SovereignTask/internal/repository"
)

type dependencyService struct {
	tasks    repository.TaskRepo
	deps     repository.DependencyRepo
	uow      db.UnitOfWork
	clk      clock.Clock
	ids      identity.Generator
	locks    *lock.MutexMap
	observer UseCaseObserver
}

func NewDependencyService(
	tasks repository.TaskRepo,
	deps repository.DependencyRepo,
	uow db.UnitOfWork,
	clk clock.Clock,
	ids identity.Generator,
	locks *lock.MutexMap,
	observers ...UseCaseObserver,
) DependencyService {
	return &dependencyService{
		tasks:    tasks,
		deps:     deps,
		uow:      uow,
		clk:      clk,
		ids:      ids,
		locks:    locks,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *dependencyService) Create(ctx context.Context, predecessorID, successorID string, depType domain.DependencyType, actorID string) (dep *domain.Dependency, err error) {
	startedAt := s.clk.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "create-dependency",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"predecessor": predecessorID, "successor": successorID},
		})
	}()

	if depType == "" {
		depType = domain.DepFinishToStart
	}

	successor, err := s.tasks.GetByID(ctx, successorID)
	if err != nil {
		return nil, err
	}
	s.locks.Lock(successor.ProjectID)
	defer s.locks.Unlock(successor.ProjectID)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		// Both endpoints must exist as of this transaction.
		pred, err := txTasks.GetByID(ctx, predecessorID)
		if err != nil {
			return err
		}
		succ, err := txTasks.GetByID(ctx, successorID)
		if err != nil {
			return err
		}
		// The graph is per-project; the advisory lock keys on the
		// successor's project, so a spanning edge would sidestep it.
		if pred.ProjectID != succ.ProjectID {
			return fmt.Errorf("tasks %s and %s belong to different projects", predecessorID, successorID)
		}

		closes, err := wouldCloseCycle(ctx, txDeps, predecessorID, successorID)
		if err != nil {
			return err
		}
		if closes {
			return &CycleError{FromID: predecessorID, ToID: successorID}
		}

		dep = &domain.Dependency{
			ID:                s.ids.NewID(),
			PredecessorTaskID: predecessorID,
			SuccessorTaskID:   successorID,
			Type:              depType,
			CreatedAt:         s.clk.Now(),
		}
		if err := txDeps.Create(ctx, dep); err != nil {
			return err
		}

		tenantID, err := tenantForProject(ctx, tx, succ.ProjectID)
		if err != nil {
			return err
		}
		return appendAudit(ctx, tx, tenantID, tableDependencies, dep.ID,
			domain.ActionCreate, actorID, nil, depSnapshot(dep), dep.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return dep, nil
}

func (s *dependencyService) WouldCycle(ctx context.Context, predecessorID, successorID string) (bool, error) {
	if _, err := s.tasks.GetByID(ctx, predecessorID); err != nil {
		return false, err
	}
	if _, err := s.tasks.GetByID(ctx, successorID); err != nil {
		return false, err
	}
	return wouldCloseCycle(ctx, s.deps, predecessorID, successorID)
}

// wouldCloseCycle reports whether adding predecessor -> successor would let
// the successor reach the predecessor. Depth-first over successor edges with
// a visited set, so diamond-shaped graphs are walked once per node and the
// search terminates on any graph.
func wouldCloseCycle(ctx context.Context, deps repository.DependencyRepo, predecessorID, successorID string) (bool, error) {
	visited := make(map[string]bool)
	frontier := []string{successorID}

	for len(frontier) > 0 {
		n := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		if n == predecessorID {
			return true, nil
		}
		if visited[n] {
			continue
		}
		visited[n] = true

		edges, err := deps.ListSuccessors(ctx, n)
		if err != nil {
			return false, err
		}
		for _, e := range edges {
			if !visited[e.SuccessorTaskID] {
				frontier = append(frontier, e.SuccessorTaskID)
			}
		}
	}
	return false, nil
}

func (s *dependencyService) UpdateType(ctx context.Context, depID string, depType domain.DependencyType, actorID string) (*domain.Dependency, error) {
	var out *domain.Dependency
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		dep, err := txDeps.GetByID(ctx, depID)
		if err != nil {
			return err
		}
		before := depSnapshot(dep)

		// Retyping never changes topology, so no acyclicity re-check.
		if err := txDeps.UpdateType(ctx, depID, depType); err != nil {
			return err
		}
		dep.Type = depType

		successor, err := repository.NewSQLiteTaskRepo(tx).GetByID(ctx, dep.SuccessorTaskID)
		if err != nil {
			return err
		}
		tenantID, err := tenantForProject(ctx, tx, successor.ProjectID)
		if err != nil {
			return err
		}
		if err := appendAudit(ctx, tx, tenantID, tableDependencies, dep.ID,
			domain.ActionUpdate, actorID, before, depSnapshot(dep), s.clk.Now()); err != nil {
			return err
		}
		out = dep
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *dependencyService) Delete(ctx context.Context, depID, actorID string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		dep, err := txDeps.GetByID(ctx, depID)
		if err != nil {
			return err
		}
		// Removal cannot introduce a cycle, so delete without re-validation.
		if err := txDeps.Delete(ctx, depID); err != nil {
			return err
		}

		successor, err := repository.NewSQLiteTaskRepo(tx).GetByID(ctx, dep.SuccessorTaskID)
		if err != nil {
			return err
		}
		tenantID, err := tenantForProject(ctx, tx, successor.ProjectID)
		if err != nil {
			return err
		}
		return appendAudit(ctx, tx, tenantID, tableDependencies, dep.ID,
			domain.ActionDelete, actorID, depSnapshot(dep), nil, s.clk.Now())
	})
}

func (s *dependencyService) ListPredecessors(ctx context.Context, taskID string) ([]domain.Dependency, error) {
	return s.deps.ListPredecessors(ctx, taskID)
}

func (s *dependencyService) ListSuccessors(ctx context.Context, taskID string) ([]domain.Dependency, error) {
	return s.deps.ListSuccessors(ctx, taskID)
}

func (s *dependencyService) ListBlocking(ctx context.Context, taskID string) ([]*domain.Task, error) {
	return s.deps.ListBlocking(ctx, taskID)
}

func (s *dependencyService) ListBlockedBy(ctx context.Context, taskID string) ([]*domain.Task, error) {
	return s.deps.ListBlockedBy(ctx, taskID)
}

// CriticalPath walks the project's dependency graph from its root tasks
// (those that are never a successor) and returns every reachable task once,
// ordered by start date. Tasks without a start date sort last; ties break by
// creation time then id so the result is stable.
func (s *dependencyService) CriticalPath(ctx context.Context, projectID string) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	edges, err := s.deps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	successorsOf := make(map[string][]string)
	hasIncoming := make(map[string]bool)
	for _, e := range edges {
		successorsOf[e.PredecessorTaskID] = append(successorsOf[e.PredecessorTaskID], e.SuccessorTaskID)
		hasIncoming[e.SuccessorTaskID] = true
	}

	visited := make(map[string]bool)
	var path []*domain.Task

	var walk func(id string)
	walk = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		if t, ok := byID[id]; ok {
			path = append(path, t)
		}
		for _, next := range successorsOf[id] {
			walk(next)
		}
	}

	for _, t := range tasks {
		if !hasIncoming[t.ID] {
			walk(t.ID)
		}
	}

	sort.SliceStable(path, func(i, j int) bool {
		a, b := path[i], path[j]
		switch {
		case a.StartDate == nil && b.StartDate == nil:
			// fall through to tie-break
		case a.StartDate == nil:
			return false
		case b.StartDate == nil:
			return true
		case !a.StartDate.Equal(*b.StartDate):
			return a.StartDate.Before(*b.StartDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return path, nil
}
