package service

import (
	"context"
	"fmt"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/clock"
	"github.com/karlrobeck/SovereignTask/internal/db"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/repository"
)

type auditService struct {
	audits   repository.AuditRepo
	uow      db.UnitOfWork
	clk      clock.Clock
	observer UseCaseObserver
}

func NewAuditService(audits repository.AuditRepo, uow db.UnitOfWork, clk clock.Clock, observers ...UseCaseObserver) AuditService {
	return &auditService{
		audits:   audits,
		uow:      uow,
		clk:      clk,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *auditService) Append(ctx context.Context, e *domain.AuditLog) (*domain.AuditLog, error) {
	if !domain.ValidAuditActions[string(e.Action)] {
		return nil, fmt.Errorf("invalid audit action %q", e.Action)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clk.Now()
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteAuditRepo(tx).Insert(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *auditService) AppendBatch(ctx context.Context, tenantID string, entries []*domain.AuditLog) (err error) {
	startedAt := s.clk.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "append-audit-batch",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"tenant": tenantID, "entries": len(entries)},
		})
	}()

	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if !domain.ValidAuditActions[string(e.Action)] {
			return fmt.Errorf("%w: invalid audit action %q", ErrBatchAborted, e.Action)
		}
	}

	now := s.clk.Now()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txAudits := repository.NewSQLiteAuditRepo(tx)
		for i, e := range entries {
			e.TenantID = tenantID
			if e.CreatedAt.IsZero() {
				e.CreatedAt = now
			}
			if insertErr := txAudits.Insert(ctx, e); insertErr != nil {
				return fmt.Errorf("%w: entry %d: %v", ErrBatchAborted, i, insertErr)
			}
		}
		return nil
	})
	return err
}

func (s *auditService) ListByRecord(ctx context.Context, tableName, recordID string) ([]*domain.AuditLog, error) {
	return s.audits.ListByRecord(ctx, tableName, recordID)
}

func (s *auditService) ListByActorWindow(ctx context.Context, tenantID string, from, to time.Time) ([]*domain.AuditEntryWithActor, error) {
	return s.audits.ListByActorWindow(ctx, tenantID, from, to)
}

func (s *auditService) Paginate(ctx context.Context, tenantID string, page, size int) ([]*domain.AuditLog, int64, error) {
	return s.audits.Paginate(ctx, tenantID, page, size)
}

func (s *auditService) CountByActor(ctx context.Context, tenantID string) ([]domain.ActorActionCount, error) {
	return s.audits.CountByActor(ctx, tenantID)
}

func (s *auditService) Latest(ctx context.Context, tableName, recordID string) (*domain.AuditLog, error) {
	return s.audits.Latest(ctx, tableName, recordID)
}

func (s *auditService) Filter(ctx context.Context, tenantID string, q repository.AuditQuery) ([]*domain.AuditLog, error) {
	return s.audits.Filter(ctx, tenantID, q)
}

func (s *auditService) Purge(ctx context.Context, tenantID string, olderThan time.Time) (int64, error) {
	return s.audits.Purge(ctx, tenantID, olderThan)
}
