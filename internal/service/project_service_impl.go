package service

import (
	"context"

	"github.com/karlrobeck/SovereignTask/internal/clock"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/identity"
	"github.com/karlrobeck/SovereignTask/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
	clk      clock.Clock
	ids      identity.Generator
}

func NewProjectService(projects repository.ProjectRepo, clk clock.Clock, ids identity.Generator) ProjectService {
	return &projectService{projects: projects, clk: clk, ids: ids}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = s.ids.NewID()
	}
	now := s.clk.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Project, error) {
	return s.projects.ListByTenant(ctx, tenantID)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	p.UpdatedAt = s.clk.Now()
	return s.projects.Update(ctx, p)
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}

type statusService struct {
	statuses repository.StatusRepo
	clk      clock.Clock
	ids      identity.Generator
}

func NewStatusService(statuses repository.StatusRepo, clk clock.Clock, ids identity.Generator) StatusService {
	return &statusService{statuses: statuses, clk: clk, ids: ids}
}

func (s *statusService) Create(ctx context.Context, st *domain.Status) error {
	if st.ID == "" {
		st.ID = s.ids.NewID()
	}
	now := s.clk.Now()
	st.CreatedAt = now
	st.UpdatedAt = now
	return s.statuses.Create(ctx, st)
}

func (s *statusService) GetByID(ctx context.Context, id string) (*domain.Status, error) {
	return s.statuses.GetByID(ctx, id)
}

func (s *statusService) ListByProject(ctx context.Context, projectID string) ([]*domain.Status, error) {
	return s.statuses.ListByProject(ctx, projectID)
}

func (s *statusService) Update(ctx context.Context, st *domain.Status) error {
	st.UpdatedAt = s.clk.Now()
	return s.statuses.Update(ctx, st)
}

func (s *statusService) Delete(ctx context.Context, id string) error {
	return s.statuses.Delete(ctx, id)
}
