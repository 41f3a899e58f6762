package service

import (
	"context"

	"github.com/karlrobeck/SovereignTask/internal/clock"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/identity"
	"github.com/karlrobeck/SovereignTask/internal/repository"
)

type tenantService struct {
	tenants repository.TenantRepo
	clk     clock.Clock
	ids     identity.Generator
}

func NewTenantService(tenants repository.TenantRepo, clk clock.Clock, ids identity.Generator) TenantService {
	return &tenantService{tenants: tenants, clk: clk, ids: ids}
}

func (s *tenantService) Create(ctx context.Context, t *domain.Tenant) error {
	if t.ID == "" {
		t.ID = s.ids.NewID()
	}
	now := s.clk.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	return s.tenants.Create(ctx, t)
}

func (s *tenantService) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	return s.tenants.GetByID(ctx, id)
}

func (s *tenantService) List(ctx context.Context) ([]*domain.Tenant, error) {
	return s.tenants.List(ctx)
}

func (s *tenantService) Update(ctx context.Context, t *domain.Tenant) error {
	t.UpdatedAt = s.clk.Now()
	return s.tenants.Update(ctx, t)
}

func (s *tenantService) Delete(ctx context.Context, id string) error {
	return s.tenants.Delete(ctx, id)
}

type userService struct {
	users repository.UserRepo
	clk   clock.Clock
	ids   identity.Generator
}

func NewUserService(users repository.UserRepo, clk clock.Clock, ids identity.Generator) UserService {
	return &userService{users: users, clk: clk, ids: ids}
}

func (s *userService) Create(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = s.ids.NewID()
	}
	now := s.clk.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	return s.users.Create(ctx, u)
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error) {
	return s.users.ListByTenant(ctx, tenantID)
}

func (s *userService) Update(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	u.UpdatedAt = s.clk.Now()
	return s.users.Update(ctx, u)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}
