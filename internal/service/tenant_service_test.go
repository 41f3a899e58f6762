package service

import (
	"context"
	"testing"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/clock"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/identity"
	"github.com/karlrobeck/SovereignTask/internal/repository"
	"github.com/karlrobeck/SovereignTask/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantService_CreateAssignsIDAndStamps(t *testing.T) {
	database := testutil.NewTestDB(t)
	clk := clock.NewFixed(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := NewTenantService(repository.NewSQLiteTenantRepo(database), clk, identity.UUID{})
	ctx := context.Background()

	tenant := &domain.Tenant{Name: "Acme"}
	require.NoError(t, svc.Create(ctx, tenant))
	assert.NotEmpty(t, tenant.ID)
	assert.Equal(t, clk.Now(), tenant.CreatedAt)

	got, err := svc.GetByID(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserService_CreateRequiresEmail(t *testing.T) {
	database := testutil.NewTestDB(t)
	clk := clock.NewFixed(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	tenants := NewTenantService(repository.NewSQLiteTenantRepo(database), clk, identity.UUID{})
	users := NewUserService(repository.NewSQLiteUserRepo(database), clk, identity.UUID{})
	ctx := context.Background()

	tenant := &domain.Tenant{Name: "Acme"}
	require.NoError(t, tenants.Create(ctx, tenant))

	err := users.Create(ctx, &domain.User{TenantID: tenant.ID, Email: ""})
	require.Error(t, err)

	u := &domain.User{TenantID: tenant.ID, Email: "alice@example.com", DisplayName: "Alice"}
	require.NoError(t, users.Create(ctx, u))
	assert.NotEmpty(t, u.ID)

	// Duplicate email within a tenant violates the unique constraint.
	dup := &domain.User{TenantID: tenant.ID, Email: "alice@example.com", DisplayName: "Alice Again"}
	require.Error(t, users.Create(ctx, dup))
}
