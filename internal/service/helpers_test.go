package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/clock"
	"github.com/karlrobeck/SovereignTask/internal/db"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/identity"
	"github.com/karlrobeck/SovereignTask/internal/lock"
	"github.com/karlrobeck/SovereignTask/internal/repository"
	"github.com/karlrobeck/SovereignTask/internal/testutil"
	"github.com/stretchr/testify/require"
)

// serviceEnv wires the full service stack over one in-memory database with a
// fixed clock, so tests can assert exact timestamps and version bumps.
type serviceEnv struct {
	db    *sql.DB
	uow   db.UnitOfWork
	clk   *clock.Fixed
	locks *lock.MutexMap

	tasks       TaskService
	hierarchy   HierarchyService
	deps        DependencyService
	audits      AuditService
	auditRepo   repository.AuditRepo
	taskRepo    repository.TaskRepo
	depRepo     repository.DependencyRepo
	statusRepo  repository.StatusRepo
	projectRepo repository.ProjectRepo

	tenantID  string
	actorID   string
	projectID string
	statusID  string
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	return newServiceEnvOn(t, testutil.NewTestDB(t))
}

// newFileServiceEnv backs the stack with a file database so goroutines get
// real connection-level concurrency.
func newFileServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	return newServiceEnvOn(t, testutil.NewFileTestDB(t))
}

func newServiceEnvOn(t *testing.T, database *sql.DB) *serviceEnv {
	t.Helper()
	ctx := context.Background()

	env := &serviceEnv{
		db:    database,
		uow:   testutil.NewTestUoW(database),
		clk:   clock.NewFixed(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)),
		locks: lock.NewMutexMap(),
	}

	ids := identity.UUID{}
	env.taskRepo = repository.NewSQLiteTaskRepo(database)
	env.depRepo = repository.NewSQLiteDependencyRepo(database)
	env.auditRepo = repository.NewSQLiteAuditRepo(database)
	env.statusRepo = repository.NewSQLiteStatusRepo(database)
	env.projectRepo = repository.NewSQLiteProjectRepo(database)

	env.tasks = NewTaskService(env.taskRepo, env.uow, env.clk, ids)
	env.hierarchy = NewHierarchyService(env.taskRepo, env.uow, env.clk, env.locks)
	env.deps = NewDependencyService(env.taskRepo, env.depRepo, env.uow, env.clk, ids, env.locks)
	env.audits = NewAuditService(env.auditRepo, env.uow, env.clk)

	tenantRepo := repository.NewSQLiteTenantRepo(database)
	userRepo := repository.NewSQLiteUserRepo(database)

	tenant := testutil.NewTestTenant("Acme")
	require.NoError(t, tenantRepo.Create(ctx, tenant))
	env.tenantID = tenant.ID

	actor := testutil.NewTestUser(tenant.ID, "alice@example.com")
	require.NoError(t, userRepo.Create(ctx, actor))
	env.actorID = actor.ID

	project := testutil.NewTestProject(tenant.ID, "Launch")
	require.NoError(t, env.projectRepo.Create(ctx, project))
	env.projectID = project.ID

	status := testutil.NewTestStatus(project.ID, "Todo")
	require.NoError(t, env.statusRepo.Create(ctx, status))
	env.statusID = status.ID

	return env
}

// createTask persists a fixture task through the service so it gets an id,
// version 1, and a CREATE audit entry.
func (env *serviceEnv) createTask(t *testing.T, title string, opts ...testutil.TaskOption) *domain.Task {
	t.Helper()
	task := testutil.NewTestTask(env.projectID, env.statusID, title, opts...)
	task.ID = ""
	require.NoError(t, env.tasks.Create(context.Background(), task, env.actorID))
	return task
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }
