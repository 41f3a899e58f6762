package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/karlrobeck/SovereignTask/internal/clock"
	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/identity"
	"github.com/karlrobeck/SovereignTask/internal/lock"
	"github.com/karlrobeck/SovereignTask/internal/repository"
	"github.com/karlrobeck/SovereignTask/internal/service"
	"github.com/karlrobeck/SovereignTask/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cliEnv builds the full application over an in-memory database, the same
// wiring the binary does.
type cliEnv struct {
	app *App

	tenantID  string
	actorID   string
	projectID string
	statusID  string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	clk := clock.System{}
	ids := identity.UUID{}
	locks := lock.NewMutexMap()
	ctx := context.Background()

	taskRepo := repository.NewSQLiteTaskRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)

	app := &App{
		Tenants:   service.NewTenantService(repository.NewSQLiteTenantRepo(database), clk, ids),
		Users:     service.NewUserService(repository.NewSQLiteUserRepo(database), clk, ids),
		Projects:  service.NewProjectService(repository.NewSQLiteProjectRepo(database), clk, ids),
		Statuses:  service.NewStatusService(repository.NewSQLiteStatusRepo(database), clk, ids),
		Tasks:     service.NewTaskService(taskRepo, uow, clk, ids),
		Hierarchy: service.NewHierarchyService(taskRepo, uow, clk, locks),
		Deps:      service.NewDependencyService(taskRepo, depRepo, uow, clk, ids, locks),
		Audits:    service.NewAuditService(repository.NewSQLiteAuditRepo(database), uow, clk),
	}

	env := &cliEnv{app: app}

	tenant := &domain.Tenant{Name: "Acme"}
	require.NoError(t, app.Tenants.Create(ctx, tenant))
	env.tenantID = tenant.ID

	actor := &domain.User{TenantID: tenant.ID, Email: "alice@example.com", DisplayName: "Alice"}
	require.NoError(t, app.Users.Create(ctx, actor))
	env.actorID = actor.ID

	project := &domain.Project{TenantID: tenant.ID, Name: "Launch"}
	require.NoError(t, app.Projects.Create(ctx, project))
	env.projectID = project.ID

	status := &domain.Status{ProjectID: project.ID, Name: "Todo"}
	require.NoError(t, app.Statuses.Create(ctx, status))
	env.statusID = status.ID

	return env
}

func (env *cliEnv) run(args ...string) error {
	root := NewRootCmd(env.app)
	root.SetArgs(args)
	return root.Execute()
}

func TestCLI_TaskAddAndUpdate(t *testing.T) {
	env := newCLIEnv(t)
	ctx := context.Background()

	require.NoError(t, env.run("task", "add",
		"--project", env.projectID,
		"--status", env.statusID,
		"--actor", env.actorID,
		"--title", "Ship the release",
		"--priority", "high",
	))

	tasks, err := env.app.Tasks.ListByProject(ctx, env.projectID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Ship the release", tasks[0].Title)
	assert.Equal(t, domain.PriorityHigh, tasks[0].Priority)

	require.NoError(t, env.run("task", "update", tasks[0].ID,
		"--project", env.projectID,
		"--actor", env.actorID,
		"--title", "Ship it already",
		"--expect-version", "1",
	))

	// A stale version is rejected at the service boundary.
	err = env.run("task", "update", tasks[0].ID,
		"--project", env.projectID,
		"--actor", env.actorID,
		"--title", "Too late",
		"--expect-version", "1",
	)
	require.ErrorIs(t, err, service.ErrVersionConflict)
}

func TestCLI_TaskIDPrefixResolution(t *testing.T) {
	env := newCLIEnv(t)
	ctx := context.Background()

	require.NoError(t, env.run("task", "add",
		"--project", env.projectID, "--status", env.statusID,
		"--actor", env.actorID, "--title", "Only task"))

	tasks, err := env.app.Tasks.ListByProject(ctx, env.projectID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	require.NoError(t, env.run("task", "inspect", tasks[0].ID[:8],
		"--project", env.projectID))

	err = env.run("task", "inspect", "zzzz", "--project", env.projectID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task not found")
}

func TestCLI_DepAddRejectsCycle(t *testing.T) {
	env := newCLIEnv(t)
	ctx := context.Background()

	for _, title := range []string{"A", "B"} {
		require.NoError(t, env.run("task", "add",
			"--project", env.projectID, "--status", env.statusID,
			"--actor", env.actorID, "--title", title))
	}
	tasks, err := env.app.Tasks.ListByProject(ctx, env.projectID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	require.NoError(t, env.run("dep", "add", tasks[0].ID, tasks[1].ID,
		"--project", env.projectID, "--actor", env.actorID))

	err = env.run("dep", "add", tasks[1].ID, tasks[0].ID,
		"--project", env.projectID, "--actor", env.actorID)
	require.ErrorIs(t, err, service.ErrCycleDetected)
}

func TestCLI_AuditImport(t *testing.T) {
	env := newCLIEnv(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "batch.yaml")
	content := "tenant_id: " + env.tenantID + "\n" +
		"entries:\n" +
		"  - table: tasks\n" +
		"    record: external-1\n" +
		"    action: CREATE\n" +
		"    actor: " + env.actorID + "\n" +
		"    new:\n" +
		"      title: Imported\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, env.run("audit", "import", path))

	entries, err := env.app.Audits.ListByRecord(ctx, "tasks", "external-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionCreate, entries[0].Action)
}

func TestCLI_AuditImportBadFileFailsClosed(t *testing.T) {
	env := newCLIEnv(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	content := "tenant_id: " + env.tenantID + "\n" +
		"entries:\n" +
		"  - table: tasks\n" +
		"    record: r1\n" +
		"    action: ARCHIVE\n" +
		"    actor: " + env.actorID + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	root := NewRootCmd(env.app)
	root.SetArgs([]string{"audit", "import", path})
	root.SetErr(&discardWriter{})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation errors")
}

type discardWriter struct{}

func (*discardWriter) Write(p []byte) (int, error) { return len(p), nil }
