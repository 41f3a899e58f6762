package repository

import (
	"context"
	"testing"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taskTestSetup creates a tenant, project, and status for task tests.
func taskTestSetup(t *testing.T) (*SQLiteTaskRepo, string, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	tenantRepo := NewSQLiteTenantRepo(db)
	projRepo := NewSQLiteProjectRepo(db)
	statusRepo := NewSQLiteStatusRepo(db)
	taskRepo := NewSQLiteTaskRepo(db)

	tenant := testutil.NewTestTenant("Acme")
	require.NoError(t, tenantRepo.Create(ctx, tenant))

	proj := testutil.NewTestProject(tenant.ID, "Launch")
	require.NoError(t, projRepo.Create(ctx, proj))

	status := testutil.NewTestStatus(proj.ID, "Backlog")
	require.NoError(t, statusRepo.Create(ctx, status))

	return taskRepo, proj.ID, status.ID
}

func TestTaskRepo_CreateAndGet(t *testing.T) {
	taskRepo, projID, statusID := taskTestSetup(t)
	ctx := context.Background()

	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	due := start.AddDate(0, 0, 14)
	task := testutil.NewTestTask(projID, statusID, "Design schema",
		testutil.WithStartDate(start),
		testutil.WithDueDate(due),
		testutil.WithEstimatedMinutes(240),
	)
	require.NoError(t, taskRepo.Create(ctx, task))

	got, err := taskRepo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Design schema", got.Title)
	assert.Equal(t, int64(1), got.RowVersion)
	assert.Equal(t, 240, got.EstimatedMinutes)
	require.NotNil(t, got.StartDate)
	assert.True(t, got.StartDate.Equal(start))
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))
	assert.Nil(t, got.ParentTaskID)
	assert.Nil(t, got.AssigneeID)
}

func TestTaskRepo_GetMissingReturnsNotFound(t *testing.T) {
	taskRepo, _, _ := taskTestSetup(t)

	_, err := taskRepo.GetByID(context.Background(), "no-such-task")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskRepo_ListChildren(t *testing.T) {
	taskRepo, projID, statusID := taskTestSetup(t)
	ctx := context.Background()

	parent := testutil.NewTestTask(projID, statusID, "Parent")
	require.NoError(t, taskRepo.Create(ctx, parent))

	c1 := testutil.NewTestTask(projID, statusID, "Child 1", testutil.WithParentTask(parent.ID))
	c2 := testutil.NewTestTask(projID, statusID, "Child 2", testutil.WithParentTask(parent.ID))
	require.NoError(t, taskRepo.Create(ctx, c1))
	require.NoError(t, taskRepo.Create(ctx, c2))

	grandchild := testutil.NewTestTask(projID, statusID, "Grandchild", testutil.WithParentTask(c1.ID))
	require.NoError(t, taskRepo.Create(ctx, grandchild))

	children, err := taskRepo.ListChildren(ctx, parent.ID)
	require.NoError(t, err)
	assert.Len(t, children, 2, "ListChildren returns direct children only")
}

func TestTaskRepo_UpdatePersistsVersionAndFields(t *testing.T) {
	taskRepo, projID, statusID := taskTestSetup(t)
	ctx := context.Background()

	task := testutil.NewTestTask(projID, statusID, "Original")
	require.NoError(t, taskRepo.Create(ctx, task))

	task.Title = "Renamed"
	task.RowVersion = 2
	task.UpdatedAt = task.UpdatedAt.Add(time.Minute)
	require.NoError(t, taskRepo.Update(ctx, task))

	got, err := taskRepo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, int64(2), got.RowVersion)
}

func TestTaskRepo_ListByProjectScopesRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	tenantRepo := NewSQLiteTenantRepo(db)
	projRepo := NewSQLiteProjectRepo(db)
	statusRepo := NewSQLiteStatusRepo(db)
	taskRepo := NewSQLiteTaskRepo(db)

	tenant := testutil.NewTestTenant("Acme")
	require.NoError(t, tenantRepo.Create(ctx, tenant))

	projA := testutil.NewTestProject(tenant.ID, "A")
	projB := testutil.NewTestProject(tenant.ID, "B")
	require.NoError(t, projRepo.Create(ctx, projA))
	require.NoError(t, projRepo.Create(ctx, projB))

	statusA := testutil.NewTestStatus(projA.ID, "Todo")
	statusB := testutil.NewTestStatus(projB.ID, "Todo")
	require.NoError(t, statusRepo.Create(ctx, statusA))
	require.NoError(t, statusRepo.Create(ctx, statusB))

	require.NoError(t, taskRepo.Create(ctx, testutil.NewTestTask(projA.ID, statusA.ID, "In A")))
	require.NoError(t, taskRepo.Create(ctx, testutil.NewTestTask(projB.ID, statusB.ID, "In B")))

	tasks, err := taskRepo.ListByProject(ctx, projA.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "In A", tasks[0].Title)
}

func TestTaskRepo_PriorityCheckConstraint(t *testing.T) {
	taskRepo, projID, statusID := taskTestSetup(t)
	ctx := context.Background()

	task := testutil.NewTestTask(projID, statusID, "Bad priority")
	task.Priority = 9
	err := taskRepo.Create(ctx, task)
	assert.Error(t, err, "priority outside 0-3 should violate the CHECK constraint")
}
