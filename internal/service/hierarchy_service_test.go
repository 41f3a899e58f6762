package service

import (
	"context"
	"testing"

	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchyService_SetParent(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	parent := env.createTask(t, "Epic")
	child := env.createTask(t, "Story")

	got, err := env.hierarchy.SetParent(ctx, child.ID, &parent.ID, nil, env.actorID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentTaskID)
	assert.Equal(t, parent.ID, *got.ParentTaskID)
	assert.Equal(t, int64(2), got.RowVersion)

	subtasks, err := env.hierarchy.ListSubtasks(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, subtasks, 1)
	assert.Equal(t, child.ID, subtasks[0].ID)
}

func TestHierarchyService_SetParentClearsWithNil(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	parent := env.createTask(t, "Epic")
	child := env.createTask(t, "Story")
	_, err := env.hierarchy.SetParent(ctx, child.ID, &parent.ID, nil, env.actorID)
	require.NoError(t, err)

	got, err := env.hierarchy.SetParent(ctx, child.ID, nil, nil, env.actorID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentTaskID)
}

func TestHierarchyService_SetParentRejectsSelf(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	task := env.createTask(t, "Loner")
	_, err := env.hierarchy.SetParent(ctx, task.ID, &task.ID, nil, env.actorID)
	require.ErrorIs(t, err, ErrCycleDetected)
}

func TestHierarchyService_SetParentRejectsDescendant(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	a := env.createTask(t, "A")
	b := env.createTask(t, "B")
	c := env.createTask(t, "C")

	_, err := env.hierarchy.SetParent(ctx, b.ID, &a.ID, nil, env.actorID)
	require.NoError(t, err)
	_, err = env.hierarchy.SetParent(ctx, c.ID, &b.ID, nil, env.actorID)
	require.NoError(t, err)

	// A under its own grandchild must fail and change nothing.
	_, err = env.hierarchy.SetParent(ctx, a.ID, &c.ID, nil, env.actorID)
	require.ErrorIs(t, err, ErrCycleDetected)

	got, getErr := env.tasks.GetByID(ctx, a.ID)
	require.NoError(t, getErr)
	assert.Nil(t, got.ParentTaskID)
	assert.Equal(t, int64(1), got.RowVersion)
}

func TestHierarchyService_SetParentHonorsExpectedVersion(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	parent := env.createTask(t, "Epic")
	child := env.createTask(t, "Story")

	_, err := env.hierarchy.SetParent(ctx, child.ID, &parent.ID, int64Ptr(99), env.actorID)
	require.ErrorIs(t, err, ErrVersionConflict)

	got, getErr := env.tasks.GetByID(ctx, child.ID)
	require.NoError(t, getErr)
	assert.Nil(t, got.ParentTaskID)
}

func TestHierarchyService_ListSubtasksDirectOnly(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	a := env.createTask(t, "A")
	b := env.createTask(t, "B")
	c := env.createTask(t, "C")
	_, err := env.hierarchy.SetParent(ctx, b.ID, &a.ID, nil, env.actorID)
	require.NoError(t, err)
	_, err = env.hierarchy.SetParent(ctx, c.ID, &b.ID, nil, env.actorID)
	require.NoError(t, err)

	subtasks, err := env.hierarchy.ListSubtasks(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, subtasks, 1, "grandchildren must not appear")
	assert.Equal(t, b.ID, subtasks[0].ID)
}

func TestHierarchyService_ListSubtasksUnknownTask(t *testing.T) {
	env := newServiceEnv(t)

	_, err := env.hierarchy.ListSubtasks(context.Background(), "no-such-task")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestHierarchyService_DeleteTaskRemovesSubtree(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	root := env.createTask(t, "Root")
	mid := env.createTask(t, "Mid")
	leaf := env.createTask(t, "Leaf")
	_, err := env.hierarchy.SetParent(ctx, mid.ID, &root.ID, nil, env.actorID)
	require.NoError(t, err)
	_, err = env.hierarchy.SetParent(ctx, leaf.ID, &mid.ID, nil, env.actorID)
	require.NoError(t, err)

	// An edge out of the subtree must disappear with its endpoint.
	outside := env.createTask(t, "Outside")
	_, err = env.deps.Create(ctx, leaf.ID, outside.ID, domain.DepFinishToStart, env.actorID)
	require.NoError(t, err)

	require.NoError(t, env.hierarchy.DeleteTask(ctx, root.ID, env.actorID))

	for _, id := range []string{root.ID, mid.ID, leaf.ID} {
		_, err := env.tasks.GetByID(ctx, id)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	}

	edges, err := env.deps.ListPredecessors(ctx, outside.ID)
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestHierarchyService_DeleteTaskAuditsEveryNode(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	root := env.createTask(t, "Root")
	child := env.createTask(t, "Child")
	_, err := env.hierarchy.SetParent(ctx, child.ID, &root.ID, nil, env.actorID)
	require.NoError(t, err)

	require.NoError(t, env.hierarchy.DeleteTask(ctx, root.ID, env.actorID))

	for _, id := range []string{root.ID, child.ID} {
		latest, err := env.auditRepo.Latest(ctx, "tasks", id)
		require.NoError(t, err)
		assert.Equal(t, domain.ActionDelete, latest.Action)
		assert.NotNil(t, latest.OldValues)
		assert.Nil(t, latest.NewValues)
	}
}
