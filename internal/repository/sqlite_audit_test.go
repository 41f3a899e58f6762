package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/karlrobeck/SovereignTask/internal/domain"
	"github.com/karlrobeck/SovereignTask/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// auditTestSetup creates a tenant and two users for audit tests.
func auditTestSetup(t *testing.T) (*SQLiteAuditRepo, string, string, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	tenantRepo := NewSQLiteTenantRepo(db)
	userRepo := NewSQLiteUserRepo(db)
	auditRepo := NewSQLiteAuditRepo(db)

	tenant := testutil.NewTestTenant("Acme")
	require.NoError(t, tenantRepo.Create(ctx, tenant))

	alice := testutil.NewTestUser(tenant.ID, "alice@example.com")
	bob := testutil.NewTestUser(tenant.ID, "bob@example.com")
	require.NoError(t, userRepo.Create(ctx, alice))
	require.NoError(t, userRepo.Create(ctx, bob))

	return auditRepo, tenant.ID, alice.ID, bob.ID
}

func TestAuditRepo_InsertAssignsSequence(t *testing.T) {
	auditRepo, tenantID, aliceID, _ := auditTestSetup(t)
	ctx := context.Background()

	first := testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", "t1", domain.ActionCreate)
	second := testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", "t1", domain.ActionUpdate)
	require.NoError(t, auditRepo.Insert(ctx, first))
	require.NoError(t, auditRepo.Insert(ctx, second))

	assert.Greater(t, second.Seq, first.Seq, "sequence numbers must be strictly increasing")
}

func TestAuditRepo_InsertRejectsMissingActor(t *testing.T) {
	auditRepo, tenantID, _, _ := auditTestSetup(t)
	ctx := context.Background()

	entry := testutil.NewTestAuditEntry(tenantID, "ghost-user", "tasks", "t1", domain.ActionCreate)
	err := auditRepo.Insert(ctx, entry)
	assert.Error(t, err, "an entry must always be attributable to an existing actor")
}

func TestAuditRepo_ListByRecordNewestFirst(t *testing.T) {
	auditRepo, tenantID, aliceID, _ := auditTestSetup(t)
	ctx := context.Background()

	for _, action := range []domain.AuditAction{domain.ActionCreate, domain.ActionUpdate, domain.ActionDelete} {
		require.NoError(t, auditRepo.Insert(ctx,
			testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", "t1", action)))
	}

	entries, err := auditRepo.ListByRecord(ctx, "tasks", "t1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, domain.ActionDelete, entries[0].Action)
	assert.Equal(t, domain.ActionCreate, entries[2].Action)
}

func TestAuditRepo_PaginateAcrossPages(t *testing.T) {
	auditRepo, tenantID, aliceID, _ := auditTestSetup(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		entry := testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", fmt.Sprintf("t%d", i), domain.ActionCreate)
		require.NoError(t, auditRepo.Insert(ctx, entry))
	}

	sizes := []int{10, 10, 5}
	for page := 1; page <= 3; page++ {
		entries, total, err := auditRepo.Paginate(ctx, tenantID, page, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(25), total, "total count holds on every page")
		assert.Len(t, entries, sizes[page-1])
	}

	entries, total, err := auditRepo.Paginate(ctx, tenantID, 4, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Empty(t, entries)
}

func TestAuditRepo_PaginateIsTenantScoped(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	tenantRepo := NewSQLiteTenantRepo(db)
	userRepo := NewSQLiteUserRepo(db)
	auditRepo := NewSQLiteAuditRepo(db)

	tenantA := testutil.NewTestTenant("A")
	tenantB := testutil.NewTestTenant("B")
	require.NoError(t, tenantRepo.Create(ctx, tenantA))
	require.NoError(t, tenantRepo.Create(ctx, tenantB))

	userA := testutil.NewTestUser(tenantA.ID, "a@example.com")
	userB := testutil.NewTestUser(tenantB.ID, "b@example.com")
	require.NoError(t, userRepo.Create(ctx, userA))
	require.NoError(t, userRepo.Create(ctx, userB))

	require.NoError(t, auditRepo.Insert(ctx, testutil.NewTestAuditEntry(tenantA.ID, userA.ID, "tasks", "t1", domain.ActionCreate)))
	require.NoError(t, auditRepo.Insert(ctx, testutil.NewTestAuditEntry(tenantB.ID, userB.ID, "tasks", "t2", domain.ActionCreate)))

	entries, total, err := auditRepo.Paginate(ctx, tenantA.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, tenantA.ID, entries[0].TenantID)
}

func TestAuditRepo_CountByActor(t *testing.T) {
	auditRepo, tenantID, aliceID, bobID := auditTestSetup(t)
	ctx := context.Background()

	require.NoError(t, auditRepo.Insert(ctx, testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", "t1", domain.ActionCreate)))
	require.NoError(t, auditRepo.Insert(ctx, testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", "t1", domain.ActionUpdate)))
	require.NoError(t, auditRepo.Insert(ctx, testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", "t2", domain.ActionUpdate)))
	require.NoError(t, auditRepo.Insert(ctx, testutil.NewTestAuditEntry(tenantID, bobID, "tasks", "t3", domain.ActionDelete)))

	counts, err := auditRepo.CountByActor(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, counts, 3)

	byKey := make(map[string]int64)
	for _, c := range counts {
		byKey[c.UserID+"/"+string(c.Action)] = c.Count
	}
	assert.Equal(t, int64(1), byKey[aliceID+"/CREATE"])
	assert.Equal(t, int64(2), byKey[aliceID+"/UPDATE"])
	assert.Equal(t, int64(1), byKey[bobID+"/DELETE"])
}

func TestAuditRepo_Latest(t *testing.T) {
	auditRepo, tenantID, aliceID, _ := auditTestSetup(t)
	ctx := context.Background()

	require.NoError(t, auditRepo.Insert(ctx, testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", "t1", domain.ActionCreate)))
	require.NoError(t, auditRepo.Insert(ctx, testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", "t1", domain.ActionUpdate)))

	latest, err := auditRepo.Latest(ctx, "tasks", "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionUpdate, latest.Action)

	_, err = auditRepo.Latest(ctx, "tasks", "never-touched")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuditRepo_FilterCombinesCriteria(t *testing.T) {
	auditRepo, tenantID, aliceID, _ := auditTestSetup(t)
	ctx := context.Background()

	old := testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", "t1", domain.ActionCreate)
	old.CreatedAt = time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, auditRepo.Insert(ctx, old))

	require.NoError(t, auditRepo.Insert(ctx, testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", "t2", domain.ActionUpdate)))
	require.NoError(t, auditRepo.Insert(ctx, testutil.NewTestAuditEntry(tenantID, aliceID, "task_dependencies", "d1", domain.ActionCreate)))

	// Table only.
	entries, err := auditRepo.Filter(ctx, tenantID, AuditQuery{TableName: "tasks"})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// Table AND action.
	entries, err = auditRepo.Filter(ctx, tenantID, AuditQuery{TableName: "tasks", Action: domain.ActionCreate})
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// Time range excludes the 48h-old entry.
	from := time.Now().UTC().Add(-time.Hour)
	entries, err = auditRepo.Filter(ctx, tenantID, AuditQuery{From: &from})
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// No criteria returns everything for the tenant.
	entries, err = auditRepo.Filter(ctx, tenantID, AuditQuery{})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestAuditRepo_InsertNormalizesOffsetTimestamps(t *testing.T) {
	auditRepo, tenantID, aliceID, _ := auditTestSetup(t)
	ctx := context.Background()

	// 09:00+09:00 is midnight UTC; stored verbatim it would sort after any
	// same-day Z-suffixed bound and fall outside chronological windows.
	tokyo := time.FixedZone("JST", 9*60*60)
	entry := testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", "t1", domain.ActionCreate)
	entry.CreatedAt = time.Date(2024, 6, 1, 9, 0, 0, 0, tokyo)
	require.NoError(t, auditRepo.Insert(ctx, entry))

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)
	entries, err := auditRepo.Filter(ctx, tenantID, AuditQuery{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].CreatedAt.Equal(from), "stored instant must survive the round trip")
}

func TestAuditRepo_PurgeRemovesOldEntries(t *testing.T) {
	auditRepo, tenantID, aliceID, _ := auditTestSetup(t)
	ctx := context.Background()

	old := testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", "t1", domain.ActionCreate)
	old.CreatedAt = time.Now().UTC().Add(-30 * 24 * time.Hour)
	require.NoError(t, auditRepo.Insert(ctx, old))

	recent := testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", "t2", domain.ActionCreate)
	require.NoError(t, auditRepo.Insert(ctx, recent))

	removed, err := auditRepo.Purge(ctx, tenantID, time.Now().UTC().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, total, err := auditRepo.Paginate(ctx, tenantID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestAuditRepo_ListByActorWindow(t *testing.T) {
	auditRepo, tenantID, aliceID, _ := auditTestSetup(t)
	ctx := context.Background()

	require.NoError(t, auditRepo.Insert(ctx, testutil.NewTestAuditEntry(tenantID, aliceID, "tasks", "t1", domain.ActionCreate)))

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)
	entries, err := auditRepo.ListByActorWindow(ctx, tenantID, from, to)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice@example.com", entries[0].ActorEmail)
}
