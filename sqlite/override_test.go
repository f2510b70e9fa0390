package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func newOverride(user, audit, page string) *siteaudit.Override {
	return &siteaudit.Override{
		UserID:   user,
		AuditID:  audit,
		PageURL:  page,
		Priority: siteaudit.Tier2,
		Reason:   "main revenue page",
	}
}

func TestOverrideService_CreateOverride(t *testing.T) {
	t.Parallel()

	t.Run("creates override with generated ID and timestamps", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOverrideService(setupTestDB(t))
		o := newOverride("u1", "a1", "https://example.com/services")

		require.NoError(t, svc.CreateOverride(context.Background(), o))

		assert.NotEmpty(t, o.ID)
		assert.False(t, o.CreatedAt.IsZero())
		assert.Equal(t, o.CreatedAt, o.UpdatedAt)
	})

	t.Run("returns EINVALID for invalid override", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOverrideService(setupTestDB(t))
		o := newOverride("u1", "a1", "https://example.com/")
		o.Priority = "Tier9"

		err := svc.CreateOverride(context.Background(), o)

		assert.Equal(t, siteaudit.EINVALID, siteaudit.ErrorCode(err))
	})

	t.Run("returns ECONFLICT for duplicate user, audit and page", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOverrideService(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, svc.CreateOverride(ctx, newOverride("u1", "a1", "https://example.com/")))

		err := svc.CreateOverride(ctx, newOverride("u1", "a1", "https://example.com/"))

		assert.Equal(t, siteaudit.ECONFLICT, siteaudit.ErrorCode(err))
	})

	t.Run("allows the same page for another user", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOverrideService(setupTestDB(t))
		ctx := context.Background()
		require.NoError(t, svc.CreateOverride(ctx, newOverride("u1", "a1", "https://example.com/")))

		require.NoError(t, svc.CreateOverride(ctx, newOverride("u2", "a1", "https://example.com/")))
	})
}

func TestOverrideService_FindOverrideByID(t *testing.T) {
	t.Parallel()

	t.Run("returns stored fields", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOverrideService(setupTestDB(t))
		ctx := context.Background()
		o := newOverride("u1", "a1", "https://example.com/contact")
		require.NoError(t, svc.CreateOverride(ctx, o))

		found, err := svc.FindOverrideByID(ctx, o.ID)

		require.NoError(t, err)
		assert.Equal(t, o.UserID, found.UserID)
		assert.Equal(t, o.PageURL, found.PageURL)
		assert.Equal(t, siteaudit.Tier2, found.Priority)
		assert.Equal(t, "main revenue page", found.Reason)
		assert.True(t, o.CreatedAt.Equal(found.CreatedAt))
	})

	t.Run("returns ENOTFOUND for unknown ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOverrideService(setupTestDB(t))

		_, err := svc.FindOverrideByID(context.Background(), "missing")

		assert.Equal(t, siteaudit.ENOTFOUND, siteaudit.ErrorCode(err))
	})
}

func TestOverrideService_UpdateOverride(t *testing.T) {
	t.Parallel()

	t.Run("updates priority and reason", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOverrideService(setupTestDB(t))
		ctx := context.Background()
		o := newOverride("u1", "a1", "https://example.com/")
		require.NoError(t, svc.CreateOverride(ctx, o))

		tier := siteaudit.Tier1
		reason := "homepage"
		updated, err := svc.UpdateOverride(ctx, o.ID, siteaudit.OverrideUpdate{Priority: &tier, Reason: &reason})

		require.NoError(t, err)
		assert.Equal(t, siteaudit.Tier1, updated.Priority)
		assert.Equal(t, "homepage", updated.Reason)
		assert.False(t, updated.UpdatedAt.Before(o.UpdatedAt))

		found, err := svc.FindOverrideByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, siteaudit.Tier1, found.Priority)
	})

	t.Run("rejects invalid priority", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOverrideService(setupTestDB(t))
		ctx := context.Background()
		o := newOverride("u1", "a1", "https://example.com/")
		require.NoError(t, svc.CreateOverride(ctx, o))

		bad := siteaudit.Tier("urgent")
		_, err := svc.UpdateOverride(ctx, o.ID, siteaudit.OverrideUpdate{Priority: &bad})

		assert.Equal(t, siteaudit.EINVALID, siteaudit.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for unknown ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOverrideService(setupTestDB(t))

		_, err := svc.UpdateOverride(context.Background(), "missing", siteaudit.OverrideUpdate{})

		assert.Equal(t, siteaudit.ENOTFOUND, siteaudit.ErrorCode(err))
	})
}

func TestOverrideService_DeleteOverride(t *testing.T) {
	t.Parallel()

	t.Run("removes the override", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOverrideService(setupTestDB(t))
		ctx := context.Background()
		o := newOverride("u1", "a1", "https://example.com/")
		require.NoError(t, svc.CreateOverride(ctx, o))

		require.NoError(t, svc.DeleteOverride(ctx, o.ID))

		_, err := svc.FindOverrideByID(ctx, o.ID)
		assert.Equal(t, siteaudit.ENOTFOUND, siteaudit.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for unknown ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOverrideService(setupTestDB(t))

		err := svc.DeleteOverride(context.Background(), "missing")

		assert.Equal(t, siteaudit.ENOTFOUND, siteaudit.ErrorCode(err))
	})
}

func TestOverrideService_Find(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewOverrideService(setupTestDB(t))
	ctx := context.Background()
	for _, o := range []*siteaudit.Override{
		newOverride("u1", "a1", "https://example.com/"),
		newOverride("u1", "a1", "https://example.com/contact"),
		newOverride("u2", "a1", "https://example.com/"),
		newOverride("u1", "a2", "https://other.com/"),
	} {
		require.NoError(t, svc.CreateOverride(ctx, o))
	}

	t.Run("by audit", func(t *testing.T) {
		t.Parallel()

		found, err := svc.FindOverridesByAuditID(ctx, "a1")

		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, "https://example.com/", found[0].PageURL)
		assert.Equal(t, "u1", found[0].UserID)
	})

	t.Run("by user", func(t *testing.T) {
		t.Parallel()

		found, err := svc.FindOverridesByUserID(ctx, "u1")

		require.NoError(t, err)
		assert.Len(t, found, 3)
	})

	t.Run("empty result is not nil", func(t *testing.T) {
		t.Parallel()

		found, err := svc.FindOverridesByAuditID(ctx, "none")

		require.NoError(t, err)
		assert.NotNil(t, found)
		assert.Empty(t, found)
	})
}

func TestOverrideService_UpsertOverride(t *testing.T) {
	t.Parallel()

	t.Run("inserts when absent", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOverrideService(setupTestDB(t))
		ctx := context.Background()
		o := newOverride("u1", "a1", "https://example.com/")

		require.NoError(t, svc.UpsertOverride(ctx, o))

		assert.NotEmpty(t, o.ID)
		found, err := svc.FindOverrideByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, siteaudit.Tier2, found.Priority)
	})

	t.Run("replaces priority of existing override and keeps its ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOverrideService(setupTestDB(t))
		ctx := context.Background()
		first := newOverride("u1", "a1", "https://example.com/")
		require.NoError(t, svc.CreateOverride(ctx, first))

		second := newOverride("u1", "a1", "https://example.com/")
		second.Priority = siteaudit.Tier3
		second.Reason = ""
		require.NoError(t, svc.UpsertOverride(ctx, second))

		assert.Equal(t, first.ID, second.ID)
		assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
		found, err := svc.FindOverridesByAuditID(ctx, "a1")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, siteaudit.Tier3, found[0].Priority)
		assert.Empty(t, found[0].Reason)
	})

	t.Run("rejects invalid override", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewOverrideService(setupTestDB(t))

		err := svc.UpsertOverride(context.Background(), &siteaudit.Override{})

		assert.Equal(t, siteaudit.EINVALID, siteaudit.ErrorCode(err))
	})
}

func TestOverrideService_DeleteOverridesByAuditID(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewOverrideService(setupTestDB(t))
	ctx := context.Background()
	require.NoError(t, svc.CreateOverride(ctx, newOverride("u1", "a1", "https://example.com/")))
	require.NoError(t, svc.CreateOverride(ctx, newOverride("u2", "a1", "https://example.com/")))
	require.NoError(t, svc.CreateOverride(ctx, newOverride("u1", "a2", "https://example.com/")))

	n, err := svc.DeleteOverridesByAuditID(ctx, "a1")

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	remaining, err := svc.FindOverridesByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	n, err = svc.DeleteOverridesByAuditID(ctx, "a1")
	require.NoError(t, err)
	assert.Zero(t, n)
}
