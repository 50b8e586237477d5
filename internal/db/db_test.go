package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := NewDB(filepath.Join(t.TempDir(), "test.db"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestPragmasApplied(t *testing.T) {
	database := newTestDB(t)

	var journalMode string
	require.NoError(t, database.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var busyTimeout int
	require.NoError(t, database.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 5000, busyTimeout)
}

func TestMigrations(t *testing.T) {
	database := newTestDB(t)

	version, dirty, err := database.MigrateVersion(MigrationsFS())
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	// re-running is a no-op
	require.NoError(t, database.MigrateUp(MigrationsFS()))

	require.NoError(t, database.MigrateDown(MigrationsFS()))
	version, _, err = database.MigrateVersion(MigrationsFS())
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	var n int
	err = database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='blobs'").Scan(&n)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenDBWithoutSchema(t *testing.T) {
	database, err := OpenDB(filepath.Join(t.TempDir(), "nested", "fresh.db"), nil)
	require.NoError(t, err)
	defer database.Close()

	version, dirty, err := database.MigrateVersion(MigrationsFS())
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)
}

func TestLeads(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	first := &Lead{Name: "Ana", Email: "ana@example.com", Message: "Kitchen quote", CreatedAt: time.UnixMilli(1000)}
	require.NoError(t, database.InsertLead(ctx, first))
	_, err := uuid.Parse(first.ID)
	assert.NoError(t, err, "lead id should be a uuid")

	second := &Lead{Name: "Bo", Email: "bo@example.com", Phone: "555", Message: "Bathroom", RemoteIP: "10.0.0.1"}
	require.NoError(t, database.InsertLead(ctx, second))

	leads, err := database.ListLeads(ctx, 0)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Bo", leads[0].Name)
	assert.Equal(t, "10.0.0.1", leads[0].RemoteIP)
	assert.Equal(t, first.ID, leads[1].ID)
	assert.Equal(t, int64(1000), leads[1].CreatedAt.UnixMilli())
}

func TestBlobs(t *testing.T) {
	database := newTestDB(t)
	ctx := context.Background()

	recs := []BlobRecord{
		{Pathname: "images/services/a-1.jpg", URL: "/blobs/images/services/a-1.jpg", Size: 10, ContentType: "image/jpeg", UploadedAt: time.UnixMilli(1)},
		{Pathname: "images/services/b-2.png", URL: "/blobs/images/services/b-2.png", Size: 20, UploadedAt: time.UnixMilli(2)},
		{Pathname: "images/misc/c-3.webp", URL: "/blobs/images/misc/c-3.webp", Size: 30, UploadedAt: time.UnixMilli(3)},
	}
	for _, r := range recs {
		require.NoError(t, database.InsertBlob(ctx, r))
	}
	assert.Error(t, database.InsertBlob(ctx, recs[0]), "duplicate pathname must fail")

	all, err := database.ListBlobs(ctx, "images", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "images/misc/c-3.webp", all[0].Pathname)

	services, err := database.ListBlobs(ctx, "images/services", 0)
	require.NoError(t, err)
	assert.Len(t, services, 2)

	got, err := database.GetBlobByURL(ctx, "/blobs/images/services/a-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Size)
	assert.Equal(t, "image/jpeg", got.ContentType)

	_, err = database.GetBlobByURL(ctx, "/blobs/nope")
	assert.ErrorIs(t, err, ErrBlobNotFound)

	require.NoError(t, database.DeleteBlob(ctx, got.Pathname))
	assert.ErrorIs(t, database.DeleteBlob(ctx, got.Pathname), ErrBlobNotFound)
}
