package blob

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/markremodeling/renovation/internal/db"
)

func newTestStore(t *testing.T) (*DiskStore, string) {
	t.Helper()
	dir := t.TempDir()
	log := zaptest.NewLogger(t)

	database, err := db.NewDB(filepath.Join(dir, "blobs.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	root := filepath.Join(dir, "files")
	store, err := NewDiskStore(root, "/blobs/", database, log)
	require.NoError(t, err)

	tick := time.UnixMilli(1700000000000)
	store.now = func() time.Time {
		tick = tick.Add(time.Millisecond)
		return tick
	}
	return store, root
}

func TestPutListDelete(t *testing.T) {
	store, root := newTestStore(t)
	ctx := context.Background()

	item, err := store.Put(ctx, Object{Folder: "services", Filename: "kitchen.jpg", Data: []byte("jpegdata"), ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "images/services/kitchen-1700000000001.jpg", item.Pathname)
	assert.Equal(t, "/blobs/images/services/kitchen-1700000000001.jpg", item.URL)
	assert.Equal(t, int64(8), item.Size)

	onDisk, err := os.ReadFile(filepath.Join(root, "images", "services", "kitchen-1700000000001.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpegdata", string(onDisk))

	_, err = store.Put(ctx, Object{Folder: "../../etc", Filename: "x.png", Data: []byte("png")})
	require.NoError(t, err)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	services, err := store.List(ctx, "services")
	require.NoError(t, err)
	require.Len(t, services, 1)

	data, err := store.Read(ctx, "https://example.com"+item.URL)
	require.NoError(t, err)
	assert.Equal(t, "jpegdata", string(data))

	require.NoError(t, store.Delete(ctx, item.URL))
	assert.ErrorIs(t, store.Delete(ctx, item.URL), ErrNotFound)
	_, err = os.Stat(filepath.Join(root, "images", "services", "kitchen-1700000000001.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestPutEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Put(context.Background(), Object{Filename: "a.jpg"})
	assert.Error(t, err)
}

func TestPathFor(t *testing.T) {
	store, root := newTestStore(t)

	p, err := store.pathFor("images/a/b.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "images", "a", "b.jpg"), p)

	p, err = store.pathFor("../../outside.jpg")
	require.NoError(t, err, "cleaned keys stay inside the root")
	assert.Equal(t, filepath.Join(root, "outside.jpg"), p)
}

func TestHandler(t *testing.T) {
	store, _ := newTestStore(t)
	item, err := store.Put(context.Background(), Object{Folder: "misc", Filename: "a.txt", Data: []byte("hello")})
	require.NoError(t, err)

	srv := httptest.NewServer(store.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + item.URL)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", string(body))

	resp, err = http.Get(srv.URL + "/blobs/images/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
