// Package blob stores uploaded site images on local disk and indexes them in
// the database so they can be listed and deleted by public URL.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/markremodeling/renovation/internal/db"
	"github.com/markremodeling/renovation/internal/utils"
)

// ErrNotFound is returned when a URL does not name a stored blob
var ErrNotFound = errors.New("blob not found")

// Object is an image to store
type Object struct {
	Folder      string
	Filename    string
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Item is a stored blob as returned by the admin API
type Item struct {
	URL        string    `json:"url"`
	Pathname   string    `json:"pathname"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Store persists images and finds them again by folder or URL
type Store interface {
	Put(ctx context.Context, obj Object) (Item, error)
	List(ctx context.Context, folder string) ([]Item, error)
	Delete(ctx context.Context, url string) error
	Read(ctx context.Context, url string) ([]byte, error)
}

// Index is the metadata table behind a DiskStore
type Index interface {
	InsertBlob(ctx context.Context, b db.BlobRecord) error
	ListBlobs(ctx context.Context, prefix string, limit int) ([]db.BlobRecord, error)
	GetBlobByURL(ctx context.Context, url string) (db.BlobRecord, error)
	DeleteBlob(ctx context.Context, pathname string) error
}

// DiskStore writes blobs under a root directory and serves them below a
// public URL prefix.
type DiskStore struct {
	root   string
	prefix string
	index  Index
	log    *zap.Logger
	now    func() time.Time
}

// NewDiskStore creates the root directory if needed
func NewDiskStore(root, publicPrefix string, index Index, log *zap.Logger) (*DiskStore, error) {
	if err := utils.EnsureDir(root); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if !strings.HasSuffix(publicPrefix, "/") {
		publicPrefix += "/"
	}
	return &DiskStore{root: root, prefix: publicPrefix, index: index, log: log, now: time.Now}, nil
}

// Put writes the object and records it in the index
func (s *DiskStore) Put(ctx context.Context, obj Object) (Item, error) {
	if len(obj.Data) == 0 {
		return Item{}, fmt.Errorf("empty blob")
	}

	uploaded := s.now().UTC()
	key := utils.BlobKey(obj.Folder, obj.Filename, uploaded)
	dst, err := s.pathFor(key)
	if err != nil {
		return Item{}, err
	}

	if err := writeFileAtomic(dst, obj.Data); err != nil {
		return Item{}, err
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(obj.Data)
	}
	rec := db.BlobRecord{
		Pathname:    key,
		URL:         s.prefix + key,
		Size:        int64(len(obj.Data)),
		ContentType: contentType,
		Width:       obj.Width,
		Height:      obj.Height,
		UploadedAt:  uploaded,
	}
	if err := s.index.InsertBlob(ctx, rec); err != nil {
		_ = os.Remove(dst)
		return Item{}, err
	}

	s.log.Info("blob stored", zap.String("pathname", key), zap.Int64("size", rec.Size))
	return toItem(rec), nil
}

// List returns the blobs in a folder, or all images when folder is empty
func (s *DiskStore) List(ctx context.Context, folder string) ([]Item, error) {
	recs, err := s.index.ListBlobs(ctx, utils.ListPrefix(folder), 0)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(recs))
	for _, r := range recs {
		items = append(items, toItem(r))
	}
	return items, nil
}

// Delete removes the blob named by its public URL
func (s *DiskStore) Delete(ctx context.Context, url string) error {
	rec, err := s.lookup(ctx, url)
	if err != nil {
		return err
	}

	dst, err := s.pathFor(rec.Pathname)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove blob file: %w", err)
	}
	if err := s.index.DeleteBlob(ctx, rec.Pathname); err != nil {
		if errors.Is(err, db.ErrBlobNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.log.Info("blob deleted", zap.String("pathname", rec.Pathname))
	return nil
}

// Read returns the bytes of a stored blob
func (s *DiskStore) Read(ctx context.Context, url string) ([]byte, error) {
	rec, err := s.lookup(ctx, url)
	if err != nil {
		return nil, err
	}
	dst, err := s.pathFor(rec.Pathname)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Handler serves stored files; mount it at the public prefix
func (s *DiskStore) Handler() http.Handler {
	files := http.StripPrefix(strings.TrimSuffix(s.prefix, "/"), http.FileServer(http.Dir(s.root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// no directory listings
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		files.ServeHTTP(w, r)
	})
}

func (s *DiskStore) lookup(ctx context.Context, url string) (db.BlobRecord, error) {
	// accept absolute URLs that end in our public path
	if i := strings.Index(url, s.prefix); i > 0 {
		url = url[i:]
	}
	rec, err := s.index.GetBlobByURL(ctx, url)
	if errors.Is(err, db.ErrBlobNotFound) {
		return db.BlobRecord{}, ErrNotFound
	}
	return rec, err
}

// pathFor maps a key onto the root directory and rejects escapes
func (s *DiskStore) pathFor(key string) (string, error) {
	clean := path.Clean("/" + key)
	dst := filepath.Join(s.root, filepath.FromSlash(clean))

	rel, err := filepath.Rel(s.root, dst)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("path traversal detected: %s", key)
	}
	return dst, nil
}

func writeFileAtomic(dst string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create blob folder: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return os.Rename(tmp.Name(), dst)
}

func toItem(r db.BlobRecord) Item {
	return Item{URL: r.URL, Pathname: r.Pathname, Size: r.Size, UploadedAt: r.UploadedAt}
}
