package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrBlobNotFound is returned when no blob matches a url or pathname
var ErrBlobNotFound = errors.New("blob not found")

// BlobRecord is the metadata row kept for each stored image
type BlobRecord struct {
	Pathname    string
	URL         string
	Size        int64
	ContentType string
	Width       int
	Height      int
	UploadedAt  time.Time
}

// InsertBlob indexes a stored blob
func (db *DB) InsertBlob(ctx context.Context, b BlobRecord) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO blobs (pathname, url, size, content_type, width, height, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.Pathname, b.URL, b.Size, b.ContentType, b.Width, b.Height, b.UploadedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert blob %s: %w", b.Pathname, err)
	}
	return nil
}

// ListBlobs returns blobs whose pathname starts with prefix, newest first
func (db *DB) ListBlobs(ctx context.Context, prefix string, limit int) ([]BlobRecord, error) {
	if limit <= 0 {
		limit = 1000
	}

	rows, err := db.QueryContext(ctx, `
		SELECT pathname, url, size, content_type, width, height, uploaded_at
		FROM blobs WHERE substr(pathname, 1, ?) = ?
		ORDER BY uploaded_at DESC LIMIT ?`, len(prefix), prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}
	defer rows.Close()

	var out []BlobRecord
	for rows.Next() {
		b, err := scanBlob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetBlobByURL looks up a blob by its public url
func (db *DB) GetBlobByURL(ctx context.Context, url string) (BlobRecord, error) {
	row := db.QueryRowContext(ctx, `
		SELECT pathname, url, size, content_type, width, height, uploaded_at
		FROM blobs WHERE url = ?`, url)
	b, err := scanBlob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BlobRecord{}, ErrBlobNotFound
	}
	return b, err
}

// DeleteBlob removes the index row for a pathname
func (db *DB) DeleteBlob(ctx context.Context, pathname string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM blobs WHERE pathname = ?`, pathname)
	if err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", pathname, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBlobNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlob(s scanner) (BlobRecord, error) {
	var b BlobRecord
	var uploadedMs int64
	if err := s.Scan(&b.Pathname, &b.URL, &b.Size, &b.ContentType, &b.Width, &b.Height, &uploadedMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BlobRecord{}, err
		}
		return BlobRecord{}, fmt.Errorf("failed to scan blob: %w", err)
	}
	b.UploadedAt = time.UnixMilli(uploadedMs).UTC()
	return b, nil
}
