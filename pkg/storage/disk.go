// Package storage writes report files to a local directory or an
// S3-compatible bucket behind one Disk interface.
//
//	m, err := storage.New(storage.Config{Default: "local", LocalRoot: "storage/exports"})
//	err = m.Default().Put(ctx, "reports/orders.csv", r)
//	url := m.Default().URL("reports/orders.csv")
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Open for a missing path.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is implemented by every driver. Paths are slash-separated and
// relative to the disk root.
type Disk interface {
	// Put writes r to path, creating parent directories as needed.
	Put(ctx context.Context, path string, r io.Reader) error

	// Open returns the file content. Caller must close it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// Files lists the files directly inside directory, sorted.
	Files(ctx context.Context, directory string) ([]string, error)

	// URL returns the public URL for path.
	URL(path string) string
}
