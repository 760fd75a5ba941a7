package storage

import (
	"context"
	"io"
)

// FileStorage holds personnel snapshot files between the scraper and the loader.
type FileStorage interface {
	// Upload stores a file and returns its cleaned path
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the file names directly under the root ending in ext, sorted
	List(ctx context.Context, ext string) ([]string, error)
}
