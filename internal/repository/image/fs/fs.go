package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"image-watermarker/internal/repository/image"
)

// DirectoryStore writes watermarked files flat into one directory, keyed by
// base name.
type DirectoryStore struct {
	dir string
}

func NewDirectoryStore(dir string) (*DirectoryStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("%w: output directory is required", image.ErrStorageValidation)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: ensure output directory: %v", image.ErrStorageError, err)
	}
	return &DirectoryStore{dir: dir}, nil
}

func (s *DirectoryStore) Dir() string {
	return s.dir
}

// Save writes data to <dir>/<name> and returns the full path. An existing
// file with the same name is overwritten.
func (s *DirectoryStore) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) || base == ".." {
		return "", fmt.Errorf("%w: %q", image.ErrInvalidName, name)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: ensure output directory: %v", image.ErrStorageError, err)
	}

	path := filepath.Join(s.dir, base)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", image.ErrStorageError, path, err)
	}

	return path, nil
}
