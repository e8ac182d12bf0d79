package file

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements Storage on the local filesystem. All operations
// are confined to the base directory to prevent path traversal.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage creates a filesystem-backed storage rooted at baseDir.
// baseURL is the public prefix the files are served under (e.g. "/uploads").
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}

	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve base directory: %v", ErrInvalidConfig, err)
	}

	if err := os.MkdirAll(absBaseDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &LocalStorage{
		baseDir: absBaseDir,
		baseURL: baseURL,
	}, nil
}

// Save writes the blob to disk and returns its public URL.
func (s *LocalStorage) Save(ctx context.Context, r io.Reader, path, contentType string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	rel, err := cleanPath(path)
	if err != nil {
		return "", err
	}
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	dst, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	defer func() { _ = dst.Close() }()

	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(absPath)
		return "", fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	return s.URL(rel), nil
}

// Delete removes a blob. Missing blobs are ignored.
func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	rel, err := cleanPath(path)
	if err != nil {
		return err
	}

	err = os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err)
	}
	return nil
}

// Exists reports whether a blob is present at path.
func (s *LocalStorage) Exists(ctx context.Context, path string) bool {
	rel, err := cleanPath(path)
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(s.baseDir, filepath.FromSlash(rel)))
	return err == nil && !info.IsDir()
}

// URL returns the public URL for a stored path.
func (s *LocalStorage) URL(path string) string {
	return s.baseURL + strings.TrimPrefix(path, "/")
}

// Dir returns the absolute base directory, for wiring a static file server.
func (s *LocalStorage) Dir() string {
	return s.baseDir
}

var _ Storage = (*LocalStorage)(nil)
