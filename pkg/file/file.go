package file

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

// Storage stores opaque blobs under relative paths and resolves their
// public URLs. Implementations must be safe for concurrent use.
type Storage interface {
	// Save writes the blob at path and returns its public URL.
	Save(ctx context.Context, r io.Reader, path, contentType string) (string, error)
	// Delete removes a single blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, path string) error
	// Exists reports whether a blob is present at path.
	Exists(ctx context.Context, path string) bool
	// URL returns the public URL for a stored path without touching the backend.
	URL(path string) string
}

var unsafeFilenameRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// SanitizeFilename strips directory components and unsafe characters from
// an externally supplied filename.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeFilenameRegex.ReplaceAllString(name, "")
	if name == "" || name == "." || name == ".." {
		name = "file"
	}
	return name
}

// cleanPath validates a storage-relative path, rejecting traversal.
func cleanPath(path string) (string, error) {
	path = strings.TrimPrefix(path, "/")
	if path == "" || strings.Contains(path, "..") {
		return "", ErrInvalidPath
	}
	return filepath.ToSlash(filepath.Clean(path)), nil
}
