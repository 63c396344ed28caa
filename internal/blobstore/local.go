package blobstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore implements Store on a local directory, for development and
// tests. Signed URLs are plain file URLs; the expiry window is not enforced.
type LocalStore struct {
	root string
}

// NewLocalStore creates a directory-backed store, creating root if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

func (l *LocalStore) path(name string) string {
	// Flatten any path separators so objects cannot escape the root.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	return filepath.Join(l.root, name)
}

func (l *LocalStore) Upload(ctx context.Context, name string, data io.Reader, contentType string) error {
	f, err := os.Create(l.path(name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (l *LocalStore) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(l.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, nil
}

func (l *LocalStore) List(ctx context.Context) ([]ObjectInfo, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", l.root, err)
	}

	var objects []ObjectInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		objects = append(objects, ObjectInfo{
			Name:         entry.Name(),
			LastModified: info.ModTime(),
		})
	}
	return objects, nil
}

func (l *LocalStore) MostRecent(ctx context.Context) (string, error) {
	objects, err := l.List(ctx)
	if err != nil {
		return "", err
	}
	return mostRecentOf(objects)
}

func (l *LocalStore) SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error) {
	path := l.path(name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("object %s not found: %w", name, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	return "file://" + abs, nil
}
