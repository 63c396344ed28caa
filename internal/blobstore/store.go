package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// DefaultSignedURLTTL is how long a signed URL stays valid unless the caller
// asks otherwise.
const DefaultSignedURLTTL = time.Hour

// ErrEmptyStore is returned by MostRecent when the store holds no objects.
var ErrEmptyStore = errors.New("no objects in store")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Name         string
	LastModified time.Time
}

// Store is the blob storage used for uploaded documents and templates.
type Store interface {
	// Upload stores an object under name, replacing any existing object.
	Upload(ctx context.Context, name string, data io.Reader, contentType string) error

	// Download retrieves an object by name.
	Download(ctx context.Context, name string) (io.ReadCloser, error)

	// List returns all objects with their last-modified times.
	List(ctx context.Context) ([]ObjectInfo, error)

	// MostRecent returns the name of the most-recently-modified object.
	// This is a global last-writer-wins pointer; concurrent uploads race.
	// Callers should prefer an explicit object name when they have one.
	MostRecent(ctx context.Context) (string, error)

	// SignedURL returns a time-limited read-only URL for the object.
	SignedURL(ctx context.Context, name string, ttl time.Duration) (string, error)
}

// Config holds configuration for a storage backend.
type Config struct {
	Type         string // "local" or "s3"
	LocalPath    string
	Bucket       string
	Prefix       string
	Region       string
	AWSAccessKey string
	AWSSecretKey string
}

// New creates a storage backend from configuration.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Type {
	case "local", "":
		path := cfg.LocalPath
		if path == "" {
			path = "./data/blobs"
		}
		return NewLocalStore(path)
	case "s3":
		if cfg.Bucket == "" {
			return nil, errors.New("bucket is required for s3 storage")
		}
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
