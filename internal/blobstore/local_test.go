package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLocalStoreUploadAndDownload(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Upload(ctx, "contract.pdf", strings.NewReader("pdf bytes"), "application/pdf"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	rc, err := store.Download(ctx, "contract.pdf")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != "pdf bytes" {
		t.Errorf("expected 'pdf bytes', got %q", data)
	}
}

func TestLocalStoreMostRecent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Upload(ctx, "older.pdf", strings.NewReader("a"), "application/pdf"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := store.Upload(ctx, "newer.pdf", strings.NewReader("b"), "application/pdf"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	// File mtimes can collide on fast filesystems; force an ordering.
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "older.pdf"), past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	name, err := store.MostRecent(ctx)
	if err != nil {
		t.Fatalf("MostRecent: %v", err)
	}
	if name != "newer.pdf" {
		t.Errorf("expected newer.pdf, got %q", name)
	}
}

func TestLocalStoreMostRecentEmpty(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	_, err = store.MostRecent(context.Background())
	if err != ErrEmptyStore {
		t.Errorf("expected ErrEmptyStore, got %v", err)
	}
}

func TestLocalStoreSignedURL(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Upload(ctx, "doc.pdf", strings.NewReader("x"), "application/pdf"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	url, err := store.SignedURL(ctx, "doc.pdf", time.Hour)
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}
	if !strings.HasPrefix(url, "file://") {
		t.Errorf("expected file URL, got %q", url)
	}

	if _, err := store.SignedURL(ctx, "missing.pdf", time.Hour); err == nil {
		t.Error("expected error for missing object")
	}
}

func TestLocalStoreSanitizesNames(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()

	if err := store.Upload(ctx, "../escape.txt", strings.NewReader("x"), "text/plain"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".._escape.txt")); err != nil {
		t.Errorf("expected sanitized file inside root: %v", err)
	}
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	if _, err := New(context.Background(), Config{Type: "ftp"}); err == nil {
		t.Error("expected error for unknown storage type")
	}
}
