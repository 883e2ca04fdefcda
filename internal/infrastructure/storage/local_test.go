package storage

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost/media")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	url, err := store.Store(t.Context(), strings.NewReader("payload"), "clip.png", "image/png")
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if url != "http://localhost/media/clip.png" {
		t.Errorf("url = %s", url)
	}

	if err := store.Delete(t.Context(), "clip.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Deleting a missing file is not an error.
	if err := store.Delete(t.Context(), "clip.png"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestLocalStoreRejectsUnsupportedContent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost/media")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	if _, err := store.Store(t.Context(), strings.NewReader("payload"), "page.html", "text/html"); !errors.Is(err, ErrUnsupportedContent) {
		t.Fatalf("error = %v, want ErrUnsupportedContent", err)
	}

	files, _ := os.ReadDir(dir)
	if len(files) != 0 {
		t.Errorf("stored files = %d, want 0", len(files))
	}
}

func TestLocalStoreEnforcesSizeLimit(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost/media")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	oversized := bytes.NewReader(make([]byte, MaxFileSize+1))
	if _, err := store.Store(t.Context(), oversized, "big.png", "image/png"); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("error = %v, want ErrFileTooLarge", err)
	}

	// The partial write must not be left behind.
	files, _ := os.ReadDir(dir)
	if len(files) != 0 {
		t.Errorf("stored files = %d, want 0", len(files))
	}
}

func TestLocalStoreStripsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost/media")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	if _, err := store.Store(t.Context(), strings.NewReader("payload"), "../../escape.png", "image/png"); err != nil {
		t.Fatalf("Store: %v", err)
	}

	if _, err := os.Stat(dir + "/escape.png"); err != nil {
		t.Errorf("file should land inside the base path: %v", err)
	}
}
