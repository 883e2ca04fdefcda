package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore writes media to a directory on disk. Used in development and
// tests where no object store is available.
type LocalStore struct {
	basePath      string
	publicBaseURL string
}

func NewLocalStore(basePath, publicBaseURL string) (*LocalStore, error) {
	if basePath == "" {
		basePath = "./uploads"
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return &LocalStore{
		basePath:      basePath,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (s *LocalStore) Store(ctx context.Context, r io.Reader, fileName, contentType string) (string, error) {
	if !ValidContentType(contentType) {
		return "", ErrUnsupportedContent
	}

	filePath := filepath.Join(s.basePath, filepath.Base(fileName))

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if written > MaxFileSize {
		os.Remove(filePath)
		return "", ErrFileTooLarge
	}

	return fmt.Sprintf("%s/%s", s.publicBaseURL, filepath.Base(fileName)), nil
}

func (s *LocalStore) Delete(ctx context.Context, fileName string) error {
	fullPath := filepath.Join(s.basePath, filepath.Base(fileName))

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(fullPath)
}
