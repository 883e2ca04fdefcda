package storage

import (
	"context"
	"errors"
	"io"
)

const MaxFileSize = 5 * 1024 * 1024 // 5MBs

var (
	ErrFileTooLarge       = errors.New("file size exceeds maximum allowed size of 5MB")
	ErrUnsupportedContent = errors.New("unsupported content type")
)

// MediaStore persists uploaded media and returns a URL the content engine
// can embed in messages.
type MediaStore interface {
	Store(ctx context.Context, r io.Reader, fileName, contentType string) (string, error)
	Delete(ctx context.Context, fileName string) error
}

// validContentTypes covers the media kinds rooms accept. Links carry no
// upload so they never reach the store.
var validContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/webm":      true,
	"audio/mpeg":      true,
	"audio/ogg":       true,
	"audio/wav":       true,
	"audio/webm":      true,
	"application/octet-stream": true,
}

func ValidContentType(contentType string) bool {
	return validContentTypes[contentType]
}
