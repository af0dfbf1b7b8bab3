package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
)

// Storage defines the interface for file storage operations
type Storage interface {
	// Save stores a file under the given name
	Save(ctx context.Context, name string, reader io.Reader, contentType string) error

	// Delete removes a file. Missing files are not an error.
	Delete(ctx context.Context, name string) error

	// Exists checks if a file exists
	Exists(ctx context.Context, name string) (bool, error)

	// GetURL returns a public URL for the file
	GetURL(ctx context.Context, name string) (string, error)
}

// Config holds storage configuration
type Config struct {
	Type      string // local, s3
	BasePath  string // For local storage
	BaseURL   string // Public URL base
	Bucket    string // For S3
	Region    string // For S3
	AccessKey string // For S3
	SecretKey string // For S3
	Endpoint  string // For S3-compatible stores (MinIO, R2)
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// NameFromURL извлекает имя файла из публичного URL (последний сегмент пути)
func NameFromURL(url string) string {
	if idx := strings.IndexAny(url, "?#"); idx >= 0 {
		url = url[:idx]
	}
	name := path.Base(url)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
