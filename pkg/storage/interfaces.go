package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrNotConfigured = errors.New("object storage is not configured")

// StorageService çalışma kağıdı PDF'leri için nesne deposu
type StorageService interface {
	Upload(ctx context.Context, key, contentType string, reader io.Reader) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}
