package idempotency

import (
	"context"
	"time"
)

// Store bir anahtarın yalnızca bir kez işlenmesini sağlar
type Store interface {
	// MarkProcessed anahtar yeni işaretlendiyse true, daha önce görüldüyse false döner
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release işleme başarısız olduğunda anahtarı tekrar denenebilir yapar
	Release(ctx context.Context, key string) error
}
