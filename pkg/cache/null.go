package cache

import (
	"context"
	"time"
)

// NullCache drops everything and always misses. It backs --no-cache runs
// and keeps tests independent of the filesystem.
type NullCache struct{}

func NewNullCache() Cache {
	return &NullCache{}
}

var _ Cache = (*NullCache)(nil)

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}
