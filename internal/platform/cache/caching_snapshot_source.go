// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/snapshots/usecase"
)

// CachingSnapshotSource decorates a snapshot Source with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying source. Bodies are cached as raw bytes.
type CachingSnapshotSource struct {
	inner     usecase.Source
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.Source = (*CachingSnapshotSource)(nil)

// NewCachingSnapshotSource decorates a Source with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses
// "snapshots".
func NewCachingSnapshotSource(rdb *redis.Client, ttl time.Duration, inner usecase.Source, namespace string) *CachingSnapshotSource {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "snapshots"
	}
	return &CachingSnapshotSource{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Get retrieves a snapshot body, checking cache first then falling back to
// the inner source.
func (c *CachingSnapshotSource) Get(ctx context.Context, name string) ([]byte, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.Get(ctx, name)
	}

	key := c.cacheKey(name)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		return b, nil
	}

	// 2) Fallback to the inner source
	body, err := c.inner.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if len(body) > 0 {
		_ = c.rdb.Set(ctx, key, body, c.ttl).Err()
	}

	return body, nil
}

// Refresh re-fetches the file through the inner source and invalidates the
// cached copy so the next Get sees the new body.
func (c *CachingSnapshotSource) Refresh(ctx context.Context, name, dataType string) error {
	if err := c.inner.Refresh(ctx, name, dataType); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	_ = c.rdb.Del(ctx, c.cacheKey(name)).Err() // Best effort: don't fail if cache deletion fails
	return nil
}

// cacheKey generates a cache key for a snapshot file.
func (c *CachingSnapshotSource) cacheKey(name string) string {
	return fmt.Sprintf("%s:%s", c.namespace, safe(name))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
