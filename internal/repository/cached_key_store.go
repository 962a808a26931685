package repository

import (
	"context"

	"github.com/randkey/randkey/internal/metrics"
	"github.com/randkey/randkey/internal/models"
)

// KeyCacher records positive key membership. Satisfied by cache.KeyCache.
type KeyCacher interface {
	Contains(ctx context.Context, id int64) (bool, error)
	Add(ctx context.Context, id int64) error
	Remove(ctx context.Context, id int64) error
}

// CachedKeyStore wraps a KeyStore with a positive-membership cache so
// existence checks for recently allocated keys skip the database. A cache
// hit is trusted (keys are never reused while cached); a miss falls through
// to the store. Cache errors are never fatal, the store remains the source
// of truth.
type CachedKeyStore struct {
	store KeyStore
	cache KeyCacher
}

// NewCachedKeyStore creates a caching decorator around a KeyStore.
func NewCachedKeyStore(store KeyStore, cache KeyCacher) *CachedKeyStore {
	return &CachedKeyStore{store: store, cache: cache}
}

// Exists checks the cache first and falls back to the store.
func (c *CachedKeyStore) Exists(ctx context.Context, id int64) (bool, error) {
	hit, err := c.cache.Contains(ctx, id)
	if err == nil && hit {
		metrics.RecordCacheHit()
		return true, nil
	}

	exists, err := c.store.Exists(ctx, id)
	if err != nil {
		return false, err
	}

	if exists {
		_ = c.cache.Add(ctx, id)
	}
	return exists, nil
}

// Insert claims the key in the store, then records it in the cache
// (write-through).
func (c *CachedKeyStore) Insert(ctx context.Context, id int64) (*models.Key, error) {
	key, err := c.store.Insert(ctx, id)
	if err != nil {
		return nil, err
	}

	_ = c.cache.Add(ctx, id)
	return key, nil
}

// Get retrieves an allocated key from the store.
func (c *CachedKeyStore) Get(ctx context.Context, id int64) (*models.Key, error) {
	return c.store.Get(ctx, id)
}

// Delete releases the key and evicts it from the cache.
func (c *CachedKeyStore) Delete(ctx context.Context, id int64) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}

	_ = c.cache.Remove(ctx, id)
	return nil
}

// Count returns the number of allocated keys in the store.
func (c *CachedKeyStore) Count(ctx context.Context) (int64, error) {
	return c.store.Count(ctx)
}

// HealthCheck verifies the underlying store is healthy.
func (c *CachedKeyStore) HealthCheck(ctx context.Context) error {
	return c.store.HealthCheck(ctx)
}
