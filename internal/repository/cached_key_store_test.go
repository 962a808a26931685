package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randkey/randkey/internal/metrics"
	"github.com/randkey/randkey/internal/models"
	"github.com/randkey/randkey/pkg/keygen"
)

// memKeyStore is an in-memory KeyStore whose Insert enforces uniqueness
// atomically, the way the database constraint does.
type memKeyStore struct {
	mu          sync.Mutex
	keys        map[int64]time.Time
	existsCalls int
}

func newMemKeyStore() *memKeyStore {
	return &memKeyStore{keys: make(map[int64]time.Time)}
}

func (m *memKeyStore) Exists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.existsCalls++
	_, ok := m.keys[id]
	return ok, nil
}

func (m *memKeyStore) Insert(ctx context.Context, id int64) (*models.Key, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[id]; ok {
		return nil, models.ErrKeyExists
	}
	now := time.Now()
	m.keys[id] = now
	return &models.Key{Value: id, CreatedAt: now}, nil
}

func (m *memKeyStore) Get(ctx context.Context, id int64) (*models.Key, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created, ok := m.keys[id]
	if !ok {
		return nil, models.ErrKeyNotFound
	}
	return &models.Key{Value: id, CreatedAt: created}, nil
}

func (m *memKeyStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.keys[id]; !ok {
		return models.ErrKeyNotFound
	}
	delete(m.keys, id)
	return nil
}

func (m *memKeyStore) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.keys)), nil
}

func (m *memKeyStore) HealthCheck(ctx context.Context) error { return nil }

// memKeyCache is an in-memory KeyCacher.
type memKeyCache struct {
	mu   sync.Mutex
	keys map[int64]bool
}

func newMemKeyCache() *memKeyCache {
	return &memKeyCache{keys: make(map[int64]bool)}
}

func (m *memKeyCache) Contains(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[id], nil
}

func (m *memKeyCache) Add(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[id] = true
	return nil
}

func (m *memKeyCache) Remove(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, id)
	return nil
}

func TestCachedKeyStore_Exists(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the store", func(t *testing.T) {
		store := newMemKeyStore()
		keyCache := newMemKeyCache()
		cached := NewCachedKeyStore(store, keyCache)

		require.NoError(t, keyCache.Add(ctx, 42))

		hitsBefore := promtestutil.ToFloat64(metrics.CacheHitsTotal)

		exists, err := cached.Exists(ctx, 42)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Zero(t, store.existsCalls)
		assert.Equal(t, hitsBefore+1, promtestutil.ToFloat64(metrics.CacheHitsTotal))
	})

	t.Run("cache miss does not count a hit", func(t *testing.T) {
		store := newMemKeyStore()
		cached := NewCachedKeyStore(store, newMemKeyCache())

		_, err := store.Insert(ctx, 43)
		require.NoError(t, err)

		hitsBefore := promtestutil.ToFloat64(metrics.CacheHitsTotal)

		exists, err := cached.Exists(ctx, 43)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, hitsBefore, promtestutil.ToFloat64(metrics.CacheHitsTotal))
	})

	t.Run("cache miss falls through and backfills", func(t *testing.T) {
		store := newMemKeyStore()
		keyCache := newMemKeyCache()
		cached := NewCachedKeyStore(store, keyCache)

		_, err := store.Insert(ctx, 77)
		require.NoError(t, err)

		exists, err := cached.Exists(ctx, 77)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, 1, store.existsCalls)

		// Second check is served from the cache.
		exists, err = cached.Exists(ctx, 77)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, 1, store.existsCalls)
	})

	t.Run("absent key is not cached", func(t *testing.T) {
		store := newMemKeyStore()
		keyCache := newMemKeyCache()
		cached := NewCachedKeyStore(store, keyCache)

		exists, err := cached.Exists(ctx, 99)
		require.NoError(t, err)
		assert.False(t, exists)

		hit, err := keyCache.Contains(ctx, 99)
		require.NoError(t, err)
		assert.False(t, hit)
	})
}

func TestCachedKeyStore_InsertWriteThrough(t *testing.T) {
	ctx := context.Background()
	store := newMemKeyStore()
	keyCache := newMemKeyCache()
	cached := NewCachedKeyStore(store, keyCache)

	key, err := cached.Insert(ctx, 12345678)
	require.NoError(t, err)
	assert.Equal(t, int64(12345678), key.Value)

	hit, err := keyCache.Contains(ctx, 12345678)
	require.NoError(t, err)
	assert.True(t, hit)

	// A second insert of the same value loses to the constraint.
	_, err = cached.Insert(ctx, 12345678)
	assert.ErrorIs(t, err, models.ErrKeyExists)
}

func TestCachedKeyStore_DeleteEvicts(t *testing.T) {
	ctx := context.Background()
	store := newMemKeyStore()
	keyCache := newMemKeyCache()
	cached := NewCachedKeyStore(store, keyCache)

	_, err := cached.Insert(ctx, 555)
	require.NoError(t, err)

	require.NoError(t, cached.Delete(ctx, 555))

	hit, err := keyCache.Contains(ctx, 555)
	require.NoError(t, err)
	assert.False(t, hit)

	assert.ErrorIs(t, cached.Delete(ctx, 555), models.ErrKeyNotFound)
}

func TestCachedKeyStore_GetAndCount(t *testing.T) {
	ctx := context.Background()
	cached := NewCachedKeyStore(newMemKeyStore(), newMemKeyCache())

	_, err := cached.Insert(ctx, 1001)
	require.NoError(t, err)
	_, err = cached.Insert(ctx, 1002)
	require.NoError(t, err)

	key, err := cached.Get(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), key.Value)

	_, err = cached.Get(ctx, 9999)
	assert.ErrorIs(t, err, models.ErrKeyNotFound)

	count, err := cached.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestKeyStoreInterfaces(t *testing.T) {
	var _ KeyStore = (*PostgresKeyStore)(nil)
	var _ KeyStore = (*CachedKeyStore)(nil)
	var _ KeyStore = (*memKeyStore)(nil)

	// A store doubles as the generator's uniqueness verifier.
	var _ keygen.ExistenceChecker = (KeyStore)(nil)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(assert.AnError))
	assert.False(t, isUniqueViolation(nil))
}
