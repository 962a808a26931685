// Package services contains business logic.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/randkey/randkey/internal/config"
	"github.com/randkey/randkey/internal/metrics"
	"github.com/randkey/randkey/internal/models"
	"github.com/randkey/randkey/internal/repository"
	"github.com/randkey/randkey/pkg/keygen"
	"github.com/randkey/randkey/pkg/logger"
)

// ErrInsertRetriesExhausted is returned when every generated key that passed
// the existence check was then claimed by a concurrent writer before our
// insert landed.
var ErrInsertRetriesExhausted = errors.New("insert retries exhausted, all candidates lost the insert race")

// KeyService defines the interface for key allocation operations.
type KeyService interface {
	// Allocate generates a unique key and claims it in the store.
	Allocate(ctx context.Context) (*models.Key, error)

	// Release frees a previously allocated key.
	Release(ctx context.Context, id int64) error

	// Stats returns the underlying generator statistics.
	Stats() keygen.Stats
}

// KeyServiceImpl implements KeyService. The existence check inside the
// generator is only an optimization; the store's uniqueness constraint
// decides. An insert that loses the check-then-act race triggers a fresh
// generation, up to insertRetries times.
type KeyServiceImpl struct {
	store         repository.KeyStore
	gen           *keygen.UniqueGenerator
	genCfg        keygen.Config
	log           *logger.Logger
	insertRetries int
}

// NewKeyService creates a KeyService. The key configuration is validated
// here; an invalid class/digit combination never reaches generation.
func NewKeyService(store repository.KeyStore, keyCfg config.KeyConfig, log *logger.Logger) (*KeyServiceImpl, error) {
	genCfg := keyCfg.GeneratorConfig()
	if err := genCfg.Validate(); err != nil {
		return nil, err
	}

	checker := &instrumentedChecker{store: store}
	gen := keygen.NewUniqueGenerator(keygen.NewRandomGenerator(genCfg), checker, keyCfg.MaxAttempts)

	insertRetries := keyCfg.InsertRetries
	if insertRetries < 0 {
		insertRetries = 0
	}

	return &KeyServiceImpl{
		store:         store,
		gen:           gen,
		genCfg:        genCfg,
		log:           log.With("component", "keyservice"),
		insertRetries: insertRetries,
	}, nil
}

// Allocate generates a unique key and claims it in the store.
func (s *KeyServiceImpl) Allocate(ctx context.Context) (*models.Key, error) {
	start := time.Now()
	log := s.log.With("trace_id", uuid.NewString())

	for attempt := 0; attempt <= s.insertRetries; attempt++ {
		id, err := s.gen.GenerateWithContext(ctx)
		if err != nil {
			if errors.Is(err, keygen.ErrRetriesExhausted) {
				metrics.RecordRetriesExhausted()
				log.Error("no free key found", "attempts", s.gen.MaxAttempts())
			}
			return nil, err
		}

		key, err := s.store.Insert(ctx, id)
		if errors.Is(err, models.ErrKeyExists) {
			// Another writer claimed the key between our check and insert.
			metrics.RecordInsertConflict()
			log.Warn("insert lost uniqueness race, regenerating", "key", id, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}

		metrics.RecordAllocation(time.Since(start))
		log.Info("key allocated", "key", key.Value, "digits", key.Digits())
		return key, nil
	}

	return nil, ErrInsertRetriesExhausted
}

// Release frees a previously allocated key. The id is caller-supplied, so it
// is range-checked before the store is touched.
func (s *KeyServiceImpl) Release(ctx context.Context, id int64) error {
	key := models.Key{Value: id}
	if err := key.Validate(s.genCfg.Class, s.genCfg.Word); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("key released", "key", id)
	return nil
}

// Stats returns the underlying generator statistics.
func (s *KeyServiceImpl) Stats() keygen.Stats {
	return s.gen.Stats()
}

// instrumentedChecker wraps the store's existence check with metrics.
type instrumentedChecker struct {
	store repository.KeyStore
}

func (c *instrumentedChecker) Exists(ctx context.Context, id int64) (bool, error) {
	start := time.Now()
	exists, err := c.store.Exists(ctx, id)
	metrics.RecordExistsCheck(time.Since(start))

	if err == nil && exists {
		metrics.RecordCollision()
	}
	return exists, err
}
