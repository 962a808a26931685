package keygen

import (
	"context"
	"sync/atomic"
)

// DefaultMaxAttempts bounds the uniqueness retry loop when the caller does
// not configure a ceiling.
const DefaultMaxAttempts = 16

// ExistenceChecker answers whether a record with the given key already
// exists in the authoritative store. Implementations typically perform a
// blocking database query.
type ExistenceChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Stats holds counters accumulated by a UniqueGenerator.
type Stats struct {
	TotalGenerations int64
	TotalRetries     int64
	TotalCollisions  int64
}

// UniqueGenerator wraps a base Generator and an ExistenceChecker, redrawing
// until it finds a key the store does not hold, up to a fixed attempt
// ceiling.
//
// The existence check is an optimization, not a guarantee: between the check
// and the caller's insert another writer may claim the same key. Uniqueness
// under concurrency is owned by the storage layer's primary-key constraint;
// an insert that fails with a duplicate-key error should be answered with a
// fresh GenerateWithContext call.
type UniqueGenerator struct {
	base        Generator
	checker     ExistenceChecker
	maxAttempts int

	totalGenerations atomic.Int64
	totalRetries     atomic.Int64
	totalCollisions  atomic.Int64
}

// NewUniqueGenerator creates a UniqueGenerator. A ceiling of maxAttempts
// means exactly that many candidates are tried before ErrRetriesExhausted;
// zero or negative falls back to DefaultMaxAttempts.
func NewUniqueGenerator(base Generator, checker ExistenceChecker, maxAttempts int) *UniqueGenerator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &UniqueGenerator{
		base:        base,
		checker:     checker,
		maxAttempts: maxAttempts,
	}
}

// Generate finds an unused key using a background context.
func (g *UniqueGenerator) Generate() (int64, error) {
	return g.GenerateWithContext(context.Background())
}

// GenerateWithContext finds an unused key, honoring context cancellation
// between attempts. Errors from the base generator or the checker abort the
// loop and are returned to the caller unchanged; they are never retried
// blindly and never replaced with a sentinel value.
func (g *UniqueGenerator) GenerateWithContext(ctx context.Context) (int64, error) {
	g.totalGenerations.Add(1)

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}

		id, err := g.base.Generate()
		if err != nil {
			return 0, err
		}

		exists, err := g.checker.Exists(ctx, id)
		if err != nil {
			return 0, err
		}

		if !exists {
			return id, nil
		}

		g.totalCollisions.Add(1)
		if attempt < g.maxAttempts-1 {
			g.totalRetries.Add(1)
		}
	}

	return 0, ErrRetriesExhausted
}

// MaxAttempts returns the configured attempt ceiling.
func (g *UniqueGenerator) MaxAttempts() int {
	return g.maxAttempts
}

// Stats returns the accumulated generation counters.
func (g *UniqueGenerator) Stats() Stats {
	return Stats{
		TotalGenerations: g.totalGenerations.Load(),
		TotalRetries:     g.totalRetries.Load(),
		TotalCollisions:  g.totalCollisions.Load(),
	}
}

// ResetStats zeroes the counters.
func (g *UniqueGenerator) ResetStats() {
	g.totalGenerations.Store(0)
	g.totalRetries.Store(0)
	g.totalCollisions.Store(0)
}
