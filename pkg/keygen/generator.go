// Package keygen produces random fixed-digit numeric identifiers suitable as
// database primary keys, with store-backed uniqueness checking.
package keygen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generator defines the interface for drawing candidate key values.
type Generator interface {
	// Generate draws a new candidate key.
	Generate() (int64, error)
}

// RandomGenerator draws uniformly distributed candidates from the range its
// Config describes. It reads crypto/rand directly, so there is no seed to
// manage and no per-call reseeding; draws are safe for concurrent use.
type RandomGenerator struct {
	cfg Config
}

// NewRandomGenerator creates a RandomGenerator for the given configuration.
// The configuration is validated again on every draw.
func NewRandomGenerator(cfg Config) *RandomGenerator {
	return &RandomGenerator{cfg: cfg}
}

// Generate draws a candidate with exactly the configured digit count, capped
// at the storage class maximum.
func (g *RandomGenerator) Generate() (int64, error) {
	lo, hi, err := g.cfg.Bounds()
	if err != nil {
		return 0, err
	}

	n, err := rand.Int(rand.Reader, big.NewInt(hi-lo+1))
	if err != nil {
		return 0, fmt.Errorf("failed to draw random key: %w", err)
	}

	return lo + n.Int64(), nil
}

// Config returns the generator's configuration.
func (g *RandomGenerator) Config() Config {
	return g.cfg
}
