package keygen

import (
	"github.com/randkey/randkey/pkg/keyspace"
)

// Defaults applied by NewConfig.
const (
	DefaultClass  = keyspace.Int
	DefaultDigits = 10
)

// Config describes the keys a generator produces: the destination storage
// class, the exact decimal digit count, and the host word size the range is
// computed against. Word is detected from the runtime and is not meant to be
// set by users; it is a field so tests can exercise the 32-bit tables.
type Config struct {
	Class  keyspace.Class
	Digits int
	Word   keyspace.WordSize
}

// NewConfig builds a Config for the current host and validates it
// immediately. An invalid class/digits combination fails here, at assignment
// time, not at first generation.
func NewConfig(class keyspace.Class, digits int) (Config, error) {
	cfg := Config{
		Class:  class,
		Digits: digits,
		Word:   keyspace.HostWordSize(),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultConfig returns the default configuration: 10-digit keys for an Int
// column on the current host.
func DefaultConfig() Config {
	return Config{
		Class:  DefaultClass,
		Digits: DefaultDigits,
		Word:   keyspace.HostWordSize(),
	}
}

// Validate checks the digit count against the storage class and word size.
// Generators call this on every draw rather than caching the result, since a
// Config value may be mutated between calls.
func (c Config) Validate() error {
	return keyspace.ValidateDigits(c.Digits, c.Class, c.Word)
}

// Bounds returns the inclusive candidate range: [10^(digits-1),
// min(10^digits - 1, MaxValue)]. The upper bound is capped so a draw can
// never exceed what the storage class holds; the range is non-empty whenever
// Validate passes.
func (c Config) Bounds() (int64, int64, error) {
	if err := c.Validate(); err != nil {
		return 0, 0, err
	}

	maxVal, err := keyspace.MaxValue(c.Class, c.Word)
	if err != nil {
		return 0, 0, err
	}

	lo := pow10[c.Digits-1]
	hi := maxVal
	if c.Digits < len(pow10) && pow10[c.Digits]-1 < hi {
		hi = pow10[c.Digits] - 1
	}
	return lo, hi, nil
}

// Powers of ten up to 10^18, the largest that fits in an int64. A 19-digit
// upper bound is capped by MaxValue instead.
var pow10 = [...]int64{
	1,
	10,
	100,
	1000,
	10000,
	100000,
	1000000,
	10000000,
	100000000,
	1000000000,
	10000000000,
	100000000000,
	1000000000000,
	10000000000000,
	100000000000000,
	1000000000000000,
	10000000000000000,
	100000000000000000,
	1000000000000000000,
}
