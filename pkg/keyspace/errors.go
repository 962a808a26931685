package keyspace

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by ConfigError.
var (
	// ErrUnknownClass is returned for a storage class outside the enum.
	ErrUnknownClass = errors.New("unknown storage class")

	// ErrUnknownWordSize is returned for a word size other than 32 or 64.
	ErrUnknownWordSize = errors.New("word size must be 32 or 64")

	// ErrClassUnavailable is returned when the storage class cannot be
	// represented on the host (BigInt on a 32-bit word).
	ErrClassUnavailable = errors.New("storage class not representable on this host")

	// ErrDigitsOutOfRange is returned when the requested digit count does not
	// fit the storage class on the host.
	ErrDigitsOutOfRange = errors.New("digit count out of range for storage class")
)

// ConfigError describes an invalid key configuration. It wraps one of the
// sentinel causes above so callers can branch with errors.Is while still
// seeing the offending values.
type ConfigError struct {
	Class  Class
	Word   WordSize
	Digits int
	Detail string
	Err    error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("keyspace: %v: %q", e.Err, e.Detail)
	case e.Digits != 0:
		return fmt.Sprintf("keyspace: %v: %d digits for %s on %d-bit host", e.Err, e.Digits, e.Class, e.Word)
	default:
		return fmt.Sprintf("keyspace: %v: %s on %d-bit host", e.Err, e.Class, e.Word)
	}
}

// Unwrap exposes the sentinel cause.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
