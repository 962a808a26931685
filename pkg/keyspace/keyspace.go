// Package keyspace computes the numeric range available to a generated key
// for a given integer storage class and host word size.
package keyspace

import (
	"strconv"
	"strings"
)

// Class identifies the fixed-width integer column type a key is destined for.
type Class int

// Supported storage classes, in increasing bit width (8/16/24/32/64).
const (
	TinyInt Class = iota
	SmallInt
	MediumInt
	Int
	BigInt
)

// String returns the lowercase name of the storage class.
func (c Class) String() string {
	switch c {
	case TinyInt:
		return "tinyint"
	case SmallInt:
		return "smallint"
	case MediumInt:
		return "mediumint"
	case Int:
		return "int"
	case BigInt:
		return "bigint"
	default:
		return "unknown"
	}
}

// ParseClass parses a storage class name. Matching is case-insensitive.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tinyint":
		return TinyInt, nil
	case "smallint":
		return SmallInt, nil
	case "mediumint":
		return MediumInt, nil
	case "int", "integer":
		return Int, nil
	case "bigint":
		return BigInt, nil
	default:
		return 0, &ConfigError{Err: ErrUnknownClass, Detail: s}
	}
}

// WordSize is the native integer width of the execution environment.
type WordSize int

const (
	Word32 WordSize = 32
	Word64 WordSize = 64
)

// HostWordSize returns the word size of the running process.
func HostWordSize() WordSize {
	if strconv.IntSize == 32 {
		return Word32
	}
	return Word64
}

// Maximum representable key values per storage class. The table is kept
// verbatim rather than derived from bit widths: the host's integer
// representation is signed-only, so the full unsigned 64-bit range is
// unreachable, and the 32-bit Int maximum is pinned one below MaxInt32.
// Callers needing the full unsigned range must use a database-side generator.
const (
	maxTinyInt   int64 = 255
	maxSmallInt  int64 = 65535
	maxMediumInt int64 = 16777215
	maxInt64Host int64 = 4294967295
	maxInt32Host int64 = 2147483646
	maxBigInt    int64 = 9223372036854775807
)

// MaxValue returns the largest key value the given storage class can hold on
// a host of the given word size. It is a pure lookup: identical inputs always
// yield identical output. BigInt is unavailable on a 32-bit host.
func MaxValue(c Class, w WordSize) (int64, error) {
	if w != Word32 && w != Word64 {
		return 0, &ConfigError{Class: c, Word: w, Err: ErrUnknownWordSize}
	}

	switch c {
	case TinyInt:
		return maxTinyInt, nil
	case SmallInt:
		return maxSmallInt, nil
	case MediumInt:
		return maxMediumInt, nil
	case Int:
		if w == Word32 {
			return maxInt32Host, nil
		}
		return maxInt64Host, nil
	case BigInt:
		if w == Word32 {
			return 0, &ConfigError{Class: c, Word: w, Err: ErrClassUnavailable}
		}
		return maxBigInt, nil
	default:
		return 0, &ConfigError{Class: c, Word: w, Err: ErrUnknownClass}
	}
}

// MaxDigits returns the number of decimal digits in MaxValue for the given
// class and word size.
func MaxDigits(c Class, w WordSize) (int, error) {
	maxVal, err := MaxValue(c, w)
	if err != nil {
		return 0, err
	}
	return DigitCount(maxVal), nil
}

// DigitCount returns the decimal digit count of a non-negative value.
func DigitCount(n int64) int {
	count := 1
	for n >= 10 {
		n /= 10
		count++
	}
	return count
}

// ValidateDigits reports whether a key of exactly the given digit count fits
// the storage class on the given host. A violation is a configuration error,
// never silently clamped.
func ValidateDigits(digits int, c Class, w WordSize) error {
	maxDigits, err := MaxDigits(c, w)
	if err != nil {
		return err
	}
	if digits < 1 || digits > maxDigits {
		return &ConfigError{Class: c, Word: w, Digits: digits, Err: ErrDigitsOutOfRange}
	}
	return nil
}
