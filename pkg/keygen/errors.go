package keygen

import "errors"

// ErrRetriesExhausted is returned when the attempt ceiling is reached without
// finding a key the store does not already hold. It signals the caller to
// widen the digit count or move to a larger storage class.
var ErrRetriesExhausted = errors.New("retries exhausted without finding an unused key")
