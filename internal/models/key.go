// Package models contains domain models and entities.
package models

import (
	"errors"
	"time"

	"github.com/randkey/randkey/pkg/keyspace"
)

// Key represents an allocated primary key record.
type Key struct {
	Value     int64     `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

// Store errors.
var (
	ErrKeyExists   = errors.New("key already exists")
	ErrKeyNotFound = errors.New("key not found")
	ErrInvalidKey  = errors.New("key value must be positive")
)

// Validate checks the key value against the storage class it is destined for.
func (k *Key) Validate(class keyspace.Class, word keyspace.WordSize) error {
	if k.Value <= 0 {
		return ErrInvalidKey
	}
	maxVal, err := keyspace.MaxValue(class, word)
	if err != nil {
		return err
	}
	if k.Value > maxVal {
		return &keyspace.ConfigError{
			Class:  class,
			Word:   word,
			Digits: keyspace.DigitCount(k.Value),
			Err:    keyspace.ErrDigitsOutOfRange,
		}
	}
	return nil
}

// Digits returns the decimal digit count of the key value.
func (k *Key) Digits() int {
	return keyspace.DigitCount(k.Value)
}
