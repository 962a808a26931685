package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostgresKeyStore_TableValidation(t *testing.T) {
	t.Run("accepts plain identifier", func(t *testing.T) {
		store, err := NewPostgresKeyStore(nil, "allocated_keys")
		require.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("rejects injection attempts", func(t *testing.T) {
		_, err := NewPostgresKeyStore(nil, "keys; DROP TABLE keys")
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewPostgresKeyStore(nil, "")
		assert.Error(t, err)
	})
}
