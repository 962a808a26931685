// Package repository handles key persistence.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/randkey/randkey/internal/database"
	"github.com/randkey/randkey/internal/models"
)

// KeyStore defines the interface for key persistence operations. Exists
// satisfies keygen.ExistenceChecker, so a store plugs directly into a
// UniqueGenerator as its uniqueness verifier.
type KeyStore interface {
	// Exists checks whether a key value is already allocated.
	Exists(ctx context.Context, id int64) (bool, error)

	// Insert claims a key value, returning models.ErrKeyExists if another
	// writer claimed it first.
	Insert(ctx context.Context, id int64) (*models.Key, error)

	// Get retrieves an allocated key.
	Get(ctx context.Context, id int64) (*models.Key, error)

	// Delete releases a key value.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of allocated keys.
	Count(ctx context.Context) (int64, error)

	// HealthCheck verifies the store is healthy.
	HealthCheck(ctx context.Context) error
}

// PostgresKeyStore implements KeyStore using PostgreSQL. The table's
// primary-key constraint is the source of truth for uniqueness; Insert
// surfaces constraint violations as models.ErrKeyExists so callers can
// regenerate and try again.
type PostgresKeyStore struct {
	pool  *database.Pool
	table string
}

// NewPostgresKeyStore creates a PostgreSQL-backed key store. The table name
// must be a plain identifier; it is resolved by the caller, not by the store.
func NewPostgresKeyStore(pool *database.Pool, table string) (*PostgresKeyStore, error) {
	if err := database.ValidateTableName(table); err != nil {
		return nil, err
	}
	return &PostgresKeyStore{pool: pool, table: table}, nil
}

// Exists checks whether a key value is already allocated.
func (s *PostgresKeyStore) Exists(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, s.table)

	var exists bool
	if err := s.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}
	return exists, nil
}

// Insert claims a key value.
func (s *PostgresKeyStore) Insert(ctx context.Context, id int64) (*models.Key, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (id)
		VALUES ($1)
		RETURNING id, created_at
	`, s.table)

	var key models.Key
	err := s.pool.QueryRow(ctx, query, id).Scan(&key.Value, &key.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrKeyExists
		}
		return nil, fmt.Errorf("failed to insert key: %w", err)
	}

	return &key, nil
}

// Get retrieves an allocated key.
func (s *PostgresKeyStore) Get(ctx context.Context, id int64) (*models.Key, error) {
	query := fmt.Sprintf(`SELECT id, created_at FROM %s WHERE id = $1`, s.table)

	var key models.Key
	err := s.pool.QueryRow(ctx, query, id).Scan(&key.Value, &key.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	return &key, nil
}

// Delete releases a key value.
func (s *PostgresKeyStore) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table)

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrKeyNotFound
	}
	return nil
}

// Count returns the number of allocated keys.
func (s *PostgresKeyStore) Count(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)

	var count int64
	if err := s.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count keys: %w", err)
	}
	return count, nil
}

// HealthCheck verifies the database connection is healthy.
func (s *PostgresKeyStore) HealthCheck(ctx context.Context) error {
	return s.pool.HealthCheck(ctx)
}

// isUniqueViolation checks for a PostgreSQL unique-constraint violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
