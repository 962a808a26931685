package database

import (
	"context"
	"fmt"
	"regexp"

	"github.com/randkey/randkey/pkg/keyspace"
)

// identifierPattern restricts table names to plain SQL identifiers. Table
// naming is the caller's responsibility; this only blocks injection through
// the one value interpolated into DDL and queries.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidateTableName reports whether a table name is a plain identifier.
func ValidateTableName(table string) error {
	if !identifierPattern.MatchString(table) {
		return fmt.Errorf("invalid table name: %q", table)
	}
	return nil
}

// ColumnType returns the PostgreSQL column type used to hold keys of the
// given storage class. PostgreSQL integer columns are signed, so each class
// maps to the narrowest column whose signed range still covers the class
// maximum (65535 does not fit SMALLINT, 4294967295 does not fit INTEGER).
// The generator's range checks enforce the class maxima.
func ColumnType(class keyspace.Class) (string, error) {
	switch class {
	case keyspace.TinyInt:
		return "SMALLINT", nil
	case keyspace.SmallInt, keyspace.MediumInt:
		return "INTEGER", nil
	case keyspace.Int, keyspace.BigInt:
		return "BIGINT", nil
	default:
		return "", &keyspace.ConfigError{Class: class, Err: keyspace.ErrUnknownClass}
	}
}

// KeysTableDDL builds the CREATE TABLE statement for the keys table. The
// primary-key constraint is the authoritative uniqueness guarantee; the
// generator's existence check only reduces how often inserts hit it.
func KeysTableDDL(table string, class keyspace.Class) (string, error) {
	if err := ValidateTableName(table); err != nil {
		return "", err
	}
	colType, err := ColumnType(class)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id %s PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, table, colType), nil
}

// EnsureSchema creates the keys table if it does not exist.
func (p *Pool) EnsureSchema(ctx context.Context, table string, class keyspace.Class) error {
	ddl, err := KeysTableDDL(table, class)
	if err != nil {
		return err
	}
	if _, err := p.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create keys table: %w", err)
	}
	return nil
}
