// Package database provides PostgreSQL connectivity for the keys table.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/randkey/randkey/internal/config"
)

// Connection limits outside (0, maxPoolConns] fall back to defaultPoolConns.
const (
	defaultPoolConns = 10
	maxPoolConns     = 1000
)

// Pool wraps pgxpool.Pool with schema, health, and stats helpers.
type Pool struct {
	*pgxpool.Pool
}

// BuildDSN constructs a PostgreSQL connection string.
func BuildDSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.SSLMode,
	)
}

// PoolConfig parses the DSN built from cfg and applies connection limits.
func PoolConfig(cfg *config.DatabaseConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = defaultPoolConns
	if cfg.MaxOpenConns > 0 && cfg.MaxOpenConns <= maxPoolConns {
		poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 && cfg.MaxIdleConns <= maxPoolConns {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime

	return poolConfig, nil
}

// NewPool opens a connection pool and verifies connectivity.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*Pool, error) {
	poolConfig, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Stats holds the connection counters worth reporting alongside generator
// statistics.
type Stats struct {
	MaxConns      int32
	TotalConns    int32
	IdleConns     int32
	AcquiredConns int32
	AcquireCount  int64
}

// Stats returns a snapshot of the pool's connection counters.
func (p *Pool) Stats() Stats {
	s := p.Stat()
	return Stats{
		MaxConns:      s.MaxConns(),
		TotalConns:    s.TotalConns(),
		IdleConns:     s.IdleConns(),
		AcquiredConns: s.AcquiredConns(),
		AcquireCount:  s.AcquireCount(),
	}
}

// HealthCheck verifies the database connection is healthy.
func (p *Pool) HealthCheck(ctx context.Context) error {
	return p.Ping(ctx)
}
