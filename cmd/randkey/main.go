// Package main is the entry point for the randkey CLI, which allocates
// random primary keys against a PostgreSQL keys table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/randkey/randkey/internal/cache"
	"github.com/randkey/randkey/internal/config"
	"github.com/randkey/randkey/internal/database"
	"github.com/randkey/randkey/internal/repository"
	"github.com/randkey/randkey/internal/services"
	"github.com/randkey/randkey/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	count := flag.Int("n", 1, "number of keys to allocate")
	release := flag.Int64("release", 0, "release the given key instead of allocating")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(os.Stderr, cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.EnsureSchema(ctx, cfg.Key.Table, cfg.Key.Class); err != nil {
		return err
	}

	pgStore, err := repository.NewPostgresKeyStore(pool, cfg.Key.Table)
	if err != nil {
		return err
	}

	var store repository.KeyStore = pgStore
	if cfg.RedisEnabled() {
		redisCache, err := cache.NewRedisCache(ctx, &cfg.Redis)
		if err != nil {
			return err
		}
		defer redisCache.Close()

		keyCache := cache.NewKeyCache(redisCache, cfg.Key.CacheKeyPrefix, 0)
		store = repository.NewCachedKeyStore(pgStore, keyCache)
		log.Info("redis existence cache enabled", "addr", cfg.Redis.Host)
	}

	svc, err := services.NewKeyService(store, cfg.Key, log)
	if err != nil {
		return err
	}

	if *release != 0 {
		if err := svc.Release(ctx, *release); err != nil {
			return err
		}
		fmt.Printf("released %d\n", *release)
		return nil
	}

	for i := 0; i < *count; i++ {
		key, err := svc.Allocate(ctx)
		if err != nil {
			return err
		}
		fmt.Println(key.Value)
	}

	stats := svc.Stats()
	poolStats := pool.Stats()
	log.Info("done",
		"allocated", *count,
		"generations", stats.TotalGenerations,
		"collisions", stats.TotalCollisions,
		"db_conns", poolStats.TotalConns,
		"db_acquires", poolStats.AcquireCount,
	)
	return nil
}
