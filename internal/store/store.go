// Package store provides the string-keyed key/value persistence the
// repositories are built on. Values are opaque strings (JSON documents in
// practice); a missing key is reported through the ok return, not an error.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"github.com/pkordes/pocket-guide/backend/migrations"
)

// KV is the persistence contract consumed by the repo layer.
type KV interface {
	// Get returns the value for key. ok is false when the key has never been
	// set or was removed.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Store is a KV that owns a connection or file handle.
type Store interface {
	KV
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory   = "memory"
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Driver      string
	BadgerPath  string
	DatabaseURL string
	RedisAddr   string
}

// Open constructs the backend named by opts.Driver. For postgres the kv
// schema is migrated before the store is returned.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverMemory:
		return NewMemory(), nil

	case DriverBadger:
		s, err := OpenBadger(opts.BadgerPath)
		if err != nil {
			return nil, fmt.Errorf("store.Open: %w", err)
		}
		return s, nil

	case DriverPostgres:
		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("store.Open: connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("store.Open: ping postgres: %w", err)
		}
		if err := migrate(ctx, stdlib.OpenDBFromPool(pool)); err != nil {
			pool.Close()
			return nil, fmt.Errorf("store.Open: %w", err)
		}
		return &poolStore{Postgres: NewPostgres(pool), pool: pool}, nil

	case DriverRedis:
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("store.Open: ping redis: %w", err)
		}
		return NewRedis(client, ""), nil

	default:
		return nil, fmt.Errorf("store.Open: unknown driver %q", opts.Driver)
	}
}

func migrate(ctx context.Context, db *sql.DB) error {
	defer db.Close()
	if err := migrations.Up(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// poolStore ties a Postgres store to the pool it owns.
type poolStore struct {
	*Postgres
	pool *pgxpool.Pool
}

func (s *poolStore) Close() error {
	s.pool.Close()
	return nil
}
