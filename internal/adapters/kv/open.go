package kv

import (
	"context"
	"fmt"
	"log/slog"

	"fleet-client/internal/config"
	"fleet-client/internal/platform/db"
	"fleet-client/internal/ports"
)

// Open builds the backing store selected by cfg.Driver and prepares its schema.
// The returned close func releases the underlying connection.
func Open(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (ports.KVStore, func() error, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryKVStore(), func() error { return nil }, nil

	case "sqlite", "":
		conn, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open kv store: %w", err)
		}
		if err := InitSchema(ctx, conn, DialectSQLite); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("open kv store: %w", err)
		}
		return NewSqliteKVStore(conn, logger), conn.Close, nil

	case "postgres":
		conn, err := db.Open(cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open kv store: %w", err)
		}
		if err := InitSchema(ctx, conn, DialectPostgres); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("open kv store: %w", err)
		}
		return NewSQLKVStore(conn, logger), conn.Close, nil

	case "redis":
		client, err := db.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open kv store: %w", err)
		}
		return NewRedisKVStore(client, DefaultRedisPrefix, logger), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("open kv store: unknown driver %q", cfg.Driver)
	}
}
