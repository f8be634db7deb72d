package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fleet-client/internal/platform/obs"
)

// SQLKVStore is a Postgres-backed key-value store shared across devices of one profile.
type SQLKVStore struct {
	DB     *sql.DB
	Logger *slog.Logger
}

func NewSQLKVStore(db *sql.DB, logger *slog.Logger) *SQLKVStore {
	return &SQLKVStore{DB: db, Logger: logger}
}

func (s *SQLKVStore) Get(ctx context.Context, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, s.Logger, "kv.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("kv store: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get kv: key must not be empty")
	}

	var value []byte
	err = s.DB.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get kv key=%q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLKVStore) Set(ctx context.Context, key string, value []byte) (err error) {
	defer obs.Time(ctx, s.Logger, "kv.sql.Set")(&err)

	if s.DB == nil {
		return errors.New("kv store: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert kv: key must not be empty")
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE
	SET value = EXCLUDED.value,
		updated_at = EXCLUDED.updated_at;
	`, key, value)
	if err != nil {
		return fmt.Errorf("insert kv key=%q: %w", key, err)
	}
	return nil
}

func (s *SQLKVStore) Delete(ctx context.Context, key string) (err error) {
	defer obs.Time(ctx, s.Logger, "kv.sql.Delete")(&err)

	if s.DB == nil {
		return errors.New("kv store: db is nil")
	}
	if _, err = s.DB.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1;`, key); err != nil {
		return fmt.Errorf("delete kv key=%q: %w", key, err)
	}
	return nil
}

func (s *SQLKVStore) Clear(ctx context.Context) (err error) {
	defer obs.Time(ctx, s.Logger, "kv.sql.Clear")(&err)

	if s.DB == nil {
		return errors.New("kv store: db is nil")
	}
	if _, err = s.DB.ExecContext(ctx, `TRUNCATE kv_store;`); err != nil {
		return fmt.Errorf("clear kv: %w", err)
	}
	return nil
}

func (s *SQLKVStore) Keys(ctx context.Context) (_ []string, err error) {
	defer obs.Time(ctx, s.Logger, "kv.sql.Keys")(&err)

	if s.DB == nil {
		return nil, errors.New("kv store: db is nil")
	}
	return queryKeys(ctx, s.DB, `SELECT key FROM kv_store ORDER BY key;`)
}
