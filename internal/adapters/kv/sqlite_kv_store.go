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

// SQLite backed key-value store living in a device-local file.
type SqliteKVStore struct {
	DB     *sql.DB
	Logger *slog.Logger
}

func NewSqliteKVStore(db *sql.DB, logger *slog.Logger) *SqliteKVStore {
	return &SqliteKVStore{DB: db, Logger: logger}
}

func (s *SqliteKVStore) Get(ctx context.Context, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, s.Logger, "kv.sqlite.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("kv store: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get kv: key must not be empty")
	}

	var value []byte
	err = s.DB.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get kv key=%q: %w", key, err)
	}
	return value, true, nil
}

func (s *SqliteKVStore) Set(ctx context.Context, key string, value []byte) (err error) {
	defer obs.Time(ctx, s.Logger, "kv.sqlite.Set")(&err)

	if s.DB == nil {
		return errors.New("kv store: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert kv: key must not be empty")
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO kv_store (key, value, updated_at)
	VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'));
	`, key, value)
	if err != nil {
		return fmt.Errorf("insert kv key=%q: %w", key, err)
	}
	return nil
}

func (s *SqliteKVStore) Delete(ctx context.Context, key string) (err error) {
	defer obs.Time(ctx, s.Logger, "kv.sqlite.Delete")(&err)

	if s.DB == nil {
		return errors.New("kv store: db is nil")
	}
	if _, err = s.DB.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?;`, key); err != nil {
		return fmt.Errorf("delete kv key=%q: %w", key, err)
	}
	return nil
}

func (s *SqliteKVStore) Clear(ctx context.Context) (err error) {
	defer obs.Time(ctx, s.Logger, "kv.sqlite.Clear")(&err)

	if s.DB == nil {
		return errors.New("kv store: db is nil")
	}
	if _, err = s.DB.ExecContext(ctx, `DELETE FROM kv_store;`); err != nil {
		return fmt.Errorf("clear kv: %w", err)
	}
	return nil
}

func (s *SqliteKVStore) Keys(ctx context.Context) (_ []string, err error) {
	defer obs.Time(ctx, s.Logger, "kv.sqlite.Keys")(&err)

	if s.DB == nil {
		return nil, errors.New("kv store: db is nil")
	}
	return queryKeys(ctx, s.DB, `SELECT key FROM kv_store ORDER BY key;`)
}

func queryKeys(ctx context.Context, db *sql.DB, q string) ([]string, error) {
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list kv keys: query kv_store table: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("list kv keys: scan rows: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list kv keys: row iteration: %w", err)
	}
	return keys, nil
}
