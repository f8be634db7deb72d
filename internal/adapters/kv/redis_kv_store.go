package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"fleet-client/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces cache keys inside a shared Redis database.
const DefaultRedisPrefix = "fleet:"

// RedisKVStore keeps cache entries in Redis under a key prefix.
type RedisKVStore struct {
	Client *redis.Client
	Prefix string
	Logger *slog.Logger
}

func NewRedisKVStore(client *redis.Client, prefix string, logger *slog.Logger) *RedisKVStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisKVStore{Client: client, Prefix: prefix, Logger: logger}
}

func (s *RedisKVStore) Get(ctx context.Context, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, s.Logger, "kv.redis.Get")(&err)

	if s.Client == nil {
		return nil, false, errors.New("kv store: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get kv: key must not be empty")
	}

	value, err := s.Client.Get(ctx, s.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get kv key=%q: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisKVStore) Set(ctx context.Context, key string, value []byte) (err error) {
	defer obs.Time(ctx, s.Logger, "kv.redis.Set")(&err)

	if s.Client == nil {
		return errors.New("kv store: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert kv: key must not be empty")
	}

	if err = s.Client.Set(ctx, s.Prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("insert kv key=%q: %w", key, err)
	}
	return nil
}

func (s *RedisKVStore) Delete(ctx context.Context, key string) (err error) {
	defer obs.Time(ctx, s.Logger, "kv.redis.Delete")(&err)

	if s.Client == nil {
		return errors.New("kv store: redis client is nil")
	}
	if err = s.Client.Del(ctx, s.Prefix+key).Err(); err != nil {
		return fmt.Errorf("delete kv key=%q: %w", key, err)
	}
	return nil
}

// Clear deletes only keys under the store's prefix.
func (s *RedisKVStore) Clear(ctx context.Context) (err error) {
	defer obs.Time(ctx, s.Logger, "kv.redis.Clear")(&err)

	if s.Client == nil {
		return errors.New("kv store: redis client is nil")
	}

	keys, err := s.scan(ctx)
	if err != nil {
		return fmt.Errorf("clear kv: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err = s.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear kv: %w", err)
	}
	return nil
}

func (s *RedisKVStore) Keys(ctx context.Context) (_ []string, err error) {
	defer obs.Time(ctx, s.Logger, "kv.redis.Keys")(&err)

	if s.Client == nil {
		return nil, errors.New("kv store: redis client is nil")
	}

	raw, err := s.scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list kv keys: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, strings.TrimPrefix(k, s.Prefix))
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *RedisKVStore) scan(ctx context.Context) ([]string, error) {
	var out []string
	iter := s.Client.Scan(ctx, 0, s.Prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan prefix %q: %w", s.Prefix, err)
	}
	return out, nil
}
