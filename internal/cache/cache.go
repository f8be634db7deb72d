// Package cache is the device-local persistent key-value cache.
//
// Values are JSON-encoded on write and decoded on read. Every failure of the
// backing store is logged and reported as false; nothing here returns an error.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"

	"fleet-client/internal/domain"
	"fleet-client/internal/platform/logging"
	"fleet-client/internal/ports"
	"fleet-client/internal/store"
)

// Stable storage keys.
const (
	KeyUserToken   = "user_token"
	KeyUserData    = "user_data"
	KeyAppSettings = "app_settings"
	KeyOfflineData = "offline_data"
)

type Cache struct {
	store  ports.KVStore
	logger *slog.Logger
}

func New(kv ports.KVStore, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Cache{store: kv, logger: logger.With("component", "cache")}
}

// SetItem stores value under key.
func (c *Cache) SetItem(ctx context.Context, key string, value any) bool {
	b, err := json.Marshal(value)
	if err != nil {
		c.logger.WarnContext(ctx, "cache encode failed", "key", key, "err", err)
		return false
	}
	if err := c.store.Set(ctx, key, b); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "key", key, "err", err)
		return false
	}
	return true
}

// GetItem decodes the value under key into out. A value that no longer
// decodes counts as absent.
func (c *Cache) GetItem(ctx context.Context, key string, out any) bool {
	b, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "cache read failed", "key", key, "err", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		c.logger.WarnContext(ctx, "cache decode failed", "key", key, "err", err)
		return false
	}
	return true
}

func (c *Cache) RemoveItem(ctx context.Context, key string) bool {
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.WarnContext(ctx, "cache delete failed", "key", key, "err", err)
		return false
	}
	return true
}

func (c *Cache) Clear(ctx context.Context) bool {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.WarnContext(ctx, "cache clear failed", "err", err)
		return false
	}
	return true
}

// Keys lists stored keys; nil when the backing store fails.
func (c *Cache) Keys(ctx context.Context) []string {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "cache list failed", "err", err)
		return nil
	}
	return keys
}

func (c *Cache) SaveUserToken(ctx context.Context, token string) bool {
	return c.SetItem(ctx, KeyUserToken, token)
}

func (c *Cache) GetUserToken(ctx context.Context) (string, bool) {
	var token string
	ok := c.GetItem(ctx, KeyUserToken, &token)
	return token, ok
}

func (c *Cache) RemoveUserToken(ctx context.Context) bool {
	return c.RemoveItem(ctx, KeyUserToken)
}

func (c *Cache) SaveUserData(ctx context.Context, u domain.User) bool {
	return c.SetItem(ctx, KeyUserData, u)
}

func (c *Cache) GetUserData(ctx context.Context) (domain.User, bool) {
	var u domain.User
	ok := c.GetItem(ctx, KeyUserData, &u)
	return u, ok
}

func (c *Cache) RemoveUserData(ctx context.Context) bool {
	return c.RemoveItem(ctx, KeyUserData)
}

func (c *Cache) SaveAppSettings(ctx context.Context, s domain.AppSettings) bool {
	return c.SetItem(ctx, KeyAppSettings, s)
}

func (c *Cache) GetAppSettings(ctx context.Context) (domain.AppSettings, bool) {
	var s domain.AppSettings
	ok := c.GetItem(ctx, KeyAppSettings, &s)
	return s, ok
}

func (c *Cache) SaveOfflineData(ctx context.Context, d store.Dataset) bool {
	return c.SetItem(ctx, KeyOfflineData, d)
}

func (c *Cache) GetOfflineData(ctx context.Context) (store.Dataset, bool) {
	var d store.Dataset
	ok := c.GetItem(ctx, KeyOfflineData, &d)
	return d, ok
}
