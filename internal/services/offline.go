package services

import (
	"context"
	"log/slog"

	"fleet-client/internal/cache"
	"fleet-client/internal/platform/logging"
	"fleet-client/internal/store"
)

// Offline snapshots the stores into the device cache so the last known
// state can be shown when the backend is unreachable.
type Offline struct {
	cache  *cache.Cache
	stores *store.Stores
	logger *slog.Logger
}

func NewOffline(c *cache.Cache, stores *store.Stores, logger *slog.Logger) *Offline {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Offline{cache: c, stores: stores, logger: logger.With("component", "offline")}
}

func (o *Offline) SaveSnapshot(ctx context.Context) bool {
	return o.cache.SaveOfflineData(ctx, o.stores.Export())
}

// RestoreSnapshot loads the cached snapshot. A snapshot that no longer
// validates leaves the stores untouched.
func (o *Offline) RestoreSnapshot(ctx context.Context) bool {
	d, ok := o.cache.GetOfflineData(ctx)
	if !ok {
		return false
	}
	if err := o.stores.Load(d); err != nil {
		o.logger.WarnContext(ctx, "discarding offline snapshot", "err", err)
		return false
	}
	o.logger.InfoContext(ctx, "offline snapshot restored", "orders", len(d.Orders), "vehicles", len(d.Vehicles))
	return true
}
