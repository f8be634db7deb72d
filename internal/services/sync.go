package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"fleet-client/internal/domain"
	"fleet-client/internal/gateway"
	"fleet-client/internal/platform/logging"
	"fleet-client/internal/store"
)

// Sync moves data between the backend gateways and the local stores. Every
// failure surfaces as a UI notification; nothing is retried.
type Sync struct {
	api    *gateway.API
	stores *store.Stores
	logger *slog.Logger
}

func NewSync(api *gateway.API, stores *store.Stores, logger *slog.Logger) *Sync {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Sync{api: api, stores: stores, logger: logger.With("component", "sync")}
}

func (s *Sync) fail(title, message string) {
	s.stores.UI.Notify(title, message, domain.SeverityError)
}

// replace loads a fetched list into a store, notifying on either failure.
func replace[T any](s *Sync, title string, res gateway.Result[[]T], setAll func([]T) error) bool {
	data, ok := res.Unwrap()
	if !ok {
		s.fail(title, res.Message())
		return false
	}
	if err := setAll(data); err != nil {
		s.logger.Warn("rejected backend data", "title", title, "err", err)
		s.fail(title, "Received invalid data from server")
		return false
	}
	return true
}

func (s *Sync) RefreshOrders(ctx context.Context) bool {
	return replace(s, "Orders", s.api.Orders.List(ctx, nil), s.stores.Orders.SetAll)
}

func (s *Sync) RefreshShipments(ctx context.Context) bool {
	return replace(s, "Shipments", s.api.Shipments.List(ctx, nil), s.stores.Shipments.SetAll)
}

func (s *Sync) RefreshVehicles(ctx context.Context) bool {
	return replace(s, "Fleet", s.api.Vehicles.List(ctx, nil), s.stores.Fleet.SetAll)
}

func (s *Sync) RefreshCustomers(ctx context.Context) bool {
	return replace(s, "Customers", s.api.Customers.List(ctx, nil), s.stores.Customers.SetAll)
}

func (s *Sync) RefreshInventory(ctx context.Context) bool {
	return replace(s, "Inventory", s.api.Inventory.List(ctx, nil), s.stores.Inventory.SetAll)
}

func (s *Sync) RefreshAnalytics(ctx context.Context, period string) bool {
	res := s.api.Analytics.Dashboard(ctx, period)
	snap, ok := res.Unwrap()
	if !ok {
		s.fail("Analytics", res.Message())
		return false
	}
	s.stores.Analytics.Replace(snap)
	return true
}

// RefreshAll runs every refresh concurrently and reports whether all succeeded.
func (s *Sync) RefreshAll(ctx context.Context) bool {
	refreshers := []func(context.Context) bool{
		s.RefreshOrders,
		s.RefreshShipments,
		s.RefreshVehicles,
		s.RefreshCustomers,
		s.RefreshInventory,
		func(ctx context.Context) bool { return s.RefreshAnalytics(ctx, "") },
	}

	results := make(chan bool, len(refreshers))
	var wg sync.WaitGroup
	for _, fn := range refreshers {
		wg.Add(1)
		go func(fn func(context.Context) bool) {
			defer wg.Done()
			results <- fn(ctx)
		}(fn)
	}
	wg.Wait()
	close(results)

	all := true
	for ok := range results {
		all = all && ok
	}
	s.logger.InfoContext(ctx, "refresh finished", "ok", all)
	return all
}

func (s *Sync) CreateOrder(ctx context.Context, o domain.Order) (domain.Order, bool) {
	res := s.api.Orders.Create(ctx, o)
	created, ok := res.Unwrap()
	if !ok {
		s.fail("Create order", res.Message())
		return domain.Order{}, false
	}
	if err := s.stores.Orders.Put(created); err != nil {
		s.logger.WarnContext(ctx, "created order rejected locally", "order_id", created.ID, "err", err)
		s.fail("Create order", "Order was created but could not be shown")
		return created, true
	}
	s.stores.UI.Notify("Create order", res.Message(), domain.SeveritySuccess)
	return created, true
}

// UpdateOrderStatus refuses transitions out of delivered or cancelled before
// calling the backend, then applies the transition locally.
func (s *Sync) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, bool) {
	if cur, ok := s.stores.Orders.Get(id); ok && cur.Status.Terminal() && cur.Status != status {
		s.fail("Update order", "Order "+id+" is already "+string(cur.Status))
		return cur, false
	}

	res := s.api.Orders.UpdateStatus(ctx, id, status)
	if !res.Ok() {
		s.fail("Update order", res.Message())
		return domain.Order{}, false
	}

	updated, err := s.stores.Orders.UpdateStatus(id, status)
	if errors.Is(err, store.ErrNotFound) {
		remote := res.Data()
		if perr := s.stores.Orders.Put(remote); perr != nil {
			s.logger.WarnContext(ctx, "remote order rejected locally", "order_id", id, "err", perr)
		}
		return remote, true
	}
	if err != nil {
		s.logger.WarnContext(ctx, "local status transition failed", "order_id", id, "err", err)
		s.fail("Update order", "Order status could not be applied locally")
		return domain.Order{}, false
	}
	s.stores.UI.Notify("Update order", res.Message(), domain.SeveritySuccess)
	return updated, true
}

// DeleteVehicle removes the vehicle remotely and locally and clears any
// order assignments that pointed at it.
func (s *Sync) DeleteVehicle(ctx context.Context, id string) bool {
	res := s.api.Vehicles.Delete(ctx, id)
	if !res.Ok() {
		s.fail("Delete vehicle", res.Message())
		return false
	}

	s.stores.Fleet.Remove(id)
	if n := s.stores.Orders.ClearVehicle(id); n > 0 {
		s.logger.InfoContext(ctx, "cleared vehicle assignments", "vehicle_id", id, "orders", n)
	}
	s.stores.UI.Notify("Delete vehicle", res.Message(), domain.SeveritySuccess)
	return true
}

// AdjustStock checks the local quantity first so an overdraw never reaches the backend.
func (s *Sync) AdjustStock(ctx context.Context, id string, delta int, reason string) (domain.InventoryItem, bool) {
	if err := s.stores.Inventory.CheckAdjustment(id, delta); err != nil {
		switch {
		case errors.Is(err, store.ErrInsufficientStock):
			s.fail("Adjust stock", "Insufficient stock")
		case errors.Is(err, store.ErrNotFound):
			s.fail("Adjust stock", "Unknown inventory item "+id)
		default:
			s.fail("Adjust stock", "Failed to update stock")
		}
		return domain.InventoryItem{}, false
	}

	res := s.api.Inventory.AdjustStock(ctx, id, domain.StockAdjustment{Delta: delta, Reason: reason})
	if !res.Ok() {
		s.fail("Adjust stock", res.Message())
		return domain.InventoryItem{}, false
	}

	item, err := s.stores.Inventory.AdjustStock(id, delta)
	if err != nil {
		s.logger.WarnContext(ctx, "local stock adjustment failed", "item_id", id, "err", err)
		s.fail("Adjust stock", "Stock changed on server; refresh inventory")
		return domain.InventoryItem{}, false
	}
	return item, true
}

// TrackShipment fetches a shipment by tracking number and stores the latest
// copy. A copy older than the local one is ignored and the local one returned.
func (s *Sync) TrackShipment(ctx context.Context, trackingNumber string) (domain.Shipment, bool) {
	res := s.api.Shipments.Track(ctx, trackingNumber)
	sh, ok := res.Unwrap()
	if !ok {
		s.fail("Track shipment", res.Message())
		return domain.Shipment{}, false
	}
	if err := s.stores.Shipments.Put(sh); err != nil {
		s.logger.WarnContext(ctx, "tracked shipment rejected locally", "tracking_number", trackingNumber, "err", err)
		if local, ok := s.stores.Shipments.Get(sh.ID); ok {
			return local, true
		}
	}
	return sh, true
}
