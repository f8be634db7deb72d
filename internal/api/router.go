package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"fleet-client/internal/api/handlers"
	"fleet-client/internal/domain"
	"fleet-client/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the backing state and collaborators of the mock backend.
type Deps struct {
	Stores     *store.Stores
	Attendance *store.AttendanceStore
	Accounts   map[string]handlers.Account
	Registry   *prometheus.Registry
	Logger     *slog.Logger
	Now        func() time.Time
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the mock backend composition root.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()
	s := d.Stores

	orders := &handlers.Resource[domain.Order, domain.OrderPatch]{
		Noun: "order", IDPrefix: "ORD-", Store: s.Orders, Search: s.Orders.Search,
		Match: func(o domain.Order, q url.Values) bool {
			return matchParam(q, "status", string(o.Status))
		},
		SetID: func(o *domain.Order, id string) { o.ID = id },
	}
	shipments := &handlers.Resource[domain.Shipment, domain.ShipmentPatch]{
		Noun: "shipment", IDPrefix: "SHP-", Store: s.Shipments, Search: s.Shipments.Search,
		Match: func(sh domain.Shipment, q url.Values) bool {
			return matchParam(q, "status", string(sh.Status))
		},
		SetID: func(sh *domain.Shipment, id string) { sh.ID = id },
	}
	vehicles := &handlers.Resource[domain.Vehicle, domain.VehiclePatch]{
		Noun: "vehicle", IDPrefix: "VEH-", Store: s.Fleet, Search: s.Fleet.Search,
		Match: func(v domain.Vehicle, q url.Values) bool {
			return matchParam(q, "status", string(v.Status))
		},
		SetID: func(v *domain.Vehicle, id string) { v.ID = id },
	}
	customers := &handlers.Resource[domain.Customer, domain.CustomerPatch]{
		Noun: "customer", IDPrefix: "CUS-", Store: s.Customers, Search: s.Customers.Search,
		Match: func(c domain.Customer, q url.Values) bool {
			return matchParam(q, "status", string(c.Status)) && matchParam(q, "category", c.Category)
		},
		SetID: func(c *domain.Customer, id string) { c.ID = id },
	}
	inventory := &handlers.Resource[domain.InventoryItem, domain.InventoryPatch]{
		Noun: "inventory item", IDPrefix: "INV-", Store: s.Inventory, Search: s.Inventory.Search,
		SetID: func(i *domain.InventoryItem, id string) { i.ID = id },
	}

	orders.Register(mux, "orders")
	shipments.Register(mux, "shipments")
	vehicles.Register(mux, "vehicles")
	customers.Register(mux, "customers")
	inventory.Register(mux, "inventory")

	orderHandler := &handlers.OrderHandler{Orders: s.Orders}
	shipmentHandler := &handlers.ShipmentHandler{Shipments: s.Shipments}
	inventoryHandler := &handlers.InventoryHandler{Inventory: s.Inventory}
	customerHandler := &handlers.CustomerHandler{Customers: s.Customers}
	attendanceHandler := &handlers.AttendanceHandler{Attendance: d.Attendance}
	analyticsHandler := &handlers.AnalyticsHandler{Stores: s, Now: d.Now}
	authHandler := handlers.NewAuthHandler(d.Accounts)
	healthHandler := &handlers.HealthHandler{Stores: s}

	mux.HandleFunc("PATCH /orders/{id}/status", orderHandler.UpdateStatus)
	mux.HandleFunc("GET /shipments/track/{trackingNumber}", shipmentHandler.Track)
	mux.HandleFunc("POST /shipments/{id}/events", shipmentHandler.AddEvent)
	mux.HandleFunc("POST /inventory/{id}/stock", inventoryHandler.AdjustStock)
	mux.HandleFunc("GET /inventory/low-stock", inventoryHandler.LowStock)
	mux.HandleFunc("GET /customers/export", customerHandler.Export)
	mux.HandleFunc("POST /customers/import", customerHandler.Import)
	mux.HandleFunc("GET /attendance", attendanceHandler.List)
	mux.HandleFunc("POST /attendance/clock-in", attendanceHandler.ClockIn)
	mux.HandleFunc("POST /attendance/clock-out", attendanceHandler.ClockOut)
	mux.HandleFunc("GET /attendance/history/{employeeId}", attendanceHandler.History)
	mux.HandleFunc("GET /analytics/dashboard", analyticsHandler.Dashboard)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/me", authHandler.Me)

	mux.HandleFunc("/health", healthHandler.Health)

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return loggingMiddleware(d.Logger, newHTTPMetrics(reg), mux)
}

func matchParam(q url.Values, key, value string) bool {
	want := q.Get(key)
	return want == "" || want == value
}
