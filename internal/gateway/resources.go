package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"fleet-client/internal/domain"
)

type Orders struct{ Resource[domain.Order] }

func (g Orders) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) Result[domain.Order] {
	return call[domain.Order](ctx, g.c,
		g.op("update_status", "Order status updated", "Failed to update order status"),
		request{
			method: http.MethodPatch,
			path:   path(g.base, id, "status"),
			body:   map[string]domain.OrderStatus{"status": status},
		})
}

type Shipments struct{ Resource[domain.Shipment] }

func (g Shipments) Track(ctx context.Context, trackingNumber string) Result[domain.Shipment] {
	return call[domain.Shipment](ctx, g.c,
		g.op("track", "Shipment found", "Failed to track shipment"),
		request{method: http.MethodGet, path: path(g.base, "track", trackingNumber)})
}

type Vehicles struct{ Resource[domain.Vehicle] }

type Customers struct{ Resource[domain.Customer] }

// ImportSummary is the backend's report on a customer import.
type ImportSummary struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// Export downloads the customer list as an opaque file.
func (g Customers) Export(ctx context.Context, params url.Values) Result[[]byte] {
	return callBlob(ctx, g.c,
		g.op("export", "Customers exported", "Failed to export customers"),
		request{method: http.MethodGet, path: path(g.base, "export"), query: params})
}

// Import uploads a customer file as multipart form field "file".
func (g Customers) Import(ctx context.Context, filename string, file io.Reader) Result[ImportSummary] {
	o := g.op("import", "Customers imported", "Failed to import customers")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := writeFormFile(mw, filename, file); err != nil {
		g.c.logger.WarnContext(ctx, "build import form", "err", err)
		return Failure[ImportSummary](o.failure)
	}

	return call[ImportSummary](ctx, g.c, o, request{
		method:      http.MethodPost,
		path:        path(g.base, "import"),
		raw:         &buf,
		contentType: mw.FormDataContentType(),
	})
}

func writeFormFile(mw *multipart.Writer, filename string, file io.Reader) error {
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}
	return nil
}

type Inventory struct{ Resource[domain.InventoryItem] }

func (g Inventory) AdjustStock(ctx context.Context, id string, adj domain.StockAdjustment) Result[domain.InventoryItem] {
	return call[domain.InventoryItem](ctx, g.c,
		g.op("adjust_stock", "Stock updated", "Failed to update stock"),
		request{method: http.MethodPost, path: path(g.base, id, "stock"), body: adj})
}

func (g Inventory) LowStock(ctx context.Context) Result[[]domain.InventoryItem] {
	return call[[]domain.InventoryItem](ctx, g.c,
		g.op("low_stock", "Fetched low stock items", "Failed to fetch low stock items"),
		request{method: http.MethodGet, path: path(g.base, "low-stock")})
}

type Attendance struct{ c *Client }

func (g Attendance) op(name, success, failure string) op {
	return op{resource: "attendance", name: name, success: success, failure: failure}
}

func (g Attendance) List(ctx context.Context, params url.Values) Result[[]domain.AttendanceRecord] {
	return call[[]domain.AttendanceRecord](ctx, g.c,
		g.op("list", "Fetched attendance", "Failed to fetch attendance"),
		request{method: http.MethodGet, path: path("attendance"), query: params})
}

func (g Attendance) ClockIn(ctx context.Context, req domain.ClockRequest) Result[domain.AttendanceRecord] {
	return call[domain.AttendanceRecord](ctx, g.c,
		g.op("clock_in", "Clocked in successfully", "Failed to clock in"),
		request{method: http.MethodPost, path: path("attendance", "clock-in"), body: req})
}

func (g Attendance) ClockOut(ctx context.Context, req domain.ClockRequest) Result[domain.AttendanceRecord] {
	return call[domain.AttendanceRecord](ctx, g.c,
		g.op("clock_out", "Clocked out successfully", "Failed to clock out"),
		request{method: http.MethodPost, path: path("attendance", "clock-out"), body: req})
}

func (g Attendance) History(ctx context.Context, employeeID string) Result[[]domain.AttendanceRecord] {
	return call[[]domain.AttendanceRecord](ctx, g.c,
		g.op("history", "Fetched attendance history", "Failed to fetch attendance history"),
		request{method: http.MethodGet, path: path("attendance", "history", employeeID)})
}

type Analytics struct{ c *Client }

func (g Analytics) Dashboard(ctx context.Context, period string) Result[domain.AnalyticsSnapshot] {
	var q url.Values
	if period != "" {
		q = url.Values{"period": {period}}
	}
	return call[domain.AnalyticsSnapshot](ctx, g.c,
		op{resource: "analytics", name: "dashboard", success: "Fetched analytics", failure: "Failed to fetch analytics"},
		request{method: http.MethodGet, path: path("analytics", "dashboard"), query: q})
}

type Auth struct{ c *Client }

func (g Auth) op(name, success, failure string) op {
	return op{resource: "auth", name: name, success: success, failure: failure}
}

func (g Auth) Login(ctx context.Context, creds domain.Credentials) Result[domain.AuthSession] {
	return call[domain.AuthSession](ctx, g.c,
		g.op("login", "Login successful", "Login failed"),
		request{method: http.MethodPost, path: path("auth", "login"), body: creds})
}

func (g Auth) Logout(ctx context.Context) Result[struct{}] {
	return call[struct{}](ctx, g.c,
		g.op("logout", "Logged out", "Logout failed"),
		request{method: http.MethodPost, path: path("auth", "logout")})
}

func (g Auth) Profile(ctx context.Context) Result[domain.User] {
	return call[domain.User](ctx, g.c,
		g.op("profile", "Fetched profile", "Failed to fetch profile"),
		request{method: http.MethodGet, path: path("auth", "me")})
}

// API groups every resource gateway over one Client.
type API struct {
	Orders     Orders
	Shipments  Shipments
	Vehicles   Vehicles
	Customers  Customers
	Inventory  Inventory
	Attendance Attendance
	Analytics  Analytics
	Auth       Auth
}

func NewAPI(c *Client) *API {
	return &API{
		Orders:     Orders{newResource[domain.Order](c, "orders", "order", "orders")},
		Shipments:  Shipments{newResource[domain.Shipment](c, "shipments", "shipment", "shipments")},
		Vehicles:   Vehicles{newResource[domain.Vehicle](c, "vehicles", "vehicle", "vehicles")},
		Customers:  Customers{newResource[domain.Customer](c, "customers", "customer", "customers")},
		Inventory:  Inventory{newResource[domain.InventoryItem](c, "inventory", "inventory item", "inventory")},
		Attendance: Attendance{c: c},
		Analytics:  Analytics{c: c},
		Auth:       Auth{c: c},
	}
}
