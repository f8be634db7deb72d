package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fleet-client/internal/api/handlers"
	"fleet-client/internal/domain"
	"fleet-client/internal/gateway"
	"fleet-client/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*httptest.Server, *store.Stores, *prometheus.Registry) {
	t.Helper()

	clock := func() time.Time { return testNow }
	stores := store.NewStores(clock)
	require.NoError(t, store.SeedFromJSON(stores, "testdata/seed.json"))

	reg := prometheus.NewRegistry()
	srv := httptest.NewServer(NewRouter(Deps{
		Stores:     stores,
		Attendance: store.NewAttendanceStore(clock),
		Accounts: map[string]handlers.Account{
			"Dispatch@Example.com": {Password: "secret", User: domain.User{ID: "U1", Name: "Dispatch", Role: "dispatcher"}},
		},
		Registry: reg,
		Now:      clock,
	}))
	t.Cleanup(srv.Close)
	return srv, stores, reg
}

// The gateway client is the contract consumer, so drive the backend through it.
func newClient(srv *httptest.Server, token func() string) *gateway.API {
	return gateway.NewAPI(gateway.New(
		gateway.Config{BaseURL: srv.URL, Timeout: 2 * time.Second},
		gateway.WithToken(token),
	))
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Status  string         `json:"status"`
		Records map[string]int `json:"records"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 2, body.Records["orders"])

	post, err := http.Post(srv.URL+"/health", "application/json", nil)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)
}

func TestOrdersCRUDThroughGateway(t *testing.T) {
	srv, stores, _ := newTestServer(t)
	api := newClient(srv, nil)
	ctx := context.Background()

	list := api.Orders.List(ctx, map[string][]string{"status": {"pending"}})
	require.True(t, list.Ok())
	require.Len(t, list.Data(), 1)
	assert.Equal(t, "ORD-1002", list.Data()[0].ID)

	created := api.Orders.Create(ctx, domain.Order{CustomerName: "Cargo Co", Status: domain.OrderPending})
	require.True(t, created.Ok(), created.Message())
	id := created.Data().ID
	assert.True(t, strings.HasPrefix(id, "ORD-"))
	assert.Equal(t, 3, stores.Orders.Len())

	name := "Cargo Company"
	patched := api.Orders.Patch(ctx, id, domain.OrderPatch{CustomerName: &name})
	require.True(t, patched.Ok(), patched.Message())
	assert.Equal(t, "Cargo Company", patched.Data().CustomerName)
	assert.Equal(t, domain.OrderPending, patched.Data().Status)

	delivered := api.Orders.UpdateStatus(ctx, id, domain.OrderDelivered)
	require.True(t, delivered.Ok(), delivered.Message())
	require.NotNil(t, delivered.Data().DeliveryDate)
	assert.Equal(t, "2026-10-15", delivered.Data().DeliveryDate.Format(time.DateOnly))

	back := api.Orders.UpdateStatus(ctx, id, domain.OrderPending)
	assert.False(t, back.Ok())
	assert.Contains(t, back.Message(), "invalid status transition")

	search := api.Orders.Search(ctx, "cargo")
	require.True(t, search.Ok())
	assert.Len(t, search.Data(), 1)

	del := api.Orders.Delete(ctx, id)
	require.True(t, del.Ok())
	missing := api.Orders.Get(ctx, id)
	assert.False(t, missing.Ok())
	assert.Equal(t, "Order not found", missing.Message())
}

func TestReplaceRejectsMismatchedID(t *testing.T) {
	srv, _, _ := newTestServer(t)
	api := newClient(srv, nil)
	ctx := context.Background()

	v := api.Vehicles.Get(ctx, "VEH-1")
	require.True(t, v.Ok())
	veh := v.Data()
	veh.FuelLevel = 20

	upd := api.Vehicles.Update(ctx, "VEH-1", veh)
	require.True(t, upd.Ok(), upd.Message())
	assert.Equal(t, 20.0, upd.Data().FuelLevel)

	veh.FuelLevel = 120
	bad := api.Vehicles.Update(ctx, "VEH-1", veh)
	assert.False(t, bad.Ok())

	nope := api.Vehicles.Update(ctx, "VEH-404", veh)
	assert.False(t, nope.Ok())
	assert.Equal(t, "Vehicle not found", nope.Message())
}

func TestInventoryStock(t *testing.T) {
	srv, _, _ := newTestServer(t)
	api := newClient(srv, nil)
	ctx := context.Background()

	res := api.Inventory.AdjustStock(ctx, "INV-1", domain.StockAdjustment{Delta: -35})
	require.True(t, res.Ok(), res.Message())
	assert.Equal(t, 5, res.Data().Quantity)

	low := api.Inventory.LowStock(ctx)
	require.True(t, low.Ok())
	require.Len(t, low.Data(), 1)

	over := api.Inventory.AdjustStock(ctx, "INV-1", domain.StockAdjustment{Delta: -6})
	assert.False(t, over.Ok())
	assert.Equal(t, "Insufficient stock", over.Message())

	dup := api.Inventory.Create(ctx, domain.InventoryItem{SKU: "pal-01", Name: "Dup"})
	assert.False(t, dup.Ok())
	assert.Contains(t, dup.Message(), "duplicate sku")
}

func TestShipmentTracking(t *testing.T) {
	srv, _, _ := newTestServer(t)
	api := newClient(srv, nil)

	res := api.Shipments.Track(context.Background(), "trk-0001")
	require.True(t, res.Ok())
	assert.Equal(t, "Lonavala", res.Data().CurrentLocation)

	missing := api.Shipments.Track(context.Background(), "TRK-404")
	assert.False(t, missing.Ok())
	assert.Equal(t, "Shipment not found", missing.Message())

	body := strings.NewReader(`{"location":"Pune","status":"delivered"}`)
	resp, err := http.Post(srv.URL+"/shipments/SHP-1/events", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	var sh domain.Shipment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sh))
	assert.Equal(t, domain.ShipmentDelivered, sh.Status)
	assert.Len(t, sh.TrackingHistory, 3)
	assert.Equal(t, testNow, sh.TrackingHistory[2].Timestamp)
}

func TestShipmentReplaceKeepsHistory(t *testing.T) {
	srv, stores, _ := newTestServer(t)
	api := newClient(srv, nil)
	ctx := context.Background()

	stale := domain.Shipment{ID: "SHP-1", TrackingNumber: "TRK-0001", Status: domain.ShipmentPending}
	res := api.Shipments.Update(ctx, "SHP-1", stale)
	assert.False(t, res.Ok())
	assert.Contains(t, res.Message(), "tracking history would shrink")

	sh, ok := stores.Shipments.Get("SHP-1")
	require.True(t, ok)
	assert.Len(t, sh.TrackingHistory, 2)
}

func TestCreateDeliveredOrderNeedsDate(t *testing.T) {
	srv, _, _ := newTestServer(t)
	api := newClient(srv, nil)

	res := api.Orders.Create(context.Background(), domain.Order{CustomerName: "Cargo Co", Status: domain.OrderDelivered})
	assert.False(t, res.Ok())
	assert.Contains(t, res.Message(), "has no delivery date")
}

func TestCustomerExportImport(t *testing.T) {
	srv, stores, _ := newTestServer(t)
	api := newClient(srv, nil)
	ctx := context.Background()

	exp := api.Customers.Export(ctx, nil)
	require.True(t, exp.Ok())
	lines := strings.Split(strings.TrimSpace(string(exp.Data())), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "CUS-1,Acme Logistics,ops@acme.example"))

	csvBody := "id,name,email,status,creditLimit\n" +
		"CUS-2,Blue Freight,blue@example.com,active,1000\n" +
		"CUS-3,,bad@example.com,active,0\n" +
		"CUS-1,Acme Logistics Ltd,ops@acme.example,inactive,75000\n"
	imp := api.Customers.Import(ctx, "customers.csv", strings.NewReader(csvBody))
	require.True(t, imp.Ok(), imp.Message())
	assert.Equal(t, 2, imp.Data().Imported)
	assert.Equal(t, 1, imp.Data().Failed)

	c, ok := stores.Customers.Get("CUS-1")
	require.True(t, ok)
	assert.Equal(t, domain.CustomerInactive, c.Status)
	assert.Equal(t, "75000", c.CreditLimit.String())
}

func TestImportWithoutFile(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file"))
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/customers/import", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"message":"file is required"}`, string(b))
}

func TestAttendanceFlow(t *testing.T) {
	srv, _, _ := newTestServer(t)
	api := newClient(srv, nil)
	ctx := context.Background()

	in := api.Attendance.ClockIn(ctx, domain.ClockRequest{EmployeeID: "DRV-1", Location: "Depot"})
	require.True(t, in.Ok(), in.Message())
	assert.True(t, in.Data().Open())

	again := api.Attendance.ClockIn(ctx, domain.ClockRequest{EmployeeID: "DRV-1"})
	assert.False(t, again.Ok())
	assert.Contains(t, again.Message(), "already clocked in")

	out := api.Attendance.ClockOut(ctx, domain.ClockRequest{EmployeeID: "DRV-1"})
	require.True(t, out.Ok(), out.Message())
	assert.False(t, out.Data().Open())

	hist := api.Attendance.History(ctx, "DRV-1")
	require.True(t, hist.Ok())
	assert.Len(t, hist.Data(), 1)

	all := api.Attendance.List(ctx, nil)
	require.True(t, all.Ok())
	assert.Len(t, all.Data(), 1)
}

func TestAnalyticsDashboard(t *testing.T) {
	srv, _, _ := newTestServer(t)
	api := newClient(srv, nil)

	res := api.Analytics.Dashboard(context.Background(), "week")
	require.True(t, res.Ok(), res.Message())
	snap := res.Data()
	assert.Equal(t, "week", snap.Period)
	assert.Equal(t, 2, snap.Fleet.TotalVehicles)
	assert.Equal(t, 1, snap.Fleet.MaintenanceDue)
	assert.Equal(t, 1, snap.OrderBreakdown["pending"])
	assert.Equal(t, 1, snap.CustomerBreakdown["enterprise"])
	assert.Len(t, snap.Revenue.Monthly, 1)

	bad := api.Analytics.Dashboard(context.Background(), "decade")
	assert.False(t, bad.Ok())
	assert.Equal(t, "unknown period decade", bad.Message())
}

func TestAuthFlow(t *testing.T) {
	srv, _, _ := newTestServer(t)
	token := ""
	api := newClient(srv, func() string { return token })
	ctx := context.Background()

	bad := api.Auth.Login(ctx, domain.Credentials{Email: "dispatch@example.com", Password: "wrong"})
	assert.False(t, bad.Ok())
	assert.Equal(t, "Invalid email or password", bad.Message())

	ok := api.Auth.Login(ctx, domain.Credentials{Email: "dispatch@example.com", Password: "secret"})
	require.True(t, ok.Ok())
	token = ok.Data().Token

	me := api.Auth.Profile(ctx)
	require.True(t, me.Ok())
	assert.Equal(t, "U1", me.Data().ID)

	require.True(t, api.Auth.Logout(ctx).Ok())
	assert.False(t, api.Auth.Profile(ctx).Ok())
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, reg := newTestServer(t)

	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/vehicles")
		require.NoError(t, err)
		resp.Body.Close()
	}

	n, err := testutil.GatherAndCount(reg, "fleet_mockbackend_http_requests_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "fleet_mockbackend_http_request_duration_seconds")
}

func TestBadJSONBody(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/orders", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
