package handlers

import (
	"net/http"
	"time"

	"fleet-client/internal/domain"
	"fleet-client/internal/store"
)

var analyticsPeriods = map[string]bool{"day": true, "week": true, "month": true, "quarter": true, "year": true}

type AnalyticsHandler struct {
	Stores *store.Stores
	Now    func() time.Time
}

// Dashboard handles GET /analytics/dashboard?period=. Figures are derived
// from the live stores; a seeded snapshot supplies the revenue series and cost
// breakdown, which the stores cannot derive.
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "month"
	}
	if !analyticsPeriods[period] {
		writeError(w, r, http.StatusBadRequest, "unknown period "+period)
		return
	}

	writeJSON(w, r, http.StatusOK, h.snapshot(period))
}

func (h *AnalyticsHandler) snapshot(period string) domain.AnalyticsSnapshot {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	s := h.Stores

	snap := domain.AnalyticsSnapshot{
		Period:            period,
		OrderBreakdown:    map[string]int{},
		CustomerBreakdown: map[string]int{},
		UpdatedAt:         now().UTC(),
	}
	if seeded, ok := s.Analytics.Snapshot(); ok {
		snap.Revenue = seeded.Revenue
		snap.CostBreakdown = seeded.CostBreakdown
	}
	snap.Revenue.Total = s.Orders.DeliveredRevenue()

	for status, n := range s.Orders.CountByStatus() {
		snap.OrderBreakdown[string(status)] = n
	}
	for _, c := range s.Customers.All() {
		cat := c.Category
		if cat == "" {
			cat = "uncategorized"
		}
		snap.CustomerBreakdown[cat]++
	}

	vehicles := s.Fleet.All()
	snap.Fleet.TotalVehicles = len(vehicles)
	for _, v := range vehicles {
		switch v.Status {
		case domain.VehicleInTransit:
			snap.Fleet.ActiveVehicles++
		case domain.VehicleMaintenance:
			snap.Fleet.MaintenanceDue++
		}
	}
	if len(vehicles) > 0 {
		snap.Fleet.Utilization = float64(snap.Fleet.ActiveVehicles) / float64(len(vehicles))
	}
	snap.Fleet.AverageFuel = s.Fleet.AverageFuel()

	d := &snap.Delivery
	for _, sh := range s.Shipments.All() {
		switch sh.Status {
		case domain.ShipmentDelivered:
			d.Delivered++
		case domain.ShipmentDelayed:
			d.Delayed++
		case domain.ShipmentFailed:
			d.Failed++
		}
	}
	if done := d.Delivered + d.Delayed + d.Failed; done > 0 {
		d.OnTimeRate = float64(d.Delivered) / float64(done)
	}
	return snap
}
