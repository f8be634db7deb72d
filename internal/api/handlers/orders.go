package handlers

import (
	"net/http"

	"fleet-client/internal/api/dto"
	"fleet-client/internal/domain"
	"fleet-client/internal/store"
)

type OrderHandler struct {
	Orders *store.OrderStore
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.StatusRequest[domain.OrderStatus]
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Status == "" {
		writeError(w, r, http.StatusBadRequest, "status is required")
		return
	}

	o, err := h.Orders.UpdateStatus(r.PathValue("id"), req.Status)
	if err != nil {
		writeStoreError(w, r, err, "Order not found")
		return
	}
	writeJSON(w, r, http.StatusOK, o)
}

type ShipmentHandler struct {
	Shipments *store.ShipmentStore
}

// Track handles GET /shipments/track/{trackingNumber}.
func (h *ShipmentHandler) Track(w http.ResponseWriter, r *http.Request) {
	sh, ok := h.Shipments.ByTrackingNumber(r.PathValue("trackingNumber"))
	if !ok {
		writeError(w, r, http.StatusNotFound, "Shipment not found")
		return
	}
	writeJSON(w, r, http.StatusOK, sh)
}

// AddEvent handles POST /shipments/{id}/events.
func (h *ShipmentHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	var ev domain.TrackingEvent
	if !decodeJSON(w, r, &ev) {
		return
	}

	sh, err := h.Shipments.AddTrackingUpdate(r.PathValue("id"), ev)
	if err != nil {
		writeStoreError(w, r, err, "Shipment not found")
		return
	}
	writeJSON(w, r, http.StatusOK, sh)
}

type InventoryHandler struct {
	Inventory *store.InventoryStore
}

// AdjustStock handles POST /inventory/{id}/stock.
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var adj domain.StockAdjustment
	if !decodeJSON(w, r, &adj) {
		return
	}

	item, err := h.Inventory.AdjustStock(r.PathValue("id"), adj.Delta)
	if err != nil {
		writeStoreError(w, r, err, "Inventory item not found")
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Inventory.LowStock())
}
