package handlers

import (
	"net/http"

	"fleet-client/internal/store"
)

// HealthHandler reports liveness plus how many records the backend holds.
type HealthHandler struct {
	Stores *store.Stores
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res := map[string]any{
		"status": "ok",
		"records": map[string]int{
			"orders":    h.Stores.Orders.Len(),
			"shipments": h.Stores.Shipments.Len(),
			"vehicles":  h.Stores.Fleet.Len(),
			"customers": h.Stores.Customers.Len(),
			"inventory": h.Stores.Inventory.Len(),
		},
	}
	writeJSON(w, r, http.StatusOK, res)
}
