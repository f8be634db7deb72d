package handlers

import (
	"net/http"

	"fleet-client/internal/domain"
	"fleet-client/internal/store"
)

type AttendanceHandler struct {
	Attendance *store.AttendanceStore
}

// List handles GET /attendance, optionally narrowed by ?employeeId=.
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	emp := r.URL.Query().Get("employeeId")
	recs := h.Attendance.Filter(func(a domain.AttendanceRecord) bool {
		return emp == "" || a.EmployeeID == emp
	})
	writeJSON(w, r, http.StatusOK, recs)
}

func (h *AttendanceHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req domain.ClockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.Attendance.ClockIn(req)
	if err != nil {
		writeStoreError(w, r, err, "Attendance record not found")
		return
	}
	writeJSON(w, r, http.StatusCreated, rec)
}

func (h *AttendanceHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req domain.ClockRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.Attendance.ClockOut(req)
	if err != nil {
		writeStoreError(w, r, err, "Attendance record not found")
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (h *AttendanceHandler) History(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Attendance.History(r.PathValue("employeeId")))
}
