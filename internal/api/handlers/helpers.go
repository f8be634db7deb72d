package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"fleet-client/internal/store"

	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "encode failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
}

// writeError sends {"message": msg}, the shape the client reads failure text from.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"message": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, r, http.StatusBadRequest, "request body is empty")
			return false
		}
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeStoreError maps store sentinels onto HTTP status codes.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, r, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrDuplicateID),
		errors.Is(err, store.ErrDuplicateTrackingNumber),
		errors.Is(err, store.ErrDuplicateSKU):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrAlreadyClockedIn),
		errors.Is(err, store.ErrNotClockedIn):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInsufficientStock):
		writeError(w, r, http.StatusUnprocessableEntity, "Insufficient stock")
	case errors.Is(err, store.ErrInvalidRecord),
		errors.Is(err, store.ErrFuelOutOfRange):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "store operation failed", "path", r.URL.Path, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func newID(prefix string) string {
	return prefix + strings.ToUpper(uuid.NewString()[:8])
}
