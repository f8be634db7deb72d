package handlers

import (
	"net/http"
	"net/url"

	"fleet-client/internal/store"
)

type collection[T any] interface {
	Filter(pred func(T) bool) []T
	Get(id string) (T, bool)
	Add(rec T) error
	Put(rec T) error
	Update(id string, p store.Patch[T]) error
	Remove(id string) bool
}

// Resource serves the conventional CRUD routes for one collection.
type Resource[T store.Record[T], P store.Patch[T]] struct {
	Noun     string
	IDPrefix string
	Store    collection[T]
	Search   func(q string) []T
	// Match filters List by query parameters; nil lists everything.
	Match func(rec T, q url.Values) bool
	SetID func(rec *T, id string)
}

// Register mounts the routes under /base.
func (h *Resource[T, P]) Register(mux *http.ServeMux, base string) {
	mux.HandleFunc("GET /"+base, h.List)
	mux.HandleFunc("POST /"+base, h.Create)
	mux.HandleFunc("GET /"+base+"/search", h.SearchRecords)
	mux.HandleFunc("GET /"+base+"/{id}", h.Get)
	mux.HandleFunc("PUT /"+base+"/{id}", h.Replace)
	mux.HandleFunc("PATCH /"+base+"/{id}", h.Patch)
	mux.HandleFunc("DELETE /"+base+"/{id}", h.Delete)
}

func (h *Resource[T, P]) notFound() string { return capitalize(h.Noun) + " not found" }

func (h *Resource[T, P]) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	recs := h.Store.Filter(func(rec T) bool {
		return h.Match == nil || h.Match(rec, q)
	})
	writeJSON(w, r, http.StatusOK, recs)
}

func (h *Resource[T, P]) SearchRecords(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Search(r.URL.Query().Get("q")))
}

func (h *Resource[T, P]) Get(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.Store.Get(r.PathValue("id"))
	if !ok {
		writeError(w, r, http.StatusNotFound, h.notFound())
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (h *Resource[T, P]) Create(w http.ResponseWriter, r *http.Request) {
	var rec T
	if !decodeJSON(w, r, &rec) {
		return
	}
	if rec.GetID() == "" && h.SetID != nil {
		h.SetID(&rec, newID(h.IDPrefix))
	}

	if err := h.Store.Add(rec); err != nil {
		writeStoreError(w, r, err, h.notFound())
		return
	}
	writeJSON(w, r, http.StatusCreated, rec)
}

// Replace is PUT: the body becomes the whole record.
func (h *Resource[T, P]) Replace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.Store.Get(id); !ok {
		writeError(w, r, http.StatusNotFound, h.notFound())
		return
	}

	var rec T
	if !decodeJSON(w, r, &rec) {
		return
	}
	if h.SetID != nil {
		h.SetID(&rec, id)
	}
	if rec.GetID() != id {
		writeError(w, r, http.StatusBadRequest, "id in body does not match path")
		return
	}

	if err := h.Store.Put(rec); err != nil {
		writeStoreError(w, r, err, h.notFound())
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (h *Resource[T, P]) Patch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var p P
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := h.Store.Update(id, p); err != nil {
		writeStoreError(w, r, err, h.notFound())
		return
	}

	rec, _ := h.Store.Get(id)
	writeJSON(w, r, http.StatusOK, rec)
}

func (h *Resource[T, P]) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.Store.Remove(r.PathValue("id")) {
		writeError(w, r, http.StatusNotFound, h.notFound())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
