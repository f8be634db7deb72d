package gateway

import (
	"context"
	"net/http"
	"net/url"
)

// Resource is the conventional CRUD surface of one backend collection.
type Resource[T any] struct {
	c      *Client
	base   string // e.g. "orders"
	noun   string // e.g. "order"
	plural string // e.g. "orders"
}

func newResource[T any](c *Client, base, noun, plural string) Resource[T] {
	return Resource[T]{c: c, base: base, noun: noun, plural: plural}
}

func (r Resource[T]) op(name, success, failure string) op {
	return op{resource: r.base, name: name, success: success, failure: failure}
}

func (r Resource[T]) List(ctx context.Context, params url.Values) Result[[]T] {
	return call[[]T](ctx, r.c,
		r.op("list", "Fetched "+r.plural, "Failed to fetch "+r.plural),
		request{method: http.MethodGet, path: path(r.base), query: params})
}

func (r Resource[T]) Get(ctx context.Context, id string) Result[T] {
	return call[T](ctx, r.c,
		r.op("get", "Fetched "+r.noun, "Failed to fetch "+r.noun),
		request{method: http.MethodGet, path: path(r.base, id)})
}

func (r Resource[T]) Search(ctx context.Context, q string) Result[[]T] {
	return call[[]T](ctx, r.c,
		r.op("search", "Search completed", "Failed to search "+r.plural),
		request{method: http.MethodGet, path: path(r.base, "search"), query: url.Values{"q": {q}}})
}

func (r Resource[T]) Create(ctx context.Context, rec T) Result[T] {
	return call[T](ctx, r.c,
		r.op("create", capitalize(r.noun)+" created successfully", "Failed to create "+r.noun),
		request{method: http.MethodPost, path: path(r.base), body: rec})
}

// Update replaces the record with a PUT.
func (r Resource[T]) Update(ctx context.Context, id string, rec T) Result[T] {
	return call[T](ctx, r.c,
		r.op("update", capitalize(r.noun)+" updated successfully", "Failed to update "+r.noun),
		request{method: http.MethodPut, path: path(r.base, id), body: rec})
}

// Patch sends a partial update; patch is any JSON-encodable value.
func (r Resource[T]) Patch(ctx context.Context, id string, patch any) Result[T] {
	return call[T](ctx, r.c,
		r.op("patch", capitalize(r.noun)+" updated successfully", "Failed to update "+r.noun),
		request{method: http.MethodPatch, path: path(r.base, id), body: patch})
}

func (r Resource[T]) Delete(ctx context.Context, id string) Result[struct{}] {
	return call[struct{}](ctx, r.c,
		r.op("delete", capitalize(r.noun)+" deleted successfully", "Failed to delete "+r.noun),
		request{method: http.MethodDelete, path: path(r.base, id)})
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
