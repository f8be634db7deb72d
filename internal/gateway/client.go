// Package gateway talks to the fleet backend REST API.
//
// Every call makes exactly one request and never returns an error: the
// outcome is always a Result carrying either decoded data or a message
// suitable for showing to the user.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fleet-client/internal/platform/logging"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("fleet-client/gateway")

// Config is the per-environment connection profile.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	LogRequests bool
}

// TokenSource returns the current session token, or "" when signed out.
type TokenSource func() string

type Client struct {
	session     *http.Client
	baseURL     string
	token       TokenSource
	logger      *slog.Logger
	logRequests bool
	metrics     *Metrics
}

type Option func(*Client)

func WithToken(ts TokenSource) Option { return func(c *Client) { c.token = ts } }

func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.logger = l } }

func WithMetrics(m *Metrics) Option { return func(c *Client) { c.metrics = m } }

// WithHTTPClient replaces the underlying transport. The configured timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		timeout := c.session.Timeout
		cp := *hc
		cp.Timeout = timeout
		c.session = &cp
	}
}

func New(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		session:     &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		logger:      logging.Discard(),
		logRequests: cfg.LogRequests,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "gateway")
	return c
}

// op names a call for metrics and carries its fixed user-facing messages.
type op struct {
	resource string
	name     string
	success  string
	failure  string
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        any
	raw         io.Reader
	contentType string
}

// exchange performs one round trip and returns the raw 2xx body.
func (c *Client) exchange(ctx context.Context, o op, r request) (_ []byte, err error) {
	start := time.Now()

	ctx, span := tracer.Start(ctx, o.resource+"."+o.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", r.method),
			attribute.String("http.route", r.path),
		),
	)
	status := 0
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Int("http.status_code", status))
		span.End()

		c.metrics.record(o.resource, o.name, err == nil, time.Since(start))
		if c.logRequests {
			c.logger.DebugContext(ctx, "api request",
				"method", r.method, "path", r.path, "status", status,
				"dur_ms", time.Since(start).Milliseconds(), "err", err)
		}
	}()

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	body := r.raw
	if body == nil && r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, r.method, target, body, r.contentType)
	if err != nil {
		return nil, err
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	status, b, err := c.do(req)
	return b, err
}

// failure picks the backend's own message when it sent one.
func (c *Client) failure(o op, err error) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return o.failure
}

// call sends one JSON request and decodes a JSON response into T.
// An empty 2xx body leaves T at its zero value.
func call[T any](ctx context.Context, c *Client, o op, r request) Result[T] {
	b, err := c.exchange(ctx, o, r)
	if err != nil {
		return Failure[T](c.failure(o, err))
	}

	var data T
	if len(bytes.TrimSpace(b)) > 0 {
		if err := json.Unmarshal(b, &data); err != nil {
			c.logger.WarnContext(ctx, "undecodable response",
				"resource", o.resource, "op", o.name, "err", err)
			return Failure[T](o.failure)
		}
	}
	return Success(data, o.success)
}

// callBlob returns the raw response body.
func callBlob(ctx context.Context, c *Client, o op, r request) Result[[]byte] {
	b, err := c.exchange(ctx, o, r)
	if err != nil {
		return Failure[[]byte](c.failure(o, err))
	}
	return Success(b, o.success)
}

func path(parts ...string) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(p))
	}
	return sb.String()
}
