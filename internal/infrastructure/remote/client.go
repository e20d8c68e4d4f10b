// Package remote talks to the admin resource API that backs Users and Payments.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rbadmin/internal/core/apperror"
	appctx "rbadmin/internal/core/context"
	"rbadmin/internal/core/id"
	"rbadmin/internal/core/record"
	"rbadmin/pkg/logger"
)

const apiPrefix = "/api/v1/admin"

// Config configures a Client.
type Config struct {
	// BaseURL is scheme and host of the admin API, e.g. https://api.example.com.
	BaseURL string
	// HTTPClient defaults to a client with an otelhttp transport. There is no
	// timeout; callers bound requests with their context.
	HTTPClient *http.Client
	Metrics    *Metrics
	Tracer     trace.Tracer
}

// Client issues authenticated JSON requests to the admin API.
type Client struct {
	base    *url.URL
	http    *http.Client
	metrics *Metrics
	tracer  trace.Tracer
}

// NewClient creates a Client.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse admin API base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("admin API base URL %q must be absolute", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.GetTracerProvider().Tracer("rbadmin/remote")
	}

	return &Client{base: base, http: hc, metrics: cfg.Metrics, tracer: tracer}, nil
}

// List fetches GET /api/v1/admin/{collection}.
func (c *Client) List(ctx context.Context, collection string) ([]record.Record, error) {
	var body any
	if err := c.do(ctx, "list", collection, http.MethodGet, collectionPath(collection), nil, &body); err != nil {
		return nil, err
	}
	return decodeList(body), nil
}

// Get fetches GET /api/v1/admin/resources/{resource}/{id}.
func (c *Client) Get(ctx context.Context, resource string, recordID id.ID) (record.Record, error) {
	p := apiPrefix + "/resources/" + url.PathEscape(resource) + "/" + url.PathEscape(recordID.String())

	var body any
	if err := c.do(ctx, "get", resource, http.MethodGet, p, nil, &body); err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound(resource, recordID.String())
		}
		return nil, err
	}
	rec, ok := decodeObject(body)
	if !ok {
		return nil, apperror.NewNotFound(resource, recordID.String())
	}
	return rec, nil
}

// Create posts rec to POST /api/v1/admin/{collection} and returns the stored
// record. When the server answers without a record the draft comes back as is.
func (c *Client) Create(ctx context.Context, collection string, rec record.Record) (record.Record, error) {
	var body any
	if err := c.do(ctx, "create", collection, http.MethodPost, collectionPath(collection), rec, &body); err != nil {
		return nil, err
	}
	if created, ok := decodeObject(body); ok && !created.ID().IsZero() {
		return created, nil
	}
	return rec.Clone(), nil
}

// Update sends PUT /api/v1/admin/{collection}/{id}.
func (c *Client) Update(ctx context.Context, collection string, recordID id.ID, rec record.Record) error {
	return c.do(ctx, "update", collection, http.MethodPut, itemPath(collection, recordID), rec, nil)
}

// Delete sends DELETE /api/v1/admin/{collection}/{id}.
func (c *Client) Delete(ctx context.Context, collection string, recordID id.ID) error {
	return c.do(ctx, "delete", collection, http.MethodDelete, itemPath(collection, recordID), nil, nil)
}

func collectionPath(collection string) string {
	return apiPrefix + "/" + url.PathEscape(collection)
}

func itemPath(collection string, recordID id.ID) string {
	return collectionPath(collection) + "/" + url.PathEscape(recordID.String())
}

// do performs one request. A 401 becomes UNAUTHORIZED, a 404 NOT_FOUND and any
// other failure UPSTREAM_ERROR carrying the server's message when it sent one.
func (c *Client) do(ctx context.Context, op, collection, method, path string, in, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "admin_api."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("admin_api.operation", op),
			attribute.String("admin_api.collection", collection),
			attribute.String("http.request.method", method),
		),
	)
	start := time.Now()
	status := 0
	defer func() {
		c.metrics.observe(op, collection, status, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return apperror.NewInternal(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn(ctx, "admin API request failed", "operation", op, "collection", collection, "error", err)
		return apperror.NewUpstream("", 0).WithCause(err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.response.status_code", status))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperror.NewUpstream("", status).WithCause(err)
	}

	if status < 200 || status > 299 {
		return statusError(status, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logger.Warn(ctx, "admin API returned malformed JSON", "operation", op, "collection", collection, "error", err)
		return apperror.NewUpstream("Admin API returned a malformed response", status).WithCause(err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	// path segments are already escaped.
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := appctx.GetToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if rid := appctx.GetRequestID(ctx); rid != "" {
		req.Header.Set(appctx.RequestIDHeader, rid)
	}
	return req, nil
}

func statusError(status int, raw []byte) error {
	var body any
	msg := ""
	if json.Unmarshal(raw, &body) == nil {
		msg = errorMessage(body)
	}

	switch status {
	case http.StatusUnauthorized:
		if msg == "" {
			msg = "Not authenticated"
		}
		return apperror.NewUnauthorized(msg)
	case http.StatusNotFound:
		return apperror.NewNotFound("record", nil).WithDetail("upstream_status", status)
	default:
		return apperror.NewUpstream(msg, status)
	}
}
