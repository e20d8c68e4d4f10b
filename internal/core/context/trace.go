package context

import (
	"context"

	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in and out of the console, and on to
// the admin API.
const RequestIDHeader = "X-Request-ID"

// Trace identifies one console request in logs, error bodies and upstream calls.
type Trace struct {
	TraceID   string
	RequestID string
}

type traceKey struct{}

// NewTrace keeps the ids a caller supplied and generates the missing ones.
func NewTrace(requestID, traceID string) *Trace {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	if traceID == "" {
		traceID = uuid.NewString()
	}
	return &Trace{TraceID: traceID, RequestID: requestID}
}

// WithTrace attaches t to ctx.
func WithTrace(ctx context.Context, t *Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, t)
}

// GetTrace returns the request trace, or nil outside a request.
func GetTrace(ctx context.Context) *Trace {
	t, _ := ctx.Value(traceKey{}).(*Trace)
	return t
}

// GetRequestID returns the request id, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}
