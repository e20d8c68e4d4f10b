package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "rbadmin/internal/core/context"
)

const (
	HeaderRequestID = appctx.RequestIDHeader
	HeaderTraceID   = "X-Trace-ID"
)

// Trace attaches the request trace to the request context and echoes its ids.
// Ids sent by the shell are kept; missing ones are generated.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		trace := appctx.NewTrace(c.GetHeader(HeaderRequestID), c.GetHeader(HeaderTraceID))
		c.Request = c.Request.WithContext(appctx.WithTrace(c.Request.Context(), trace))

		c.Header(HeaderRequestID, trace.RequestID)
		c.Header(HeaderTraceID, trace.TraceID)

		c.Next()
	}
}
