// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"rbadmin/internal/core/apperror"
	appctx "rbadmin/internal/core/context"
	"rbadmin/pkg/logger"
)

// Recovery middleware recovers from panics and returns 500 error.
// Logs stack trace but never exposes internal details to client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				_ = c.Error(apperror.NewInternal(fmt.Errorf("panic: %v", err)))

				// ErrorHandler was unwound by the panic, so render here.
				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    apperror.CodeInternal,
					"message": "Internal server error",
					"details": map[string]any{"request_id": appctx.GetRequestID(c.Request.Context())},
				})
			}
		}()
		c.Next()
	}
}
