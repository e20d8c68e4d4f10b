package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rbadmin/internal/core/apperror"
	appctx "rbadmin/internal/core/context"
	"rbadmin/pkg/logger"
)

// ErrorHandler middleware transforms errors into consistent JSON responses.
// Hides internal errors from clients while logging full details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		// If response already written by handler, do not override it.
		if c.Writer.Written() {
			return
		}

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request error",
					"code", appErr.Code,
					"cause", appErr.Err,
				)
			}
			c.JSON(appErr.HTTPStatus, gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
				"details": appErr.Details,
			})
			return
		}

		// Binding and other plain errors never reach the client verbatim.
		logger.Error(c.Request.Context(), "unhandled error",
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    apperror.CodeInternal,
			"message": "Internal server error",
			"details": map[string]any{
				"request_id": appctx.GetRequestID(c.Request.Context()),
			},
		})
	}
}
