// Package handlers provides HTTP request handlers.
package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"rbadmin/internal/console"
)

// Version is reported by /health/info. Overridden at build time.
var Version = "0.1.0"

// Check reports whether one dependency is ready.
type Check func(ctx context.Context) error

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	manager *console.Manager
	checks  map[string]Check
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(manager *console.Manager, checks map[string]Check) *HealthHandler {
	return &HealthHandler{manager: manager, checks: checks}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = "unhealthy: " + err.Error()
			continue
		}
		results[name] = "healthy"
	}

	body := gin.H{"status": "ok", "checks": results}
	if status != http.StatusOK {
		body["status"] = "error"
	}
	c.JSON(status, body)
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":           "rbadmin",
		"version":       Version,
		"resources":     len(h.manager.Resources()),
		"mounted_pages": h.manager.Count(),
	})
}
