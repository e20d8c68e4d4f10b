// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rbadmin/internal/console"
	"rbadmin/internal/infrastructure/http/v1/handlers"
	"rbadmin/internal/infrastructure/http/v1/middleware"
	"rbadmin/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Manager owns the mounted console pages
	Manager *console.Manager

	// Logger for request logging
	Logger *logger.Logger

	// Gatherer backs /metrics; nil disables the endpoint
	Gatherer prometheus.Gatherer

	// ReadinessChecks run on /health/ready
	ReadinessChecks map[string]handlers.Check

	// Debug enables gin debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Session())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Manager, cfg.ReadinessChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	registerConsoleRoutes(v1.Group("/console"), cfg)

	return router
}

// registerConsoleRoutes registers the sidebar, detail and page endpoints.
func registerConsoleRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	resources := handlers.NewResourceHandler(baseHandler, cfg.Manager)
	rg.GET("/resources", resources.List)
	rg.GET("/resources/:resource/:id", resources.Detail)

	RegisterPageRoutes(rg.Group("/pages"), handlers.NewPageHandler(baseHandler, cfg.Manager))
}
