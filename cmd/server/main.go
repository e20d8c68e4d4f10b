// Package main is the entry point for the rbadmin console server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"rbadmin/internal/console"
	"rbadmin/internal/domain"
	v1 "rbadmin/internal/infrastructure/http/v1"
	"rbadmin/internal/infrastructure/http/v1/handlers"
	"rbadmin/internal/infrastructure/remote"
	"rbadmin/internal/infrastructure/storage/fixtures"
	"rbadmin/pkg/logger"
)

func main() {
	development := getEnv("APP_ENV", "development") == "development"
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	log.Info("starting rbadmin console server")

	// --- Fixtures ---
	set, err := fixtures.Load(os.Getenv("FIXTURES_DIR"))
	if err != nil {
		log.Fatalw("failed to load fixtures", "error", err)
	}
	log.Infow("fixtures loaded", "resources", set.Names())

	// --- Resources ---
	listPolicy := domain.ListPolicy()
	if v := os.Getenv("LIST_LOAD_ERRORS"); v != "" {
		if listPolicy.OnLoadError, err = domain.ParseSurface(v); err != nil {
			log.Fatalw("invalid LIST_LOAD_ERRORS", "error", err)
		}
	}
	registry, err := setupResourceRegistry(listPolicy)
	if err != nil {
		log.Fatalw("failed to register resources", "error", err)
	}

	// --- Metrics ---
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// --- Admin API client ---
	baseURL := getEnv("ADMIN_API_BASE_URL", "http://localhost:8000")
	client, err := remote.NewClient(remote.Config{
		BaseURL: baseURL,
		Metrics: remote.NewMetrics(promReg),
	})
	if err != nil {
		log.Fatalw("failed to create admin API client", "error", err)
	}

	// --- Console ---
	factory, err := console.NewFactory(registry, set, client)
	if err != nil {
		log.Fatalw("failed to build resource factory", "error", err)
	}
	ttl := getEnvDuration("PAGE_IDLE_TTL", console.DefaultIdleTTL)
	manager := console.NewManager(factory, ttl, promReg)
	log.Infow("console initialized",
		"resources", len(registry.List()),
		"admin_api", baseURL,
		"page_idle_ttl", ttl,
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Manager:  manager,
		Logger:   log,
		Gatherer: promReg,
		ReadinessChecks: map[string]handlers.Check{
			"fixtures": func(context.Context) error {
				if len(set) == 0 {
					return errors.New("no fixture datasets loaded")
				}
				return nil
			},
		},
		Debug: development,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      gzhttp.GzipHandler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
