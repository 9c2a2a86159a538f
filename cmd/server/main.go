package main

import (
	"log"
	"net/http"

	"github.com/anonto42/pulsegram/backend/internal/metrics"
	"github.com/anonto42/pulsegram/backend/internal/router"
	"github.com/anonto42/pulsegram/backend/pkg/config"
	"github.com/anonto42/pulsegram/backend/pkg/logger"
	"github.com/anonto42/pulsegram/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLog := logger.New(cfg.LogLevel)
	defer zapLog.Sync()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	m := metrics.InitMetrics()

	// Metrics are served on their own port so the scrape endpoint never
	// passes through the API's auth middleware.
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
			zapLog.Warn("metrics listener stopped", zap.Error(err))
		}
	}()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db.Postgres, db.Redis, cfg, zapLog, m); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
