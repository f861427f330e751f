// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minimart-ai/backend/internal/agent"
	"github.com/minimart-ai/backend/internal/api"
	"github.com/minimart-ai/backend/internal/cache"
	"github.com/minimart-ai/backend/internal/config"
	"github.com/minimart-ai/backend/internal/repository/postgres"
	"github.com/minimart-ai/backend/internal/service"
	"github.com/minimart-ai/backend/internal/storage"
	"github.com/minimart-ai/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize repositories
	stores := agent.Stores{
		Products:  postgres.NewProductRepository(db),
		Inventory: postgres.NewInventoryRepository(db),
		Sales:     postgres.NewSalesHistoryRepository(db),
		Suppliers: postgres.NewSupplierRepository(db),
		Shipments: postgres.NewShipmentRepository(db),
		Logs:      postgres.NewAgentLogRepository(db),
	}

	// Forecast cache falls back to a noop when redis is unavailable
	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Forecast cache unavailable, running without cache")
		forecastCache = cache.NewNoopForecastCache()
	}

	// Workflow archive is optional
	var archive storage.ObjectStorage
	if cfg.Archive.Enabled {
		archive, err = storage.NewMinioClient(cfg.Archive)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Workflow archive unavailable, running without it")
			archive = nil
		}
	}

	// Initialize services
	runtime := agent.NewRuntime(stores, forecastCache, agent.OptionsFromConfig(cfg.Agent))
	workflowService, err := service.NewWorkflowService(runtime, stores.Logs, archive)
	if err != nil {
		log.Fatalf("Failed to build workflow service: %v", err)
	}
	inventoryService := service.NewInventoryService(stores.Products, stores.Inventory, stores.Sales)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		InventoryService: inventoryService,
		WorkflowService:  workflowService,
	}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
