// cmd/worker/main.go
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/minimart-ai/backend/internal/agent"
	"github.com/minimart-ai/backend/internal/cache"
	"github.com/minimart-ai/backend/internal/config"
	"github.com/minimart-ai/backend/internal/repository/postgres"
	"github.com/minimart-ai/backend/internal/service"
	"github.com/minimart-ai/backend/pkg/logger"
)

// sweepReport is what the worker reports over HTTP.
type sweepReport struct {
	LastRun    time.Time `json:"last_run"`
	LastStatus string    `json:"last_status"`
	Runs       int       `json:"runs"`
}

type sweepStatus struct {
	mu     sync.Mutex
	report sweepReport
}

func (s *sweepStatus) record(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.LastRun = time.Now().UTC()
	s.report.LastStatus = status
	s.report.Runs++
}

func (s *sweepStatus) snapshot() sweepReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	stores := agent.Stores{
		Products:  postgres.NewProductRepository(db),
		Inventory: postgres.NewInventoryRepository(db),
		Sales:     postgres.NewSalesHistoryRepository(db),
		Suppliers: postgres.NewSupplierRepository(db),
		Shipments: postgres.NewShipmentRepository(db),
		Logs:      postgres.NewAgentLogRepository(db),
	}

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("forecast cache unavailable, running without cache")
		forecastCache = cache.NewNoopForecastCache()
	}

	runtime := agent.NewRuntime(stores, forecastCache, agent.OptionsFromConfig(cfg.Agent))
	workflows, err := service.NewWorkflowService(runtime, stores.Logs, nil)
	if err != nil {
		log.Fatalf("Failed to build workflow service: %v", err)
	}

	interval := time.Duration(cfg.Agent.SweepIntervalMinutes) * time.Minute
	status := &sweepStatus{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runSweeper(ctx, workflows, interval, status)

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")
	r.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status.snapshot())
	}).Methods("GET")

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: r}
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Dur("interval", interval).Msg("reorder sweep worker starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("worker server failed")
		}
	}()

	<-ctx.Done()
	logger.Log.Info().Msg("worker shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("worker server forced to shut down")
	}
}

// runSweeper evaluates reorder points on a fixed interval until the context
// is cancelled. The first sweep runs immediately.
func runSweeper(ctx context.Context, workflows *service.WorkflowService, interval time.Duration, status *sweepStatus) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		state, err := workflows.RunEmergencyReorder(ctx, nil)
		if err != nil {
			logger.Log.Error().Err(err).Msg("reorder sweep failed")
			status.record("failed: " + err.Error())
		} else {
			status.record(state.WorkflowStatus)
			logger.Log.Info().
				Str("workflow_id", state.WorkflowID).
				Str("status", state.WorkflowStatus).
				Msg("reorder sweep finished")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
