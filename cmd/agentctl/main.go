// cmd/agentctl/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/minimart-ai/backend/internal/agent"
	"github.com/minimart-ai/backend/internal/cache"
	"github.com/minimart-ai/backend/internal/config"
	"github.com/minimart-ai/backend/internal/repository/postgres"
	"github.com/minimart-ai/backend/internal/service"
	"github.com/minimart-ai/backend/internal/supervisor"
	"github.com/minimart-ai/backend/pkg/logger"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "agentctl",
		Usage: "Run inventory agent workflows from the command line",
		Commands: []*cli.Command{
			{
				Name:  "seed",
				Usage: "Seed the database with demo products, suppliers and sales history",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "history-days",
						Usage: "Days of synthetic sales history to generate per product",
						Value: 120,
					},
				},
				Action: runSeed,
			},
			{
				Name:  "forecast",
				Usage: "Run the demand forecast for one or more products",
				Flags: []cli.Flag{
					&cli.Int64SliceFlag{
						Name:  "product",
						Usage: "Product IDs to forecast (all active products when omitted)",
					},
					&cli.IntFlag{
						Name:  "days",
						Usage: "Forecast horizon in days",
						Value: 30,
					},
				},
				Action: runForecast,
			},
			{
				Name:   "workflow",
				Usage:  "Run the full inventory management chain",
				Action: runWorkflow,
			},
			{
				Name:   "sweep",
				Usage:  "Run one reorder sweep: evaluate reorder points and raise orders",
				Action: runSweep,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

// newWorkflowService wires the full stack the way the server does, minus the
// HTTP layer.
func newWorkflowService() (*service.WorkflowService, error) {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	stores := agent.Stores{
		Products:  postgres.NewProductRepository(db),
		Inventory: postgres.NewInventoryRepository(db),
		Sales:     postgres.NewSalesHistoryRepository(db),
		Suppliers: postgres.NewSupplierRepository(db),
		Shipments: postgres.NewShipmentRepository(db),
		Logs:      postgres.NewAgentLogRepository(db),
	}

	runtime := agent.NewRuntime(stores, cache.NewNoopForecastCache(), agent.OptionsFromConfig(cfg.Agent))

	return service.NewWorkflowService(runtime, stores.Logs, nil)
}

func printState(state *supervisor.TaskState) error {
	out, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	return nil
}

func runForecast(c *cli.Context) error {
	workflows, err := newWorkflowService()
	if err != nil {
		return err
	}

	state, err := workflows.Run(c.Context, supervisor.TaskDemandForecast, supervisor.TaskPayload{
		ProductIDs:         c.Int64Slice("product"),
		ForecastPeriodDays: c.Int("days"),
	})
	if err != nil {
		return err
	}

	return printState(state)
}

func runWorkflow(c *cli.Context) error {
	workflows, err := newWorkflowService()
	if err != nil {
		return err
	}

	state, err := workflows.RunInventoryManagement(c.Context, nil, 0)
	if err != nil {
		return err
	}

	return printState(state)
}

func runSweep(c *cli.Context) error {
	workflows, err := newWorkflowService()
	if err != nil {
		return err
	}

	state, err := workflows.RunEmergencyReorder(c.Context, nil)
	if err != nil {
		return err
	}

	return printState(state)
}
