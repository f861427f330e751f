// internal/agent/runtime.go
package agent

import (
	"math/rand"
	"sync"
	"time"

	"github.com/minimart-ai/backend/internal/cache"
	"github.com/minimart-ai/backend/internal/config"
	"github.com/minimart-ai/backend/internal/forecast"
	"github.com/minimart-ai/backend/internal/reorder"
	"github.com/minimart-ai/backend/internal/repository"
	"github.com/minimart-ai/backend/internal/supervisor"
)

// Agent names as they appear in decision logs and interaction records
const (
	NameSupervisor     = "supervisor_agent"
	NameDemandForecast = "demand_forecast_agent"
	NameOrderPlacement = "order_placement_agent"
	NameSupplier       = "supplier_agent"
	NameLogistics      = "logistics_agent"
)

// Options tunes the agents. Zero values fall back to the defaults below.
type Options struct {
	ForecastHorizonDays   int
	HistoryWindowDays     int
	DefaultLeadTimeDays   int
	PerformanceWindowDays int
	CostParams            reorder.CostParams

	// Seed pins the randomness used by negotiation and quality simulation;
	// zero seeds from the clock.
	Seed int64
}

// OptionsFromConfig maps the agent config section onto runtime options.
func OptionsFromConfig(cfg config.AgentConfig) Options {
	return Options{
		ForecastHorizonDays:   cfg.ForecastHorizonDays,
		DefaultLeadTimeDays:   cfg.DefaultLeadTimeDays,
		PerformanceWindowDays: cfg.PerformanceWindowDays,
		CostParams: reorder.CostParams{
			OrderingCost:      cfg.OrderingCost,
			HoldingCostRate:   cfg.HoldingCostRate,
			AnnualizationDays: cfg.AnnualizationDays,
		},
	}
}

func (o Options) withDefaults() Options {
	if o.ForecastHorizonDays <= 0 {
		o.ForecastHorizonDays = 90
	}
	if o.HistoryWindowDays <= 0 {
		o.HistoryWindowDays = 180
	}
	if o.DefaultLeadTimeDays <= 0 {
		o.DefaultLeadTimeDays = 7
	}
	if o.PerformanceWindowDays <= 0 {
		o.PerformanceWindowDays = 90
	}
	if o.CostParams.OrderingCost <= 0 {
		o.CostParams = reorder.DefaultCostParams()
	}

	return o
}

// Stores bundles the external collaborators the agents talk to.
type Stores struct {
	Products  repository.ProductRepository
	Inventory repository.InventoryRepository
	Sales     repository.SalesHistoryRepository
	Suppliers repository.SupplierRepository
	Shipments repository.ShipmentRepository
	Logs      repository.AgentLogRepository
}

// Runtime owns the agent node implementations: each node reads from the
// stores, calls the pure cores and records its decision. The runtime is safe
// for concurrent workflows.
type Runtime struct {
	opts   Options
	stores Stores
	engine *forecast.Engine
	fcache cache.ForecastCache

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRuntime wires the agents. A nil forecast cache falls back to a noop.
func NewRuntime(stores Stores, fcache cache.ForecastCache, opts Options) *Runtime {
	opts = opts.withDefaults()
	if fcache == nil {
		fcache = cache.NewNoopForecastCache()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Runtime{
		opts:   opts,
		stores: stores,
		engine: forecast.NewEngine(),
		fcache: fcache,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// BuildMachine registers the agent nodes into a supervisor state machine.
func (r *Runtime) BuildMachine() (*supervisor.Machine, error) {
	return supervisor.NewMachine(map[supervisor.State]supervisor.AgentFunc{
		supervisor.StateDemandForecast:        r.DemandForecast,
		supervisor.StateOrderPlacement:        r.OrderPlacement,
		supervisor.StateSupplierNegotiation:   r.SupplierNegotiation,
		supervisor.StateLogisticsCoordination: r.LogisticsCoordination,
	})
}

// random runs fn under the rng lock; math/rand sources are not safe for
// concurrent use.
func (r *Runtime) random(fn func(rng *rand.Rand)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.rng)
}
