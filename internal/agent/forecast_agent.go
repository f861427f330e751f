// internal/agent/forecast_agent.go
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/forecast"
	"github.com/minimart-ai/backend/internal/supervisor"
)

// ForecastOutcome is the demand forecast node result stored in the workflow.
type ForecastOutcome struct {
	HorizonDays int                       `json:"horizon_days"`
	Products    int                       `json:"products"`
	FromCache   int                       `json:"from_cache"`
	Results     map[int64]forecast.Result `json:"results"`
}

// DemandForecast loads sales history for the requested products (all active
// products when none are named), runs the forecast ensemble and forwards the
// results to the reorder stage.
func (r *Runtime) DemandForecast(ctx context.Context, state *supervisor.TaskState) (any, error) {
	started := time.Now()
	payload := &state.TaskData

	horizon := payload.ForecastPeriodDays
	if horizon <= 0 {
		horizon = r.opts.ForecastHorizonDays
	}

	productIDs := payload.ProductIDs
	if len(productIDs) == 0 {
		products, err := r.stores.Products.ListActiveProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list products for forecasting: %w", err)
		}
		for _, p := range products {
			productIDs = append(productIDs, p.ID)
		}
	}

	outcome := ForecastOutcome{
		HorizonDays: horizon,
		Results:     make(map[int64]forecast.Result, len(productIDs)),
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -r.opts.HistoryWindowDays)

	histories := make(map[int64][]domain.SalesPoint)
	for _, productID := range productIDs {
		if cached, ok, err := r.fcache.Get(ctx, productID, horizon); err == nil && ok {
			outcome.Results[productID] = *cached
			outcome.FromCache++
			continue
		}

		points, err := r.stores.Sales.GetDailySales(ctx, productID, start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to load sales history for product %d: %w", productID, err)
		}
		histories[productID] = forecast.FillDaily(points, start, end)
	}

	fresh, err := r.engine.ForecastMany(ctx, histories, horizon)
	if err != nil {
		return nil, fmt.Errorf("forecast ensemble failed: %w", err)
	}
	for productID, result := range fresh {
		outcome.Results[productID] = result
		if cacheErr := r.fcache.Set(ctx, result); cacheErr != nil {
			log.Warn().Int64("product_id", productID).Err(cacheErr).Msg("could not cache forecast")
		}
	}
	outcome.Products = len(outcome.Results)

	payload.ForecastData = outcome.Results

	logID, err := r.recordDecision(ctx, NameDemandForecast, "generate_forecast", map[string]any{
		"product_ids":  productIDs,
		"horizon_days": horizon,
	}, map[string]any{
		"products":   outcome.Products,
		"from_cache": outcome.FromCache,
	}, nil, started)
	if err != nil {
		return nil, err
	}

	if err := r.recordInteraction(ctx, NameDemandForecast, NameSupervisor, "forecast_ready",
		fmt.Sprintf("demand forecast ready for %d products", outcome.Products), nil, logID); err != nil {
		return nil, err
	}

	return outcome, nil
}
