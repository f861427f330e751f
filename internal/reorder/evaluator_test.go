package reorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/forecast"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		currentStock int
		safetyStock  int
		reorderPoint int
		want         string
	}{
		{"below safety stock", 5, 10, 20, UrgencyEmergency},
		{"at safety stock", 10, 10, 20, UrgencyEmergency},
		{"between thresholds", 15, 10, 20, UrgencyNormal},
		{"at reorder point", 20, 10, 20, UrgencyNormal},
		{"above reorder point", 25, 10, 20, ""},
		{"zero stock", 0, 10, 20, UrgencyEmergency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.currentStock, tt.safetyStock, tt.reorderPoint))
		})
	}
}

func flatForecast(productID int64, daily float64, horizon int) forecast.Result {
	combined := make([]float64, horizon)
	for i := range combined {
		combined[i] = daily
	}

	return forecast.Result{ProductID: productID, Combined: combined, HorizonDays: horizon}
}

func TestEvaluateSplitsAndSizes(t *testing.T) {
	snapshots := []domain.InventorySnapshot{
		{ProductID: 1, CurrentStock: 5, SafetyStock: 10, ReorderPoint: 20, ReorderQuantity: 50},
		{ProductID: 2, CurrentStock: 15, SafetyStock: 10, ReorderPoint: 20, ReorderQuantity: 50},
		{ProductID: 3, CurrentStock: 25, SafetyStock: 10, ReorderPoint: 20, ReorderQuantity: 50},
	}
	forecasts := map[int64]forecast.Result{
		2: flatForecast(2, 10, 30),
	}

	eval := Evaluate(snapshots, forecasts, 7)

	require.Len(t, eval.Emergencies, 1)
	assert.Equal(t, int64(1), eval.Emergencies[0].ProductID)

	require.Len(t, eval.Candidates, 1)
	cand := eval.Candidates[0]
	assert.Equal(t, int64(2), cand.ProductID)
	assert.InDelta(t, 70.0, cand.ExpectedLeadTimeDemand, 0.001)
	// ceil(70 * 1.2) = 84 beats the base quantity of 50
	assert.Equal(t, 84, cand.AdjustedQuantity)
}

func TestEvaluateWithoutForecastKeepsBaseQuantity(t *testing.T) {
	snapshots := []domain.InventorySnapshot{
		{ProductID: 7, CurrentStock: 12, SafetyStock: 10, ReorderPoint: 20, ReorderQuantity: 40},
	}

	eval := Evaluate(snapshots, nil, 7)

	require.Len(t, eval.Candidates, 1)
	assert.Equal(t, 40, eval.Candidates[0].AdjustedQuantity)
	assert.Zero(t, eval.Candidates[0].ExpectedLeadTimeDemand)
}

func TestEvaluateBaseQuantityWinsOverSmallDemand(t *testing.T) {
	snapshots := []domain.InventorySnapshot{
		{ProductID: 8, CurrentStock: 12, SafetyStock: 10, ReorderPoint: 20, ReorderQuantity: 40},
	}
	forecasts := map[int64]forecast.Result{
		8: flatForecast(8, 1, 30),
	}

	eval := Evaluate(snapshots, forecasts, 7)

	require.Len(t, eval.Candidates, 1)
	// ceil(7 * 1.2) = 9 is below the base quantity
	assert.Equal(t, 40, eval.Candidates[0].AdjustedQuantity)
}

func TestOptimizeRespectsSupplierBounds(t *testing.T) {
	product := domain.Product{ID: 1, CostPrice: 10}
	inv := domain.InventorySnapshot{ProductID: 1, ReorderQuantity: 50}
	fc := flatForecast(1, 10, 90)
	offers := []domain.SupplierOffer{
		{SupplierID: 1, MinimumOrder: 20, MaxCapacity: 120},
		{SupplierID: 2, MinimumOrder: 60, MaxCapacity: 500},
	}

	opt, ok := Optimize(product, inv, fc, DefaultCostParams(), offers)
	require.True(t, ok)

	assert.InDelta(t, 3600.0, opt.AnnualDemand, 0.001)
	assert.Greater(t, opt.EOQ, 0.0)
	assert.GreaterOrEqual(t, opt.OptimizedQuantity, 20)
	assert.LessOrEqual(t, opt.OptimizedQuantity, 500)
}

func TestOptimizeClipsToMOQ(t *testing.T) {
	product := domain.Product{ID: 1, CostPrice: 10}
	inv := domain.InventorySnapshot{ProductID: 1, ReorderQuantity: 50}
	fc := flatForecast(1, 0.1, 90) // tiny demand, raw EOQ below MOQ
	offers := []domain.SupplierOffer{
		{SupplierID: 1, MinimumOrder: 100, MaxCapacity: 1000},
	}

	opt, ok := Optimize(product, inv, fc, DefaultCostParams(), offers)
	require.True(t, ok)
	assert.Equal(t, 100, opt.OptimizedQuantity)
}

func TestOptimizeSkipsWhenNothingToOptimize(t *testing.T) {
	inv := domain.InventorySnapshot{ProductID: 1, ReorderQuantity: 50}

	_, ok := Optimize(domain.Product{ID: 1, CostPrice: 10}, inv, forecast.Result{}, DefaultCostParams(), nil)
	assert.False(t, ok, "zero demand")

	_, ok = Optimize(domain.Product{ID: 1, CostPrice: 0}, inv, flatForecast(1, 10, 90), DefaultCostParams(), nil)
	assert.False(t, ok, "zero holding cost")
}

func TestOptimizeSavingsAgainstZeroCurrentQuantity(t *testing.T) {
	product := domain.Product{ID: 1, CostPrice: 10}
	inv := domain.InventorySnapshot{ProductID: 1, ReorderQuantity: 0}
	fc := flatForecast(1, 10, 90)

	opt, ok := Optimize(product, inv, fc, DefaultCostParams(), nil)
	require.True(t, ok)
	assert.Zero(t, opt.CurrentCost.Ordering)
	assert.Zero(t, opt.CurrentCost.Holding)
	assert.Greater(t, opt.OptimizedCost.Total, 0.0)
}
