// internal/reorder/eoq.go
package reorder

import (
	"math"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/forecast"
)

// CostParams carries the cost model for order sizing. AnnualizationDays
// controls how much of the forecast horizon is summed before scaling to a
// year; the default of 30 extrapolates one forecast month times twelve.
type CostParams struct {
	OrderingCost      float64
	HoldingCostRate   float64
	AnnualizationDays int
}

func DefaultCostParams() CostParams {
	return CostParams{
		OrderingCost:      50,
		HoldingCostRate:   0.2,
		AnnualizationDays: 30,
	}
}

// CostBreakdown splits an annual policy cost into its components.
type CostBreakdown struct {
	Ordering float64 `json:"ordering"`
	Holding  float64 `json:"holding"`
	Total    float64 `json:"total"`
}

// Optimization is the EOQ recommendation for one product.
type Optimization struct {
	ProductID         int64         `json:"product_id"`
	AnnualDemand      float64       `json:"annual_demand"`
	EOQ               float64       `json:"eoq"`
	CurrentQuantity   int           `json:"current_quantity"`
	OptimizedQuantity int           `json:"optimized_quantity"`
	CurrentCost       CostBreakdown `json:"current_cost"`
	OptimizedCost     CostBreakdown `json:"optimized_cost"`
	Savings           float64       `json:"savings"`
}

// Optimize computes the economic order quantity from annualized forecast
// demand, clips it to the supplier MOQ/capacity envelope and compares annual
// cost against the current reorder quantity. Returns false when demand or
// holding cost leave nothing to optimize.
func Optimize(product domain.Product, inv domain.InventorySnapshot, fc forecast.Result, params CostParams, offers []domain.SupplierOffer) (Optimization, bool) {
	if params.AnnualizationDays <= 0 {
		params.AnnualizationDays = 30
	}

	annualDemand := fc.SumFirst(params.AnnualizationDays) * (360 / float64(params.AnnualizationDays))
	holdingPerUnit := product.CostPrice * params.HoldingCostRate
	if annualDemand <= 0 || holdingPerUnit <= 0 {
		return Optimization{}, false
	}

	eoq := math.Sqrt(2 * annualDemand * params.OrderingCost / holdingPerUnit)
	optimized := clipToOffers(eoq, offers)

	current := annualCost(annualDemand, inv.ReorderQuantity, params.OrderingCost, holdingPerUnit)
	proposed := annualCost(annualDemand, optimized, params.OrderingCost, holdingPerUnit)

	return Optimization{
		ProductID:         product.ID,
		AnnualDemand:      annualDemand,
		EOQ:               eoq,
		CurrentQuantity:   inv.ReorderQuantity,
		OptimizedQuantity: optimized,
		CurrentCost:       current,
		OptimizedCost:     proposed,
		Savings:           current.Total - proposed.Total,
	}, true
}

// clipToOffers bounds the raw EOQ by the smallest supplier MOQ below and the
// largest supplier capacity above. Without offers the EOQ is just rounded.
func clipToOffers(eoq float64, offers []domain.SupplierOffer) int {
	qty := int(math.Round(eoq))
	if qty < 1 {
		qty = 1
	}
	if len(offers) == 0 {
		return qty
	}

	minMOQ := offers[0].MinimumOrder
	maxCap := 0
	for _, o := range offers {
		if o.MinimumOrder < minMOQ {
			minMOQ = o.MinimumOrder
		}
		if o.MaxCapacity > maxCap {
			maxCap = o.MaxCapacity
		}
	}

	if qty < minMOQ {
		qty = minMOQ
	}
	if maxCap > 0 && qty > maxCap {
		qty = maxCap
	}

	return qty
}

// annualCost is ordering plus holding cost for a fixed order quantity.
// A zero quantity zeroes the ordering term instead of dividing by zero.
func annualCost(annualDemand float64, qty int, orderingCost, holdingPerUnit float64) CostBreakdown {
	var ordering float64
	if qty > 0 {
		ordering = annualDemand / float64(qty) * orderingCost
	}
	holding := float64(qty) / 2 * holdingPerUnit

	return CostBreakdown{
		Ordering: ordering,
		Holding:  holding,
		Total:    ordering + holding,
	}
}
