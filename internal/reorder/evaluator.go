// internal/reorder/evaluator.go
package reorder

import (
	"math"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/forecast"
)

// Urgency levels for reorder candidates
const (
	UrgencyNormal    = "normal"
	UrgencyEmergency = "emergency"
)

// demandBuffer pads expected lead-time demand when sizing an order.
const demandBuffer = 1.2

// Candidate is a product flagged for replenishment.
type Candidate struct {
	ProductID              int64   `json:"product_id"`
	ProductName            string  `json:"product_name"`
	CurrentStock           int     `json:"current_stock"`
	SafetyStock            int     `json:"safety_stock"`
	ReorderPoint           int     `json:"reorder_point"`
	Urgency                string  `json:"urgency"`
	BaseQuantity           int     `json:"base_quantity"`
	ExpectedLeadTimeDemand float64 `json:"expected_lead_time_demand"`
	AdjustedQuantity       int     `json:"adjusted_quantity"`
}

// Evaluation splits flagged products into normal candidates and emergencies.
type Evaluation struct {
	Candidates  []Candidate `json:"candidates"`
	Emergencies []Candidate `json:"emergencies"`
}

// Classify is the pure stock-level decision: emergency at or below safety
// stock, normal between safety stock and reorder point, empty string above
// the reorder point.
func Classify(currentStock, safetyStock, reorderPoint int) string {
	switch {
	case currentStock <= safetyStock:
		return UrgencyEmergency
	case currentStock <= reorderPoint:
		return UrgencyNormal
	default:
		return ""
	}
}

// Evaluate scans inventory snapshots against their thresholds and sizes each
// flagged product's order from its forecast. Products without a forecast pass
// through with the base reorder quantity.
func Evaluate(snapshots []domain.InventorySnapshot, forecasts map[int64]forecast.Result, leadTimeDays int) Evaluation {
	if leadTimeDays <= 0 {
		leadTimeDays = 7
	}

	var eval Evaluation
	for _, snap := range snapshots {
		urgency := Classify(snap.CurrentStock, snap.SafetyStock, snap.ReorderPoint)
		if urgency == "" {
			continue
		}

		cand := Candidate{
			ProductID:        snap.ProductID,
			ProductName:      snap.ProductName,
			CurrentStock:     snap.CurrentStock,
			SafetyStock:      snap.SafetyStock,
			ReorderPoint:     snap.ReorderPoint,
			Urgency:          urgency,
			BaseQuantity:     snap.ReorderQuantity,
			AdjustedQuantity: snap.ReorderQuantity,
		}

		if fc, ok := forecasts[snap.ProductID]; ok {
			demand := fc.SumFirst(leadTimeDays)
			cand.ExpectedLeadTimeDemand = demand
			adjusted := int(math.Ceil(demand * demandBuffer))
			if adjusted > cand.AdjustedQuantity {
				cand.AdjustedQuantity = adjusted
			}
		}

		if urgency == UrgencyEmergency {
			eval.Emergencies = append(eval.Emergencies, cand)
		} else {
			eval.Candidates = append(eval.Candidates, cand)
		}
	}

	return eval
}
