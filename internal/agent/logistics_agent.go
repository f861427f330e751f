// internal/agent/logistics_agent.go
package agent

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/logistics"
	"github.com/minimart-ai/backend/internal/supervisor"
	"github.com/minimart-ai/backend/internal/supplier"
)

// Logistics agent actions
const (
	ActionTrackShipments    = "track_shipments"
	ActionPerformanceReview = "supplier_performance_review"
	ActionUpdateShipment    = "update_shipment_status"
	ActionDeliveryIssues    = "handle_delivery_issues"
	ActionOptimizeSuppliers = "optimize_supplier_selection"
)

// LogisticsOutcome is the logistics node result stored in the workflow.
type LogisticsOutcome struct {
	Tracking    *logistics.TrackingReport    `json:"tracking,omitempty"`
	Performance []logistics.PerformanceScore `json:"performance,omitempty"`
	Resolution  *logistics.Resolution        `json:"resolution,omitempty"`
	Rankings    []supplier.Score             `json:"rankings,omitempty"`
	Shipment    *domain.Shipment             `json:"shipment,omitempty"`
}

// LogisticsCoordination tracks the active shipment book by default;
// dedicated actions cover status updates, delivery issue handling, supplier
// performance reviews and supplier selection.
func (r *Runtime) LogisticsCoordination(ctx context.Context, state *supervisor.TaskState) (any, error) {
	started := time.Now()
	payload := &state.TaskData

	switch payload.Action {
	case ActionPerformanceReview:
		return r.reviewSupplierPerformance(ctx, started)
	case ActionUpdateShipment:
		return r.updateShipmentStatus(ctx, payload, started)
	case ActionDeliveryIssues:
		return r.handleDeliveryIssue(ctx, payload, started)
	case ActionOptimizeSuppliers:
		return r.optimizeSupplierSelection(ctx, payload, started)
	}

	shipments, err := r.stores.Shipments.ListActiveShipments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active shipments: %w", err)
	}

	report := logistics.Track(shipments, time.Now().UTC())
	outcome := &LogisticsOutcome{Tracking: &report}

	logID, err := r.recordDecision(ctx, NameLogistics, ActionTrackShipments, map[string]any{
		"shipments": len(shipments),
	}, map[string]any{
		"on_track": len(report.OnTrack),
		"at_risk":  len(report.AtRisk),
		"overdue":  len(report.Overdue),
	}, nil, started)
	if err != nil {
		return nil, err
	}

	if len(report.Overdue) > 0 {
		if err := r.recordInteraction(ctx, NameLogistics, NameSupervisor, "shipments_overdue",
			fmt.Sprintf("%d shipments overdue", len(report.Overdue)), nil, logID); err != nil {
			return nil, err
		}
	}

	return outcome, nil
}

func (r *Runtime) reviewSupplierPerformance(ctx context.Context, started time.Time) (any, error) {
	suppliers, err := r.stores.Suppliers.ListActiveSuppliers(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -r.opts.PerformanceWindowDays)
	delivered, err := r.stores.Shipments.ListDeliveredSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	outcome := &LogisticsOutcome{}
	for _, s := range suppliers {
		var (
			score logistics.PerformanceScore
			ok    bool
		)
		r.random(func(rng *rand.Rand) {
			score, ok = logistics.ScorePerformance(s.ID, s.Name, delivered, r.opts.PerformanceWindowDays, now, rng)
		})
		if ok {
			outcome.Performance = append(outcome.Performance, score)
		}
	}

	if _, err := r.recordDecision(ctx, NameLogistics, ActionPerformanceReview, map[string]any{
		"suppliers":   len(suppliers),
		"window_days": r.opts.PerformanceWindowDays,
	}, map[string]any{
		"scored": len(outcome.Performance),
	}, nil, started); err != nil {
		return nil, err
	}

	return outcome, nil
}

func (r *Runtime) updateShipmentStatus(ctx context.Context, payload *supervisor.TaskPayload, started time.Time) (any, error) {
	if payload.ShipmentID == 0 || payload.NewStatus == "" {
		return nil, domain.Validationf("update_shipment_status requires shipment_id and new_status")
	}

	if err := r.stores.Shipments.UpdateShipmentStatus(ctx, payload.ShipmentID, payload.NewStatus, payload.TrackingInfo); err != nil {
		return nil, err
	}

	shipment, err := r.stores.Shipments.GetShipment(ctx, payload.ShipmentID)
	if err != nil {
		return nil, err
	}

	// A delivery puts the goods on the shelf
	if shipment.Status == domain.ShipmentDelivered && shipment.Quantity > 0 {
		if err := r.stores.Inventory.ApplyDelta(ctx, shipment.ProductID, shipment.Quantity, "shipment delivered"); err != nil {
			return nil, err
		}
	}

	outcome := &LogisticsOutcome{Shipment: shipment}
	if _, err := r.recordDecision(ctx, NameLogistics, ActionUpdateShipment, payload, shipment, nil, started); err != nil {
		return nil, err
	}

	return outcome, nil
}

func (r *Runtime) handleDeliveryIssue(ctx context.Context, payload *supervisor.TaskPayload, started time.Time) (any, error) {
	if payload.ShipmentID == 0 || payload.IssueType == "" {
		return nil, domain.Validationf("handle_delivery_issues requires shipment_id and issue_type")
	}

	shipment, err := r.stores.Shipments.GetShipment(ctx, payload.ShipmentID)
	if err != nil {
		return nil, err
	}

	resolution := logistics.Resolve(payload.IssueType)
	outcome := &LogisticsOutcome{Resolution: &resolution, Shipment: shipment}

	logID, err := r.recordDecision(ctx, NameLogistics, ActionDeliveryIssues, payload, resolution, nil, started)
	if err != nil {
		return nil, err
	}

	if err := r.recordInteraction(ctx, NameLogistics, fmt.Sprintf("supplier:%d", shipment.SupplierID), "delivery_issue",
		fmt.Sprintf("issue %s on shipment %s: %s", resolution.IssueType, shipment.ShipmentNumber, resolution.Action),
		resolution, logID); err != nil {
		return nil, err
	}

	return outcome, nil
}

func (r *Runtime) optimizeSupplierSelection(ctx context.Context, payload *supervisor.TaskPayload, started time.Time) (any, error) {
	if payload.ProductID == 0 {
		return nil, domain.Validationf("optimize_supplier_selection requires product_id")
	}

	offers, err := r.stores.Suppliers.ListOffers(ctx, payload.ProductID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -r.opts.PerformanceWindowDays)
	delivered, err := r.stores.Shipments.ListDeliveredSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	// Feed real delivery performance into the composite score where we have
	// it; suppliers without history keep the neutral default.
	performance := make(map[int64]float64)
	for _, offer := range offers {
		var (
			score logistics.PerformanceScore
			ok    bool
		)
		r.random(func(rng *rand.Rand) {
			score, ok = logistics.ScorePerformance(offer.SupplierID, offer.SupplierName, delivered, r.opts.PerformanceWindowDays, now, rng)
		})
		if ok {
			performance[offer.SupplierID] = score.Overall
		}
	}

	outcome := &LogisticsOutcome{Rankings: supplier.RankOffers(offers, performance, nil)}

	if _, err := r.recordDecision(ctx, NameLogistics, ActionOptimizeSuppliers, payload, map[string]any{
		"offers": len(offers),
		"scored": len(performance),
	}, nil, started); err != nil {
		return nil, err
	}

	return outcome, nil
}
