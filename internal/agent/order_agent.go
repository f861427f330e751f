// internal/agent/order_agent.go
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/reorder"
	"github.com/minimart-ai/backend/internal/supervisor"
	"github.com/minimart-ai/backend/internal/supplier"
)

// Order placement actions
const (
	ActionPlaceOrder = "place_order"
)

// OrderPlacement evaluates reorder points for the products in scope, sizes
// orders from the forecast, and raises emergency orders for products at or
// below safety stock. With Action "place_order" it instead places one manual
// purchase order.
func (r *Runtime) OrderPlacement(ctx context.Context, state *supervisor.TaskState) (any, error) {
	started := time.Now()
	payload := &state.TaskData

	if payload.Action == ActionPlaceOrder {
		return r.placeManualOrder(ctx, payload, started)
	}

	snapshots, err := r.snapshotsInScope(ctx, payload.ProductIDs)
	if err != nil {
		return nil, err
	}

	eval := reorder.Evaluate(snapshots, payload.ForecastData, r.opts.DefaultLeadTimeDays)
	orderData := &supervisor.OrderData{Evaluation: eval}

	for _, cand := range eval.Candidates {
		opt, err := r.optimizeCandidate(ctx, cand, payload)
		if err != nil {
			return nil, err
		}
		if opt != nil {
			orderData.Optimizations = append(orderData.Optimizations, *opt)
		}
	}

	for _, cand := range eval.Emergencies {
		order, err := r.raiseEmergencyOrder(ctx, cand)
		if err != nil {
			return nil, err
		}
		if order != nil {
			orderData.EmergencyOrders = append(orderData.EmergencyOrders, *order)
		}
	}

	payload.OrderData = orderData

	logID, err := r.recordDecision(ctx, NameOrderPlacement, "check_reorder_points", map[string]any{
		"snapshots": len(snapshots),
	}, map[string]any{
		"candidates":       len(eval.Candidates),
		"emergencies":      len(eval.Emergencies),
		"optimizations":    len(orderData.Optimizations),
		"emergency_orders": len(orderData.EmergencyOrders),
	}, nil, started)
	if err != nil {
		return nil, err
	}

	if err := r.recordInteraction(ctx, NameOrderPlacement, NameSupervisor, "reorder_evaluated",
		fmt.Sprintf("%d candidates, %d emergencies", len(eval.Candidates), len(eval.Emergencies)), nil, logID); err != nil {
		return nil, err
	}

	return orderData, nil
}

func (r *Runtime) snapshotsInScope(ctx context.Context, productIDs []int64) ([]domain.InventorySnapshot, error) {
	if len(productIDs) == 0 {
		snapshots, err := r.stores.Inventory.ListActiveSnapshots(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list inventory snapshots: %w", err)
		}

		return snapshots, nil
	}

	snapshots := make([]domain.InventorySnapshot, 0, len(productIDs))
	for _, id := range productIDs {
		snap, err := r.stores.Inventory.GetSnapshot(ctx, id)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snap)
	}

	return snapshots, nil
}

func (r *Runtime) optimizeCandidate(ctx context.Context, cand reorder.Candidate, payload *supervisor.TaskPayload) (*reorder.Optimization, error) {
	fc, ok := payload.ForecastData[cand.ProductID]
	if !ok {
		return nil, nil
	}

	product, err := r.stores.Products.GetProduct(ctx, cand.ProductID)
	if err != nil {
		return nil, err
	}
	snap, err := r.stores.Inventory.GetSnapshot(ctx, cand.ProductID)
	if err != nil {
		return nil, err
	}
	offers, err := r.stores.Suppliers.ListOffers(ctx, cand.ProductID)
	if err != nil {
		return nil, err
	}

	opt, ok := reorder.Optimize(*product, *snap, fc, r.opts.CostParams, offers)
	if !ok {
		return nil, nil
	}

	return &opt, nil
}

// raiseEmergencyOrder creates the purchase order and shipment for a product
// at safety stock. The order and shipment numbers are derived from the
// product and the current minute, so a retry inside the same minute reuses
// the existing records instead of duplicating them.
func (r *Runtime) raiseEmergencyOrder(ctx context.Context, cand reorder.Candidate) (*supervisor.EmergencyOrder, error) {
	offers, err := r.stores.Suppliers.ListOffers(ctx, cand.ProductID)
	if err != nil {
		return nil, err
	}

	chosen, ok := supplier.PickEmergency(offers)
	if !ok {
		log.Warn().Int64("product_id", cand.ProductID).Msg("no supplier available for emergency order")

		return nil, nil
	}

	quantity := cand.AdjustedQuantity
	if quantity < chosen.MinimumOrder {
		quantity = chosen.MinimumOrder
	}

	stamp := time.Now().UTC().Format("200601021504")
	order := &domain.PurchaseOrder{
		OrderNumber: fmt.Sprintf("PO-EMG-%d-%s", cand.ProductID, stamp),
		SupplierID:  chosen.SupplierID,
		ProductID:   cand.ProductID,
		Quantity:    quantity,
		UnitCost:    chosen.UnitCost,
		TotalCost:   chosen.UnitCost * float64(quantity),
		Status:      domain.OrderPending,
		IsUrgent:    true,
	}
	if err := r.stores.Shipments.CreatePurchaseOrder(ctx, order); err != nil {
		return nil, err
	}

	shipment := &domain.Shipment{
		ShipmentNumber:       fmt.Sprintf("SHP-EMG-%d-%s", cand.ProductID, stamp),
		PurchaseOrderID:      &order.ID,
		SupplierID:           chosen.SupplierID,
		ProductID:            cand.ProductID,
		Quantity:             quantity,
		Status:               domain.ShipmentPending,
		ExpectedDeliveryDate: time.Now().UTC().AddDate(0, 0, leadTimeOrDefault(chosen.LeadTimeDays, r.opts.DefaultLeadTimeDays)),
	}
	if err := r.stores.Shipments.CreateShipment(ctx, shipment); err != nil {
		return nil, err
	}

	if err := r.recordInteraction(ctx, NameOrderPlacement, NameSupplier, "urgent_rfq",
		fmt.Sprintf("urgent order of %d units of product %d from supplier %d", quantity, cand.ProductID, chosen.SupplierID),
		map[string]any{"order_number": order.OrderNumber, "shipment_number": shipment.ShipmentNumber}, 0); err != nil {
		return nil, err
	}

	return &supervisor.EmergencyOrder{
		ProductID:      cand.ProductID,
		SupplierID:     chosen.SupplierID,
		Quantity:       quantity,
		ShipmentNumber: shipment.ShipmentNumber,
		OrderNumber:    order.OrderNumber,
	}, nil
}

func (r *Runtime) placeManualOrder(ctx context.Context, payload *supervisor.TaskPayload, started time.Time) (any, error) {
	if payload.ProductID == 0 || payload.Quantity <= 0 {
		return nil, domain.Validationf("place_order requires product_id and a positive quantity")
	}

	offers, err := r.stores.Suppliers.ListOffers(ctx, payload.ProductID)
	if err != nil {
		return nil, err
	}
	chosen, ok := supplier.PickEmergency(offers)
	if !ok {
		return nil, domain.NotFoundf("no supplier offers for product %d", payload.ProductID)
	}

	order := &domain.PurchaseOrder{
		OrderNumber: fmt.Sprintf("PO-%d-%s", payload.ProductID, time.Now().UTC().Format("20060102150405")),
		SupplierID:  chosen.SupplierID,
		ProductID:   payload.ProductID,
		Quantity:    payload.Quantity,
		UnitCost:    chosen.UnitCost,
		TotalCost:   chosen.UnitCost * float64(payload.Quantity),
		Status:      domain.OrderPending,
	}
	if err := r.stores.Shipments.CreatePurchaseOrder(ctx, order); err != nil {
		return nil, err
	}

	if _, err := r.recordDecision(ctx, NameOrderPlacement, ActionPlaceOrder, payload, order, nil, started); err != nil {
		return nil, err
	}

	return order, nil
}

func leadTimeOrDefault(leadTimeDays, fallback int) int {
	if leadTimeDays > 0 {
		return leadTimeDays
	}

	return fallback
}
