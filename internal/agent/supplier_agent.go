// internal/agent/supplier_agent.go
package agent

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/supervisor"
	"github.com/minimart-ai/backend/internal/supplier"
)

// Supplier agent actions
const (
	ActionNegotiatePrice    = "negotiate_price"
	ActionSendRFQ           = "send_rfq"
	ActionOrderConfirmation = "send_order_confirmation"
	ActionEvaluateProposals = "evaluate_supplier_proposals"
)

// SupplierNegotiation ranks supplier offers and runs simulated price
// negotiations for the products coming out of the reorder stage. Dedicated
// actions cover RFQ fan-out, order confirmations and proposal evaluation.
func (r *Runtime) SupplierNegotiation(ctx context.Context, state *supervisor.TaskState) (any, error) {
	started := time.Now()
	payload := &state.TaskData

	switch payload.Action {
	case ActionSendRFQ:
		return r.sendRFQ(ctx, payload, started)
	case ActionOrderConfirmation:
		return r.sendOrderConfirmation(ctx, payload, started)
	case ActionEvaluateProposals:
		return r.evaluateProposals(ctx, payload, started)
	}

	productIDs := r.negotiationScope(payload)
	if len(productIDs) == 0 {
		return nil, domain.Validationf("no products in scope for supplier negotiation")
	}

	data := &supervisor.SupplierData{}
	for _, productID := range productIDs {
		offers, err := r.stores.Suppliers.ListOffers(ctx, productID)
		if err != nil {
			return nil, err
		}
		if len(offers) == 0 {
			continue
		}

		ranked := supplier.RankOffers(offers, nil, nil)
		data.Rankings = append(data.Rankings, ranked...)

		best := ranked[0]
		var negotiated supplier.NegotiationResult
		r.random(func(rng *rand.Rand) {
			negotiated = supplier.Negotiate(best.UnitCost, payload.TargetPrice, rng)
		})
		data.Negotiations = append(data.Negotiations, negotiated)
	}

	payload.SupplierData = data

	logID, err := r.recordDecision(ctx, NameSupplier, ActionNegotiatePrice, map[string]any{
		"product_ids": productIDs,
	}, map[string]any{
		"rankings":     len(data.Rankings),
		"negotiations": len(data.Negotiations),
	}, nil, started)
	if err != nil {
		return nil, err
	}

	if err := r.recordInteraction(ctx, NameSupplier, NameSupervisor, "negotiation_finished",
		fmt.Sprintf("negotiated prices for %d products", len(data.Negotiations)), nil, logID); err != nil {
		return nil, err
	}

	return data, nil
}

// negotiationScope picks the products to negotiate for: explicit product,
// then reorder-stage output, then the forecasted set.
func (r *Runtime) negotiationScope(payload *supervisor.TaskPayload) []int64 {
	if payload.ProductID != 0 {
		return []int64{payload.ProductID}
	}

	if payload.OrderData != nil {
		var ids []int64
		for _, c := range payload.OrderData.Evaluation.Candidates {
			ids = append(ids, c.ProductID)
		}
		for _, c := range payload.OrderData.Evaluation.Emergencies {
			ids = append(ids, c.ProductID)
		}
		if len(ids) > 0 {
			return ids
		}
	}

	var ids []int64
	for id := range payload.ForecastData {
		ids = append(ids, id)
	}

	return ids
}

func (r *Runtime) sendRFQ(ctx context.Context, payload *supervisor.TaskPayload, started time.Time) (any, error) {
	if payload.ProductID == 0 || payload.Quantity <= 0 {
		return nil, domain.Validationf("send_rfq requires product_id and a positive quantity")
	}

	product, err := r.stores.Products.GetProduct(ctx, payload.ProductID)
	if err != nil {
		return nil, err
	}
	suppliers, err := r.stores.Suppliers.ListActiveSuppliers(ctx)
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("request for quotation: %d units of %s (%s)", payload.Quantity, product.Name, product.SKU)
	for _, s := range suppliers {
		if err := r.recordInteraction(ctx, NameSupplier, fmt.Sprintf("supplier:%d", s.ID), "rfq", message, map[string]any{
			"product_id": product.ID,
			"quantity":   payload.Quantity,
		}, 0); err != nil {
			return nil, err
		}
	}

	result := map[string]any{"suppliers_contacted": len(suppliers)}
	if _, err := r.recordDecision(ctx, NameSupplier, ActionSendRFQ, payload, result, nil, started); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Runtime) sendOrderConfirmation(ctx context.Context, payload *supervisor.TaskPayload, started time.Time) (any, error) {
	if payload.ProductID == 0 || payload.Quantity <= 0 {
		return nil, domain.Validationf("send_order_confirmation requires product_id and a positive quantity")
	}

	offers, err := r.stores.Suppliers.ListOffers(ctx, payload.ProductID)
	if err != nil {
		return nil, err
	}
	chosen, ok := supplier.PickEmergency(offers)
	if !ok {
		return nil, domain.NotFoundf("no supplier offers for product %d", payload.ProductID)
	}

	message := fmt.Sprintf("order confirmation: %d units of product %d at %.2f", payload.Quantity, payload.ProductID, chosen.UnitCost)
	if err := r.recordInteraction(ctx, NameSupplier, fmt.Sprintf("supplier:%d", chosen.SupplierID), "order_confirmation", message, nil, 0); err != nil {
		return nil, err
	}

	result := map[string]any{"supplier_id": chosen.SupplierID, "unit_cost": chosen.UnitCost}
	if _, err := r.recordDecision(ctx, NameSupplier, ActionOrderConfirmation, payload, result, nil, started); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Runtime) evaluateProposals(ctx context.Context, payload *supervisor.TaskPayload, started time.Time) (any, error) {
	if payload.ProductID == 0 {
		return nil, domain.Validationf("evaluate_supplier_proposals requires product_id")
	}

	product, err := r.stores.Products.GetProduct(ctx, payload.ProductID)
	if err != nil {
		return nil, err
	}
	offers, err := r.stores.Suppliers.ListOffers(ctx, payload.ProductID)
	if err != nil {
		return nil, err
	}

	var (
		evals []supplier.ProposalEvaluation
		best  int
	)
	r.random(func(rng *rand.Rand) {
		evals, best = supplier.EvaluateProposals(offers, product.CostPrice, rng)
	})

	data := &supervisor.SupplierData{Proposals: evals}
	payload.SupplierData = data

	output := map[string]any{"proposals": len(evals)}
	if best >= 0 {
		output["best_supplier_id"] = evals[best].SupplierID
	}
	if _, err := r.recordDecision(ctx, NameSupplier, ActionEvaluateProposals, payload, output, nil, started); err != nil {
		return nil, err
	}

	return data, nil
}
