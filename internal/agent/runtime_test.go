package agent

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/reorder"
	"github.com/minimart-ai/backend/internal/supervisor"
)

func seedProduct(f *fakeStore, id int64, name string, current, safety, reorderPoint int) {
	f.products[id] = domain.Product{
		ID:        id,
		SKU:       "SKU-" + name,
		Name:      name,
		CostPrice: 10,
		IsActive:  true,
	}
	f.inventory[id] = domain.InventorySnapshot{
		ProductID:       id,
		ProductName:     name,
		CurrentStock:    current,
		AvailableStock:  current,
		ReorderPoint:    reorderPoint,
		ReorderQuantity: 50,
		SafetyStock:     safety,
		MaximumStock:    500,
	}
}

func seedSupplier(f *fakeStore, id int64, name string, productIDs ...int64) {
	f.suppliers[id] = domain.Supplier{ID: id, Name: name, IsActive: true}
	for _, pid := range productIDs {
		f.offers[pid] = append(f.offers[pid], domain.SupplierOffer{
			SupplierID:   id,
			SupplierName: name,
			ProductID:    pid,
			UnitCost:     8.5,
			MinimumOrder: 10,
			MaxCapacity:  1000,
			LeadTimeDays: 5,
		})
	}
}

func seedSales(f *fakeStore, productID int64, days, perDay int) {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	for i := days; i > 0; i-- {
		f.sales[productID] = append(f.sales[productID], domain.SalesPoint{
			Date:     day.AddDate(0, 0, -i),
			Quantity: float64(perDay),
			Revenue:  float64(perDay) * 12,
		})
	}
}

func newTestRuntime(f *fakeStore) *Runtime {
	return NewRuntime(f.stores(), nil, Options{
		ForecastHorizonDays: 30,
		HistoryWindowDays:   60,
		Seed:                42,
	})
}

func runWorkflow(t *testing.T, r *Runtime, task string, payload supervisor.TaskPayload) *supervisor.TaskState {
	t.Helper()

	machine, err := r.BuildMachine()
	require.NoError(t, err)

	state := supervisor.NewTaskState("wf-test", task, payload)

	return machine.Run(context.Background(), state)
}

func TestInventoryManagementWorkflow(t *testing.T) {
	f := newFakeStore()
	seedProduct(f, 1, "coffee", 15, 10, 20) // between safety and reorder point
	seedProduct(f, 2, "sugar", 5, 10, 20)   // at or below safety stock
	seedSupplier(f, 100, "acme", 1, 2)
	seedSales(f, 1, 45, 6)
	seedSales(f, 2, 45, 4)

	r := newTestRuntime(f)
	state := runWorkflow(t, r, supervisor.TaskInventoryManagement, supervisor.TaskPayload{})

	assert.Equal(t, supervisor.StatusCompleted, state.WorkflowStatus)
	for _, node := range []supervisor.State{
		supervisor.StateDemandForecast,
		supervisor.StateOrderPlacement,
		supervisor.StateSupplierNegotiation,
		supervisor.StateLogisticsCoordination,
	} {
		assert.Contains(t, state.AgentResults, string(node))
	}

	require.NotNil(t, state.TaskData.ForecastData)
	assert.Contains(t, state.TaskData.ForecastData, int64(1))
	assert.Contains(t, state.TaskData.ForecastData, int64(2))

	orderData := state.TaskData.OrderData
	require.NotNil(t, orderData)
	assert.Len(t, orderData.Evaluation.Candidates, 1)
	assert.Len(t, orderData.Evaluation.Emergencies, 1)
	assert.Equal(t, int64(2), orderData.Evaluation.Emergencies[0].ProductID)

	require.Len(t, orderData.EmergencyOrders, 1)
	emergency := orderData.EmergencyOrders[0]
	assert.True(t, strings.HasPrefix(emergency.OrderNumber, "PO-EMG-2-"))
	assert.True(t, strings.HasPrefix(emergency.ShipmentNumber, "SHP-EMG-2-"))

	require.Len(t, f.orders, 1)
	assert.True(t, f.orders[0].IsUrgent)
	require.Len(t, f.shipments, 1)
	assert.Equal(t, domain.ShipmentPending, f.shipments[0].Status)

	supplierData := state.TaskData.SupplierData
	require.NotNil(t, supplierData)
	assert.NotEmpty(t, supplierData.Rankings)
	assert.NotEmpty(t, supplierData.Negotiations)

	// Every agent left a decision log behind.
	for _, name := range []string{NameDemandForecast, NameOrderPlacement, NameSupplier, NameLogistics} {
		logs, err := f.ListLogs(context.Background(), name, 10)
		require.NoError(t, err)
		assert.NotEmptyf(t, logs, "no decision log for %s", name)
	}
}

func TestInventoryManagementEndsEarlyWhenStockHealthy(t *testing.T) {
	f := newFakeStore()
	seedProduct(f, 1, "coffee", 200, 10, 20)
	seedSupplier(f, 100, "acme", 1)
	seedSales(f, 1, 45, 2)

	r := newTestRuntime(f)
	state := runWorkflow(t, r, supervisor.TaskInventoryManagement, supervisor.TaskPayload{})

	assert.Equal(t, supervisor.StatusCompleted, state.WorkflowStatus)
	assert.Contains(t, state.AgentResults, string(supervisor.StateOrderPlacement))
	assert.NotContains(t, state.AgentResults, string(supervisor.StateSupplierNegotiation))
	assert.NotContains(t, state.AgentResults, string(supervisor.StateLogisticsCoordination))
	assert.Empty(t, f.orders)
}

func TestEmergencyOrderIdempotentWithinMinute(t *testing.T) {
	f := newFakeStore()
	seedProduct(f, 7, "milk", 2, 10, 20)
	seedSupplier(f, 100, "acme", 7)

	r := newTestRuntime(f)
	cand := reorder.Candidate{ProductID: 7, AdjustedQuantity: 40}

	first, err := r.raiseEmergencyOrder(context.Background(), cand)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := r.raiseEmergencyOrder(context.Background(), cand)
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	assert.Equal(t, first.ShipmentNumber, second.ShipmentNumber)
	assert.Len(t, f.orders, 1)
	assert.Len(t, f.shipments, 1)
}

func TestEmergencyOrderRespectsMinimumOrder(t *testing.T) {
	f := newFakeStore()
	seedProduct(f, 7, "milk", 2, 10, 20)
	f.suppliers[100] = domain.Supplier{ID: 100, Name: "acme", IsActive: true}
	f.offers[7] = []domain.SupplierOffer{{
		SupplierID: 100, SupplierName: "acme", ProductID: 7,
		UnitCost: 3, MinimumOrder: 60, MaxCapacity: 1000, LeadTimeDays: 4,
	}}

	r := newTestRuntime(f)
	order, err := r.raiseEmergencyOrder(context.Background(), reorder.Candidate{ProductID: 7, AdjustedQuantity: 40})
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, 60, order.Quantity)
}

func TestWorkflowValidationErrorHandled(t *testing.T) {
	f := newFakeStore()
	r := newTestRuntime(f)

	state := runWorkflow(t, r, supervisor.TaskSupplierNegotiation, supervisor.TaskPayload{
		Action: ActionSendRFQ, // missing product_id and quantity
	})

	assert.Equal(t, supervisor.StatusErrorHandled, state.WorkflowStatus)

	raw, ok := state.AgentResults[string(supervisor.StateErrorHandling)]
	require.True(t, ok)
	strategy, ok := raw.(supervisor.RecoveryStrategy)
	require.True(t, ok)
	assert.Equal(t, supervisor.RecoveryFallback, strategy.Type)
	assert.Equal(t, "manual_intervention", strategy.Fallback)
}

func TestStandaloneForecastTask(t *testing.T) {
	f := newFakeStore()
	seedProduct(f, 1, "coffee", 100, 10, 20)
	seedSales(f, 1, 100, 5)

	r := newTestRuntime(f)
	state := runWorkflow(t, r, supervisor.TaskDemandForecast, supervisor.TaskPayload{
		ProductIDs:         []int64{1},
		ForecastPeriodDays: 14,
	})

	assert.Equal(t, supervisor.StatusCompleted, state.WorkflowStatus)

	raw, ok := state.AgentResults[string(supervisor.StateDemandForecast)]
	require.True(t, ok)
	outcome, ok := raw.(ForecastOutcome)
	require.True(t, ok)
	assert.Equal(t, 14, outcome.HorizonDays)
	assert.Equal(t, 1, outcome.Products)
	require.Contains(t, outcome.Results, int64(1))
	assert.Len(t, outcome.Results[1].Combined, 14)
}

func TestManualOrderPlacement(t *testing.T) {
	f := newFakeStore()
	seedProduct(f, 3, "tea", 50, 10, 20)
	seedSupplier(f, 100, "acme", 3)

	r := newTestRuntime(f)
	state := runWorkflow(t, r, supervisor.TaskOrderPlacement, supervisor.TaskPayload{
		Action:    ActionPlaceOrder,
		ProductID: 3,
		Quantity:  25,
	})

	assert.Equal(t, supervisor.StatusCompleted, state.WorkflowStatus)
	require.Len(t, f.orders, 1)
	assert.Equal(t, 25, f.orders[0].Quantity)
	assert.Equal(t, int64(100), f.orders[0].SupplierID)
	assert.False(t, f.orders[0].IsUrgent)
}

func TestShipmentDeliveryUpdatesInventory(t *testing.T) {
	f := newFakeStore()
	seedProduct(f, 4, "rice", 10, 5, 20)
	f.suppliers[100] = domain.Supplier{ID: 100, Name: "acme", IsActive: true}

	shipment := &domain.Shipment{
		ShipmentNumber:       "SHP-TEST-1",
		SupplierID:           100,
		ProductID:            4,
		Quantity:             30,
		Status:               domain.ShipmentInTransit,
		ExpectedDeliveryDate: time.Now().UTC().AddDate(0, 0, 2),
	}
	require.NoError(t, f.CreateShipment(context.Background(), shipment))

	r := newTestRuntime(f)
	state := runWorkflow(t, r, supervisor.TaskLogisticsTracking, supervisor.TaskPayload{
		Action:     ActionUpdateShipment,
		ShipmentID: shipment.ID,
		NewStatus:  domain.ShipmentDelivered,
	})

	assert.Equal(t, supervisor.StatusCompleted, state.WorkflowStatus)

	snap, err := f.GetSnapshot(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 40, snap.CurrentStock)

	updated, err := f.GetShipment(context.Background(), shipment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ShipmentDelivered, updated.Status)
	require.NotNil(t, updated.ActualDeliveryDate)
}

func TestDeliveryIssueNotifiesSupplier(t *testing.T) {
	f := newFakeStore()
	f.suppliers[100] = domain.Supplier{ID: 100, Name: "acme", IsActive: true}

	shipment := &domain.Shipment{
		ShipmentNumber:       "SHP-TEST-2",
		SupplierID:           100,
		ProductID:            4,
		Quantity:             30,
		Status:               domain.ShipmentInTransit,
		ExpectedDeliveryDate: time.Now().UTC().AddDate(0, 0, -1),
	}
	require.NoError(t, f.CreateShipment(context.Background(), shipment))

	r := newTestRuntime(f)
	state := runWorkflow(t, r, supervisor.TaskLogisticsTracking, supervisor.TaskPayload{
		Action:     ActionDeliveryIssues,
		ShipmentID: shipment.ID,
		IssueType:  "damaged",
	})

	assert.Equal(t, supervisor.StatusCompleted, state.WorkflowStatus)

	var notified bool
	for _, i := range f.interactions {
		if i.InteractionType == "delivery_issue" && i.ToAgent == "supplier:100" {
			notified = true
		}
	}
	assert.True(t, notified)
}
