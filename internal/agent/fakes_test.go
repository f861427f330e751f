package agent

import (
	"context"
	"sync"
	"time"

	"github.com/minimart-ai/backend/internal/domain"
)

// In-memory stores backing the agent tests. They mirror the postgres
// repositories' behavior closely enough for workflow-level assertions,
// including shipment-number idempotency.

type fakeStore struct {
	mu sync.Mutex

	products  map[int64]domain.Product
	inventory map[int64]domain.InventorySnapshot
	sales     map[int64][]domain.SalesPoint
	suppliers map[int64]domain.Supplier
	offers    map[int64][]domain.SupplierOffer
	shipments []domain.Shipment
	orders    []domain.PurchaseOrder

	logs         []domain.AgentLog
	interactions []domain.AgentInteraction

	nextID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:  make(map[int64]domain.Product),
		inventory: make(map[int64]domain.InventorySnapshot),
		sales:     make(map[int64][]domain.SalesPoint),
		suppliers: make(map[int64]domain.Supplier),
		offers:    make(map[int64][]domain.SupplierOffer),
		nextID:    1,
	}
}

func (f *fakeStore) id() int64 {
	id := f.nextID
	f.nextID++

	return id
}

func (f *fakeStore) stores() Stores {
	return Stores{
		Products:  f,
		Inventory: f,
		Sales:     f,
		Suppliers: f,
		Shipments: f,
		Logs:      f,
	}
}

func (f *fakeStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		return &p, nil
	}

	return nil, domain.NotFoundf("product %d", id)
}

func (f *fakeStore) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Product
	for _, p := range f.products {
		if p.IsActive {
			out = append(out, p)
		}
	}

	return out, nil
}

func (f *fakeStore) GetSnapshot(ctx context.Context, productID int64) (*domain.InventorySnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.inventory[productID]; ok {
		return &s, nil
	}

	return nil, domain.NotFoundf("inventory for product %d", productID)
}

func (f *fakeStore) ListActiveSnapshots(ctx context.Context) ([]domain.InventorySnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.InventorySnapshot
	for _, s := range f.inventory {
		out = append(out, s)
	}

	return out, nil
}

func (f *fakeStore) ListLowStock(ctx context.Context) ([]domain.InventorySnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.InventorySnapshot
	for _, s := range f.inventory {
		if s.CurrentStock <= s.ReorderPoint {
			out = append(out, s)
		}
	}

	return out, nil
}

func (f *fakeStore) UpdateLevels(ctx context.Context, productID int64, currentStock, reservedStock int) error {
	if currentStock < 0 || reservedStock < 0 {
		return domain.Validationf("stock levels must be non-negative")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.inventory[productID]
	if !ok {
		return domain.NotFoundf("inventory for product %d", productID)
	}
	s.CurrentStock = currentStock
	s.ReservedStock = reservedStock
	s.AvailableStock = currentStock - reservedStock
	f.inventory[productID] = s

	return nil
}

func (f *fakeStore) ApplyDelta(ctx context.Context, productID int64, delta int, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.inventory[productID]
	if !ok {
		return domain.NotFoundf("inventory for product %d", productID)
	}
	if s.CurrentStock+delta < 0 {
		return domain.Validationf("stock delta %d would drop product %d below zero", delta, productID)
	}
	s.CurrentStock += delta
	s.AvailableStock = s.CurrentStock - s.ReservedStock
	f.inventory[productID] = s

	return nil
}

func (f *fakeStore) Reserve(ctx context.Context, productID int64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.inventory[productID]
	if !ok {
		return domain.NotFoundf("inventory for product %d", productID)
	}
	if s.CurrentStock-s.ReservedStock < quantity {
		return domain.Validationf("insufficient available stock")
	}
	s.ReservedStock += quantity
	s.AvailableStock = s.CurrentStock - s.ReservedStock
	f.inventory[productID] = s

	return nil
}

func (f *fakeStore) Release(ctx context.Context, productID int64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.inventory[productID]
	if !ok {
		return domain.NotFoundf("inventory for product %d", productID)
	}
	if s.ReservedStock < quantity {
		return domain.Validationf("not that much reserved")
	}
	s.ReservedStock -= quantity
	s.AvailableStock = s.CurrentStock - s.ReservedStock
	f.inventory[productID] = s

	return nil
}

func (f *fakeStore) GetDailySales(ctx context.Context, productID int64, start, end time.Time) ([]domain.SalesPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SalesPoint
	for _, p := range f.sales[productID] {
		if !p.Date.Before(start) && !p.Date.After(end) {
			out = append(out, p)
		}
	}

	return out, nil
}

func (f *fakeStore) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.suppliers[id]; ok {
		return &s, nil
	}

	return nil, domain.NotFoundf("supplier %d", id)
}

func (f *fakeStore) ListActiveSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Supplier
	for _, s := range f.suppliers {
		if s.IsActive {
			out = append(out, s)
		}
	}

	return out, nil
}

func (f *fakeStore) ListOffers(ctx context.Context, productID int64) ([]domain.SupplierOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]domain.SupplierOffer(nil), f.offers[productID]...), nil
}

func (f *fakeStore) GetShipment(ctx context.Context, id int64) (*domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.shipments {
		if s.ID == id {
			return &s, nil
		}
	}

	return nil, domain.NotFoundf("shipment %d", id)
}

func (f *fakeStore) GetShipmentByNumber(ctx context.Context, number string) (*domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.shipments {
		if s.ShipmentNumber == number {
			return &s, nil
		}
	}

	return nil, domain.NotFoundf("shipment %s", number)
}

func (f *fakeStore) ListActiveShipments(ctx context.Context) ([]domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Shipment
	for _, s := range f.shipments {
		if domain.ShipmentActive(s.Status) {
			out = append(out, s)
		}
	}

	return out, nil
}

func (f *fakeStore) ListDeliveredSince(ctx context.Context, cutoff time.Time) ([]domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Shipment
	for _, s := range f.shipments {
		if s.Status == domain.ShipmentDelivered && s.ActualDeliveryDate != nil && !s.ActualDeliveryDate.Before(cutoff) {
			out = append(out, s)
		}
	}

	return out, nil
}

func (f *fakeStore) CreateShipment(ctx context.Context, shipment *domain.Shipment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.shipments {
		if existing.ShipmentNumber == shipment.ShipmentNumber {
			*shipment = existing

			return nil
		}
	}

	shipment.ID = f.id()
	shipment.CreatedAt = time.Now().UTC()
	shipment.UpdatedAt = shipment.CreatedAt
	f.shipments = append(f.shipments, *shipment)

	return nil
}

func (f *fakeStore) UpdateShipmentStatus(ctx context.Context, id int64, status, trackingInfo string) error {
	if !domain.ValidShipmentStatus(status) {
		return domain.Validationf("invalid shipment status %q", status)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.shipments {
		if s.ID == id {
			f.shipments[i].Status = status
			if trackingInfo != "" {
				f.shipments[i].TrackingInfo = trackingInfo
			}
			if status == domain.ShipmentDelivered {
				now := time.Now().UTC()
				f.shipments[i].ActualDeliveryDate = &now
			}

			return nil
		}
	}

	return domain.NotFoundf("shipment %d", id)
}

func (f *fakeStore) CreatePurchaseOrder(ctx context.Context, order *domain.PurchaseOrder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.orders {
		if existing.OrderNumber == order.OrderNumber {
			*order = existing

			return nil
		}
	}

	order.ID = f.id()
	order.CreatedAt = time.Now().UTC()
	f.orders = append(f.orders, *order)

	return nil
}

func (f *fakeStore) Record(ctx context.Context, entry *domain.AgentLog) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = f.id()
	entry.CreatedAt = time.Now().UTC()
	f.logs = append(f.logs, *entry)

	return entry.ID, nil
}

func (f *fakeStore) RecordInteraction(ctx context.Context, interaction *domain.AgentInteraction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	interaction.ID = f.id()
	interaction.CreatedAt = time.Now().UTC()
	f.interactions = append(f.interactions, *interaction)

	return nil
}

func (f *fakeStore) ListLogs(ctx context.Context, agentName string, limit int) ([]domain.AgentLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AgentLog
	for i := len(f.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if agentName == "" || f.logs[i].AgentName == agentName {
			out = append(out, f.logs[i])
		}
	}

	return out, nil
}
