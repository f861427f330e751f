package repository

import (
	"context"
	"time"

	"github.com/minimart-ai/backend/internal/domain"
)

// ShipmentRepository stores inbound shipments and the purchase orders they
// fulfil.
type ShipmentRepository interface {
	GetShipment(ctx context.Context, id int64) (*domain.Shipment, error)
	GetShipmentByNumber(ctx context.Context, number string) (*domain.Shipment, error)
	ListActiveShipments(ctx context.Context) ([]domain.Shipment, error)

	// ListDeliveredSince returns shipments delivered on or after the cutoff,
	// for supplier performance scoring.
	ListDeliveredSince(ctx context.Context, cutoff time.Time) ([]domain.Shipment, error)

	CreateShipment(ctx context.Context, shipment *domain.Shipment) error
	UpdateShipmentStatus(ctx context.Context, id int64, status, trackingInfo string) error

	CreatePurchaseOrder(ctx context.Context, order *domain.PurchaseOrder) error
}
