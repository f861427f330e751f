package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/repository"
)

type shipmentRepository struct {
	db *DB
}

// NewShipmentRepository creates a shipment repository backed by postgres
func NewShipmentRepository(db *DB) repository.ShipmentRepository {
	return &shipmentRepository{db: db}
}

const shipmentColumns = `
        sh.id, sh.shipment_number, sh.purchase_order_id, sh.supplier_id,
        s.name AS supplier_name, sh.product_id, sh.quantity, sh.status,
        sh.expected_delivery_date, sh.actual_delivery_date, sh.tracking_info,
        sh.created_at, sh.updated_at
`

func (r *shipmentRepository) GetShipment(ctx context.Context, id int64) (*domain.Shipment, error) {
	query := `
        SELECT ` + shipmentColumns + `
        FROM shipments sh
        JOIN suppliers s ON s.id = sh.supplier_id
        WHERE sh.id = $1
    `

	var shipment domain.Shipment
	if err := r.db.GetContext(ctx, &shipment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("shipment %d", id)
		}

		return nil, fmt.Errorf("failed to fetch shipment %d: %w", id, err)
	}

	return &shipment, nil
}

func (r *shipmentRepository) GetShipmentByNumber(ctx context.Context, number string) (*domain.Shipment, error) {
	query := `
        SELECT ` + shipmentColumns + `
        FROM shipments sh
        JOIN suppliers s ON s.id = sh.supplier_id
        WHERE sh.shipment_number = $1
    `

	var shipment domain.Shipment
	if err := r.db.GetContext(ctx, &shipment, query, number); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("shipment %s", number)
		}

		return nil, fmt.Errorf("failed to fetch shipment %s: %w", number, err)
	}

	return &shipment, nil
}

func (r *shipmentRepository) ListActiveShipments(ctx context.Context) ([]domain.Shipment, error) {
	query := `
        SELECT ` + shipmentColumns + `
        FROM shipments sh
        JOIN suppliers s ON s.id = sh.supplier_id
        WHERE sh.status NOT IN ('delivered', 'cancelled')
        ORDER BY sh.expected_delivery_date ASC
    `

	var shipments []domain.Shipment
	if err := r.db.SelectContext(ctx, &shipments, query); err != nil {
		return nil, fmt.Errorf("failed to list active shipments: %w", err)
	}

	return shipments, nil
}

func (r *shipmentRepository) ListDeliveredSince(ctx context.Context, cutoff time.Time) ([]domain.Shipment, error) {
	query := `
        SELECT ` + shipmentColumns + `
        FROM shipments sh
        JOIN suppliers s ON s.id = sh.supplier_id
        WHERE sh.status = 'delivered'
          AND sh.actual_delivery_date >= $1
        ORDER BY sh.actual_delivery_date DESC
    `

	var shipments []domain.Shipment
	if err := r.db.SelectContext(ctx, &shipments, query, cutoff); err != nil {
		return nil, fmt.Errorf("failed to list delivered shipments: %w", err)
	}

	return shipments, nil
}

func (r *shipmentRepository) CreateShipment(ctx context.Context, shipment *domain.Shipment) error {
	if shipment.ShipmentNumber == "" {
		return domain.Validationf("shipment number is required")
	}
	if !domain.ValidShipmentStatus(shipment.Status) {
		return domain.Validationf("invalid shipment status %q", shipment.Status)
	}

	query := `
        INSERT INTO shipments (
            shipment_number, purchase_order_id, supplier_id, product_id,
            quantity, status, expected_delivery_date, tracking_info,
            created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        ON CONFLICT (shipment_number) DO NOTHING
        RETURNING id, created_at, updated_at
    `

	err := r.db.QueryRowxContext(ctx, query,
		shipment.ShipmentNumber, shipment.PurchaseOrderID, shipment.SupplierID,
		shipment.ProductID, shipment.Quantity, shipment.Status,
		shipment.ExpectedDeliveryDate, shipment.TrackingInfo,
	).Scan(&shipment.ID, &shipment.CreatedAt, &shipment.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Conflict on shipment_number: an identical emergency order already
		// exists, reuse it.
		existing, getErr := r.GetShipmentByNumber(ctx, shipment.ShipmentNumber)
		if getErr != nil {
			return getErr
		}
		*shipment = *existing

		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create shipment %s: %w", shipment.ShipmentNumber, err)
	}

	return nil
}

func (r *shipmentRepository) UpdateShipmentStatus(ctx context.Context, id int64, status, trackingInfo string) error {
	if !domain.ValidShipmentStatus(status) {
		return domain.Validationf("invalid shipment status %q", status)
	}

	query := `
        UPDATE shipments
        SET status = $2,
            tracking_info = CASE WHEN $3 <> '' THEN $3 ELSE tracking_info END,
            actual_delivery_date = CASE WHEN $2 = 'delivered' THEN NOW() ELSE actual_delivery_date END,
            updated_at = NOW()
        WHERE id = $1
    `

	res, err := r.db.ExecContext(ctx, query, id, status, trackingInfo)
	if err != nil {
		return fmt.Errorf("failed to update shipment %d: %w", id, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.NotFoundf("shipment %d", id)
	}

	return nil
}

func (r *shipmentRepository) CreatePurchaseOrder(ctx context.Context, order *domain.PurchaseOrder) error {
	if order.OrderNumber == "" {
		return domain.Validationf("order number is required")
	}
	if order.Quantity <= 0 {
		return domain.Validationf("order quantity must be positive")
	}

	query := `
        INSERT INTO purchase_orders (
            order_number, supplier_id, product_id, quantity, unit_cost,
            total_cost, status, is_urgent, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        ON CONFLICT (order_number) DO UPDATE SET updated_at = NOW()
        RETURNING id, created_at, updated_at
    `

	err := r.db.QueryRowxContext(ctx, query,
		order.OrderNumber, order.SupplierID, order.ProductID, order.Quantity,
		order.UnitCost, order.TotalCost, order.Status, order.IsUrgent,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create purchase order %s: %w", order.OrderNumber, err)
	}

	return nil
}
