package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/repository"
)

type supplierRepository struct {
	db *DB
}

// NewSupplierRepository creates a supplier repository backed by postgres
func NewSupplierRepository(db *DB) repository.SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	query := `
        SELECT id, name, email, phone, is_active, created_at, updated_at
        FROM suppliers
        WHERE id = $1
    `

	var supplier domain.Supplier
	if err := r.db.GetContext(ctx, &supplier, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("supplier %d", id)
		}

		return nil, fmt.Errorf("failed to fetch supplier %d: %w", id, err)
	}

	return &supplier, nil
}

func (r *supplierRepository) ListActiveSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	query := `
        SELECT id, name, email, phone, is_active, created_at, updated_at
        FROM suppliers
        WHERE is_active = true
        ORDER BY name ASC
    `

	var suppliers []domain.Supplier
	if err := r.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, fmt.Errorf("failed to list active suppliers: %w", err)
	}

	return suppliers, nil
}

func (r *supplierRepository) ListOffers(ctx context.Context, productID int64) ([]domain.SupplierOffer, error) {
	query := `
        SELECT sp.id, sp.supplier_id, s.name AS supplier_name, sp.product_id,
               sp.unit_cost, sp.minimum_order_quantity, sp.max_capacity,
               sp.lead_time_days, sp.is_preferred
        FROM supplier_products sp
        JOIN suppliers s ON s.id = sp.supplier_id
        WHERE sp.product_id = $1
          AND s.is_active = true
        ORDER BY sp.is_preferred DESC, sp.unit_cost ASC
    `

	var offers []domain.SupplierOffer
	if err := r.db.SelectContext(ctx, &offers, query, productID); err != nil {
		return nil, fmt.Errorf("failed to list supplier offers for product %d: %w", productID, err)
	}

	return offers, nil
}
