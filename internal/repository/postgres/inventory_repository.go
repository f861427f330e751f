package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/repository"
)

type productRepository struct {
	db *DB
}

// NewProductRepository creates a product repository backed by postgres
func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
        SELECT id, sku, name, category, unit_of_sale, cost_price, selling_price,
               is_active, created_at, updated_at
        FROM products
        WHERE id = $1
    `

	var product domain.Product
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("product %d", id)
		}

		return nil, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}

	return &product, nil
}

func (r *productRepository) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
        SELECT id, sku, name, category, unit_of_sale, cost_price, selling_price,
               is_active, created_at, updated_at
        FROM products
        WHERE is_active = true
        ORDER BY id ASC
    `

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}

	return products, nil
}

type inventoryRepository struct {
	db *DB
}

// NewInventoryRepository creates an inventory repository backed by postgres
func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

const snapshotColumns = `
        i.id, i.product_id, p.name AS product_name,
        i.current_stock, i.reserved_stock, i.available_stock,
        i.reorder_point, i.reorder_quantity, i.safety_stock, i.maximum_stock,
        i.updated_at
`

func (r *inventoryRepository) GetSnapshot(ctx context.Context, productID int64) (*domain.InventorySnapshot, error) {
	query := `
        SELECT ` + snapshotColumns + `
        FROM inventory i
        JOIN products p ON p.id = i.product_id
        WHERE i.product_id = $1
    `

	var snap domain.InventorySnapshot
	if err := r.db.GetContext(ctx, &snap, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("inventory for product %d", productID)
		}

		return nil, fmt.Errorf("failed to fetch inventory for product %d: %w", productID, err)
	}

	return &snap, nil
}

func (r *inventoryRepository) ListActiveSnapshots(ctx context.Context) ([]domain.InventorySnapshot, error) {
	query := `
        SELECT ` + snapshotColumns + `
        FROM inventory i
        JOIN products p ON p.id = i.product_id
        WHERE p.is_active = true
        ORDER BY i.product_id ASC
    `

	var snaps []domain.InventorySnapshot
	if err := r.db.SelectContext(ctx, &snaps, query); err != nil {
		return nil, fmt.Errorf("failed to list inventory snapshots: %w", err)
	}

	return snaps, nil
}

func (r *inventoryRepository) ListLowStock(ctx context.Context) ([]domain.InventorySnapshot, error) {
	query := `
        SELECT ` + snapshotColumns + `
        FROM inventory i
        JOIN products p ON p.id = i.product_id
        WHERE p.is_active = true
          AND i.current_stock <= i.reorder_point
        ORDER BY i.current_stock ASC
    `

	var snaps []domain.InventorySnapshot
	if err := r.db.SelectContext(ctx, &snaps, query); err != nil {
		return nil, fmt.Errorf("failed to list low stock snapshots: %w", err)
	}

	return snaps, nil
}

func (r *inventoryRepository) UpdateLevels(ctx context.Context, productID int64, currentStock, reservedStock int) error {
	if currentStock < 0 || reservedStock < 0 {
		return domain.Validationf("stock levels must be non-negative")
	}

	query := `
        UPDATE inventory
        SET current_stock = $2,
            reserved_stock = $3,
            available_stock = $2 - $3,
            updated_at = NOW()
        WHERE product_id = $1
    `

	res, err := r.db.ExecContext(ctx, query, productID, currentStock, reservedStock)
	if err != nil {
		return fmt.Errorf("failed to update inventory for product %d: %w", productID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domain.NotFoundf("inventory for product %d", productID)
	}

	return nil
}

func (r *inventoryRepository) ApplyDelta(ctx context.Context, productID int64, delta int, reason string) error {
	query := `
        UPDATE inventory
        SET current_stock = current_stock + $2,
            available_stock = current_stock + $2 - reserved_stock,
            updated_at = NOW()
        WHERE product_id = $1
          AND current_stock + $2 >= 0
    `

	res, err := r.db.ExecContext(ctx, query, productID, delta)
	if err != nil {
		return fmt.Errorf("failed to apply stock delta for product %d: %w", productID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		if _, getErr := r.GetSnapshot(ctx, productID); getErr != nil {
			return getErr
		}

		return domain.Validationf("stock delta %d would drop product %d below zero", delta, productID)
	}

	log.Debug().
		Int64("product_id", productID).
		Int("delta", delta).
		Str("reason", reason).
		Msg("inventory delta applied")

	return nil
}

func (r *inventoryRepository) Reserve(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return domain.Validationf("reserve quantity must be positive")
	}

	query := `
        UPDATE inventory
        SET reserved_stock = reserved_stock + $2,
            available_stock = current_stock - reserved_stock - $2,
            updated_at = NOW()
        WHERE product_id = $1
          AND current_stock - reserved_stock >= $2
    `

	res, err := r.db.ExecContext(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to reserve stock for product %d: %w", productID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		if _, getErr := r.GetSnapshot(ctx, productID); getErr != nil {
			return getErr
		}

		return domain.Validationf("insufficient available stock to reserve %d of product %d", quantity, productID)
	}

	return nil
}

func (r *inventoryRepository) Release(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return domain.Validationf("release quantity must be positive")
	}

	query := `
        UPDATE inventory
        SET reserved_stock = reserved_stock - $2,
            available_stock = current_stock - reserved_stock + $2,
            updated_at = NOW()
        WHERE product_id = $1
          AND reserved_stock >= $2
    `

	res, err := r.db.ExecContext(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to release stock for product %d: %w", productID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		if _, getErr := r.GetSnapshot(ctx, productID); getErr != nil {
			return getErr
		}

		return domain.Validationf("cannot release %d of product %d, not that much reserved", quantity, productID)
	}

	return nil
}
