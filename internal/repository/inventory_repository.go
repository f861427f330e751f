package repository

import (
	"context"

	"github.com/minimart-ai/backend/internal/domain"
)

// ProductRepository is the product master store.
type ProductRepository interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListActiveProducts(ctx context.Context) ([]domain.Product, error)
}

// InventoryRepository is the stock-position store. All writes keep
// available_stock consistent with current minus reserved.
type InventoryRepository interface {
	GetSnapshot(ctx context.Context, productID int64) (*domain.InventorySnapshot, error)
	ListActiveSnapshots(ctx context.Context) ([]domain.InventorySnapshot, error)
	ListLowStock(ctx context.Context) ([]domain.InventorySnapshot, error)

	// UpdateLevels overwrites current and reserved stock for a product.
	UpdateLevels(ctx context.Context, productID int64, currentStock, reservedStock int) error

	// ApplyDelta adjusts current stock by a signed quantity; the reason is
	// recorded in the log line only. Drops below zero are rejected.
	ApplyDelta(ctx context.Context, productID int64, delta int, reason string) error

	// Reserve moves quantity into reserved stock; Release moves it back.
	Reserve(ctx context.Context, productID int64, quantity int) error
	Release(ctx context.Context, productID int64, quantity int) error
}
