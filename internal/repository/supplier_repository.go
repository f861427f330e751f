package repository

import (
	"context"

	"github.com/minimart-ai/backend/internal/domain"
)

// SupplierRepository is the supplier directory.
type SupplierRepository interface {
	GetSupplier(ctx context.Context, id int64) (*domain.Supplier, error)
	ListActiveSuppliers(ctx context.Context) ([]domain.Supplier, error)

	// ListOffers returns every active supplier's terms for a product.
	ListOffers(ctx context.Context, productID int64) ([]domain.SupplierOffer, error)
}
