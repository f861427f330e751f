package repository

import (
	"context"
	"time"

	"github.com/minimart-ai/backend/internal/domain"
)

// SalesHistoryRepository serves daily sales series to the forecast engine.
type SalesHistoryRepository interface {
	// GetDailySales returns per-day sales aggregates for a product inside
	// [start, end]. Days without sales are absent; callers gap-fill.
	GetDailySales(ctx context.Context, productID int64, start, end time.Time) ([]domain.SalesPoint, error)
}
