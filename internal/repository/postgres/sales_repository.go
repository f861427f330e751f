package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/repository"
)

type salesHistoryRepository struct {
	db *DB
}

// NewSalesHistoryRepository creates a sales history repository backed by postgres
func NewSalesHistoryRepository(db *DB) repository.SalesHistoryRepository {
	return &salesHistoryRepository{db: db}
}

func (r *salesHistoryRepository) GetDailySales(ctx context.Context, productID int64, start, end time.Time) ([]domain.SalesPoint, error) {
	query := `
        SELECT
            DATE_TRUNC('day', s.sold_at) AS sale_date,
            SUM(s.quantity)::float AS quantity,
            SUM(s.quantity * s.unit_price)::float AS revenue
        FROM sales s
        WHERE s.product_id = $1
          AND s.sold_at >= $2
          AND s.sold_at < $3 + INTERVAL '1 day'
        GROUP BY DATE_TRUNC('day', s.sold_at)
        ORDER BY sale_date ASC
    `

	var points []domain.SalesPoint
	if err := r.db.SelectContext(ctx, &points, query, productID, start, end); err != nil {
		return nil, fmt.Errorf("failed to fetch daily sales for product %d: %w", productID, err)
	}

	return points, nil
}
