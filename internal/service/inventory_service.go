package service

import (
	"context"
	"time"

	"github.com/minimart-ai/backend/internal/domain"
	"github.com/minimart-ai/backend/internal/repository"
)

// InventoryService covers the read and adjustment surface of the stock book.
type InventoryService struct {
	products  repository.ProductRepository
	inventory repository.InventoryRepository
	sales     repository.SalesHistoryRepository
}

func NewInventoryService(products repository.ProductRepository, inventory repository.InventoryRepository, sales repository.SalesHistoryRepository) *InventoryService {
	return &InventoryService{products: products, inventory: inventory, sales: sales}
}

func (s *InventoryService) ListSnapshots(ctx context.Context) ([]domain.InventorySnapshot, error) {
	return s.inventory.ListActiveSnapshots(ctx)
}

func (s *InventoryService) GetSnapshot(ctx context.Context, productID int64) (*domain.InventorySnapshot, error) {
	return s.inventory.GetSnapshot(ctx, productID)
}

func (s *InventoryService) UpdateLevels(ctx context.Context, productID int64, currentStock, reservedStock int) (*domain.InventorySnapshot, error) {
	if currentStock < 0 || reservedStock < 0 {
		return nil, domain.Validationf("stock levels must be non-negative")
	}
	if reservedStock > currentStock {
		return nil, domain.Validationf("reserved stock %d exceeds current stock %d", reservedStock, currentStock)
	}

	if err := s.inventory.UpdateLevels(ctx, productID, currentStock, reservedStock); err != nil {
		return nil, err
	}

	return s.inventory.GetSnapshot(ctx, productID)
}

func (s *InventoryService) AdjustStock(ctx context.Context, productID int64, delta int, reason string) (*domain.InventorySnapshot, error) {
	if delta == 0 {
		return nil, domain.Validationf("stock adjustment delta must be non-zero")
	}

	if err := s.inventory.ApplyDelta(ctx, productID, delta, reason); err != nil {
		return nil, err
	}

	return s.inventory.GetSnapshot(ctx, productID)
}

func (s *InventoryService) Reserve(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return domain.Validationf("reservation quantity must be positive")
	}

	return s.inventory.Reserve(ctx, productID, quantity)
}

func (s *InventoryService) Release(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return domain.Validationf("release quantity must be positive")
	}

	return s.inventory.Release(ctx, productID, quantity)
}

// StockAlert flags a product sitting at or below its reorder point.
type StockAlert struct {
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	CurrentStock int    `json:"current_stock"`
	SafetyStock  int    `json:"safety_stock"`
	ReorderPoint int    `json:"reorder_point"`
	Severity     string `json:"severity"`
}

// Alert severities
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

func (s *InventoryService) LowStockAlerts(ctx context.Context) ([]StockAlert, error) {
	snapshots, err := s.inventory.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}

	alerts := make([]StockAlert, 0, len(snapshots))
	for _, snap := range snapshots {
		severity := SeverityWarning
		if snap.CurrentStock <= snap.SafetyStock {
			severity = SeverityCritical
		}
		alerts = append(alerts, StockAlert{
			ProductID:    snap.ProductID,
			ProductName:  snap.ProductName,
			CurrentStock: snap.CurrentStock,
			SafetyStock:  snap.SafetyStock,
			ReorderPoint: snap.ReorderPoint,
			Severity:     severity,
		})
	}

	return alerts, nil
}

// SalesTrend summarizes recent sales movement for one product.
type SalesTrend struct {
	ProductID     int64               `json:"product_id"`
	Days          int                 `json:"days"`
	TotalQuantity float64             `json:"total_quantity"`
	TotalRevenue  float64             `json:"total_revenue"`
	DailyAverage  float64             `json:"daily_average"`
	Points        []domain.SalesPoint `json:"points"`
}

func (s *InventoryService) GetSalesTrend(ctx context.Context, productID int64, days int) (*SalesTrend, error) {
	if days <= 0 {
		days = 30
	}

	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)
	points, err := s.sales.GetDailySales(ctx, productID, start, end)
	if err != nil {
		return nil, err
	}

	trend := &SalesTrend{ProductID: productID, Days: days, Points: points}
	for _, p := range points {
		trend.TotalQuantity += p.Quantity
		trend.TotalRevenue += p.Revenue
	}
	trend.DailyAverage = trend.TotalQuantity / float64(days)

	return trend, nil
}

// PerformanceSummary is the stock-position overview across active products.
type PerformanceSummary struct {
	Products      int     `json:"products"`
	TotalOnHand   int     `json:"total_on_hand"`
	TotalReserved int     `json:"total_reserved"`
	BelowReorder  int     `json:"below_reorder"`
	BelowSafety   int     `json:"below_safety"`
	FillRate      float64 `json:"fill_rate"`
}

func (s *InventoryService) PerformanceSummary(ctx context.Context) (*PerformanceSummary, error) {
	snapshots, err := s.inventory.ListActiveSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	summary := &PerformanceSummary{Products: len(snapshots)}
	for _, snap := range snapshots {
		summary.TotalOnHand += snap.CurrentStock
		summary.TotalReserved += snap.ReservedStock
		if snap.CurrentStock <= snap.SafetyStock {
			summary.BelowSafety++
		} else if snap.CurrentStock <= snap.ReorderPoint {
			summary.BelowReorder++
		}
	}
	if summary.Products > 0 {
		healthy := summary.Products - summary.BelowReorder - summary.BelowSafety
		summary.FillRate = float64(healthy) / float64(summary.Products) * 100
	}

	return summary, nil
}
