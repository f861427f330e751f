// internal/logistics/performance.go
package logistics

import (
	"math"
	"math/rand"
	"time"

	"github.com/minimart-ai/backend/internal/domain"
)

// Performance score weights
const (
	onTimeWeight   = 0.4
	qualityWeight  = 0.3
	speedWeight    = 0.3
	qualityPenalty = 10
)

// PerformanceScore grades one supplier over a rolling delivery window.
type PerformanceScore struct {
	SupplierID      int64   `json:"supplier_id"`
	SupplierName    string  `json:"supplier_name"`
	WindowDays      int     `json:"window_days"`
	TotalDeliveries int     `json:"total_deliveries"`
	OnTimeRate      float64 `json:"on_time_rate"`
	QualityIssues   int     `json:"quality_issues"`
	QualityScore    float64 `json:"quality_score"`
	AvgDeliveryDays float64 `json:"avg_delivery_days"`
	Overall         float64 `json:"overall_score"`
	Grade           string  `json:"grade"`
}

// ScorePerformance grades a supplier from its delivered shipments inside the
// window. Quality issues are a simulated draw standing in for a QA feed; the
// rng is injected so tests can seed it. Returns false when the window holds
// no deliveries.
func ScorePerformance(supplierID int64, supplierName string, shipments []domain.Shipment, windowDays int, now time.Time, rng *rand.Rand) (PerformanceScore, bool) {
	if windowDays <= 0 {
		windowDays = 90
	}
	cutoff := now.AddDate(0, 0, -windowDays)

	var (
		total      int
		onTime     int
		daysToShip float64
	)
	for _, s := range shipments {
		if s.SupplierID != supplierID || s.ActualDeliveryDate == nil {
			continue
		}
		if s.ActualDeliveryDate.Before(cutoff) {
			continue
		}

		total++
		if !s.ActualDeliveryDate.After(s.ExpectedDeliveryDate) {
			onTime++
		}
		daysToShip += s.ActualDeliveryDate.Sub(s.CreatedAt).Hours() / 24
	}

	if total == 0 {
		return PerformanceScore{}, false
	}

	score := PerformanceScore{
		SupplierID:      supplierID,
		SupplierName:    supplierName,
		WindowDays:      windowDays,
		TotalDeliveries: total,
		OnTimeRate:      float64(onTime) / float64(total) * 100,
		QualityIssues:   rng.Intn(3),
		AvgDeliveryDays: daysToShip / float64(total),
	}
	score.QualityScore = math.Max(0, 100-qualityPenalty*float64(score.QualityIssues))
	score.Overall = onTimeWeight*score.OnTimeRate +
		qualityWeight*score.QualityScore +
		speedWeight*math.Max(0, 100-score.AvgDeliveryDays)
	score.Grade = Grade(score.Overall)

	return score, true
}

// Grade maps an overall score onto a letter grade.
func Grade(overall float64) string {
	switch {
	case overall >= 90:
		return "A"
	case overall >= 80:
		return "B"
	case overall >= 70:
		return "C"
	case overall >= 60:
		return "D"
	default:
		return "F"
	}
}
