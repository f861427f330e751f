// internal/supplier/scoring.go
package supplier

import (
	"sort"

	"github.com/minimart-ai/backend/internal/domain"
)

// Composite score weights
const (
	costWeight        = 0.4
	performanceWeight = 0.35
	reliabilityWeight = 0.25
)

// Recommendation bands
const (
	RecommendPreferred   = "preferred"
	RecommendHighly      = "highly_recommended"
	RecommendRecommended = "recommended"
	RecommendAcceptable  = "acceptable"
	RecommendAgainst     = "not_recommended"
)

// Score is one supplier offer rated for selection.
type Score struct {
	SupplierID       int64   `json:"supplier_id"`
	SupplierName     string  `json:"supplier_name"`
	UnitCost         float64 `json:"unit_cost"`
	LeadTimeDays     int     `json:"lead_time_days"`
	IsPreferred      bool    `json:"is_preferred"`
	CostScore        float64 `json:"cost_score"`
	PerformanceScore float64 `json:"performance_score"`
	ReliabilityScore float64 `json:"reliability_score"`
	Composite        float64 `json:"composite_score"`
	Recommendation   string  `json:"recommendation"`
}

// CostScore maps a unit cost onto 0-100: cheap brackets score in fixed
// steps, expensive offers decay linearly.
func CostScore(unitCost float64) float64 {
	switch {
	case unitCost <= 10:
		return 100
	case unitCost <= 20:
		return 90
	case unitCost <= 50:
		return 80
	case unitCost <= 100:
		return 70
	default:
		score := 100 - 0.5*(unitCost-100)
		if score < 0 {
			return 0
		}

		return score
	}
}

// ScoreOffer blends cost, performance and reliability into a composite
// rating with a recommendation band. Preferred suppliers scoring at least 70
// outrank the generic bands.
func ScoreOffer(offer domain.SupplierOffer, performanceScore, reliabilityScore float64) Score {
	s := Score{
		SupplierID:       offer.SupplierID,
		SupplierName:     offer.SupplierName,
		UnitCost:         offer.UnitCost,
		LeadTimeDays:     offer.LeadTimeDays,
		IsPreferred:      offer.IsPreferred,
		CostScore:        CostScore(offer.UnitCost),
		PerformanceScore: performanceScore,
		ReliabilityScore: reliabilityScore,
	}
	s.Composite = costWeight*s.CostScore + performanceWeight*s.PerformanceScore + reliabilityWeight*s.ReliabilityScore

	switch {
	case offer.IsPreferred && s.Composite >= 70:
		s.Recommendation = RecommendPreferred
	case s.Composite >= 85:
		s.Recommendation = RecommendHighly
	case s.Composite >= 70:
		s.Recommendation = RecommendRecommended
	case s.Composite >= 50:
		s.Recommendation = RecommendAcceptable
	default:
		s.Recommendation = RecommendAgainst
	}

	return s
}

// RankOffers scores every offer and sorts best-first. Performance and
// reliability default to a neutral 75 when the caller has no history for a
// supplier.
func RankOffers(offers []domain.SupplierOffer, performance map[int64]float64, reliability map[int64]float64) []Score {
	scores := make([]Score, 0, len(offers))
	for _, offer := range offers {
		perf, ok := performance[offer.SupplierID]
		if !ok {
			perf = 75
		}
		rel, ok := reliability[offer.SupplierID]
		if !ok {
			rel = 75
		}
		scores = append(scores, ScoreOffer(offer, perf, rel))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Composite > scores[j].Composite
	})

	return scores
}

// PickEmergency selects the supplier for an urgent order: a preferred
// supplier wins outright, otherwise the lowest unit cost.
func PickEmergency(offers []domain.SupplierOffer) (domain.SupplierOffer, bool) {
	if len(offers) == 0 {
		return domain.SupplierOffer{}, false
	}

	best := offers[0]
	for _, offer := range offers[1:] {
		if offer.IsPreferred && !best.IsPreferred {
			best = offer
			continue
		}
		if offer.IsPreferred == best.IsPreferred && offer.UnitCost < best.UnitCost {
			best = offer
		}
	}

	return best, true
}
