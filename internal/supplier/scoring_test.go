package supplier

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minimart-ai/backend/internal/domain"
)

func TestCostScoreBrackets(t *testing.T) {
	tests := []struct {
		cost float64
		want float64
	}{
		{5, 100},
		{10, 100},
		{15, 90},
		{20, 90},
		{35, 80},
		{50, 80},
		{75, 70},
		{100, 70},
		{150, 75},
		{400, 0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.want, CostScore(tt.cost), 0.001, "cost %.0f", tt.cost)
	}
}

func TestCompositeScoreMonotonicity(t *testing.T) {
	offer := domain.SupplierOffer{SupplierID: 1, UnitCost: 25}

	base := ScoreOffer(offer, 70, 70)

	betterPerf := ScoreOffer(offer, 80, 70)
	assert.GreaterOrEqual(t, betterPerf.Composite, base.Composite)

	betterRel := ScoreOffer(offer, 70, 80)
	assert.GreaterOrEqual(t, betterRel.Composite, base.Composite)

	cheaper := ScoreOffer(domain.SupplierOffer{SupplierID: 1, UnitCost: 15}, 70, 70)
	assert.GreaterOrEqual(t, cheaper.Composite, base.Composite)
}

func TestScoreOfferRecommendationBands(t *testing.T) {
	cheap := domain.SupplierOffer{UnitCost: 5}

	assert.Equal(t, RecommendHighly, ScoreOffer(cheap, 90, 90).Recommendation)
	assert.Equal(t, RecommendRecommended, ScoreOffer(cheap, 60, 50).Recommendation)
	assert.Equal(t, RecommendAcceptable, ScoreOffer(domain.SupplierOffer{UnitCost: 80}, 50, 40).Recommendation)
	assert.Equal(t, RecommendAgainst, ScoreOffer(domain.SupplierOffer{UnitCost: 300}, 30, 30).Recommendation)

	preferred := domain.SupplierOffer{UnitCost: 5, IsPreferred: true}
	assert.Equal(t, RecommendPreferred, ScoreOffer(preferred, 60, 50).Recommendation)
}

func TestRankOffersSortsByComposite(t *testing.T) {
	offers := []domain.SupplierOffer{
		{SupplierID: 1, UnitCost: 90},
		{SupplierID: 2, UnitCost: 8},
		{SupplierID: 3, UnitCost: 30},
	}

	scores := RankOffers(offers, map[int64]float64{2: 90}, nil)

	require.Len(t, scores, 3)
	assert.Equal(t, int64(2), scores[0].SupplierID)
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1].Composite, scores[i].Composite)
	}
}

func TestPickEmergency(t *testing.T) {
	_, ok := PickEmergency(nil)
	assert.False(t, ok)

	offers := []domain.SupplierOffer{
		{SupplierID: 1, UnitCost: 4},
		{SupplierID: 2, UnitCost: 9, IsPreferred: true},
		{SupplierID: 3, UnitCost: 6},
	}
	picked, ok := PickEmergency(offers)
	require.True(t, ok)
	assert.Equal(t, int64(2), picked.SupplierID, "preferred supplier wins over cheaper ones")

	offers = []domain.SupplierOffer{
		{SupplierID: 1, UnitCost: 4},
		{SupplierID: 3, UnitCost: 6},
	}
	picked, ok = PickEmergency(offers)
	require.True(t, ok)
	assert.Equal(t, int64(1), picked.SupplierID, "lowest cost wins without a preferred supplier")
}

func TestNegotiateBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		original := 10 + rng.Float64()*90
		target := original * (0.5 + rng.Float64()*0.4)

		result := Negotiate(original, target, rng)

		assert.GreaterOrEqual(t, result.FinalPrice, result.TargetPrice)
		assert.LessOrEqual(t, result.FinalPrice, result.OriginalPrice)
		assert.GreaterOrEqual(t, result.Rounds, 0)
		assert.LessOrEqual(t, result.Rounds, 3)
		assert.GreaterOrEqual(t, result.DiscountPercent, 0.0)
		assert.LessOrEqual(t, result.DiscountPercent, 100.0)
		assert.LessOrEqual(t, len(result.History), 3)
	}
}

func TestNegotiateDefaultsTarget(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	result := Negotiate(100, 0, rng)
	assert.InDelta(t, 90.0, result.TargetPrice, 0.001)

	result = Negotiate(100, 150, rng)
	assert.InDelta(t, 90.0, result.TargetPrice, 0.001, "target above current is replaced")
}

func TestEvaluateProposalScores(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	offer := domain.SupplierOffer{SupplierID: 1, UnitCost: 5, LeadTimeDays: 2}
	eval := EvaluateProposal(offer, 10, rng)

	assert.InDelta(t, 100.0, eval.PriceScore, 0.001)
	assert.InDelta(t, 100.0, eval.DeliveryScore, 0.001)
	assert.GreaterOrEqual(t, eval.QualityScore, 70.0)
	assert.LessOrEqual(t, eval.QualityScore, 100.0)
	assert.GreaterOrEqual(t, eval.ReliabilityScore, 60.0)
	assert.LessOrEqual(t, eval.ReliabilityScore, 100.0)
	// price and delivery maxed out: total can't drop below the consider band
	assert.Equal(t, ProposalAccept, eval.Recommendation)
}

func TestEvaluateProposalRejectsExpensiveSlowOffer(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	offer := domain.SupplierOffer{SupplierID: 1, UnitCost: 30, LeadTimeDays: 15}
	eval := EvaluateProposal(offer, 10, rng)

	assert.Zero(t, eval.PriceScore)
	assert.Zero(t, eval.DeliveryScore)
	assert.Equal(t, ProposalReject, eval.Recommendation)
}

func TestEvaluateProposalsPicksBest(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	offers := []domain.SupplierOffer{
		{SupplierID: 1, UnitCost: 30, LeadTimeDays: 15},
		{SupplierID: 2, UnitCost: 5, LeadTimeDays: 2},
	}

	evals, best := EvaluateProposals(offers, 10, rng)
	require.Len(t, evals, 2)
	assert.Equal(t, 1, best)

	_, best = EvaluateProposals(nil, 10, rng)
	assert.Equal(t, -1, best)
}
