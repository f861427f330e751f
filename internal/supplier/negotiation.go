// internal/supplier/negotiation.go
package supplier

import (
	"math/rand"
)

const maxNegotiationRounds = 3

// Round is one price concession during a negotiation.
type Round struct {
	Round int     `json:"round"`
	Price float64 `json:"price"`
}

// NegotiationResult captures a finished simulated negotiation. FinalPrice is
// always within [TargetPrice, OriginalPrice] and Rounds within [0, 3].
type NegotiationResult struct {
	OriginalPrice   float64 `json:"original_price"`
	TargetPrice     float64 `json:"target_price"`
	FinalPrice      float64 `json:"final_price"`
	Rounds          int     `json:"rounds"`
	DiscountPercent float64 `json:"discount_percentage"`
	TargetReached   bool    `json:"target_reached"`
	History         []Round `json:"history"`
}

// Negotiate simulates up to three concession rounds converging from the
// current price toward the target. Supplier flexibility and market conditions
// are drawn once per negotiation and bound each round's concession. This is a
// stand-in for a real negotiation engine; the caller supplies the randomness
// source so tests can seed it.
func Negotiate(currentPrice, targetPrice float64, rng *rand.Rand) NegotiationResult {
	if targetPrice <= 0 || targetPrice > currentPrice {
		targetPrice = currentPrice * 0.9
	}

	flexibility := 0.3 + rng.Float64()*0.5
	market := 0.5 + rng.Float64()*0.5

	result := NegotiationResult{
		OriginalPrice: currentPrice,
		TargetPrice:   targetPrice,
		FinalPrice:    currentPrice,
	}

	price := currentPrice
	for round := 1; round <= maxNegotiationRounds; round++ {
		if price <= targetPrice {
			break
		}

		concession := rng.Float64() * (price - targetPrice) * flexibility * market
		price -= concession
		if price < targetPrice {
			price = targetPrice
		}

		result.Rounds = round
		result.History = append(result.History, Round{Round: round, Price: price})
	}

	result.FinalPrice = price
	result.TargetReached = price <= targetPrice
	if result.OriginalPrice > 0 {
		result.DiscountPercent = (result.OriginalPrice - result.FinalPrice) / result.OriginalPrice * 100
	}

	return result
}
