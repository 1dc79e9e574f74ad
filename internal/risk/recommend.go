package risk

import "hydromon/internal/types"

// Conversion constants for the weight-based recommendation.
const (
	lbToKg         = 0.453592
	mlPerKgPerDay  = 35.0
	DefaultDailyML = 2000.0 // fallback when no profile exists
)

// RecommendedWater returns the recommended daily intake in ml for the given
// profile, or fallback when profile is nil: kg body weight times 35 ml/kg.
func RecommendedWater(profile *types.UserProfile, fallback float64) float64 {
	if profile == nil {
		return fallback
	}
	return profile.WeightLb * lbToKg * mlPerKgPerDay
}

// HorizonScale returns the multiplier that converts the daily recommendation
// into the denominator for the decay-weighted exposure: the sum of the first
// five segment weights. The sixth (oldest) segment is deliberately excluded;
// this matches the reference behavior and is a documented constant of the
// system, not a quantity re-derived from "5 days".
func HorizonScale(segmentWeights []float64) float64 {
	n := len(segmentWeights)
	if n > 5 {
		n = 5
	}
	var sum float64
	for _, w := range segmentWeights[:n] {
		sum += w
	}
	return sum
}

// HorizonRecommendation is the recommended water for the risk horizon: the
// daily recommendation scaled by HorizonScale.
func HorizonRecommendation(profile *types.UserProfile, fallback float64, segmentWeights []float64) float64 {
	return RecommendedWater(profile, fallback) * HorizonScale(segmentWeights)
}
