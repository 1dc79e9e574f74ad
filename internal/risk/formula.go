// Package risk implements the pure scoring functions of the hydration risk
// engine: the hybrid risk formula and the daily water recommendation. Both
// are deterministic, clamp every input into range, and never return an error.
package risk

// Weights configures the contribution of each term to the hybrid risk score.
// The defaults keep the temperature term wired but disabled.
type Weights struct {
	Water       float64
	Activity    float64
	HeartRate   float64
	Temperature float64
	Delta       float64
}

// DefaultWeights returns the reference weight set.
func DefaultWeights() Weights {
	return Weights{
		Water:       0.6,
		Activity:    0.2,
		HeartRate:   0.15,
		Temperature: 0.0,
		Delta:       0.05,
	}
}

// Inputs carries the normalized signals consumed by Hybrid. ActivityIndex
// and HRIndex are expected in [0,1] (see the signals package); out-of-range
// values are clamped anyway.
type Inputs struct {
	WaterIntake      float64 // decay-weighted exposure, ml
	RecommendedWater float64 // horizon-scaled recommendation, ml
	ActivityIndex    float64
	HRIndex          float64
	BodyTemp         float64 // celsius
	NormalTemp       float64 // celsius, lower bound of the temp index
	MaxTemp          float64 // celsius, upper bound of the temp index
	Delta            float64 // trend term, [0,1]
}

// Hybrid maps the current signals to a dehydration risk score in [0,1].
//
// waterDeficit is 0 when intake meets or exceeds the recommendation and 1
// when intake is zero. A non-positive recommendation counts as a full
// deficit rather than dividing by zero. The temperature index ramps linearly
// from NormalTemp to MaxTemp. The weighted sum is clamped to [0,1] last, so
// weight sets summing above 1 cannot push the score out of range.
func Hybrid(in Inputs, w Weights) float64 {
	var ratio float64
	if in.RecommendedWater > 0 {
		ratio = clamp01(in.WaterIntake / in.RecommendedWater)
	}
	waterDeficit := 1 - ratio

	var tempIndex float64
	if span := in.MaxTemp - in.NormalTemp; span > 0 {
		tempIndex = clamp01((in.BodyTemp - in.NormalTemp) / span)
	}

	score := w.Water*waterDeficit +
		w.Activity*clamp01(in.ActivityIndex) +
		w.HeartRate*clamp01(in.HRIndex) +
		w.Temperature*tempIndex +
		w.Delta*in.Delta

	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
