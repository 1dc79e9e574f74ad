package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseInputs() Inputs {
	return Inputs{
		RecommendedWater: 2000,
		NormalTemp:       37.0,
		MaxTemp:          39.0,
		BodyTemp:         37.0,
	}
}

func TestHybrid_ZeroWhenFullyHydratedAndIdle(t *testing.T) {
	in := baseInputs()
	in.WaterIntake = 2000 // meets recommendation exactly

	assert.Equal(t, 0.0, Hybrid(in, DefaultWeights()))
}

func TestHybrid_MaxedTermsSumToOne(t *testing.T) {
	in := baseInputs()
	in.WaterIntake = 0
	in.ActivityIndex = 1
	in.HRIndex = 1
	in.Delta = 1

	// W_water + W_activity + W_hr + W_delta = 0.6+0.2+0.15+0.05 = 1.0
	assert.InDelta(t, 1.0, Hybrid(in, DefaultWeights()), 1e-9)
}

func TestHybrid_ZeroRecommendationIsFullDeficit(t *testing.T) {
	in := baseInputs()
	in.RecommendedWater = 0
	in.WaterIntake = 5000

	assert.InDelta(t, 0.6, Hybrid(in, DefaultWeights()), 1e-9)
}

func TestHybrid_IntakeAboveRecommendationClamps(t *testing.T) {
	in := baseInputs()
	in.WaterIntake = 10000

	assert.Equal(t, 0.0, Hybrid(in, DefaultWeights()))
}

func TestHybrid_TemperatureTermDisabledByDefault(t *testing.T) {
	in := baseInputs()
	in.WaterIntake = 2000
	in.BodyTemp = 41.0 // far above max

	assert.Equal(t, 0.0, Hybrid(in, DefaultWeights()))
}

func TestHybrid_TemperatureTermWhenEnabled(t *testing.T) {
	w := DefaultWeights()
	w.Temperature = 0.1

	in := baseInputs()
	in.WaterIntake = 2000
	in.BodyTemp = 38.0 // halfway between 37 and 39

	assert.InDelta(t, 0.05, Hybrid(in, w), 1e-9)
}

func TestHybrid_AlwaysInUnitInterval(t *testing.T) {
	cases := []Inputs{
		{WaterIntake: -50, RecommendedWater: 2000, NormalTemp: 37, MaxTemp: 39},
		{WaterIntake: 0, RecommendedWater: 0, ActivityIndex: 10, HRIndex: 10, Delta: 5, BodyTemp: 100, NormalTemp: 37, MaxTemp: 39},
		{WaterIntake: 1e12, RecommendedWater: 1, NormalTemp: 37, MaxTemp: 39, BodyTemp: -40},
		{NormalTemp: 39, MaxTemp: 37, BodyTemp: 38}, // inverted bounds guard
	}

	for _, in := range cases {
		got := Hybrid(in, DefaultWeights())
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}

func TestHybrid_HalfDeficit(t *testing.T) {
	in := baseInputs()
	in.WaterIntake = 1000 // half of recommendation

	assert.InDelta(t, 0.3, Hybrid(in, DefaultWeights()), 1e-9)
}
