package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hydromon/internal/types"
)

func f(v float64) *float64 { return &v }

func TestActivityIndex_MeanOfFourRatios(t *testing.T) {
	snap := types.SignalSnapshot{
		StepCount:       f(5000),  // 0.5
		Distance:        f(2500),  // 0.5
		ActiveEnergy:    f(250),   // 0.5
		ExerciseMinutes: f(15),    // 0.5
	}
	assert.InDelta(t, 0.5, ActivityIndex(snap, DefaultBounds()), 1e-9)
}

func TestActivityIndex_ClampsEachRatio(t *testing.T) {
	snap := types.SignalSnapshot{
		StepCount:       f(50000), // clamps to 1
		Distance:        f(0),
		ActiveEnergy:    f(0),
		ExerciseMinutes: f(0),
	}
	assert.InDelta(t, 0.25, ActivityIndex(snap, DefaultBounds()), 1e-9)
}

func TestActivityIndex_MissingSignalsAreNeutral(t *testing.T) {
	assert.Equal(t, 0.0, ActivityIndex(types.SignalSnapshot{}, DefaultBounds()))
}

func TestHRIndex_LinearBetweenBounds(t *testing.T) {
	b := DefaultBounds()

	assert.Equal(t, 0.0, HRIndex(types.SignalSnapshot{HeartRate: f(60)}, b))
	assert.InDelta(t, 0.5, HRIndex(types.SignalSnapshot{HeartRate: f(120)}, b), 1e-9)
	assert.Equal(t, 1.0, HRIndex(types.SignalSnapshot{HeartRate: f(180)}, b))
	assert.Equal(t, 1.0, HRIndex(types.SignalSnapshot{HeartRate: f(220)}, b))
	assert.Equal(t, 0.0, HRIndex(types.SignalSnapshot{HeartRate: f(40)}, b))
}

func TestHRIndex_MissingDefaultsToResting(t *testing.T) {
	assert.Equal(t, 0.0, HRIndex(types.SignalSnapshot{}, DefaultBounds()))
}

func TestHRIndex_DegenerateBoundsGuard(t *testing.T) {
	b := Bounds{RestingHeartRate: 100, MaxHeartRate: 100}
	assert.Equal(t, 0.0, HRIndex(types.SignalSnapshot{HeartRate: f(150)}, b))
}

func TestBodyTemp_DefaultsToNormal(t *testing.T) {
	assert.Equal(t, 37.0, BodyTemp(types.SignalSnapshot{}, 37.0))
	assert.Equal(t, 38.5, BodyTemp(types.SignalSnapshot{BodyTemperature: f(38.5)}, 37.0))
}
