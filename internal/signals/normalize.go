// Package signals normalizes raw physiological and activity readings into
// the [0,1] indices consumed by the risk formula. Missing readings default
// to safe neutral values (resting heart rate, zero activity) rather than
// aborting evaluation.
package signals

import "hydromon/internal/types"

// Bounds holds the normalization constants. Every value is configuration,
// not a hard-coded assumption.
type Bounds struct {
	RestingHeartRate float64 // bpm mapped to index 0
	MaxHeartRate     float64 // bpm mapped to index 1
	StepsPerDay      float64
	DistancePerDay   float64 // meters
	EnergyPerDay     float64 // kcal
	ExercisePerDay   float64 // minutes
}

// DefaultBounds returns the reference normalization constants.
func DefaultBounds() Bounds {
	return Bounds{
		RestingHeartRate: 60,
		MaxHeartRate:     180,
		StepsPerDay:      10000,
		DistancePerDay:   5000,
		EnergyPerDay:     500,
		ExercisePerDay:   30,
	}
}

// ActivityIndex is the mean of the four clamped activity ratios: steps,
// distance, active energy, and exercise minutes, each against its
// denominator. Missing readings contribute zero, which biases a sparse
// snapshot toward lower risk.
func ActivityIndex(snap types.SignalSnapshot, b Bounds) float64 {
	steps := ratio(snap.StepCount, b.StepsPerDay)
	distance := ratio(snap.Distance, b.DistancePerDay)
	energy := ratio(snap.ActiveEnergy, b.EnergyPerDay)
	exercise := ratio(snap.ExerciseMinutes, b.ExercisePerDay)
	return (steps + distance + energy + exercise) / 4
}

// HRIndex maps heart rate linearly from the resting bound to the max bound.
// A missing reading defaults to the resting rate (index 0).
func HRIndex(snap types.SignalSnapshot, b Bounds) float64 {
	hr := b.RestingHeartRate
	if snap.HeartRate != nil {
		hr = *snap.HeartRate
	}
	span := b.MaxHeartRate - b.RestingHeartRate
	if span <= 0 {
		return 0
	}
	return clamp01((hr - b.RestingHeartRate) / span)
}

// BodyTemp returns the snapshot's body temperature, defaulting to normal
// when the reading is missing.
func BodyTemp(snap types.SignalSnapshot, normal float64) float64 {
	if snap.BodyTemperature != nil {
		return *snap.BodyTemperature
	}
	return normal
}

func ratio(v *float64, denom float64) float64 {
	if v == nil || denom <= 0 {
		return 0
	}
	return clamp01(*v / denom)
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
