// Package types defines the shared domain model for the hydromon engine:
// intake events, risk samples, signal snapshots, user profiles, and the
// ports (storage, clock, logger) implemented elsewhere.
package types

import (
	"fmt"
	"time"
)

// IntakeEvent is a single logged water intake. Immutable once created;
// events are only ever appended to the water log and dropped by retention
// trimming.
type IntakeEvent struct {
	Amount float64   `json:"amount"` // milliliters
	Date   time.Time `json:"date"`
}

// RiskSample is one persisted observation of the risk formula's output.
type RiskSample struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	Risk float64   `json:"risk"` // normalized [0,1]
}

// UserProfile parameterizes the daily water recommendation. There is a
// single profile per installation; the engine never mutates it.
type UserProfile struct {
	Age      int     `json:"age" validate:"required,gt=0"`
	WeightLb float64 `json:"weight" validate:"required,gt=0"`
	Sex      Sex     `json:"sex" validate:"required,oneof=male female"`
	Location string  `json:"location,omitempty"`
}

// Validate implements the Validator interface.
func (p *UserProfile) Validate() error {
	if p.Age <= 0 {
		return NewAppError(ErrCodeValidationProfile, "age must be positive", nil)
	}
	if p.WeightLb <= 0 {
		return NewAppError(ErrCodeValidationProfile, "weight must be positive", nil)
	}
	if p.Sex != SexMale && p.Sex != SexFemale {
		return NewAppError(ErrCodeValidationProfile, fmt.Sprintf("invalid sex %q", p.Sex), nil)
	}
	return nil
}

// SignalSnapshot carries the most recent physiological and activity readings
// supplied by the external health-signal collaborator. Every field is
// optional; nil means the signal was not available and a neutral default is
// substituted at evaluation time. Snapshots are ephemeral and never persisted.
type SignalSnapshot struct {
	HeartRate       *float64 `json:"heart_rate,omitempty"`       // bpm
	StepCount       *float64 `json:"step_count,omitempty"`       // steps today
	ActiveEnergy    *float64 `json:"active_energy,omitempty"`    // kcal
	ExerciseMinutes *float64 `json:"exercise_minutes,omitempty"` // minutes
	Distance        *float64 `json:"distance,omitempty"`         // meters
	BodyTemperature *float64 `json:"body_temperature,omitempty"` // celsius
}

// Fractions is the consumer-facing display state: both values are normalized
// to [0,1]. TransitionDuration is the suggested animation time for display
// layers; the engine itself switches instantaneously.
type Fractions struct {
	Water              float64       `json:"water"`
	Risk               float64       `json:"risk"`
	TransitionDuration time.Duration `json:"transition_duration"`
}

// AlertRequest is an outbound threshold-crossing alert handed to the
// dispatch layer.
type AlertRequest struct {
	Kind       AlertKind   `json:"kind"`
	Risk       float64     `json:"risk"`
	Message    string      `json:"message"`
	Trigger    TriggerKind `json:"trigger"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// DayTotal is a per-calendar-day aggregate used for charting.
type DayTotal struct {
	Day    time.Time       `json:"day"` // midnight, local calendar day start
	Total  float64         `json:"total"`
	ByHour map[int]float64 `json:"by_hour,omitempty"`
}

// DayAverage is a per-calendar-day mean risk used for trend charts.
type DayAverage struct {
	Day  time.Time `json:"day"`
	Mean float64   `json:"mean"`
}
