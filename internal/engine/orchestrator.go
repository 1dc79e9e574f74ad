// Package engine is the update orchestrator of the hydration risk engine.
// Each trigger (app launch, periodic refresh, external signal update, logged
// intake) runs one evaluation to completion under a single lock: read water
// totals and the latest signal snapshot, score risk, update the display
// fractions, persist a sample subject to the per-trigger throttle, and emit
// an alert request when the score crosses a threshold upward.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hydromon/internal/config"
	"hydromon/internal/history"
	"hydromon/internal/profile"
	"hydromon/internal/risk"
	"hydromon/internal/signals"
	"hydromon/internal/telemetry"
	"hydromon/internal/types"
	"hydromon/internal/waterlog"
)

// Evaluation is the outcome of one engine evaluation.
type Evaluation struct {
	Trigger   types.TriggerKind `json:"trigger"`
	Fractions types.Fractions   `json:"fractions"`
	Recorded  bool              `json:"recorded"`
	Alert     types.AlertKind   `json:"alert,omitempty"`
}

// Engine serializes evaluations and owns the cross-evaluation state: the
// latest signal snapshot, the throttle marks, and previousRisk. previousRisk
// is in-memory only and resets on process start.
type Engine struct {
	mu sync.Mutex

	cfg      config.EngineConfig
	water    *waterlog.Store
	history  *history.Store
	profiles *profile.Store
	throttle *throttle

	clock   types.Clock
	logger  types.Logger
	sink    types.AlertSink
	metrics telemetry.EngineMetrics

	weights risk.Weights
	bounds  signals.Bounds

	snapshot     types.SignalSnapshot
	previousRisk *float64
	fractions    types.Fractions
}

// Deps bundles the collaborators an Engine needs.
type Deps struct {
	Docs     types.DocumentStore
	Water    *waterlog.Store
	History  *history.Store
	Profiles *profile.Store
	Clock    types.Clock
	Logger   types.Logger
	Sink     types.AlertSink
	Metrics  telemetry.EngineMetrics
}

// New creates an Engine, loading the durable throttle marks from the
// document store.
func New(ctx context.Context, cfg config.EngineConfig, deps Deps) *Engine {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = telemetry.NoopMetrics{}
	}
	return &Engine{
		cfg:      cfg,
		water:    deps.Water,
		history:  deps.History,
		profiles: deps.Profiles,
		throttle: newThrottle(ctx, deps.Docs, deps.Logger, cfg.ThrottleWindow),
		clock:    deps.Clock,
		logger:   deps.Logger,
		sink:     deps.Sink,
		metrics:  metrics,
		weights: risk.Weights{
			Water:       cfg.RiskWeightWater,
			Activity:    cfg.RiskWeightActivity,
			HeartRate:   cfg.RiskWeightHeartRate,
			Temperature: cfg.RiskWeightTemperature,
			Delta:       cfg.RiskWeightDelta,
		},
		bounds: signals.Bounds{
			RestingHeartRate: cfg.RestingHeartRate,
			MaxHeartRate:     cfg.MaxHeartRate,
			StepsPerDay:      cfg.StepsPerDay,
			DistancePerDay:   cfg.DistancePerDay,
			EnergyPerDay:     cfg.EnergyPerDay,
			ExercisePerDay:   cfg.ExercisePerDay,
		},
		fractions: types.Fractions{TransitionDuration: cfg.TransitionDuration},
	}
}

// OnAppLaunch runs the launch evaluation and schedules a deferred refresh
// after the settle delay, letting late-arriving signals land before the
// first recurring evaluation. The deferred refresh is fire-and-forget; if
// the process exits first it never runs.
func (e *Engine) OnAppLaunch(ctx context.Context) Evaluation {
	ev := e.evaluate(ctx, types.TriggerAppLaunch)
	if e.cfg.SettleDelay > 0 {
		time.AfterFunc(e.cfg.SettleDelay, func() {
			e.evaluate(context.Background(), types.TriggerPeriodicRefresh)
		})
	}
	return ev
}

// OnPeriodicTick runs a recurring refresh evaluation.
func (e *Engine) OnPeriodicTick(ctx context.Context) Evaluation {
	return e.evaluate(ctx, types.TriggerPeriodicRefresh)
}

// AddWater logs an intake event and runs an evaluation for it. Negative
// amounts are rejected before anything is written.
func (e *Engine) AddWater(ctx context.Context, amount float64) (Evaluation, error) {
	if _, err := e.water.AddWater(ctx, amount); err != nil {
		return Evaluation{}, err
	}
	return e.evaluate(ctx, types.TriggerIntakeLogged), nil
}

// RecordExternalSignals replaces the latest signal snapshot and runs an
// evaluation for it. Readings must be non-negative.
func (e *Engine) RecordExternalSignals(ctx context.Context, snap types.SignalSnapshot) (Evaluation, error) {
	if err := validateSnapshot(snap); err != nil {
		return Evaluation{}, err
	}

	e.mu.Lock()
	e.snapshot = snap
	e.mu.Unlock()

	return e.evaluate(ctx, types.TriggerSignalUpdate), nil
}

// Fractions returns the current display fractions.
func (e *Engine) Fractions() types.Fractions {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fractions
}

// evaluate runs one full evaluation. The lock serializes evaluations end to
// end; throttle marks and previousRisk are shared mutable state.
func (e *Engine) evaluate(ctx context.Context, trigger types.TriggerKind) Evaluation {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	prof := e.profiles.Current()
	daily := risk.RecommendedWater(prof, e.cfg.FallbackDailyWater)

	total24h := e.water.TotalSince(24 * time.Hour)
	exposure := e.water.WeightedExposure()

	score := risk.Hybrid(risk.Inputs{
		WaterIntake:      exposure,
		RecommendedWater: daily * risk.HorizonScale(e.cfg.SegmentWeights),
		ActivityIndex:    signals.ActivityIndex(e.snapshot, e.bounds),
		HRIndex:          signals.HRIndex(e.snapshot, e.bounds),
		BodyTemp:         signals.BodyTemp(e.snapshot, e.cfg.NormalBodyTemp),
		NormalTemp:       e.cfg.NormalBodyTemp,
		MaxTemp:          e.cfg.MaxBodyTemp,
	}, e.weights)

	var waterFrac float64
	if daily > 0 {
		waterFrac = total24h / daily
		if waterFrac > 1 {
			waterFrac = 1
		}
	}
	e.fractions = types.Fractions{
		Water:              waterFrac,
		Risk:               score,
		TransitionDuration: e.cfg.TransitionDuration,
	}

	recorded := e.throttle.ShouldRecord(trigger, e.history.Empty(), now)
	if recorded {
		e.history.Record(ctx, score)
		e.throttle.MarkRecorded(ctx, trigger, now)
	}

	ev := Evaluation{Trigger: trigger, Fractions: e.fractions, Recorded: recorded}
	if kind, fired := crossing(e.previousRisk, score, e.cfg.MidRiskThreshold, e.cfg.HighRiskThreshold); fired {
		ev.Alert = kind
		e.emitAlert(ctx, kind, score, trigger, now)
	}

	prev := score
	e.previousRisk = &prev

	e.metrics.RecordEvaluation(ctx, trigger, recorded)
	e.metrics.RecordRisk(ctx, score)

	e.logger.Info("evaluation complete",
		"trigger", string(trigger),
		"risk", score,
		"water_fraction", waterFrac,
		"recorded", recorded,
	)
	return ev
}

func (e *Engine) emitAlert(ctx context.Context, kind types.AlertKind, score float64, trigger types.TriggerKind, now time.Time) {
	msg := "Hydration risk elevated to medium. Consider drinking water soon."
	if kind == types.AlertHighRisk {
		msg = "Hydration risk elevated to high. Drink water now."
	}
	e.sink.Emit(ctx, types.AlertRequest{
		Kind:       kind,
		Risk:       score,
		Message:    msg,
		Trigger:    trigger,
		OccurredAt: now,
	})
	e.metrics.RecordAlert(ctx, kind)
}

func validateSnapshot(snap types.SignalSnapshot) error {
	check := func(name string, v *float64) error {
		if v != nil && *v < 0 {
			return types.NewAppError(types.ErrCodeValidationSignals,
				fmt.Sprintf("%s must be non-negative, got %v", name, *v), nil)
		}
		return nil
	}
	if err := check("heart_rate", snap.HeartRate); err != nil {
		return err
	}
	if err := check("step_count", snap.StepCount); err != nil {
		return err
	}
	if err := check("active_energy", snap.ActiveEnergy); err != nil {
		return err
	}
	if err := check("exercise_minutes", snap.ExerciseMinutes); err != nil {
		return err
	}
	if err := check("distance", snap.Distance); err != nil {
		return err
	}
	return check("body_temperature", snap.BodyTemperature)
}
