// Package telemetry abstracts metrics publishing for the hydromon engine.
// The engine records evaluation outcomes, risk scores, and alert emissions;
// implementations forward them to a metrics backend or drop them.
package telemetry

import (
	"context"

	"hydromon/internal/types"
)

// Metric names and dimensions.
const (
	MetricEvaluation = "EngineEvaluation"
	MetricRiskScore  = "RiskScore"
	MetricAlert      = "AlertEmitted"

	DimTrigger  = "Trigger"
	DimRecorded = "Recorded"
	DimKind     = "Kind"
)

// EngineMetrics abstracts telemetry operations for the engine. All methods
// are fire-and-forget; failures are logged by the implementation and never
// surface to the caller.
type EngineMetrics interface {
	// RecordEvaluation counts one evaluation, tagged with its trigger kind
	// and whether a risk sample was persisted.
	RecordEvaluation(ctx context.Context, trigger types.TriggerKind, recorded bool)

	// RecordRisk reports the computed risk score.
	RecordRisk(ctx context.Context, risk float64)

	// RecordAlert counts one emitted alert by kind.
	RecordAlert(ctx context.Context, kind types.AlertKind)
}

// Compile-time assertion that NoopMetrics implements EngineMetrics.
var _ EngineMetrics = (*NoopMetrics)(nil)

// NoopMetrics discards all metrics. Used when CloudWatch publishing is
// disabled and in tests.
type NoopMetrics struct{}

func (NoopMetrics) RecordEvaluation(context.Context, types.TriggerKind, bool) {}
func (NoopMetrics) RecordRisk(context.Context, float64)                       {}
func (NoopMetrics) RecordAlert(context.Context, types.AlertKind)              {}
