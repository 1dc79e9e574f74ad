package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hydromon/internal/types"
)

func f(v float64) *float64 { return &v }

func TestCrossing_UpwardThroughMid(t *testing.T) {
	kind, fired := crossing(f(0.4), 0.55, 0.5, 0.8)
	assert.True(t, fired)
	assert.Equal(t, types.AlertMediumRisk, kind)
}

func TestCrossing_UpwardThroughHigh(t *testing.T) {
	kind, fired := crossing(f(0.7), 0.85, 0.5, 0.8)
	assert.True(t, fired)
	assert.Equal(t, types.AlertHighRisk, kind)
}

func TestCrossing_DownwardNeverFires(t *testing.T) {
	_, fired := crossing(f(0.85), 0.6, 0.5, 0.8)
	assert.False(t, fired)
}

func TestCrossing_NoRepeatWhileAboveThreshold(t *testing.T) {
	_, fired := crossing(f(0.55), 0.6, 0.5, 0.8)
	assert.False(t, fired)

	_, fired = crossing(f(0.85), 0.9, 0.5, 0.8)
	assert.False(t, fired)
}

func TestCrossing_BothThresholdsInOneStepEmitsHighOnly(t *testing.T) {
	kind, fired := crossing(f(0.3), 0.9, 0.5, 0.8)
	assert.True(t, fired)
	assert.Equal(t, types.AlertHighRisk, kind)
}

func TestCrossing_FirstEvaluation(t *testing.T) {
	kind, fired := crossing(nil, 0.85, 0.5, 0.8)
	assert.True(t, fired)
	assert.Equal(t, types.AlertHighRisk, kind)

	kind, fired = crossing(nil, 0.6, 0.5, 0.8)
	assert.True(t, fired)
	assert.Equal(t, types.AlertMediumRisk, kind)

	_, fired = crossing(nil, 0.2, 0.5, 0.8)
	assert.False(t, fired)
}

func TestCrossing_ExactThresholdCountsAsAtOrAbove(t *testing.T) {
	kind, fired := crossing(f(0.49), 0.5, 0.5, 0.8)
	assert.True(t, fired)
	assert.Equal(t, types.AlertMediumRisk, kind)
}
