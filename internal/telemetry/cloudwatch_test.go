package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydromon/internal/types"
)

type mockLogger struct{}

func (l *mockLogger) Info(msg string, args ...any)  {}
func (l *mockLogger) Error(msg string, args ...any) {}
func (l *mockLogger) Warn(msg string, args ...any)  {}
func (l *mockLogger) With(args ...any) types.Logger { return l }

// mockCloudWatch captures PutMetricData inputs.
type mockCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (m *mockCloudWatch) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestRecordEvaluation_EmitsTriggerAndRecordedDims(t *testing.T) {
	cw := &mockCloudWatch{}
	m := NewCloudWatchMetrics(cw, "Hydromon", &mockLogger{})

	m.RecordEvaluation(context.Background(), types.TriggerIntakeLogged, true)

	require.Len(t, cw.inputs, 1)
	input := cw.inputs[0]
	assert.Equal(t, "Hydromon", aws.ToString(input.Namespace))

	require.Len(t, input.MetricData, 1)
	datum := input.MetricData[0]
	assert.Equal(t, MetricEvaluation, aws.ToString(datum.MetricName))
	require.Len(t, datum.Dimensions, 2)
	assert.Equal(t, "intake_logged", aws.ToString(datum.Dimensions[0].Value))
	assert.Equal(t, "true", aws.ToString(datum.Dimensions[1].Value))
}

func TestRecordRisk_EmitsGauge(t *testing.T) {
	cw := &mockCloudWatch{}
	m := NewCloudWatchMetrics(cw, "Hydromon", &mockLogger{})

	m.RecordRisk(context.Background(), 0.42)

	require.Len(t, cw.inputs, 1)
	datum := cw.inputs[0].MetricData[0]
	assert.Equal(t, MetricRiskScore, aws.ToString(datum.MetricName))
	assert.Equal(t, 0.42, aws.ToFloat64(datum.Value))
}

func TestRecordAlert_PublishFailureIsSoft(t *testing.T) {
	cw := &mockCloudWatch{err: errors.New("throttled")}
	m := NewCloudWatchMetrics(cw, "Hydromon", &mockLogger{})

	// Must not panic or propagate the error.
	m.RecordAlert(context.Background(), types.AlertHighRisk)
	require.Len(t, cw.inputs, 1)
}
