package telemetry

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"hydromon/internal/types"
)

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for
// testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Compile-time assertion that CloudWatchMetrics implements EngineMetrics.
var _ EngineMetrics = (*CloudWatchMetrics)(nil)

// CloudWatchMetrics publishes engine metrics to AWS CloudWatch.
//
// Metrics emitted:
//   - EngineEvaluation: Dims {Trigger, Recorded} -- on every evaluation
//   - RiskScore: no dims -- the computed risk fraction
//   - AlertEmitted: Dims {Kind} -- on every threshold-crossing alert
type CloudWatchMetrics struct {
	client    CloudWatchClient
	namespace string
	logger    types.Logger
}

// NewCloudWatchMetrics creates a CloudWatchMetrics publishing to the given
// namespace.
func NewCloudWatchMetrics(client CloudWatchClient, namespace string, logger types.Logger) *CloudWatchMetrics {
	return &CloudWatchMetrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// RecordEvaluation emits an EngineEvaluation count metric with Trigger and
// Recorded dimensions.
func (m *CloudWatchMetrics) RecordEvaluation(ctx context.Context, trigger types.TriggerKind, recorded bool) {
	m.put(ctx, cwtypes.MetricDatum{
		MetricName: aws.String(MetricEvaluation),
		Value:      aws.Float64(1),
		Unit:       cwtypes.StandardUnitCount,
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String(DimTrigger), Value: aws.String(string(trigger))},
			{Name: aws.String(DimRecorded), Value: aws.String(strconv.FormatBool(recorded))},
		},
	})
}

// RecordRisk emits the computed risk score as a dimensionless gauge.
func (m *CloudWatchMetrics) RecordRisk(ctx context.Context, risk float64) {
	m.put(ctx, cwtypes.MetricDatum{
		MetricName: aws.String(MetricRiskScore),
		Value:      aws.Float64(risk),
		Unit:       cwtypes.StandardUnitNone,
	})
}

// RecordAlert emits an AlertEmitted count metric with a Kind dimension.
func (m *CloudWatchMetrics) RecordAlert(ctx context.Context, kind types.AlertKind) {
	m.put(ctx, cwtypes.MetricDatum{
		MetricName: aws.String(MetricAlert),
		Value:      aws.Float64(1),
		Unit:       cwtypes.StandardUnitCount,
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String(DimKind), Value: aws.String(string(kind))},
		},
	})
}

func (m *CloudWatchMetrics) put(ctx context.Context, datum cwtypes.MetricDatum) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{datum},
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Error("failed to publish metric",
			"error", err.Error(),
			"metric", aws.ToString(datum.MetricName),
		)
	}
}
