package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metrics publishes operational counters and latencies to CloudWatch under
// a single namespace.
type Metrics struct {
	namespace string
	client    *cloudwatch.Client
}

// NewMetrics returns a CloudWatch-backed metrics publisher.
func NewMetrics(namespace string, client *cloudwatch.Client) *Metrics {
	return &Metrics{namespace: namespace, client: client}
}

// RecordCount emits a Count-unit data point, best-effort: a metrics outage
// must never fail the request it is measuring, so errors are swallowed.
func (m *Metrics) RecordCount(ctx context.Context, name string, value float64) {
	m.put(ctx, name, value, types.StandardUnitCount)
}

// RecordLatency emits a Milliseconds-unit data point.
func (m *Metrics) RecordLatency(ctx context.Context, name string, d time.Duration) {
	m.put(ctx, name, float64(d.Milliseconds()), types.StandardUnitMilliseconds)
}

func (m *Metrics) put(ctx context.Context, name string, value float64, unit types.StandardUnit) {
	if m.client == nil {
		return
	}
	_, _ = m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(value),
				Unit:       unit,
				Timestamp:  aws.Time(time.Now()),
			},
		},
	})
}
