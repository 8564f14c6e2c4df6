package aws

import (
	"context"
	"fmt"
	"sort"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// DefaultNamespace is the CloudWatch namespace used when none is configured.
const DefaultNamespace = "Storefront/Admin"

// Metrics publishes gauge-style counts to CloudWatch.
type Metrics struct {
	CloudWatch CloudWatchAPI
	Namespace  string
	nowFunc    func() time.Time
}

// NewMetrics returns a Metrics publisher for namespace.
func NewMetrics(client CloudWatchAPI, namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Metrics{
		CloudWatch: client,
		Namespace:  namespace,
		nowFunc:    time.Now,
	}
}

// PublishCounts puts one datum per entry in counts under metricName, each
// tagged with dimension=<key>. Keys are sent in sorted order.
func (m *Metrics) PublishCounts(ctx context.Context, metricName, dimension string, counts map[string]int) error {
	if len(counts) == 0 {
		return nil
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := m.nowFunc()
	data := make([]cwtypes.MetricDatum, 0, len(keys))
	for _, k := range keys {
		data = append(data, cwtypes.MetricDatum{
			MetricName: sdkaws.String(metricName),
			Dimensions: []cwtypes.Dimension{
				{Name: sdkaws.String(dimension), Value: sdkaws.String(k)},
			},
			Value:     sdkaws.Float64(float64(counts[k])),
			Unit:      cwtypes.StandardUnitCount,
			Timestamp: sdkaws.Time(now),
		})
	}

	_, err := m.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  sdkaws.String(m.Namespace),
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}
	return nil
}
