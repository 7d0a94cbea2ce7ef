package aws

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	ecsMetricNamespace = "AWS/ECS"
	metricWindow       = 5 * time.Minute
)

// CloudWatchAPI is the subset of the CloudWatch client used for service utilization.
type CloudWatchAPI interface {
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
}

type ServiceMetrics struct {
	CPUUtilization    float64
	MemoryUtilization float64
}

// CloudWatch returns the cached CloudWatch client for region, sharing the AWS config loaded for ECS.
func (f *ClientFactory) CloudWatch(ctx context.Context, region string) (CloudWatchAPI, error) {
	f.mu.Lock()
	client, ok := f.cwClients[region]
	f.mu.Unlock()
	if ok {
		return client, nil
	}

	cfg, err := f.regionConfig(ctx, region)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if client, ok := f.cwClients[region]; ok {
		return client, nil
	}
	client = cloudwatch.NewFromConfig(cfg)
	f.cwClients[region] = client
	return client, nil
}

// GetServiceMetrics fetches average CPU and memory utilization of a service over the last five minutes.
// A failing lookup cancels the other one.
func GetServiceMetrics(ctx context.Context, cwClient CloudWatchAPI, cluster, serviceName string) (*ServiceMetrics, error) {
	endTime := time.Now()
	startTime := endTime.Add(-metricWindow)

	var cpu, memory *float64
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		value, err := getMetric(groupCtx, cwClient, "CPUUtilization", cluster, serviceName, startTime, endTime)
		if err != nil {
			return errors.Wrap(err, "fetching CPUUtilization")
		}
		cpu = value
		return nil
	})
	group.Go(func() error {
		value, err := getMetric(groupCtx, cwClient, "MemoryUtilization", cluster, serviceName, startTime, endTime)
		if err != nil {
			return errors.Wrap(err, "fetching MemoryUtilization")
		}
		memory = value
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &ServiceMetrics{
		CPUUtilization:    aws.ToFloat64(cpu),
		MemoryUtilization: aws.ToFloat64(memory),
	}, nil
}

func getMetric(ctx context.Context, cwClient CloudWatchAPI, metricName, cluster, serviceName string, startTime, endTime time.Time) (*float64, error) {
	input := &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(ecsMetricNamespace),
		MetricName: aws.String(metricName),
		StartTime:  aws.Time(startTime),
		EndTime:    aws.Time(endTime),
		Period:     aws.Int32(int32(metricWindow.Seconds())),
		Statistics: []types.Statistic{types.StatisticAverage},
		Dimensions: []types.Dimension{
			{
				Name:  aws.String("ClusterName"),
				Value: aws.String(cluster),
			},
			{
				Name:  aws.String("ServiceName"),
				Value: aws.String(serviceName),
			},
		},
	}

	output, err := cwClient.GetMetricStatistics(ctx, input)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get metric %s", metricName)
	}

	if len(output.Datapoints) == 0 {
		return aws.Float64(0), nil
	}

	return output.Datapoints[0].Average, nil
}
