package aws

import (
	"context"
	"sync"

	"github.com/alexalbu001/ecs-graphql/pkg"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// ECSAPI is the subset of the ECS client used to resolve services.
type ECSAPI interface {
	DescribeClusters(ctx context.Context, params *ecs.DescribeClustersInput, optFns ...func(*ecs.Options)) (*ecs.DescribeClustersOutput, error)
	ListServices(ctx context.Context, params *ecs.ListServicesInput, optFns ...func(*ecs.Options)) (*ecs.ListServicesOutput, error)
	DescribeServices(ctx context.Context, params *ecs.DescribeServicesInput, optFns ...func(*ecs.Options)) (*ecs.DescribeServicesOutput, error)
}

// ClientProvider returns an ECS client for a region.
type ClientProvider interface {
	ECS(ctx context.Context, region string) (ECSAPI, error)
}

// ClientFactory builds clients from the default credential chain. The AWS config is loaded once per
// region and shared by the ECS and CloudWatch clients built from it.
type ClientFactory struct {
	mu         sync.Mutex
	configs    map[string]aws.Config
	ecsClients map[string]*ecs.Client
	cwClients  map[string]*cloudwatch.Client
	loads      singleflight.Group
	loadFn     func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error)
}

func NewClientFactory() *ClientFactory {
	return &ClientFactory{
		configs:    make(map[string]aws.Config),
		ecsClients: make(map[string]*ecs.Client),
		cwClients:  make(map[string]*cloudwatch.Client),
		loadFn:     config.LoadDefaultConfig,
	}
}

// regionConfig returns the AWS config of region. Loading happens outside the lock; concurrent first
// uses of one region share a single load.
func (f *ClientFactory) regionConfig(ctx context.Context, region string) (aws.Config, error) {
	f.mu.Lock()
	cfg, ok := f.configs[region]
	f.mu.Unlock()
	if ok {
		return cfg, nil
	}

	loaded, err, _ := f.loads.Do(region, func() (interface{}, error) {
		cfg, err := f.loadFn(ctx, config.WithRegion(region))
		if err != nil {
			return nil, errors.Wrapf(err, "loading AWS config for region %s", region)
		}
		f.mu.Lock()
		f.configs[region] = cfg
		f.mu.Unlock()
		return cfg, nil
	})
	if err != nil {
		return aws.Config{}, err
	}
	return loaded.(aws.Config), nil
}

// ECS returns the cached client for region, loading the AWS config on first use.
func (f *ClientFactory) ECS(ctx context.Context, region string) (ECSAPI, error) {
	f.mu.Lock()
	client, ok := f.ecsClients[region]
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
	if client, ok := f.ecsClients[region]; ok {
		return client, nil
	}
	client = ecs.NewFromConfig(cfg)
	f.ecsClients[region] = client
	return client, nil
}

// DescribeCluster fetches the cluster record for clusterName.
// ECS answers 200 with an empty cluster list when the cluster is missing, which is reported as Exists == false.
func DescribeCluster(ctx context.Context, client ECSAPI, clusterName string) (pkg.ClusterDescriptor, error) {
	output, err := client.DescribeClusters(ctx, &ecs.DescribeClustersInput{
		Clusters: []string{clusterName},
		Include:  []types.ClusterField{types.ClusterFieldTags},
	})
	if err != nil {
		return pkg.ClusterDescriptor{}, errors.Wrapf(err, "describing cluster %s", clusterName)
	}

	if len(output.Clusters) == 0 {
		return pkg.ClusterDescriptor{}, nil
	}

	cluster := output.Clusters[0]
	return pkg.ClusterDescriptor{
		Exists:             true,
		ClusterArn:         aws.ToString(cluster.ClusterArn),
		ActiveServiceCount: cluster.ActiveServicesCount,
	}, nil
}

// ListServiceArns fetches up to maxResults service ARNs for a cluster in a single call.
func ListServiceArns(ctx context.Context, client ECSAPI, clusterName string, maxResults int32) ([]string, error) {
	output, err := client.ListServices(ctx, &ecs.ListServicesInput{
		Cluster:    aws.String(clusterName),
		MaxResults: aws.Int32(maxResults),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing services in cluster %s", clusterName)
	}

	return output.ServiceArns, nil
}

// DescribeServices describes up to MaxDescribeServicesBatchSize services, including their tags.
// The failures ECS reports for unknown identifiers are returned alongside the services.
func DescribeServices(ctx context.Context, client ECSAPI, clusterName string, services []string) ([]types.Service, []types.Failure, error) {
	if len(services) > pkg.MaxDescribeServicesBatchSize {
		return nil, nil, errors.Errorf("describe services called with %d identifiers, at most %d allowed",
			len(services), pkg.MaxDescribeServicesBatchSize)
	}

	output, err := client.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(clusterName),
		Services: services,
		Include:  []types.ServiceField{types.ServiceFieldTags},
	})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "describing services in cluster %s", clusterName)
	}

	return output.Services, output.Failures, nil
}

// BatchIdentifiers splits identifiers into consecutive batches of at most size elements.
func BatchIdentifiers(identifiers []string, size int) [][]string {
	batches := make([][]string, 0, (len(identifiers)+size-1)/size)
	for i := 0; i < len(identifiers); i += size {
		end := i + size
		if end > len(identifiers) {
			end = len(identifiers)
		}
		batches = append(batches, identifiers[i:end])
	}
	return batches
}
