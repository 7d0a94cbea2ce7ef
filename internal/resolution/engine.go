package resolution

import (
	"context"
	"strings"
	"time"

	"github.com/alexalbu001/ecs-graphql/internal/aws"
	"github.com/alexalbu001/ecs-graphql/pkg"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine resolves requested service names against the ECS API of one cluster.
type Engine struct {
	clients          aws.ClientProvider
	logger           *zap.Logger
	upstreamTimeout  time.Duration
	batchConcurrency int
}

type Option func(*Engine)

// WithUpstreamTimeout bounds every individual ECS call. Zero disables the bound.
func WithUpstreamTimeout(d time.Duration) Option {
	return func(e *Engine) { e.upstreamTimeout = d }
}

// WithBatchConcurrency limits how many DescribeServices batches run at once. Values below one mean no limit.
func WithBatchConcurrency(n int) Option {
	return func(e *Engine) { e.batchConcurrency = n }
}

func NewEngine(clients aws.ClientProvider, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		clients:          clients,
		logger:           logger,
		upstreamTimeout:  10 * time.Second,
		batchConcurrency: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.batchConcurrency < 1 {
		e.batchConcurrency = -1
	}
	return e
}

// Resolve returns one record per requested service, or an *Error describing why that is not possible.
func (e *Engine) Resolve(ctx context.Context, req Request) ([]pkg.ServiceRecord, error) {
	clusterName := req.ClusterName()

	client, err := e.clients.ECS(ctx, req.Region())
	if err != nil {
		return nil, upstreamError(clusterName, err)
	}

	callCtx, cancel := e.upstreamContext(ctx)
	cluster, err := aws.DescribeCluster(callCtx, client, clusterName)
	cancel()
	if err != nil {
		return nil, upstreamError(clusterName, err)
	}
	if !cluster.Exists {
		return nil, &Error{Kind: KindClusterNotFound, Cluster: clusterName}
	}

	names := req.ServiceNames()
	switch {
	case len(names) > pkg.MaxDescribeServicesBatchSize:
		return e.resolveFromListing(ctx, client, clusterName, cluster, names)
	case len(names) > 0:
		return e.resolveDirect(ctx, client, clusterName, names)
	default:
		return nil, &Error{Kind: KindModifyQuery, Cluster: clusterName}
	}
}

// resolveDirect describes all requested names in one call.
func (e *Engine) resolveDirect(ctx context.Context, client aws.ECSAPI, clusterName string, names []string) ([]pkg.ServiceRecord, error) {
	callCtx, cancel := e.upstreamContext(ctx)
	defer cancel()

	services, failures, err := aws.DescribeServices(callCtx, client, clusterName, names)
	if err != nil {
		return nil, upstreamError(clusterName, err)
	}

	if len(services) != len(names) {
		e.logger.Debug("describe services returned fewer services than requested",
			zap.String("cluster", clusterName),
			zap.Int("requested", len(names)),
			zap.Int("described", len(services)),
			zap.Int("failures", len(failures)))
		return nil, invalidServiceNames(clusterName, missingNames(names, services))
	}

	e.logger.Debug("retrieved services information", zap.String("cluster", clusterName), zap.Int("count", len(services)))
	return stampCluster(services, clusterName), nil
}

// resolveFromListing lists every service in the cluster, describes them in batches and keeps the requested ones.
func (e *Engine) resolveFromListing(ctx context.Context, client aws.ECSAPI, clusterName string, cluster pkg.ClusterDescriptor, names []string) ([]pkg.ServiceRecord, error) {
	if cluster.ActiveServiceCount > pkg.MaxServicesPerCluster {
		return nil, &Error{Kind: KindMaxServiceCountExceeded, Cluster: clusterName}
	}

	// ListServices rejects maxResults below one.
	var arns []string
	if cluster.ActiveServiceCount > 0 {
		callCtx, cancel := e.upstreamContext(ctx)
		listed, err := aws.ListServiceArns(callCtx, client, clusterName, cluster.ActiveServiceCount)
		cancel()
		if err != nil {
			return nil, upstreamError(clusterName, err)
		}
		arns = listed
	}

	candidates, err := e.describeBatches(ctx, client, clusterName, arns)
	if err != nil {
		return nil, upstreamError(clusterName, err)
	}
	e.logger.Debug("listed and described all services within the cluster",
		zap.String("cluster", clusterName),
		zap.Int("listed", len(arns)),
		zap.Int("described", len(candidates)))

	requested := make(map[string]struct{}, len(names))
	for _, name := range names {
		requested[name] = struct{}{}
	}

	filtered := make([]types.Service, 0, len(names))
	for _, service := range candidates {
		if _, ok := requested[serviceName(service)]; ok {
			filtered = append(filtered, service)
		}
	}

	if len(filtered) != len(names) {
		return nil, invalidServiceNames(clusterName, missingNames(names, candidates))
	}

	return stampCluster(filtered, clusterName), nil
}

// describeBatches describes identifiers in concurrent batches and concatenates the results in batch order.
// The first failing batch cancels the others.
func (e *Engine) describeBatches(ctx context.Context, client aws.ECSAPI, clusterName string, identifiers []string) ([]types.Service, error) {
	batches := aws.BatchIdentifiers(identifiers, pkg.MaxDescribeServicesBatchSize)
	results := make([][]types.Service, len(batches))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.batchConcurrency)
	for i := range batches {
		group.Go(func() error {
			callCtx, cancel := e.upstreamContext(groupCtx)
			defer cancel()

			services, failures, err := aws.DescribeServices(callCtx, client, clusterName, batches[i])
			if err != nil {
				return err
			}
			if len(failures) > 0 {
				e.logger.Debug("describe services batch reported failures",
					zap.String("cluster", clusterName),
					zap.Int("batch", i),
					zap.Int("requested", len(batches[i])),
					zap.Int("failures", len(failures)))
			}
			results[i] = services
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, r := range results {
		total += len(r)
	}
	services := make([]types.Service, 0, total)
	for _, r := range results {
		services = append(services, r...)
	}
	return services, nil
}

func (e *Engine) upstreamContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.upstreamTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.upstreamTimeout)
}

func stampCluster(services []types.Service, clusterName string) []pkg.ServiceRecord {
	records := make([]pkg.ServiceRecord, len(services))
	for i, service := range services {
		records[i] = pkg.ServiceRecord{Service: service, ClusterName: clusterName}
	}
	return records
}

// missingNames returns the requested names no candidate carries, in request order.
func missingNames(names []string, candidates []types.Service) []string {
	present := make(map[string]struct{}, len(candidates))
	for _, service := range candidates {
		present[serviceName(service)] = struct{}{}
	}

	var missing []string
	for _, name := range names {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func invalidServiceNames(clusterName string, missing []string) *Error {
	err := &Error{Kind: KindInvalidServiceName, Cluster: clusterName, Services: missing}
	if len(missing) == 0 {
		err.Detail = "described services do not match the requested set"
	} else {
		err.Detail = "unknown services " + strings.Join(missing, ", ")
	}
	return err
}

func upstreamError(clusterName string, err error) *Error {
	return &Error{Kind: KindUpstreamUnavailable, Cluster: clusterName, Err: err}
}

func serviceName(service types.Service) string {
	if service.ServiceName == nil {
		return ""
	}
	return *service.ServiceName
}
