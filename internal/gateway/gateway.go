package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexalbu001/ecs-graphql/internal/resolution"
	"github.com/alexalbu001/ecs-graphql/pkg"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resolver is the resolution step the gateway delegates to.
type Resolver interface {
	Resolve(ctx context.Context, req resolution.Request) ([]pkg.ServiceRecord, error)
}

// Gateway turns raw query arguments into a resolution request and logs the outcome.
type Gateway struct {
	resolver     Resolver
	logger       *zap.Logger
	queryTimeout time.Duration
}

func New(resolver Resolver, logger *zap.Logger, queryTimeout time.Duration) *Gateway {
	return &Gateway{
		resolver:     resolver,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

// Resolve looks up every service named in the comma separated serviceNames within clusterName.
func (g *Gateway) Resolve(ctx context.Context, serviceNames, clusterName, region string) ([]pkg.ServiceRecord, error) {
	logger := g.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("cluster", clusterName),
		zap.String("region", region),
	)

	names := ParseServiceNames(serviceNames)
	if len(names) == 0 {
		return nil, g.fail(logger, &resolution.Error{Kind: resolution.KindEmptyServiceNameList})
	}

	req, err := resolution.NewRequest(names, clusterName, region)
	if err != nil {
		return nil, g.fail(logger, err)
	}

	logger.Info("services queried", zap.Int("count", len(names)))

	if g.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.queryTimeout)
		defer cancel()
	}

	records, err := g.resolver.Resolve(ctx, req)
	if err != nil {
		return nil, g.fail(logger, err)
	}

	logger.Debug("services resolved", zap.Int("count", len(records)))
	return records, nil
}

func (g *Gateway) fail(logger *zap.Logger, err error) error {
	var resErr *resolution.Error
	if errors.As(err, &resErr) {
		logger.Error(resErr.Message(), zap.String("code", resErr.Kind.Code()), zap.Error(err))
		return err
	}
	logger.Error("resolving services failed", zap.Error(err))
	return err
}

// ParseServiceNames splits a comma separated list, trims each name and drops empty and repeated names.
// First occurrence order is kept.
func ParseServiceNames(serviceNames string) []string {
	if serviceNames == "" {
		return nil
	}

	parts := strings.Split(serviceNames, ",")
	seen := make(map[string]struct{}, len(parts))
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
