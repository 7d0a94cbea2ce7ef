package graph

import (
	"context"
	_ "embed"

	"github.com/alexalbu001/ecs-graphql/pkg"
	"github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphqls
var schemaString string

// ServiceResolver looks up services by their comma separated names.
type ServiceResolver interface {
	Resolve(ctx context.Context, serviceNames, clusterName, region string) ([]pkg.ServiceRecord, error)
}

// Resolver is the root GraphQL resolver
type Resolver struct {
	services ServiceResolver
}

func NewResolver(services ServiceResolver) *Resolver {
	return &Resolver{services: services}
}

// NewSchema parses the embedded schema against the root resolver.
func NewSchema(resolver *Resolver, opts ...graphql.SchemaOpt) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaString, resolver, opts...)
}

type servicesInfoArgs struct {
	ServiceNames string
	ClusterName  string
	Region       string
}

func (r *Resolver) GetServicesInfo(ctx context.Context, args servicesInfoArgs) (*[]*serviceRecordResolver, error) {
	return r.resolve(ctx, args.ServiceNames, args.ClusterName, args.Region)
}

type legacyServicesInfoArgs struct {
	ServiceNames          string
	ClusterName           string
	ClusterDeployedRegion string
}

// GdsServicesInfo serves the deprecated field of the first API version.
func (r *Resolver) GdsServicesInfo(ctx context.Context, args legacyServicesInfoArgs) (*[]*serviceRecordResolver, error) {
	return r.resolve(ctx, args.ServiceNames, args.ClusterName, args.ClusterDeployedRegion)
}

func (r *Resolver) resolve(ctx context.Context, serviceNames, clusterName, region string) (*[]*serviceRecordResolver, error) {
	records, err := r.services.Resolve(ctx, serviceNames, clusterName, region)
	if err != nil {
		return nil, err
	}

	resolvers := make([]*serviceRecordResolver, len(records))
	for i := range records {
		resolvers[i] = &serviceRecordResolver{record: records[i]}
	}
	return &resolvers, nil
}
