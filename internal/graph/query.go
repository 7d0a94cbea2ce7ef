package graph

import (
	"context"

	"github.com/graph-gophers/graphql-go"
)

// ServicesInfoQuery selects every ServiceRecord field.
const ServicesInfoQuery = `query ServicesInfo($serviceNames: String!, $clusterName: String!, $region: String!) {
  getServicesInfo(serviceNames: $serviceNames, clusterName: $clusterName, region: $region) {
    capacityProviderStrategy { base capacityProvider weight }
    loadBalancers { targetGroupArn containerName containerPort }
    events { id createdAt message }
    clusterArn
    clusterName
    createdAt
    createdBy
    desiredCount
    enableECSManagedTags
    enableExecuteCommand
    healthCheckGracePeriodSeconds
    pendingCount
    propagateTags
    roleArn
    runningCount
    schedulingStrategy
    status
    serviceName
    serviceArn
    taskDefinition
  }
}`

// QueryServicesInfo runs ServicesInfoQuery against schema.
func QueryServicesInfo(ctx context.Context, schema *graphql.Schema, serviceNames, clusterName, region string) *graphql.Response {
	return schema.Exec(ctx, ServicesInfoQuery, "ServicesInfo", map[string]interface{}{
		"serviceNames": serviceNames,
		"clusterName":  clusterName,
		"region":       region,
	})
}
