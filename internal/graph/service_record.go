package graph

import (
	"strconv"
	"time"

	"github.com/alexalbu001/ecs-graphql/pkg"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/graph-gophers/graphql-go"
)

type serviceRecordResolver struct {
	record pkg.ServiceRecord
}

func (r *serviceRecordResolver) CapacityProviderStrategy() *[]*capacityProviderResolver {
	items := r.record.CapacityProviderStrategy
	if items == nil {
		return nil
	}
	resolvers := make([]*capacityProviderResolver, len(items))
	for i := range items {
		resolvers[i] = &capacityProviderResolver{item: items[i]}
	}
	return &resolvers
}

func (r *serviceRecordResolver) LoadBalancers() *[]*loadBalancerResolver {
	balancers := r.record.Service.LoadBalancers
	if balancers == nil {
		return nil
	}
	resolvers := make([]*loadBalancerResolver, len(balancers))
	for i := range balancers {
		resolvers[i] = &loadBalancerResolver{lb: balancers[i]}
	}
	return &resolvers
}

func (r *serviceRecordResolver) Events() *[]*serviceEventResolver {
	events := r.record.Service.Events
	if events == nil {
		return nil
	}
	resolvers := make([]*serviceEventResolver, len(events))
	for i := range events {
		resolvers[i] = &serviceEventResolver{event: events[i]}
	}
	return &resolvers
}

func (r *serviceRecordResolver) ClusterArn() string { return aws.ToString(r.record.Service.ClusterArn) }

func (r *serviceRecordResolver) ClusterName() string { return r.record.ClusterName }

// CreatedAt is in epoch milliseconds.
func (r *serviceRecordResolver) CreatedAt() float64 {
	return float64(epochMillis(r.record.Service.CreatedAt))
}

func (r *serviceRecordResolver) CreatedBy() *string { return r.record.Service.CreatedBy }

func (r *serviceRecordResolver) DesiredCount() int32 { return r.record.Service.DesiredCount }

func (r *serviceRecordResolver) EnableECSManagedTags() *bool {
	return aws.Bool(r.record.Service.EnableECSManagedTags)
}

func (r *serviceRecordResolver) EnableExecuteCommand() *bool {
	return aws.Bool(r.record.Service.EnableExecuteCommand)
}

func (r *serviceRecordResolver) HealthCheckGracePeriodSeconds() *int32 {
	return r.record.Service.HealthCheckGracePeriodSeconds
}

func (r *serviceRecordResolver) PendingCount() *int32 { return aws.Int32(r.record.Service.PendingCount) }

func (r *serviceRecordResolver) PropagateTags() string { return string(r.record.Service.PropagateTags) }

func (r *serviceRecordResolver) RoleArn() string { return aws.ToString(r.record.Service.RoleArn) }

func (r *serviceRecordResolver) RunningCount() *int32 { return aws.Int32(r.record.Service.RunningCount) }

func (r *serviceRecordResolver) SchedulingStrategy() string {
	return string(r.record.Service.SchedulingStrategy)
}

func (r *serviceRecordResolver) Status() string { return aws.ToString(r.record.Service.Status) }

func (r *serviceRecordResolver) ServiceName() string { return r.record.Name() }

func (r *serviceRecordResolver) ServiceArn() string { return aws.ToString(r.record.Service.ServiceArn) }

func (r *serviceRecordResolver) TaskDefinition() string {
	return aws.ToString(r.record.Service.TaskDefinition)
}

type capacityProviderResolver struct {
	item types.CapacityProviderStrategyItem
}

func (r *capacityProviderResolver) Base() *int32 { return aws.Int32(r.item.Base) }

func (r *capacityProviderResolver) CapacityProvider() string { return aws.ToString(r.item.CapacityProvider) }

func (r *capacityProviderResolver) Weight() *int32 { return aws.Int32(r.item.Weight) }

type loadBalancerResolver struct {
	lb types.LoadBalancer
}

func (r *loadBalancerResolver) TargetGroupArn() string { return aws.ToString(r.lb.TargetGroupArn) }

func (r *loadBalancerResolver) ContainerName() string { return aws.ToString(r.lb.ContainerName) }

func (r *loadBalancerResolver) ContainerPort() int32 { return aws.ToInt32(r.lb.ContainerPort) }

type serviceEventResolver struct {
	event types.ServiceEvent
}

func (r *serviceEventResolver) ID() graphql.ID { return graphql.ID(aws.ToString(r.event.Id)) }

// CreatedAt is the epoch milliseconds as a decimal string.
func (r *serviceEventResolver) CreatedAt() string {
	return strconv.FormatInt(epochMillis(r.event.CreatedAt), 10)
}

func (r *serviceEventResolver) Message() string { return aws.ToString(r.event.Message) }

func epochMillis(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}
