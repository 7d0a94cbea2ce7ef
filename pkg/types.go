package pkg

import "github.com/aws/aws-sdk-go-v2/service/ecs/types"

// MaxDescribeServicesBatchSize is the most service identifiers ECS accepts in one DescribeServices call.
const MaxDescribeServicesBatchSize = 10

// MaxServicesPerCluster is the ECS ceiling on active services in a single cluster.
const MaxServicesPerCluster = 5000

// ClusterDescriptor holds the parts of a DescribeClusters result the resolver needs
type ClusterDescriptor struct {
	Exists             bool
	ClusterArn         string
	ActiveServiceCount int32
}

// ServiceRecord is an ECS service description together with the cluster it was resolved from.
// The upstream payload does not carry the cluster name, so it is stamped on after retrieval.
type ServiceRecord struct {
	types.Service
	ClusterName string `json:"clusterName"`
}

// Name returns the service name or an empty string when ECS did not report one
func (r ServiceRecord) Name() string {
	if r.Service.ServiceName == nil {
		return ""
	}
	return *r.Service.ServiceName
}
