package resolution

// Request is a validated service lookup. It can only be built with NewRequest.
type Request struct {
	serviceNames []string
	clusterName  string
	region       string
}

// NewRequest validates the cluster name and region and copies serviceNames.
// An empty name set is accepted here and rejected by the engine.
func NewRequest(serviceNames []string, clusterName, region string) (Request, error) {
	if clusterName == "" {
		return Request{}, missingArgument("clusterName")
	}
	if region == "" {
		return Request{}, missingArgument("region")
	}

	names := make([]string, len(serviceNames))
	copy(names, serviceNames)

	return Request{
		serviceNames: names,
		clusterName:  clusterName,
		region:       region,
	}, nil
}

// ServiceNames returns a copy of the requested names in request order.
func (r Request) ServiceNames() []string {
	names := make([]string, len(r.serviceNames))
	copy(names, r.serviceNames)
	return names
}

func (r Request) ClusterName() string { return r.clusterName }

func (r Request) Region() string { return r.region }

func missingArgument(name string) *Error {
	return &Error{Kind: KindMissingArgument, Detail: name + " is required"}
}
