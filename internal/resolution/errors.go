package resolution

import (
	"fmt"
	"strings"
)

// Kind classifies why a query could not be resolved.
type Kind int

const (
	KindEmptyServiceNameList Kind = iota + 1
	KindMissingArgument
	KindClusterNotFound
	KindMaxServiceCountExceeded
	KindInvalidServiceName
	KindModifyQuery
	KindUpstreamUnavailable
)

var kindCodes = map[Kind]string{
	KindEmptyServiceNameList:    "zeroServicesQueried",
	KindMissingArgument:         "missingArgument",
	KindClusterNotFound:         "clusterNotFound",
	KindMaxServiceCountExceeded: "maxServiceCountExceeded",
	KindInvalidServiceName:      "invalidServiceName",
	KindModifyQuery:             "modifyQuery",
	KindUpstreamUnavailable:     "upstreamUnavailable",
}

// Code is the stable identifier clients see in GraphQL errors.
func (k Kind) Code() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return "unknown"
}

func (k Kind) String() string { return k.Code() }

// Sentinels for errors.Is.
var (
	ErrEmptyServiceNameList    = &Error{Kind: KindEmptyServiceNameList}
	ErrMissingArgument         = &Error{Kind: KindMissingArgument}
	ErrClusterNotFound         = &Error{Kind: KindClusterNotFound}
	ErrMaxServiceCountExceeded = &Error{Kind: KindMaxServiceCountExceeded}
	ErrInvalidServiceName      = &Error{Kind: KindInvalidServiceName}
	ErrModifyQuery             = &Error{Kind: KindModifyQuery}
	ErrUpstreamUnavailable     = &Error{Kind: KindUpstreamUnavailable}
)

// Error is returned for every failed resolution.
type Error struct {
	Kind     Kind
	Cluster  string
	Services []string
	Detail   string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Code())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Message is the human-readable description logged for the failure.
func (e *Error) Message() string {
	switch e.Kind {
	case KindEmptyServiceNameList:
		return "Zero Services queried, please add services to see the result!"
	case KindMissingArgument:
		return e.Detail
	case KindClusterNotFound:
		return fmt.Sprintf("The queried cluster, %s, could not be found within the account that the GraphQL API has access to.", e.Cluster)
	case KindMaxServiceCountExceeded:
		return fmt.Sprintf("The cluster %s reports more than the allowed number of active services.", e.Cluster)
	case KindInvalidServiceName:
		return "One or more of the service names you provided in your query are invalid. Please adjust your query criteria and try again!"
	case KindModifyQuery:
		return "Please modify the query to retrieve the result!"
	case KindUpstreamUnavailable:
		return "The ECS API could not be reached or rejected the request."
	}
	return e.Error()
}

// Extensions exposes the failure classification to GraphQL clients.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code": e.Kind.Code(),
	}
	if e.Cluster != "" {
		ext["cluster"] = e.Cluster
	}
	if len(e.Services) > 0 {
		ext["services"] = e.Services
	}
	return ext
}
