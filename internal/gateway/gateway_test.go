package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/alexalbu001/ecs-graphql/internal/resolution"
	"github.com/alexalbu001/ecs-graphql/pkg"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, req resolution.Request) ([]pkg.ServiceRecord, error) {
	args := m.Called(ctx, req)
	records, _ := args.Get(0).([]pkg.ServiceRecord)
	return records, args.Error(1)
}

func requestFor(names ...string) interface{} {
	return mock.MatchedBy(func(req resolution.Request) bool {
		return assert.ObjectsAreEqual(names, req.ServiceNames()) &&
			req.ClusterName() == "v2-i03" &&
			req.Region() == "us-east-1"
	})
}

func TestParseServiceNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "split and trim", input: "echo, gds-data", want: []string{"echo", "gds-data"}},
		{name: "only commas split", input: "echo gds-data", want: []string{"echo gds-data"}},
		{name: "duplicates keep first occurrence", input: "b, a ,b,c, a", want: []string{"b", "a", "c"}},
		{name: "empty tokens dropped", input: "a,,b, ,", want: []string{"a", "b"}},
		{name: "single", input: "  echo  ", want: []string{"echo"}},
		{name: "separators only", input: " , ,", want: []string{}},
		{name: "empty", input: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseServiceNames(tt.input))
		})
	}
}

func TestResolve(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	resolver := new(MockResolver)
	records := []pkg.ServiceRecord{
		{Service: types.Service{ServiceName: aws.String("echo")}, ClusterName: "v2-i03"},
		{Service: types.Service{ServiceName: aws.String("gds-data")}, ClusterName: "v2-i03"},
	}
	resolver.On("Resolve", mock.Anything, requestFor("echo", "gds-data")).Return(records, nil).Once()

	gw := New(resolver, zap.New(core), time.Minute)
	got, err := gw.Resolve(context.Background(), "echo, gds-data, echo", "v2-i03", "us-east-1")

	require.NoError(t, err)
	assert.Equal(t, records, got)
	resolver.AssertExpectations(t)

	infos := logs.FilterMessage("services queried").All()
	require.Len(t, infos, 1)
	assert.Equal(t, int64(2), infos[0].ContextMap()["count"])
	assert.Equal(t, "v2-i03", infos[0].ContextMap()["cluster"])
	assert.NotEmpty(t, infos[0].ContextMap()["request_id"])
}

func TestResolveEmptyServiceNames(t *testing.T) {
	for _, input := range []string{"", " ", ",,"} {
		core, logs := observer.New(zapcore.InfoLevel)
		resolver := new(MockResolver)
		gw := New(resolver, zap.New(core), time.Minute)

		_, err := gw.Resolve(context.Background(), input, "v2-i03", "us-east-1")

		assert.ErrorIs(t, err, resolution.ErrEmptyServiceNameList)
		resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
		assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	}
}

func TestResolveMissingArguments(t *testing.T) {
	resolver := new(MockResolver)
	gw := New(resolver, zap.NewNop(), time.Minute)

	_, err := gw.Resolve(context.Background(), "echo", "", "us-east-1")
	assert.ErrorIs(t, err, resolution.ErrMissingArgument)

	_, err = gw.Resolve(context.Background(), "echo", "v2-i03", "")
	assert.ErrorIs(t, err, resolution.ErrMissingArgument)

	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestResolvePropagatesEngineError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	resolver := new(MockResolver)
	engineErr := &resolution.Error{Kind: resolution.KindClusterNotFound, Cluster: "v2-i03"}
	resolver.On("Resolve", mock.Anything, requestFor("echo")).Return(nil, engineErr)

	gw := New(resolver, zap.New(core), time.Minute)
	records, err := gw.Resolve(context.Background(), "echo", "v2-i03", "us-east-1")

	assert.Nil(t, records)
	assert.Same(t, engineErr, err)

	errorLogs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, errorLogs, 1)
	assert.Equal(t, engineErr.Message(), errorLogs[0].Message)
	assert.Equal(t, "clusterNotFound", errorLogs[0].ContextMap()["code"])
}

func TestResolveAppliesQueryTimeout(t *testing.T) {
	resolver := new(MockResolver)
	resolver.On("Resolve", mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && time.Until(deadline) <= 5*time.Second
	}), mock.Anything).Return([]pkg.ServiceRecord{}, nil)

	gw := New(resolver, zap.NewNop(), 5*time.Second)
	_, err := gw.Resolve(context.Background(), "echo", "v2-i03", "us-east-1")

	require.NoError(t, err)
	resolver.AssertExpectations(t)
}
