package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexalbu001/ecs-graphql/internal/graph"
	"github.com/alexalbu001/ecs-graphql/internal/resolution"
	"github.com/alexalbu001/ecs-graphql/pkg"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubServices struct {
	records []pkg.ServiceRecord
	err     error
}

func (s stubServices) Resolve(ctx context.Context, serviceNames, clusterName, region string) ([]pkg.ServiceRecord, error) {
	return s.records, s.err
}

func newTestServer(t *testing.T, services graph.ServiceResolver) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	schema, err := graph.NewSchema(graph.NewResolver(services))
	require.NoError(t, err)
	return New(schema, zap.NewNop(), 0)
}

func postQuery(t *testing.T, handler http.Handler, query string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, GraphQLPath, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, stubServices{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGraphQLQuery(t *testing.T) {
	srv := newTestServer(t, stubServices{records: []pkg.ServiceRecord{
		{ClusterName: "v2-i03", Service: types.Service{ServiceName: aws.String("echo"), DesiredCount: 2}},
	}})

	rec := postQuery(t, srv.Handler(), `{ getServicesInfo(serviceNames: "echo", clusterName: "v2-i03", region: "us-east-1") { serviceName clusterName desiredCount } }`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"getServicesInfo":[{"serviceName":"echo","clusterName":"v2-i03","desiredCount":2}]}}`, rec.Body.String())
}

func TestGraphQLQueryError(t *testing.T) {
	srv := newTestServer(t, stubServices{err: &resolution.Error{Kind: resolution.KindClusterNotFound, Cluster: "v2-i06"}})

	rec := postQuery(t, srv.Handler(), `{ getServicesInfo(serviceNames: "echo", clusterName: "v2-i06", region: "us-east-1") { serviceName } }`)

	var body struct {
		Data   map[string]interface{}
		Errors []struct {
			Message    string
			Extensions map[string]interface{}
		}
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "clusterNotFound", body.Errors[0].Message)
	assert.Equal(t, "clusterNotFound", body.Errors[0].Extensions["code"])
	assert.Nil(t, body.Data["getServicesInfo"])
}

func TestGraphQLRejectsGet(t *testing.T) {
	srv := newTestServer(t, stubServices{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, GraphQLPath, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	srv := newTestServer(t, stubServices{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, srv.Run(ctx, time.Second))
}
