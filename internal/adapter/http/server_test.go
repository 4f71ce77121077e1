package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/couchcryptid/wildfire-explorer/internal/adapter/http"
	"github.com/couchcryptid/wildfire-explorer/internal/domain"
	"github.com/couchcryptid/wildfire-explorer/internal/pipeline"
)

type mockController struct {
	readyErr    error
	describeErr error
	lastErr     error
	mode        pipeline.Mode
	filters     domain.FilterState
	submits     int
	latest      domain.Snapshot
}

func newMockController() *mockController {
	return &mockController{
		mode:    pipeline.ModeDeferred,
		filters: domain.DefaultFilterState(),
		latest:  domain.PendingSnapshot(),
	}
}

func (m *mockController) CheckReadiness(_ context.Context) error { return m.readyErr }
func (m *mockController) Mode() pipeline.Mode                    { return m.mode }
func (m *mockController) Filters() domain.FilterState            { return m.filters.Clone() }
func (m *mockController) Latest() domain.Snapshot                { return m.latest }
func (m *mockController) LastError() error                       { return m.lastErr }

func (m *mockController) Set(dim domain.Dimension, tokens []string) error {
	return m.filters.Set(dim, tokens)
}

func (m *mockController) Submit() uint64 {
	m.submits++
	return uint64(m.submits)
}

func (m *mockController) Describe(_ context.Context) (pipeline.DomainInfo, error) {
	if m.describeErr != nil {
		return pipeline.DomainInfo{}, m.describeErr
	}
	return pipeline.DomainInfo{
		Origins: []pipeline.Option{{Value: "0", Label: domain.OriginVegetation.Label()}},
		Times:   []pipeline.Option{{Value: "D", Label: domain.TimeDay.Label()}},
		Months:  []int{2},
		Years:   []int{2022},
		Rows:    3,
	}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(ctrl *mockController) *httpadapter.Server {
	return httpadapter.NewServer(":0", ctrl, nil, discardLogger())
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthzReturns200(t *testing.T) {
	rec := do(t, newTestServer(newMockController()), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := do(t, newTestServer(newMockController()), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	ctrl := newMockController()
	ctrl.readyErr = fmt.Errorf("not ready yet")

	rec := do(t, newTestServer(ctrl), http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(t, newTestServer(newMockController()), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestGetFilters_Defaults(t *testing.T) {
	rec := do(t, newTestServer(newMockController()), http.MethodGet, "/api/v1/filters", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "deferred", body["mode"])
	assert.Equal(t, true, body["awaits_submit"])
	assert.Equal(t, false, body["temporal_gate"])

	filters := body["filters"].(map[string]any)
	assert.Equal(t, []any{0.0, 1.0, 2.0, 3.0}, filters["origins"])
	assert.Equal(t, []any{"D", "N"}, filters["times"])
	assert.Nil(t, filters["months"])
	assert.Nil(t, filters["years"])
}

func TestPutFilter(t *testing.T) {
	ctrl := newMockController()
	srv := newTestServer(ctrl)

	rec := do(t, srv, http.MethodPut, "/api/v1/filters/months", `{"values":["Feb", 3]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["temporal_gate"], "months alone does not gate")

	rec = do(t, srv, http.MethodPut, "/api/v1/filters/years", `{"values":[2022]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["temporal_gate"])

	sel := ctrl.filters.Selection()
	assert.Equal(t, []int{2, 3}, sel.Months)
	assert.Equal(t, []int{2022}, sel.Years)
}

func TestPutFilter_UnknownDimension(t *testing.T) {
	rec := do(t, newTestServer(newMockController()), http.MethodPut, "/api/v1/filters/colour", `{"values":["red"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "unknown dimension")
}

func TestPutFilter_InvalidBody(t *testing.T) {
	rec := do(t, newTestServer(newMockController()), http.MethodPut, "/api/v1/filters/origins", `{"values":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutFilter_OutOfDomainAccepted(t *testing.T) {
	ctrl := newMockController()
	rec := do(t, newTestServer(ctrl), http.MethodPut, "/api/v1/filters/origins", `{"values":[9]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []domain.FireOrigin{9}, ctrl.filters.Selection().Origins)
}

func TestSubmit(t *testing.T) {
	ctrl := newMockController()
	rec := do(t, newTestServer(ctrl), http.MethodPost, "/api/v1/submit", "")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.InDelta(t, 1.0, decode(t, rec)["generation"], 0)
	assert.Equal(t, 1, ctrl.submits)
}

func TestGetSnapshot_PendingWithError(t *testing.T) {
	ctrl := newMockController()
	ctrl.lastErr = errors.New("dataset unavailable: disk gone")

	rec := do(t, newTestServer(ctrl), http.MethodGet, "/api/v1/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "dataset unavailable: disk gone", body["error"])
	snap := body["snapshot"].(map[string]any)
	assert.Equal(t, "pending", snap["status"])
	assert.Nil(t, snap["count"])
}

func TestGetDomain(t *testing.T) {
	rec := do(t, newTestServer(newMockController()), http.MethodGet, "/api/v1/domain", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info pipeline.DomainInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, 3, info.Rows)
	assert.Equal(t, []int{2022}, info.Years)
}

func TestGetDomain_Unavailable(t *testing.T) {
	ctrl := newMockController()
	ctrl.describeErr = pipeline.ErrDatasetUnavailable

	rec := do(t, newTestServer(ctrl), http.MethodGet, "/api/v1/domain", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
