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
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/wargaair/water-safety-service/internal/adapter/http"
	"github.com/wargaair/water-safety-service/internal/adapter/refdata"
	"github.com/wargaair/water-safety-service/internal/assessment"
	"github.com/wargaair/water-safety-service/internal/domain"
	"github.com/wargaair/water-safety-service/internal/observability"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type unreachableRefs struct{}

var errUnreachable = errors.New("dial tcp: connection refused")

func (unreachableRefs) ParameterStandards(context.Context) ([]domain.ParameterStandard, error) {
	return nil, errUnreachable
}

func (unreachableRefs) TreatmentRecommendations(context.Context) ([]domain.TreatmentRecommendation, error) {
	return nil, errUnreachable
}

func (unreachableRefs) Diseases(context.Context) ([]domain.DiseaseRecord, error) {
	return nil, errUnreachable
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, refs domain.ReferenceData) *assessment.Service {
	t.Helper()
	return assessment.NewService(refs, nil, discardLogger(), observability.NewMetricsForTesting())
}

func newTestServer(t *testing.T, readyErr error) *httpadapter.Server {
	t.Helper()
	store, err := refdata.Load(filepath.Join("..", "..", "..", "data", "reference.yaml"))
	require.NoError(t, err)
	return httpadapter.NewServer(":0", newService(t, store), &mockReadiness{err: readyErr}, discardLogger())
}

func newUnreachableServer(t *testing.T) *httpadapter.Server {
	t.Helper()
	return httpadapter.NewServer(":0", newService(t, unreachableRefs{}), &mockReadiness{}, discardLogger())
}

func do(srv http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	srv.ServeHTTP(rec, req)
	return rec
}

type verdictBody struct {
	SafetyLevel      string   `json:"safety_level"`
	Score            int      `json:"score"`
	Contaminants     []string `json:"contaminants"`
	Recommendations  []string `json:"recommendations"`
	HealthRisks      []string `json:"health_risks"`
	ImmediateActions []string `json:"immediate_actions"`
	Diseases         []string `json:"diseases"`
	Report           string   `json:"report"`
}

func decodeVerdict(t *testing.T, rec *httptest.ResponseRecorder) verdictBody {
	t.Helper()
	var body verdictBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// --- health ---

func TestHealthzReturns200(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := do(newTestServer(t, fmt.Errorf("not ready yet")), http.MethodGet, "/readyz", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "not ready yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// --- sensory ---

func TestClassifySensory(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/v1/classify/sensory",
		`{"odor":"putrid","taste":"metallic","color":"brown"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeVerdict(t, rec)
	assert.Equal(t, "hazardous", body.SafetyLevel)
	assert.Equal(t, 25, body.Score)
	assert.Contains(t, body.ImmediateActions, domain.ActionDoNotDrink)
	assert.Empty(t, body.Report)
}

func TestClassifySensory_WithReport(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/v1/classify/sensory?report=true",
		`{"odor":"normal","taste":"normal","color":"clear"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeVerdict(t, rec)
	assert.Equal(t, "safe", body.SafetyLevel)
	assert.Contains(t, body.Report, "Status: SAFE")
}

func TestClassifySensory_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"odor":`, "invalid JSON body"},
		{"missing fields", `{"odor":"normal"}`, "taste, color"},
	}

	srv := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(srv, http.MethodPost, "/v1/classify/sensory", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

// --- lab ---

func TestClassifyLab(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/v1/classify/lab?diseases=true&report=1",
		`{"Total Coliform": 12, "pH": "7.1", "nitrate": 55}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeVerdict(t, rec)
	assert.Equal(t, "hazardous", body.SafetyLevel)
	assert.Equal(t, 20, body.Score)
	assert.Contains(t, body.Contaminants, "Total Coliform")
	assert.Contains(t, body.Contaminants, "Nitrate")
	assert.Contains(t, body.HealthRisks, domain.RiskBlueBaby)
	assert.NotEmpty(t, body.Diseases)
	assert.Contains(t, body.Report, "Status: HAZARDOUS")
}

func TestClassifyLab_EmptyBody(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/v1/classify/lab", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassifyLab_StandardsUnavailable(t *testing.T) {
	rec := do(newUnreachableServer(t), http.MethodPost, "/v1/classify/lab", `{"ph": 7}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "configuration error")
}

// --- diseases, reports, standards ---

func TestPredictDiseases(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/v1/diseases/predict", `{"e_coli": 3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["diseases"])
}

func TestPredictDiseases_CatalogUnavailable(t *testing.T) {
	rec := do(newUnreachableServer(t), http.MethodPost, "/v1/diseases/predict", `{"e_coli": 3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"diseases":[]}`, rec.Body.String())
}

func TestReport(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/v1/reports",
		`{"safety_level":"rawan","score":45,"contaminants":["ammonia"],"recommendations":[],"health_risks":[],"immediate_actions":[]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Status: UNSAFE")
	assert.Contains(t, rec.Body.String(), "- ammonia")
}

func TestReport_UnknownLevel(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/v1/reports", `{"safety_level":"meh"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStandards(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodGet, "/v1/standards", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Standards []domain.ParameterStandard `json:"standards"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Standards, 7)
	assert.Equal(t, "Turbidity", body.Standards[0].Parameter)
}

func TestStandards_Unavailable(t *testing.T) {
	rec := do(newUnreachableServer(t), http.MethodGet, "/v1/standards", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

// --- assessments ---

func TestAssess(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/v1/assessments",
		`{"id":"r-1","report_id":"rep-1","kind":"lab","lab":{"iron":0.5}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var a domain.Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, "r-1", a.ReadingID)
	assert.Equal(t, "rep-1", a.ReportID)
	assert.Equal(t, domain.LevelCaution, a.Verdict.SafetyLevel)
	assert.NotEmpty(t, a.Report)
}

func TestAssess_UnknownKind(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodPost, "/v1/assessments", `{"kind":"radar"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown reading kind")
}

func TestAssess_BodyTooLarge(t *testing.T) {
	big := `{"kind":"lab","lab":{"note":"` + strings.Repeat("x", 2<<20) + `"}}`
	rec := do(newTestServer(t, nil), http.MethodPost, "/v1/assessments", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := do(newTestServer(t, nil), http.MethodGet, "/v1/classify/sensory", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
