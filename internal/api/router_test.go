package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Odla19/DecissionsMaker/internal/decision"
	"github.com/Odla19/DecissionsMaker/internal/store"
)

// Mocks
type memStore struct {
	mu        sync.Mutex
	decisions map[uuid.UUID]*store.DecisionRecord
}

func newMemStore() *memStore {
	return &memStore{decisions: make(map[uuid.UUID]*store.DecisionRecord)}
}
func (m *memStore) SaveDecision(_ context.Context, d *store.DecisionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = uuid.New()
	d.CreatedAt = time.Now().Add(time.Duration(len(m.decisions)) * time.Millisecond)
	m.decisions[d.ID] = d
	return nil
}
func (m *memStore) GetDecision(_ context.Context, id uuid.UUID) (*store.DecisionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decisions[id], nil
}
func (m *memStore) ListDecisions(_ context.Context, _ store.DecisionFilter) ([]*store.DecisionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.DecisionRecord
	for _, d := range m.decisions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
func (m *memStore) DeleteDecision(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.decisions[id]; !ok {
		return false, nil
	}
	delete(m.decisions, id)
	return true, nil
}
func (m *memStore) Close() error { return nil }

type nopHermes struct{}

func (nopHermes) Publish(_ string, _ interface{}) error            { return nil }
func (nopHermes) Subscribe(_ string, _ func(string, []byte)) error { return nil }
func (nopHermes) Close()                                           {}

func setupTestRouter() (http.Handler, *memStore) {
	ms := newMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := decision.NewEvaluator(decision.DefaultOptions(), nil, nopHermes{}, logger)
	router := NewRouter(e, ms, nopHermes{}, RouterConfig{AdminToken: "test-token", RateLimit: 1000}, logger)
	return router, ms
}

func do(router http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(ClientHeader, "test-client")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const laptopProblem = `{
	"mission": "Pick a <b>laptop</b>",
	"criteria": [{"id":"price","name":"Price"},{"id":"speed","name":"Speed"}],
	"alternatives": [{"id":"a","name":"Alpha"},{"id":"b","name":"Beta"}],
	"criteria_judgments": [{"id1":"price","id2":"speed","value":2}],
	"alternative_judgments": {
		"price": [{"id1":"a","id2":"b","value":8}],
		"speed": [{"id1":"a","id2":"b","value":1}]
	}
}`

func TestEvaluate(t *testing.T) {
	router, _ := setupTestRouter()

	w := do(router, "POST", "/api/v1/evaluate", laptopProblem)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var res decision.Result
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Mission != "Pick a laptop" {
		t.Errorf("expected sanitised mission, got %q", res.Mission)
	}
	if len(res.Ranking) != 2 {
		t.Fatalf("expected 2 ranked alternatives, got %d", len(res.Ranking))
	}
	if res.Ranking[0].ID != "a" || res.Ranking[0].Rank != 1 {
		t.Errorf("expected a ranked first, got %+v", res.Ranking[0])
	}
	if !res.IsConsistent {
		t.Error("two-entity matrices are always consistent")
	}
}

func TestEvaluateTooFewCriteria(t *testing.T) {
	router, _ := setupTestRouter()

	body := `{"criteria":[{"id":"price","name":"Price"}],"alternatives":[{"id":"a","name":"A"},{"id":"b","name":"B"}]}`
	w := do(router, "POST", "/api/v1/evaluate", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestEvaluateInvalidBody(t *testing.T) {
	router, _ := setupTestRouter()

	w := do(router, "POST", "/api/v1/evaluate", `{"criteria":`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestMatrixEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	body := `{"entities":[{"id":"x"},{"id":"y"}],"judgments":[{"id1":"x","id2":"y","value":8}]}`
	w := do(router, "POST", "/api/v1/matrix", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp MatrixResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Matrix[0][1] != 9 {
		t.Errorf("expected M[x][y] = 9, got %v", resp.Matrix[0][1])
	}
	if len(resp.Priorities) != 2 || resp.Priorities[0] < 0.89 || resp.Priorities[0] > 0.91 {
		t.Errorf("expected priorities near [0.9 0.1], got %v", resp.Priorities)
	}
}

func TestExpressEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	body := `{"entities":[{"id":"a"},{"id":"b"}],"ratings":{"a":5,"b":3}}`
	w := do(router, "POST", "/api/v1/express", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp ExpressResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Priorities) != 2 || resp.Priorities[0] < 0.899 || resp.Priorities[0] > 0.901 {
		t.Errorf("expected priorities [0.9 0.1], got %v", resp.Priorities)
	}
	if !resp.Consistency.IsConsistent {
		t.Error("express results are always consistent")
	}
}

func TestExpressEndpointTooManyEntities(t *testing.T) {
	router, _ := setupTestRouter()

	ids := make([]string, decision.DefaultLimits().MaxEntities+1)
	for i := range ids {
		ids[i] = fmt.Sprintf(`{"id":"e%d"}`, i)
	}
	body := `{"entities":[` + strings.Join(ids, ",") + `],"ratings":{}}`
	w := do(router, "POST", "/api/v1/express", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestReweightEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	w := do(router, "POST", "/api/v1/reweight", `{"weights":[0.5,0.3,0.2],"index":0,"value":0.8}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string][]float64
	json.NewDecoder(w.Body).Decode(&resp)
	got := resp["weights"]
	if len(got) != 3 || got[0] != 0.8 {
		t.Fatalf("unexpected weights %v", got)
	}
	if d := got[1] - 0.12; d > 1e-9 || d < -1e-9 {
		t.Errorf("expected 0.12, got %v", got[1])
	}
}

func TestReweightIndexOutOfRange(t *testing.T) {
	router, _ := setupTestRouter()

	w := do(router, "POST", "/api/v1/reweight", `{"weights":[0.5,0.5],"index":2,"value":0.8}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSensitivityEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	body := `{
		"alternatives":[{"id":"a","name":"Alpha"},{"id":"b","name":"Beta"}],
		"criteria_weights":[0.5,0.5],
		"alternative_weights":[[0.9,0.1],[0.2,0.8]],
		"index":1,
		"value":0.9
	}`
	w := do(router, "POST", "/api/v1/sensitivity", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp SensitivityResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Ranking) != 2 || resp.Ranking[0].ID != "b" {
		t.Fatalf("expected b to overtake a, got %+v", resp.Ranking)
	}
	if resp.Ranking[0].DisplayScore != 73 {
		t.Errorf("expected display score 73, got %v", resp.Ranking[0].DisplayScore)
	}
}

func TestSensitivityShapeMismatch(t *testing.T) {
	router, _ := setupTestRouter()

	body := `{"alternatives":[{"id":"a"}],"criteria_weights":[0.5,0.5],"alternative_weights":[[1]],"index":0,"value":0.5}`
	w := do(router, "POST", "/api/v1/sensitivity", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDecisionLifecycle(t *testing.T) {
	router, ms := setupTestRouter()

	body := `{"mission":"Laptop","winner":"<i>Alpha</i>","score":64.2,"criteria_weights":[{"name":"Price","weight":0.75}]}`
	w := do(router, "POST", "/api/v1/decisions", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var saved store.DecisionRecord
	json.NewDecoder(w.Body).Decode(&saved)
	if saved.ID == uuid.Nil || saved.Winner != "Alpha" {
		t.Fatalf("unexpected saved record %+v", saved)
	}

	w = do(router, "GET", "/api/v1/decisions/"+saved.ID.String(), "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	w = do(router, "GET", "/api/v1/decisions", "")
	var list []store.DecisionRecord
	json.NewDecoder(w.Body).Decode(&list)
	if len(list) != 1 {
		t.Errorf("expected 1 decision, got %d", len(list))
	}

	w = do(router, "DELETE", "/api/v1/decisions/"+saved.ID.String(), "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without admin token, got %d", w.Code)
	}

	w = do(router, "DELETE", "/api/v1/decisions/"+saved.ID.String(), "", "Authorization", "Bearer test-token")
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if len(ms.decisions) != 0 {
		t.Errorf("expected store to be empty, got %d", len(ms.decisions))
	}
}

func TestGetDecisionNotFound(t *testing.T) {
	router, _ := setupTestRouter()

	w := do(router, "GET", "/api/v1/decisions/"+uuid.New().String(), "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = do(router, "GET", "/api/v1/decisions/not-a-uuid", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestListDecisionsEmpty(t *testing.T) {
	router, _ := setupTestRouter()

	w := do(router, "GET", "/api/v1/decisions", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %s", w.Body.String())
	}
}

func TestInsightsEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	for _, body := range []string{
		`{"winner":"A","score":60,"criteria_weights":[{"name":"Price","weight":0.7},{"name":"Speed","weight":0.3}]}`,
		`{"winner":"B","score":80,"criteria_weights":[{"name":"price","weight":0.5},{"name":"Speed","weight":0.5}]}`,
	} {
		if w := do(router, "POST", "/api/v1/decisions", body); w.Code != http.StatusCreated {
			t.Fatalf("save: expected 201, got %d", w.Code)
		}
	}

	w := do(router, "GET", "/api/v1/decisions/insights", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var in decision.Insights
	json.NewDecoder(w.Body).Decode(&in)
	if in.Decisions != 2 {
		t.Errorf("expected 2 decisions, got %d", in.Decisions)
	}
	if in.Persona != decision.PersonaValueSeeker {
		t.Errorf("expected %s, got %s", decision.PersonaValueSeeker, in.Persona)
	}
	if in.MeanScore != 70 {
		t.Errorf("expected mean 70, got %v", in.MeanScore)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := NewMetricsRouter(prometheus.NewRegistry())
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	decision.NewMetrics(reg)
	router := NewMetricsRouter(reg)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
