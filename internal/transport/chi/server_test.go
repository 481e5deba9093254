package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/talent-cloud/matchdex/internal/corpus"
	"github.com/talent-cloud/matchdex/internal/domain"
	healthuc "github.com/talent-cloud/matchdex/internal/usecase/health"
	ingestuc "github.com/talent-cloud/matchdex/internal/usecase/ingest"
	searchuc "github.com/talent-cloud/matchdex/internal/usecase/search"
)

// --- Mocks ---

type mockGateway struct {
	jobFeats  domain.JobFeatures
	jobErr    error
	candFeats domain.CandidateFeatures
	candErr   error
	vec       []float32
	embedErr  error
	healthErr error
}

func (m *mockGateway) JobFeatures(_ context.Context, _ domain.RawJob) (domain.JobFeatures, error) {
	return m.jobFeats, m.jobErr
}

func (m *mockGateway) CandidateFeatures(_ context.Context, _ domain.RawCandidate) (domain.CandidateFeatures, error) {
	return m.candFeats, m.candErr
}

func (m *mockGateway) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.embedErr != nil {
		return domain.EmbeddingResult{}, m.embedErr
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func (m *mockGateway) HealthCheck(_ context.Context) error { return m.healthErr }

func defaultGateway() *mockGateway {
	return &mockGateway{
		jobFeats: domain.JobFeatures{
			ExtractedSkills:         []string{"go"},
			SeniorityLevel:          domain.SeniorityMid,
			RequiredExperienceYears: 2,
			JobSummaryForEmbedding:  "backend role",
		},
		candFeats: domain.CandidateFeatures{
			TotalYearsOfExperience: 5,
			SeniorityLevel:         domain.SenioritySenior,
			SkillKeywords:          []string{"go"},
			CandidateSummary:       "summary",
		},
		vec: []float32{1, 0},
	}
}

// --- Helpers ---

type fixture struct {
	router        chirouter.Router
	store         *corpus.Store
	rawPath       string
	processedPath string
}

func newFixture(t *testing.T, gw *mockGateway, entries ...domain.ProcessedCandidate) *fixture {
	t.Helper()

	c, err := corpus.New(entries)
	if err != nil {
		t.Fatalf("corpus.New: %v", err)
	}
	store := corpus.NewStore(c)

	dir := t.TempDir()
	rawPath := filepath.Join(dir, "candidates.json")
	processedPath := filepath.Join(dir, "processed.json")

	logger := zap.NewNop()
	server := NewServer(
		searchuc.New(store, gw, gw),
		ingestuc.New(gw, gw, store, logger),
		healthuc.New(store, gw),
		rawPath, processedPath,
		logger,
	)

	r := chirouter.NewRouter()
	server.Routes(r)

	return &fixture{router: r, store: store, rawPath: rawPath, processedPath: processedPath}
}

func testCandidate(id int64) domain.ProcessedCandidate {
	return domain.ProcessedCandidate{
		ID: id,
		EngineeredFeatures: domain.CandidateFeatures{
			TotalYearsOfExperience: 5,
			SeniorityLevel:         domain.SenioritySenior,
			SkillKeywords:          []string{"go"},
			CandidateSummary:       "summary",
		},
		Embedding: []float32{1, 0},
	}
}

func doRequest(t *testing.T, r chirouter.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error body %q: %v", rec.Body.String(), err)
	}
	return resp.Code
}

const jobBody = `{"job_title": "Backend Engineer", "job_description": "Go services", "required_skills": ["go"]}`

// --- Tests ---

func TestRecommend_OK(t *testing.T) {
	f := newFixture(t, defaultGateway(), testCandidate(1), testCandidate(2))

	rec := doRequest(t, f.router, http.MethodPost, "/recommend", jobBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp RecommendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 2 || len(resp.Items) != 2 {
		t.Errorf("expected 2 items, got count=%d len=%d", resp.Count, len(resp.Items))
	}
	if resp.TopN != searchuc.DefaultTopN {
		t.Errorf("expected default top_n %d, got %d", searchuc.DefaultTopN, resp.TopN)
	}
	if resp.Items[0].Candidate == nil || resp.Items[0].Candidate.ID == 0 {
		t.Error("expected candidate payload in response items")
	}
}

func TestRecommend_InvalidBody(t *testing.T) {
	f := newFixture(t, defaultGateway())

	rec := doRequest(t, f.router, http.MethodPost, "/recommend", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "bad_request" {
		t.Errorf("expected bad_request, got %q", code)
	}
}

func TestRecommend_EmptyJob(t *testing.T) {
	f := newFixture(t, defaultGateway())

	rec := doRequest(t, f.router, http.MethodPost, "/recommend", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "validation_failed" {
		t.Errorf("expected validation_failed, got %q", code)
	}
}

func TestRecommend_TopNValidation(t *testing.T) {
	f := newFixture(t, defaultGateway(), testCandidate(1))

	for _, bad := range []string{"abc", "0", "-5", "501", "1.5"} {
		rec := doRequest(t, f.router, http.MethodPost, "/recommend?top_n="+bad, jobBody)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("top_n=%s: expected 400, got %d", bad, rec.Code)
		}
	}

	rec := doRequest(t, f.router, http.MethodPost, "/recommend?top_n=1", jobBody)
	if rec.Code != http.StatusOK {
		t.Errorf("top_n=1: expected 200, got %d", rec.Code)
	}
	var resp RecommendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TopN != 1 {
		t.Errorf("expected top_n echoed as 1, got %d", resp.TopN)
	}
}

func TestRecommend_GatewayTimeout(t *testing.T) {
	gw := defaultGateway()
	gw.jobErr = domain.ErrGatewayTimeout
	f := newFixture(t, gw, testCandidate(1))

	rec := doRequest(t, f.router, http.MethodPost, "/recommend", jobBody)
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "gateway_timeout" {
		t.Errorf("expected gateway_timeout, got %q", code)
	}
}

func TestRecommend_FeatureExtractionFailure(t *testing.T) {
	gw := defaultGateway()
	gw.jobErr = domain.ErrFeatureExtraction
	f := newFixture(t, gw, testCandidate(1))

	rec := doRequest(t, f.router, http.MethodPost, "/recommend", jobBody)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "feature_extraction_failed" {
		t.Errorf("expected feature_extraction_failed, got %q", code)
	}
}

func TestRecommend_EmbeddingFailure(t *testing.T) {
	gw := defaultGateway()
	gw.embedErr = domain.ErrEmbeddingFailed
	f := newFixture(t, gw, testCandidate(1))

	rec := doRequest(t, f.router, http.MethodPost, "/recommend", jobBody)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
	if code := errorCode(t, rec); code != "embedding_failed" {
		t.Errorf("expected embedding_failed, got %q", code)
	}
}

func TestRecommend_EmptyResultIsOK(t *testing.T) {
	f := newFixture(t, defaultGateway()) // empty corpus

	rec := doRequest(t, f.router, http.MethodPost, "/recommend", jobBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty result, got %d", rec.Code)
	}
	var resp RecommendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 0 || resp.Items == nil {
		t.Errorf("expected empty items list, got %+v", resp)
	}
}

func TestProcessCandidates_OK(t *testing.T) {
	f := newFixture(t, defaultGateway())
	raw := `[{"id": 1, "email": "a@example.com", "skills": ["go"]}, {"id": 2, "email": "b@example.com", "skills": ["go"]}]`
	if err := os.WriteFile(f.rawPath, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, f.router, http.MethodPost, "/process-candidates", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ProcessCandidatesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 2 || resp.Processed != 2 || resp.Dropped != 0 {
		t.Errorf("unexpected report: %+v", resp)
	}

	// Batch run republishes the serving corpus.
	if f.store.Get().Len() != 2 {
		t.Errorf("expected serving corpus swapped to 2 entries, got %d", f.store.Get().Len())
	}
}

func TestProcessCandidates_PartialFailure(t *testing.T) {
	gw := defaultGateway()
	f := newFixture(t, gw)
	raw := `[{"id": 1, "email": "a@example.com", "skills": ["go"]}, {"email": "noid@example.com", "skills": []}]`
	if err := os.WriteFile(f.rawPath, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(t, f.router, http.MethodPost, "/process-candidates", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ProcessCandidatesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Processed != 1 || resp.Dropped != 1 {
		t.Errorf("expected 1 processed / 1 dropped, got %+v", resp)
	}

	dropped := 0
	for _, item := range resp.Items {
		if item.Status == "dropped" {
			dropped++
			if item.Error == "" {
				t.Error("dropped item should carry an error message")
			}
		}
	}
	if dropped != 1 {
		t.Errorf("expected 1 dropped item, got %d", dropped)
	}
}

func TestProcessCandidates_MissingInput(t *testing.T) {
	f := newFixture(t, defaultGateway())

	rec := doRequest(t, f.router, http.MethodPost, "/process-candidates", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for missing raw snapshot, got %d", rec.Code)
	}
}

func TestHealth_OK(t *testing.T) {
	f := newFixture(t, defaultGateway(), testCandidate(1))

	rec := doRequest(t, f.router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
}

func TestHealth_Degraded(t *testing.T) {
	gw := defaultGateway()
	gw.healthErr = domain.ErrGatewayTimeout
	f := newFixture(t, gw, testCandidate(1))

	rec := doRequest(t, f.router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestMetrics_Exposed(t *testing.T) {
	f := newFixture(t, defaultGateway(), testCandidate(1))

	rec := doRequest(t, f.router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
