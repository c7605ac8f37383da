package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-analyzer/internal/classifier"
	"github.com/jonathan/cv-analyzer/internal/features"
	"github.com/jonathan/cv-analyzer/internal/matching"
	"github.com/jonathan/cv-analyzer/internal/types"
)

type stubMatcher struct {
	result *types.MatchResult
	err    error
}

func (m *stubMatcher) Score(_ context.Context, _, _ string) (*types.MatchResult, error) {
	return m.result, m.err
}

type stubPredictor struct {
	prediction *types.PredictionResult
	fit        *types.JobFitResult
	err        error
}

func (p *stubPredictor) Predict(_ context.Context, _ string) (*types.PredictionResult, error) {
	return p.prediction, p.err
}

func (p *stubPredictor) ScoreForJob(_ context.Context, _, _, _ string) (*types.JobFitResult, error) {
	return p.fit, p.err
}

func (p *stubPredictor) Classes() []string { return []string{"ENGINEERING", "SALES"} }

func newTestServer(matcher Matcher, predictor Predictor) *Server {
	return New(Config{
		Addr:      ":0",
		Analyzer:  features.New(nil),
		Matcher:   matcher,
		Predictor: predictor,
	})
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&stubMatcher{}, &stubPredictor{})

	rec := doJSON(t, s.Handler(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleAnalyze(t *testing.T) {
	s := newTestServer(&stubMatcher{}, &stubPredictor{})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/analyze",
		`{"text": "Senior developer with python and docker. 5 years of experience."}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Analysis.Skills["programming_languages"], "python")
	assert.Equal(t, 5, resp.Analysis.Experience.YearsOfExperience)
	assert.Greater(t, resp.QualityScore, 0.0)
}

func TestHandleAnalyze_BadRequest(t *testing.T) {
	s := newTestServer(&stubMatcher{}, &stubPredictor{})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/analyze", `{"text": ""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s.Handler(), http.MethodPost, "/analyze", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMatch(t *testing.T) {
	matcher := &stubMatcher{result: &types.MatchResult{OverallScore: 72.5}}
	s := newTestServer(matcher, &stubPredictor{})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/match",
		`{"cv_text": "cv", "job_text": "job"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "72.5")
}

func TestHandleMatch_MissingFields(t *testing.T) {
	s := newTestServer(&stubMatcher{}, &stubPredictor{})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/match", `{"cv_text": "cv"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMatch_ModelUnavailable(t *testing.T) {
	matcher := &stubMatcher{err: matching.ErrModelNotInitialized}
	s := newTestServer(matcher, &stubPredictor{})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/match",
		`{"cv_text": "cv", "job_text": "job"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlePredict(t *testing.T) {
	predictor := &stubPredictor{
		prediction: &types.PredictionResult{
			PredictedCategory: "ENGINEERING",
			Confidence:        0.91,
			AllProbabilities:  []float64{0.91, 0.09},
		},
	}
	s := newTestServer(&stubMatcher{}, predictor)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/predict", `{"text": "python dev"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp predictResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ENGINEERING", resp.PredictedCategory)
	assert.Equal(t, []string{"ENGINEERING", "SALES"}, resp.Classes)
}

func TestHandlePredict_NotTrained(t *testing.T) {
	predictor := &stubPredictor{err: classifier.ErrModelNotTrained}
	s := newTestServer(&stubMatcher{}, predictor)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/predict", `{"text": "cv"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not trained")
}

func TestHandleScoreJob(t *testing.T) {
	predictor := &stubPredictor{
		fit: &types.JobFitResult{
			OverallScore:      88.0,
			PredictedCategory: "ENGINEERING",
			Confidence:        0.9,
			Recommendation:    "excellent",
		},
	}
	s := newTestServer(&stubMatcher{}, predictor)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/score-job",
		`{"cv_text": "cv", "job_description": "job", "target_category": "ENGINEERING"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "excellent")
}

func TestHandleScoreJob_MissingFields(t *testing.T) {
	s := newTestServer(&stubMatcher{}, &stubPredictor{})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/score-job", `{"cv_text": "cv"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&stubMatcher{}, &stubPredictor{})

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
