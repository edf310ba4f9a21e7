package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/triagekit/core"
	"github.com/rushteam/triagekit/feature"
	"github.com/rushteam/triagekit/model"
	"github.com/rushteam/triagekit/pipeline"
	"github.com/rushteam/triagekit/rank"
	"github.com/rushteam/triagekit/rerank"
	"github.com/rushteam/triagekit/result"
	"github.com/rushteam/triagekit/scorer"
	"github.com/rushteam/triagekit/triage"
	"github.com/rushteam/triagekit/vocab"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat := vocab.ClassifierDefault()
	p := &pipeline.Pipeline{Nodes: []pipeline.Node{
		&feature.EncodeNode{Encoder: feature.NewEncoder(cat, feature.WithRequireVitals(true))},
		&rank.ScoreNode{Catalog: cat, Scorer: scorer.NewClassifierScorer(cat, model.SoftmaxFromProfiles(cat, model.DefaultProfileWeights))},
		rerank.NewConsultationNode(),
	}}
	engine, err := triage.NewEngine(cat, p)
	require.NoError(t, err)
	return New(engine, zerolog.Nop())
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestSymptoms(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/symptoms", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out result.Symptoms
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, vocab.ClassifierDefault().SymptomList(), out.Symptoms)
}

func TestPredict(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/predict",
		`{"symptoms":["nausea","vomiting","diarrhea"],"vitalSigns":[37.0,80,120,80,16]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out result.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Predictions, 10)
	assert.Equal(t, "Gastroenteritis", out.Predictions[0].Name)
	for i := 1; i < len(out.Predictions); i++ {
		assert.GreaterOrEqual(t, out.Predictions[i-1].Probability, out.Predictions[i].Probability)
	}
}

func TestPredict_MissingVitalsIs400(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/predict", `{"symptoms":["headache"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "vital signs are required")

	rec = do(t, s, http.MethodPost, "/predict", `{"symptoms":["headache"],"vitalSigns":{"heartRate":80}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "missing vital sign")
}

func TestPredict_MalformedInput(t *testing.T) {
	s := newTestServer(t)
	for _, body := range []string{`[1,2]`, `{"vitalSigns":"high"}`, `{`} {
		rec := do(t, s, http.MethodPost, "/predict", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)

		var out result.Error
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		assert.NotEmpty(t, out.Error)
	}
}

func TestPredict_EncodingErrorIs500(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/predict", `{"symptoms":["cough"],"vitalSigns":[37,80]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestPredictBatch(t *testing.T) {
	s := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/predict/batch", `{"requests":[
		{"symptoms":["nausea","vomiting","diarrhea"],"vitalSigns":[37.0,80,120,80,16]},
		{"symptoms":["headache","nausea","dizziness"],"vitalSigns":{"bodyTemperature":37,"heartRate":80,"systolic":120,"diastolic":80,"respiratoryRate":16}}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out BatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Results, 2)
	assert.Equal(t, "Gastroenteritis", out.Results[0].Predictions[0].Name)
	assert.Equal(t, "Migraine", out.Results[1].Predictions[0].Name)
}

func TestPredictBatch_Malformed(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodPost, "/predict/batch", `{"requests":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(core.NewMalformedInput(nil, "bad")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(core.NewInferenceError(nil, "bad")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(core.NewEncodingError("bad")))
	assert.Equal(t, http.StatusBadRequest, StatusOf(fmt.Errorf("request 0: %w", core.NewMissingVitalsError("bad"))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, StatusOf(echo.ErrStatusRequestEntityTooLarge))
}
