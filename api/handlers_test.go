package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-recommendation-engine/config"
	"github.com/gcbaptista/go-recommendation-engine/index"
	"github.com/gcbaptista/go-recommendation-engine/internal/engine"
	"github.com/gcbaptista/go-recommendation-engine/model"
)

func setupRouter(t *testing.T) (*gin.Engine, *engine.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	eng, err := engine.NewEngine(config.Settings{}, func(o *index.Options) {
		o.Rand = rand.New(rand.NewSource(1))
	})
	require.NoError(t, err)

	router := gin.New()
	SetupRoutes(router, eng)
	return router, eng
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func corpusPayload() AddDocumentsRequest {
	titles := []struct {
		title  string
		vector []float32
	}{
		{"Intro to React", []float32{1, 0, 0}},
		{"React Hooks Guide", []float32{0.9, 0.1, 0}},
		{"Cooking Pasta", []float32{0, 1, 0}},
		{"Advanced React Patterns", []float32{0.8, 0.2, 0}},
	}

	req := AddDocumentsRequest{}
	for _, entry := range titles {
		req.Documents = append(req.Documents, model.Document{
			Title:     entry.title,
			Embedding: entry.vector,
		})
	}
	return req
}

func termsPayload() AddTermObservationsRequest {
	terms := map[string]float64{
		"react": 0.9, "hooks": 0.1, "intro": 0.05, "guide": 0.02,
		"advanced": 0.03, "patterns": 0.04, "cooking": 0, "pasta": 0,
	}

	req := AddTermObservationsRequest{}
	for term, score := range terms {
		req.Observations = append(req.Observations, model.TermObservation{
			DocumentID: model.DocumentID("Intro to React"),
			Term:       term,
			Score:      score,
		})
	}
	return req
}

func populateAndSeal(t *testing.T, router *gin.Engine) {
	t.Helper()

	w := doJSON(router, http.MethodPut, "/corpus/documents", corpusPayload())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPut, "/corpus/terms", termsPayload())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(router, http.MethodPost, "/corpus/_seal", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "populating", body["phase"])
}

func TestCorpusLifecycleOverHTTP(t *testing.T) {
	router, _ := setupRouter(t)
	populateAndSeal(t, router)

	w := doJSON(router, http.MethodGet, "/corpus/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, "queryable", stats["phase"])
	assert.Equal(t, float64(4), stats["documents"])
}

func TestGetRecommendations(t *testing.T) {
	router, _ := setupRouter(t)
	populateAndSeal(t, router)

	id := model.DocumentID("Intro to React")
	w := doJSON(router, http.MethodGet, fmt.Sprintf("/documents/%s/recommendations", id), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Recommendations []struct {
			TargetTitle         string  `json:"target_title"`
			TitleProximityScore float64 `json:"title_proximity_score"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Recommendations, 3)
	assert.Equal(t, "React Hooks Guide", body.Recommendations[0].TargetTitle)
	assert.Equal(t, 0.9, body.Recommendations[0].TitleProximityScore)
}

func TestGetRecommendationsLimit(t *testing.T) {
	router, _ := setupRouter(t)
	populateAndSeal(t, router)

	id := model.DocumentID("Intro to React")
	w := doJSON(router, http.MethodGet, fmt.Sprintf("/documents/%s/recommendations?limit=1", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Recommendations []json.RawMessage `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Recommendations, 1)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/documents/%s/recommendations?limit=nope", id), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRecommendationsUnknownDocument(t *testing.T) {
	router, _ := setupRouter(t)
	populateAndSeal(t, router)

	w := doJSON(router, http.MethodGet, "/documents/6ba7b810-9dad-11d1-80b4-00c04fd430c8/recommendations", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodGet, "/documents/not-a-uuid/recommendations", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendBeforeSealConflicts(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPut, "/corpus/documents", corpusPayload())
	require.Equal(t, http.StatusOK, w.Code)

	id := model.DocumentID("Intro to React")
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/documents/%s/recommendations", id), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, ErrorCodeCorpusNotSealed, apiErr.Code)
}

func TestAddDocumentsAfterSealConflicts(t *testing.T) {
	router, _ := setupRouter(t)
	populateAndSeal(t, router)

	w := doJSON(router, http.MethodPut, "/corpus/documents", corpusPayload())
	assert.Equal(t, http.StatusConflict, w.Code)

	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, ErrorCodeCorpusSealed, apiErr.Code)
}

func TestRecommendAllEndpoint(t *testing.T) {
	router, _ := setupRouter(t)
	populateAndSeal(t, router)

	w := doJSON(router, http.MethodPost, "/corpus/_recommend_all", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Results []struct {
			SourceTitle     string            `json:"source_title"`
			Recommendations []json.RawMessage `json:"recommendations"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 4)
	assert.Equal(t, "Intro to React", body.Results[0].SourceTitle)
	for _, result := range body.Results {
		assert.Len(t, result.Recommendations, 3)
	}
}

func TestAddDocumentsValidation(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPut, "/corpus/documents", AddDocumentsRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPut, "/corpus/documents", AddDocumentsRequest{
		Documents: []model.Document{{Embedding: []float32{1, 0}}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
