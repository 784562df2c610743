package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gcbaptista/go-recommendation-engine/model"
	"github.com/gcbaptista/go-recommendation-engine/services"
)

const maxRequestBodySize = 32 << 20 // 32 MB; embedding batches are large

// API holds dependencies for API handlers, primarily the corpus manager.
type API struct {
	corpus services.CorpusManager
}

// NewAPI creates a new API handler structure.
func NewAPI(corpus services.CorpusManager) *API {
	return &API{corpus: corpus}
}

// SetupRoutes defines all the API routes for the recommendation engine.
func SetupRoutes(router *gin.Engine, corpus services.CorpusManager) {
	apiHandler := NewAPI(corpus)

	router.Use(CORSMiddleware())
	router.Use(RequestSizeLimitMiddleware(maxRequestBodySize))

	// Health check route
	router.GET("/health", apiHandler.HealthCheckHandler)

	// Corpus lifecycle routes
	corpusRoutes := router.Group("/corpus")
	{
		corpusRoutes.PUT("/documents", apiHandler.AddDocumentsHandler)         // Add documents during population
		corpusRoutes.PUT("/terms", apiHandler.AddTermObservationsHandler)      // Add term observations during population
		corpusRoutes.POST("/_seal", apiHandler.SealHandler)                    // Transition to the query phase
		corpusRoutes.GET("/stats", apiHandler.GetStatsHandler)                 // Corpus snapshot
		corpusRoutes.POST("/_recommend_all", apiHandler.RecommendAllHandler)   // Recommendations for every document
	}

	// Per-document recommendation route
	router.GET("/documents/:documentId/recommendations", apiHandler.GetRecommendationsHandler)
}

// HealthCheckHandler reports liveness and the corpus phase.
func (api *API) HealthCheckHandler(c *gin.Context) {
	stats := api.corpus.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"phase":  stats.Phase,
	})
}

// GetStatsHandler returns the corpus snapshot.
func (api *API) GetStatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.corpus.Stats())
}

// AddDocumentsRequest is the payload for PUT /corpus/documents. A document
// without an id gets the canonical title-hash id assigned.
type AddDocumentsRequest struct {
	Documents []model.Document `json:"documents"`
}

// AddDocumentsHandler handles the request to add documents to the corpus.
func (api *API) AddDocumentsHandler(c *gin.Context) {
	var req AddDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid JSON payload: "+err.Error())
		return
	}
	if len(req.Documents) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "No documents provided")
		return
	}

	for i := range req.Documents {
		if req.Documents[i].ID == uuid.Nil {
			req.Documents[i].ID = model.DocumentID(req.Documents[i].Title)
		}
	}

	if err := api.corpus.AddDocuments(req.Documents); err != nil {
		SendEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"added": len(req.Documents)})
}

// AddTermObservationsRequest is the payload for PUT /corpus/terms.
type AddTermObservationsRequest struct {
	Observations []model.TermObservation `json:"observations"`
}

// AddTermObservationsHandler handles the request to record term observations.
func (api *API) AddTermObservationsHandler(c *gin.Context) {
	var req AddTermObservationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON, "Invalid JSON payload: "+err.Error())
		return
	}
	if len(req.Observations) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "No observations provided")
		return
	}

	if err := api.corpus.AddTermObservations(req.Observations); err != nil {
		SendEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recorded": len(req.Observations)})
}

// SealHandler transitions the corpus from the population phase to the query
// phase.
func (api *API) SealHandler(c *gin.Context) {
	if err := api.corpus.Seal(); err != nil {
		SendEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.corpus.Stats())
}

// GetRecommendationsHandler returns the ranked shortlist for one document.
// An optional "limit" query parameter overrides the configured result cap.
func (api *API) GetRecommendationsHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("documentId"))
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Invalid document id: "+err.Error())
		return
	}

	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	recommendations, err := api.corpus.Recommend(id, limit)
	if err != nil {
		SendEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source_id":       id,
		"recommendations": recommendations,
	})
}

// RecommendAllHandler returns the recommendation list for every document.
func (api *API) RecommendAllHandler(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	lists, err := api.corpus.RecommendAll(c.Request.Context(), limit)
	if err != nil {
		SendEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": lists})
}

// parseLimit reads the optional "limit" query parameter; 0 means "use the
// configured default". It writes the error response itself on bad input.
func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "limit must be a positive integer")
		return 0, false
	}
	return limit, true
}
