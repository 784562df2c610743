package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-recommendation-engine/index"
	"github.com/gcbaptista/go-recommendation-engine/model"
)

// RankedRecommendation is one entry in a document's recommendation list: the
// target document, its raw vector distance to the source, and the
// title-proximity score that drove the ranking. Immutable once produced.
type RankedRecommendation struct {
	SourceID            uuid.UUID `json:"source_id"`
	TargetID            uuid.UUID `json:"target_id"`
	TargetTitle         string    `json:"target_title"`
	VectorDistance      float64   `json:"vector_distance"`
	TitleProximityScore float64   `json:"title_proximity_score"`
}

// RecommendationList is the full output for one source document, handed to
// the presentation collaborator (console, JSON export, HTTP response).
type RecommendationList struct {
	SourceID        uuid.UUID              `json:"source_id"`
	SourceTitle     string                 `json:"source_title"`
	Recommendations []RankedRecommendation `json:"recommendations"`
}

// CorpusStats summarizes a corpus for health/stats endpoints.
type CorpusStats struct {
	Documents int    `json:"documents"`
	Terms     int    `json:"terms"`
	Dimension int    `json:"dimension"`
	Phase     string `json:"phase"`
}

// VectorIndex defines insertion and approximate k-NN query over embedding
// vectors.
type VectorIndex interface {
	Insert(id uuid.UUID, vector []float32) error
	KNNSearch(query []float32, k int) ([]index.Candidate, error)
	Len() int
}

// CorpusManager manages the two-phase corpus lifecycle: population
// (AddDocuments / AddTermObservations), the one-way Seal transition, and the
// query phase (Recommend / RecommendAll).
type CorpusManager interface {
	AddDocuments(docs []model.Document) error
	AddTermObservations(observations []model.TermObservation) error
	Seal() error
	Recommend(id uuid.UUID, maxResults int) ([]RankedRecommendation, error)
	RecommendAll(ctx context.Context, maxResults int) ([]RecommendationList, error)
	Stats() CorpusStats
}
