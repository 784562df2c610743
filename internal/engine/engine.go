// Package engine orchestrates the two-phase corpus lifecycle: population of
// the document store, the ANN index and the term weight index, the one-way
// seal transition, and the query-phase recommendation passes.
package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-recommendation-engine/config"
	"github.com/gcbaptista/go-recommendation-engine/index"
	"github.com/gcbaptista/go-recommendation-engine/internal/errors"
	"github.com/gcbaptista/go-recommendation-engine/internal/recommend"
	"github.com/gcbaptista/go-recommendation-engine/internal/termweight"
	"github.com/gcbaptista/go-recommendation-engine/internal/tokenizer"
	"github.com/gcbaptista/go-recommendation-engine/model"
	"github.com/gcbaptista/go-recommendation-engine/services"
	"github.com/gcbaptista/go-recommendation-engine/store"
)

// Phase is the corpus lifecycle state. A corpus starts populating, accepts
// writes until Seal, and is read-only afterwards. There is no way back:
// updating a sealed corpus means building a new Engine.
type Phase int

const (
	PhasePopulating Phase = iota
	PhaseQueryable
)

func (p Phase) String() string {
	switch p {
	case PhasePopulating:
		return "populating"
	case PhaseQueryable:
		return "queryable"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// Engine owns one corpus and implements services.CorpusManager.
type Engine struct {
	mu sync.RWMutex

	settings   config.Settings
	normalizer *tokenizer.Normalizer
	docs       *store.DocumentStore
	ann        *index.HNSW
	weights    *termweight.Index

	recommender *recommend.Service // built at seal time
	phase       Phase
}

// Compile time check to ensure Engine satisfies the CorpusManager interface.
var _ services.CorpusManager = (*Engine)(nil)

// NewEngine creates an empty corpus engine in the populating phase. Index
// options (distance function, randomness source) pass through to the ANN
// index.
func NewEngine(settings config.Settings, optFns ...func(o *index.Options)) (*Engine, error) {
	settings.ApplyDefaults()
	if conflicts := settings.Validate(); len(conflicts) > 0 {
		return nil, errors.NewValidationError("settings", strings.Join(conflicts, "; "))
	}

	return &Engine{
		settings:   settings,
		normalizer: tokenizer.NewNormalizer(settings.TokenSubstitutions),
		docs:       store.NewDocumentStore(),
		ann:        index.NewHNSW(settings, optFns...),
		weights:    termweight.NewIndex(),
		phase:      PhasePopulating,
	}, nil
}

// Normalizer returns the corpus title normalizer, shared with the ingestion
// collaborator so every title is tokenized identically.
func (e *Engine) Normalizer() *tokenizer.Normalizer {
	return e.normalizer
}

// AddDocuments inserts a batch of documents into the store and the ANN
// index. The first failure aborts the batch: a dimension mismatch or a
// duplicate id signals an upstream contract violation, not something to skip
// over.
func (e *Engine) AddDocuments(docs []model.Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePopulating {
		return errors.NewAlreadySealedError("AddDocuments")
	}

	for _, doc := range docs {
		if doc.ID == uuid.Nil {
			return errors.NewValidationError("id", fmt.Sprintf("document %q has an empty id", doc.Title))
		}
		if doc.Title == "" {
			return errors.NewValidationError("title", fmt.Sprintf("document %s has an empty title", doc.ID))
		}

		if err := e.ann.Insert(doc.ID, doc.Embedding); err != nil {
			return fmt.Errorf("failed to index vector for %q: %w", doc.Title, err)
		}
		if err := e.docs.Add(doc); err != nil {
			return fmt.Errorf("failed to store document %q: %w", doc.Title, err)
		}
	}

	log.Printf("Added %d documents (corpus size now %d)", len(docs), e.docs.Len())
	return nil
}

// AddTermObservations records a batch of per-document term-frequency scores.
func (e *Engine) AddTermObservations(observations []model.TermObservation) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePopulating {
		return errors.NewAlreadySealedError("AddTermObservations")
	}

	for _, obs := range observations {
		if strings.TrimSpace(obs.Term) == "" {
			return errors.NewValidationError("term", fmt.Sprintf("empty term for document %s", obs.DocumentID))
		}
		if err := e.weights.Record(obs.Term, obs.Score); err != nil {
			return err
		}
	}

	return nil
}

// Seal transitions the corpus from populating to queryable and wires up the
// recommendation service. Sealing twice is an error.
func (e *Engine) Seal() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePopulating {
		return errors.NewAlreadySealedError("Seal")
	}

	if err := e.weights.Seal(); err != nil {
		return err
	}

	recommender, err := recommend.NewService(e.ann, e.weights, e.docs, e.normalizer)
	if err != nil {
		return err
	}

	e.recommender = recommender
	e.phase = PhaseQueryable

	log.Printf("Corpus sealed: %d documents, %d terms, dimension %d", e.docs.Len(), e.weights.TermCount(), e.ann.Dimension())
	return nil
}

// Recommend returns the ranked shortlist for one document id. A maxResults
// of 0 or below falls back to the configured default.
func (e *Engine) Recommend(id uuid.UUID, maxResults int) ([]services.RankedRecommendation, error) {
	recommender, err := e.queryableRecommender("Recommend")
	if err != nil {
		return nil, err
	}

	doc, ok := e.docs.Get(id)
	if !ok {
		return nil, errors.NewDocumentNotFoundError(id)
	}

	if maxResults <= 0 {
		maxResults = e.settings.MaxResults
	}
	return recommender.Recommend(doc, maxResults)
}

// RecommendAll produces the recommendation list for every document in the
// corpus, in insertion order.
func (e *Engine) RecommendAll(ctx context.Context, maxResults int) ([]services.RecommendationList, error) {
	recommender, err := e.queryableRecommender("RecommendAll")
	if err != nil {
		return nil, err
	}

	if maxResults <= 0 {
		maxResults = e.settings.MaxResults
	}
	return recommender.RecommendAll(ctx, maxResults)
}

// Stats returns a snapshot of the corpus.
func (e *Engine) Stats() services.CorpusStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return services.CorpusStats{
		Documents: e.docs.Len(),
		Terms:     e.weights.TermCount(),
		Dimension: e.ann.Dimension(),
		Phase:     e.phase.String(),
	}
}

func (e *Engine) queryableRecommender(operation string) (*recommend.Service, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.phase != PhaseQueryable {
		return nil, errors.NewNotSealedError(operation)
	}
	return e.recommender, nil
}
