// Package recommend implements the hybrid similarity ranking: raw
// embedding-space neighbors from the ANN index, re-ranked by shared
// title-vocabulary salience from the term weight index.
package recommend

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-recommendation-engine/internal/termweight"
	"github.com/gcbaptista/go-recommendation-engine/internal/tokenizer"
	"github.com/gcbaptista/go-recommendation-engine/model"
	"github.com/gcbaptista/go-recommendation-engine/services"
	"github.com/gcbaptista/go-recommendation-engine/store"
)

// Service ranks, for a given document, the most relevant other documents in
// the corpus. Relevance blends embedding proximity with title-vocabulary
// overlap: candidates are ordered by title-proximity score descending, ties
// broken by vector distance ascending.
type Service struct {
	ann        services.VectorIndex
	weights    *termweight.Index
	docs       *store.DocumentStore
	normalizer *tokenizer.Normalizer
}

// NewService creates a recommendation service over fully-populated indexes.
func NewService(ann services.VectorIndex, weights *termweight.Index, docs *store.DocumentStore, normalizer *tokenizer.Normalizer) (*Service, error) {
	if ann == nil || weights == nil || docs == nil || normalizer == nil {
		return nil, fmt.Errorf("recommend service requires non-nil index, weights, store and normalizer")
	}
	return &Service{
		ann:        ann,
		weights:    weights,
		docs:       docs,
		normalizer: normalizer,
	}, nil
}

// Recommend produces the ordered recommendation shortlist for one document.
//
// The ANN index is queried for the whole corpus so the re-ranking sees a
// complete candidate pool; the document itself is discarded from the results
// (its own vector is always its nearest point). A shared title token
// contributes its corpus-wide average weight to the proximity score unless
// that weight is non-positive, in which case it contributes exactly 0:
// punctuation-like tokens the lexical model scores at or below zero must not
// drag the score down.
func (s *Service) Recommend(doc model.Document, maxResults int) ([]services.RankedRecommendation, error) {
	pool, err := s.ann.KNNSearch(doc.Embedding, s.ann.Len())
	if err != nil {
		return nil, fmt.Errorf("failed to query ANN index: %w", err)
	}

	sourceTokens := s.tokenSet(doc)

	ranked := make([]services.RankedRecommendation, 0, len(pool))
	for _, candidate := range pool {
		if candidate.ID == doc.ID {
			continue
		}

		target, ok := s.docs.Get(candidate.ID)
		if !ok {
			// Indexed vector without a stored document indicates a population
			// bug upstream; skip rather than fabricate a result.
			continue
		}

		ranked = append(ranked, services.RankedRecommendation{
			SourceID:            doc.ID,
			TargetID:            target.ID,
			TargetTitle:         target.Title,
			VectorDistance:      float64(candidate.Distance),
			TitleProximityScore: s.titleProximity(sourceTokens, target),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TitleProximityScore != ranked[j].TitleProximityScore {
			return ranked[i].TitleProximityScore > ranked[j].TitleProximityScore
		}
		return ranked[i].VectorDistance < ranked[j].VectorDistance
	})

	if maxResults > 0 && len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	return ranked, nil
}

// RecommendAll runs Recommend for every stored document. The per-document
// passes share no mutable state, so they run in parallel, bounded by the
// number of CPUs.
func (s *Service) RecommendAll(ctx context.Context, maxResults int) ([]services.RecommendationList, error) {
	docs := s.docs.All()
	lists := make([]services.RecommendationList, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			recommendations, err := s.Recommend(doc, maxResults)
			if err != nil {
				return fmt.Errorf("failed to recommend for %q: %w", doc.Title, err)
			}

			lists[i] = services.RecommendationList{
				SourceID:        doc.ID,
				SourceTitle:     doc.Title,
				Recommendations: recommendations,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lists, nil
}

// titleProximity sums the average weights of the title tokens shared between
// the source token set and the target document, skipping non-positive
// weights. The shared tokens are summed in sorted order so that float
// accumulation is deterministic and repeated calls produce identical scores.
func (s *Service) titleProximity(sourceTokens map[string]struct{}, target model.Document) float64 {
	shared := make([]string, 0, len(sourceTokens))
	for token := range s.tokenSet(target) {
		if _, ok := sourceTokens[token]; ok {
			shared = append(shared, token)
		}
	}
	sort.Strings(shared)

	var score float64
	for _, token := range shared {
		if weight := s.weights.AverageWeight(token); weight > 0 {
			score += weight
		}
	}
	return score
}

// tokenSet returns the unique, case-insensitive title tokens of a document,
// preferring the tokens supplied at ingestion and falling back to tokenizing
// the title with the corpus normalizer.
func (s *Service) tokenSet(doc model.Document) map[string]struct{} {
	if len(doc.Tokens) == 0 {
		return s.normalizer.TokenSet(doc.Title)
	}

	set := make(map[string]struct{}, len(doc.Tokens))
	for _, token := range doc.Tokens {
		set[strings.ToLower(token)] = struct{}{}
	}
	return set
}
