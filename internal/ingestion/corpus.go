package ingestion

import (
	"fmt"

	"github.com/gcbaptista/go-recommendation-engine/internal/tokenizer"
	"github.com/gcbaptista/go-recommendation-engine/model"
)

// Embedder produces fixed-dimension embedding vectors for document content.
// Training and running the embedding model is an external concern; the
// builder only consumes its output.
type Embedder interface {
	Embed(text string) ([]float32, error)
}

// LexicalScorer computes per-term frequency scores for one document's title
// tokens, e.g. TF-IDF style scores from an external lexical model.
type LexicalScorer interface {
	Score(tokens []string) (map[string]float64, error)
}

// CorpusBuilder turns raw articles into the finalized corpus inputs:
// documents with ids, normalized title tokens and embeddings, plus the term
// observations feeding the term weight index.
type CorpusBuilder struct {
	normalizer *tokenizer.Normalizer
	embedder   Embedder
	scorer     LexicalScorer
}

// NewCorpusBuilder wires a builder to the corpus normalizer and the external
// embedding and lexical-scoring collaborators.
func NewCorpusBuilder(normalizer *tokenizer.Normalizer, embedder Embedder, scorer LexicalScorer) (*CorpusBuilder, error) {
	if normalizer == nil || embedder == nil || scorer == nil {
		return nil, fmt.Errorf("corpus builder requires non-nil normalizer, embedder and scorer")
	}
	return &CorpusBuilder{normalizer: normalizer, embedder: embedder, scorer: scorer}, nil
}

// Build assembles documents and term observations from fetched articles.
// Articles with empty titles are rejected: the engine's contract requires a
// fully-validated corpus.
func (b *CorpusBuilder) Build(articles []Article) ([]model.Document, []model.TermObservation, error) {
	docs := make([]model.Document, 0, len(articles))
	var observations []model.TermObservation

	for _, article := range articles {
		if article.Title == "" {
			return nil, nil, fmt.Errorf("article at %q has an empty title", article.URL)
		}

		embedding, err := b.embedder.Embed(article.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to embed %q: %w", article.Title, err)
		}

		tokens := b.normalizer.Tokenize(article.Title)
		doc := model.Document{
			ID:        model.DocumentID(article.Title),
			Title:     article.Title,
			Tokens:    tokens,
			Embedding: embedding,
		}
		docs = append(docs, doc)

		scores, err := b.scorer.Score(tokens)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to score terms of %q: %w", article.Title, err)
		}
		for term, score := range scores {
			observations = append(observations, model.TermObservation{
				DocumentID: doc.ID,
				Term:       term,
				Score:      score,
			})
		}
	}

	return docs, observations, nil
}
