package model

import "github.com/google/uuid"

// Document is one fully-ingested corpus entry: a stable 128-bit identifier,
// the original title, the normalized title tokens, and the embedding vector
// produced by the external embedding pipeline. Documents are created once
// during ingestion and are immutable afterwards.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Tokens    []string  `json:"tokens"`
	Embedding []float32 `json:"embedding"`
}

// TermObservation is a single per-document frequency score for one term,
// supplied by the external lexical-scoring pipeline. A document usually
// contributes one observation per unique title term.
type TermObservation struct {
	DocumentID uuid.UUID `json:"document_id"`
	Term       string    `json:"term"`
	Score      float64   `json:"score"`
}

// DocumentID derives the stable identifier for a title. The identifier is a
// 128-bit name-based UUID over the title, so re-ingesting the same title
// always yields the same document id.
func DocumentID(title string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(title))
}
