package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/gcbaptista/go-recommendation-engine/internal/errors"
	"github.com/gcbaptista/go-recommendation-engine/model"
)

// DocumentStore holds the finalized in-memory corpus and resolves document
// ids in O(1), so ANN results never need a linear scan to map back to their
// source document. Insertion order is preserved for deterministic corpus
// iteration.
type DocumentStore struct {
	mu    sync.RWMutex
	docs  map[uuid.UUID]model.Document
	order []uuid.UUID
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[uuid.UUID]model.Document),
	}
}

// Add stores one document. Empty ids and empty titles are rejected as a
// cheap guard against malformed upstream input; duplicate ids are rejected
// rather than overwritten, so upstream id collisions surface instead of
// silently masking one of the documents.
func (ds *DocumentStore) Add(doc model.Document) error {
	if doc.ID == uuid.Nil {
		return errors.NewValidationError("id", "document id cannot be empty")
	}
	if doc.Title == "" {
		return errors.NewValidationError("title", "document title cannot be empty")
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	if _, exists := ds.docs[doc.ID]; exists {
		return errors.NewDuplicateIDError(doc.ID)
	}

	ds.docs[doc.ID] = doc
	ds.order = append(ds.order, doc.ID)
	return nil
}

// Get returns the document stored under an id.
func (ds *DocumentStore) Get(id uuid.UUID) (model.Document, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	doc, ok := ds.docs[id]
	return doc, ok
}

// All returns every document in insertion order.
func (ds *DocumentStore) All() []model.Document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	docs := make([]model.Document, 0, len(ds.order))
	for _, id := range ds.order {
		docs = append(docs, ds.docs[id])
	}
	return docs
}

// Len returns the number of stored documents.
func (ds *DocumentStore) Len() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return len(ds.docs)
}
