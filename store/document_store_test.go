package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	enginerrors "github.com/gcbaptista/go-recommendation-engine/internal/errors"
	"github.com/gcbaptista/go-recommendation-engine/model"
)

func testDoc(title string) model.Document {
	return model.Document{
		ID:        model.DocumentID(title),
		Title:     title,
		Tokens:    []string{"test"},
		Embedding: []float32{1, 0},
	}
}

func TestAddAndGet(t *testing.T) {
	ds := NewDocumentStore()
	doc := testDoc("Intro to React")

	if err := ds.Add(doc); err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}

	got, ok := ds.Get(doc.ID)
	if !ok {
		t.Fatal("Get() did not find stored document")
	}
	if got.Title != "Intro to React" {
		t.Errorf("Expected title 'Intro to React', got %q", got.Title)
	}
}

func TestAddDuplicateID(t *testing.T) {
	ds := NewDocumentStore()
	doc := testDoc("Intro to React")

	if err := ds.Add(doc); err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}

	err := ds.Add(doc)
	if err == nil {
		t.Fatal("Expected error adding duplicate document, got nil")
	}
	if !errors.Is(err, enginerrors.ErrDuplicateID) {
		t.Errorf("Expected ErrDuplicateID, got %v", err)
	}
	if ds.Len() != 1 {
		t.Errorf("Expected 1 document after rejected duplicate, got %d", ds.Len())
	}
}

func TestAddRejectsMalformedDocuments(t *testing.T) {
	ds := NewDocumentStore()

	err := ds.Add(model.Document{Title: "No ID"})
	if !errors.Is(err, enginerrors.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty id, got %v", err)
	}

	err = ds.Add(model.Document{ID: uuid.New()})
	if !errors.Is(err, enginerrors.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty title, got %v", err)
	}
}

func TestAllPreservesInsertionOrder(t *testing.T) {
	ds := NewDocumentStore()
	titles := []string{"First", "Second", "Third"}

	for _, title := range titles {
		if err := ds.Add(testDoc(title)); err != nil {
			t.Fatalf("Add(%q) returned error: %v", title, err)
		}
	}

	all := ds.All()
	if len(all) != len(titles) {
		t.Fatalf("Expected %d documents, got %d", len(titles), len(all))
	}
	for i, title := range titles {
		if all[i].Title != title {
			t.Errorf("Position %d: expected %q, got %q", i, title, all[i].Title)
		}
	}
}
