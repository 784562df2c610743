package termweight

import (
	"errors"
	"math"
	"testing"

	enginerrors "github.com/gcbaptista/go-recommendation-engine/internal/errors"
)

func record(t *testing.T, idx *Index, term string, score float64) {
	t.Helper()
	if err := idx.Record(term, score); err != nil {
		t.Fatalf("Record(%q, %v) returned error: %v", term, score, err)
	}
}

func TestAverageWeight(t *testing.T) {
	idx := NewIndex()

	record(t, idx, "react", 0.2)
	record(t, idx, "react", 0.4)
	record(t, idx, "react", 0.6)

	if got := idx.AverageWeight("react"); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("AverageWeight(\"react\") = %v, want 0.4", got)
	}
}

func TestAverageWeightCaseInsensitive(t *testing.T) {
	idx := NewIndex()

	record(t, idx, "React", 0.3)
	record(t, idx, "REACT", 0.5)

	if got := idx.AverageWeight("react"); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("AverageWeight(\"react\") = %v, want 0.4", got)
	}
	if got := idx.AverageWeight("ReAcT"); math.Abs(got-0.4) > 1e-12 {
		t.Errorf("AverageWeight(\"ReAcT\") = %v, want 0.4", got)
	}
}

func TestUnseenTermIsZero(t *testing.T) {
	idx := NewIndex()
	record(t, idx, "react", 0.9)

	if got := idx.AverageWeight("vue"); got != 0 {
		t.Errorf("AverageWeight(\"vue\") = %v, want 0 for unseen term", got)
	}
}

func TestNegativeScoresAverage(t *testing.T) {
	idx := NewIndex()

	record(t, idx, "the", -0.2)
	record(t, idx, "the", -0.4)

	// The index reports the true mean; non-positive suppression is the
	// recommendation layer's concern.
	if got := idx.AverageWeight("the"); math.Abs(got-(-0.3)) > 1e-12 {
		t.Errorf("AverageWeight(\"the\") = %v, want -0.3", got)
	}
}

func TestRecordAfterSeal(t *testing.T) {
	idx := NewIndex()
	record(t, idx, "react", 0.9)

	if err := idx.Seal(); err != nil {
		t.Fatalf("Seal() returned error: %v", err)
	}

	err := idx.Record("react", 0.1)
	if err == nil {
		t.Fatal("Expected error recording after seal, got nil")
	}
	if !errors.Is(err, enginerrors.ErrAlreadySealed) {
		t.Errorf("Expected ErrAlreadySealed, got %v", err)
	}

	// The rejected write must not have changed the average.
	if got := idx.AverageWeight("react"); math.Abs(got-0.9) > 1e-12 {
		t.Errorf("AverageWeight(\"react\") = %v after rejected write, want 0.9", got)
	}
}

func TestDoubleSeal(t *testing.T) {
	idx := NewIndex()

	if err := idx.Seal(); err != nil {
		t.Fatalf("First Seal() returned error: %v", err)
	}
	if err := idx.Seal(); !errors.Is(err, enginerrors.ErrAlreadySealed) {
		t.Errorf("Expected ErrAlreadySealed from second Seal(), got %v", err)
	}
}

func TestTermCount(t *testing.T) {
	idx := NewIndex()

	record(t, idx, "react", 0.1)
	record(t, idx, "React", 0.2)
	record(t, idx, "hooks", 0.3)

	if got := idx.TermCount(); got != 2 {
		t.Errorf("TermCount() = %d, want 2", got)
	}
}
