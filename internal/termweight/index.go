// Package termweight aggregates noisy per-document term-frequency scores
// into a single corpus-wide salience value per term: the arithmetic mean of
// every observation recorded for that term.
package termweight

import (
	"strings"
	"sync"

	"github.com/gcbaptista/go-recommendation-engine/internal/errors"
)

// Index accumulates term observations during population and serves average
// weights afterwards. Terms are case-insensitive. Repeated observations for
// the same term across documents are expected; averaging them is the point.
type Index struct {
	mu     sync.RWMutex
	sums   map[string]float64
	counts map[string]int
	sealed bool
}

// NewIndex creates an empty term weight index.
func NewIndex() *Index {
	return &Index{
		sums:   make(map[string]float64),
		counts: make(map[string]int),
	}
}

// Record appends one frequency observation for a term. It returns
// ErrAlreadySealed once the index has transitioned to the query phase.
func (idx *Index) Record(term string, score float64) error {
	key := strings.ToLower(term)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.sealed {
		return errors.NewAlreadySealedError("Record")
	}

	idx.sums[key] += score
	idx.counts[key]++
	return nil
}

// Seal transitions the index from populating to queryable. Sealing twice is
// an error; there is no way back to the population phase.
func (idx *Index) Seal() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.sealed {
		return errors.NewAlreadySealedError("Seal")
	}

	idx.sealed = true
	return nil
}

// AverageWeight returns the arithmetic mean of all recorded scores for a
// term, case-insensitively. Unseen terms resolve to 0, never an error:
// punctuation-only tokens and stop-words routinely have no observations.
func (idx *Index) AverageWeight(term string) float64 {
	key := strings.ToLower(term)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	count := idx.counts[key]
	if count == 0 {
		return 0
	}
	return idx.sums[key] / float64(count)
}

// TermCount returns the number of distinct terms observed.
func (idx *Index) TermCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.counts)
}
