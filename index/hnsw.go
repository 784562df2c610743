// Package index implements the approximate-nearest-neighbor index used by the
// recommendation engine: a multi-layer navigable small-world graph over
// fixed-dimension embedding vectors, supporting incremental insertion and
// k-nearest-neighbor queries under a caller-supplied distance function.
package index

import (
	"container/heap"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bits-and-blooms/bitset"
	"github.com/gcbaptista/go-recommendation-engine/config"
	"github.com/gcbaptista/go-recommendation-engine/internal/errors"
	"github.com/gcbaptista/go-recommendation-engine/internal/metric"
)

// Candidate is a single k-NN result: the external document id and its
// distance to the query vector.
type Candidate struct {
	ID       uuid.UUID `json:"id"`
	Distance float32   `json:"distance"`
}

// node is one graph member: its vector, its top layer, and per-layer
// adjacency lists of internal node ids. A node present at layer l is present
// at every layer below l.
type node struct {
	id          uuid.UUID
	vector      []float32
	layer       int
	connections [][]uint32
}

// Options configures the parts of the index that are not corpus settings:
// the distance function and the randomness source for layer assignment.
type Options struct {
	// DistanceFunc is the metric used to compare vectors. Defaults to cosine
	// distance, which suits the normalized embeddings the engine works with.
	DistanceFunc metric.Func

	// Rand is the source used to draw each node's top layer. Tests inject a
	// seeded source to pin graph topology; production uses a time-seeded one.
	Rand *rand.Rand
}

// HNSW is a hierarchical navigable small-world graph.
//
// Writes (Insert) are serialized by a mutex; once population is finished the
// graph is read-only by contract and concurrent KNNSearch calls are safe.
// There is no delete or update: changing a vector means rebuilding the index.
//
// Degree policy: each node keeps at most MaxNeighbors connections per layer,
// double that at layer 0. When an adjacency list overflows, the closest
// connections are kept (simple keep-closest pruning).
type HNSW struct {
	mu sync.RWMutex

	dimension      int
	mmax           int     // max connections per node per layer
	mmax0          int     // max connections at layer 0
	ml             float64 // normalization factor for layer generation: 1/ln(M)
	efConstruction int
	efSearch       int

	ep       uint32 // entry point: node with the current highest top layer
	maxLayer int

	nodes []*node
	ids   map[uuid.UUID]uint32 // external id -> internal node id

	distance metric.Func
	rng      *rand.Rand
}

// NewHNSW creates an empty index from the given settings. A zero
// settings.Dimension makes the index adopt the dimension of the first
// inserted vector.
func NewHNSW(settings config.Settings, optFns ...func(o *Options)) *HNSW {
	opts := Options{
		DistanceFunc: metric.CosineDistance,
		Rand:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	m := settings.MaxNeighbors
	if m < 2 {
		// m == 1 would make ml a division by zero
		m = 2
	}

	return &HNSW{
		dimension:      settings.Dimension,
		mmax:           m,
		mmax0:          2 * m,
		ml:             1 / math.Log(float64(m)),
		efConstruction: settings.EfConstruction,
		efSearch:       settings.EfSearch,
		ids:            make(map[uuid.UUID]uint32),
		distance:       opts.DistanceFunc,
		rng:            opts.Rand,
	}
}

// Len returns the number of indexed vectors.
func (h *HNSW) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.nodes)
}

// Dimension returns the established vector dimension, 0 if none yet.
func (h *HNSW) Dimension() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dimension
}

// Insert adds one vector under an external id. It returns a
// DimensionMismatchError if the vector length differs from the established
// dimension and a DuplicateIDError if the id is already present. A failed
// insert leaves the graph untouched.
func (h *HNSW) Insert(id uuid.UUID, vector []float32) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.dimension == 0 && len(h.nodes) == 0 {
		h.dimension = len(vector)
	}
	if len(vector) != h.dimension {
		return errors.NewDimensionMismatchError(h.dimension, len(vector))
	}
	if _, exists := h.ids[id]; exists {
		return errors.NewDuplicateIDError(id)
	}

	// Copy so later caller-side mutation cannot reach into the graph.
	vectorCopy := make([]float32, len(vector))
	copy(vectorCopy, vector)

	internal := uint32(len(h.nodes))
	layer := h.drawLayer()

	newNode := &node{
		id:          id,
		vector:      vectorCopy,
		layer:       layer,
		connections: make([][]uint32, layer+1),
	}

	// First node: nothing to link against, it becomes the entry point.
	if len(h.nodes) == 0 {
		h.nodes = append(h.nodes, newNode)
		h.ids[id] = internal
		h.ep = internal
		h.maxLayer = layer
		return nil
	}

	// Greedily descend the layers above the new node's top layer to find the
	// closest starting point for linking.
	entry := h.descend(vectorCopy, layer)

	// For every layer the new node participates in, beam-search the closest
	// existing nodes and connect to up to mmax of them.
	for level := min(layer, h.maxLayer); level >= 0; level-- {
		results := h.searchLayer(vectorCopy, entry, h.efConstruction, level)

		neighbors := closestN(results, h.mmax)
		newNode.connections[level] = neighbors

		if len(neighbors) > 0 {
			closest := neighbors[0]
			entry = &queueItem{node: closest, distance: h.distance(vectorCopy, h.nodes[closest].vector)}
		}
	}

	h.nodes = append(h.nodes, newNode)
	h.ids[id] = internal

	// Symmetric back-edges, pruning any overflowing neighbor list back down.
	for level := min(layer, h.maxLayer); level >= 0; level-- {
		for _, neighbor := range newNode.connections[level] {
			h.link(neighbor, internal, level)
		}
	}

	if layer > h.maxLayer {
		h.ep = internal
		h.maxLayer = layer
	}

	return nil
}

// drawLayer samples a node's top layer from the exponential distribution
// floor(-ln(U)*ml). Float64 can return exactly 0, whose log is -Inf; redraw
// so the layer stays finite.
func (h *HNSW) drawLayer() int {
	u := h.rng.Float64()
	for u == 0 {
		u = h.rng.Float64()
	}
	return int(math.Floor(-math.Log(u) * h.ml))
}

// KNNSearch returns up to k entries ordered by ascending distance to the
// query vector. An empty index yields an empty slice, never an error; fewer
// than k results are returned only when the index holds fewer than k items.
func (h *HNSW) KNNSearch(query []float32, k int) ([]Candidate, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.nodes) == 0 || k <= 0 {
		return []Candidate{}, nil
	}
	if len(query) != h.dimension {
		return nil, errors.NewDimensionMismatchError(h.dimension, len(query))
	}

	ef := h.efSearch
	if ef < k {
		ef = k
	}

	entry := h.descend(query, 0)
	results := h.searchLayer(query, entry, ef, 0)

	for results.Len() > k {
		heap.Pop(results)
	}

	// Drain the max-heap back to front for ascending order.
	candidates := make([]Candidate, results.Len())
	for i := results.Len() - 1; i >= 0; i-- {
		item, _ := heap.Pop(results).(*queueItem)
		candidates[i] = Candidate{ID: h.nodes[item.node].id, Distance: item.distance}
	}

	return candidates, nil
}

// descend walks greedily from the entry point down to targetLayer+1,
// following at each layer whichever connection is closer to q, and returns
// the best starting item for a search at targetLayer.
func (h *HNSW) descend(q []float32, targetLayer int) *queueItem {
	curr := h.ep
	currDist := h.distance(q, h.nodes[curr].vector)

	for level := h.maxLayer; level > targetLayer; level-- {
		changed := true
		for changed {
			changed = false
			for _, neighbor := range h.connectionsAt(curr, level) {
				if d := h.distance(q, h.nodes[neighbor].vector); d < currDist {
					curr = neighbor
					currDist = d
					changed = true
				}
			}
		}
	}

	return &queueItem{node: curr, distance: currDist}
}

// searchLayer runs a beam search of width ef at one layer and returns a
// max-heap of the ef closest nodes found.
func (h *HNSW) searchLayer(q []float32, entry *queueItem, ef int, level int) *priorityQueue {
	var visited bitset.BitSet
	visited.Set(uint(entry.node))

	candidates := &priorityQueue{}
	heap.Init(candidates)
	heap.Push(candidates, &queueItem{node: entry.node, distance: entry.distance})

	results := &priorityQueue{descending: true}
	heap.Init(results)
	heap.Push(results, &queueItem{node: entry.node, distance: entry.distance})

	for candidates.Len() > 0 {
		lowerBound := results.top().distance

		candidate, _ := heap.Pop(candidates).(*queueItem)
		if candidate.distance > lowerBound {
			break
		}

		for _, neighbor := range h.connectionsAt(candidate.node, level) {
			if visited.Test(uint(neighbor)) {
				continue
			}
			visited.Set(uint(neighbor))

			distance := h.distance(q, h.nodes[neighbor].vector)

			if results.Len() < ef {
				heap.Push(results, &queueItem{node: neighbor, distance: distance})
				heap.Push(candidates, &queueItem{node: neighbor, distance: distance})
			} else if distance < results.top().distance {
				heap.Pop(results)
				heap.Push(results, &queueItem{node: neighbor, distance: distance})
				heap.Push(candidates, &queueItem{node: neighbor, distance: distance})
			}
		}
	}

	return results
}

// link records a back-edge from first to second at the given level, pruning
// first's adjacency list back to the degree limit (keeping the closest) when
// it overflows.
func (h *HNSW) link(first, second uint32, level int) {
	maxConnections := h.mmax
	if level == 0 {
		maxConnections = h.mmax0
	}

	n := h.nodes[first]
	n.connections[level] = append(n.connections[level], second)

	if len(n.connections[level]) <= maxConnections {
		return
	}

	pruned := &priorityQueue{descending: true}
	heap.Init(pruned)

	for _, id := range n.connections[level] {
		heap.Push(pruned, &queueItem{node: id, distance: h.distance(n.vector, h.nodes[id].vector)})
		if pruned.Len() > maxConnections {
			heap.Pop(pruned)
		}
	}

	n.connections[level] = closestN(pruned, maxConnections)
}

// connectionsAt returns a node's adjacency list at a level, tolerating nodes
// that do not reach that level.
func (h *HNSW) connectionsAt(id uint32, level int) []uint32 {
	n := h.nodes[id]
	if level >= len(n.connections) {
		return nil
	}
	return n.connections[level]
}

// closestN drains a max-heap into at most n internal ids ordered by
// ascending distance.
func closestN(results *priorityQueue, n int) []uint32 {
	for results.Len() > n {
		heap.Pop(results)
	}

	out := make([]uint32, results.Len())
	for i := results.Len() - 1; i >= 0; i-- {
		item, _ := heap.Pop(results).(*queueItem)
		out[i] = item.node
	}
	return out
}
