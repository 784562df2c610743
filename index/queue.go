package index

import "container/heap"

// Compile time check to ensure priorityQueue satisfies the heap interface.
var _ heap.Interface = (*priorityQueue)(nil)

// queueItem represents one graph node in a priority queue, ordered by its
// distance to the current query or construction point.
type queueItem struct {
	node     uint32  // internal node id
	distance float32 // priority of the item in the queue
	index    int     // maintained by the heap.Interface methods
}

// priorityQueue implements heap.Interface over queueItems. With descending
// set it behaves as a max-heap (worst candidate on top), otherwise as a
// min-heap (best candidate on top).
type priorityQueue struct {
	descending bool
	items      []*queueItem
}

func (pq *priorityQueue) Len() int { return len(pq.items) }

func (pq *priorityQueue) Less(i, j int) bool {
	if pq.descending {
		return pq.items[i].distance > pq.items[j].distance
	}
	return pq.items[i].distance < pq.items[j].distance
}

func (pq *priorityQueue) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.items[i].index, pq.items[j].index = i, j
}

func (pq *priorityQueue) Push(x any) {
	item, _ := x.(*queueItem)
	item.index = len(pq.items)
	pq.items = append(pq.items, item)
}

func (pq *priorityQueue) Pop() any {
	old := pq.items
	n := len(old)
	if n == 0 {
		return nil
	}

	item := old[n-1]
	old[n-1] = nil  // avoid memory leak
	item.index = -1 // for safety
	pq.items = old[:n-1]

	return item
}

// top returns the head of the queue without removing it.
func (pq *priorityQueue) top() *queueItem {
	return pq.items[0]
}
