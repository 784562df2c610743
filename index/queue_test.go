package index

import (
	"container/heap"
	"testing"
)

func TestPriorityQueueAscending(t *testing.T) {
	pq := &priorityQueue{}
	heap.Init(pq)

	heap.Push(pq, &queueItem{node: 1, distance: 0.5})
	heap.Push(pq, &queueItem{node: 2, distance: 0.1})
	heap.Push(pq, &queueItem{node: 3, distance: 0.9})

	want := []uint32{2, 1, 3}
	for i, expected := range want {
		item, _ := heap.Pop(pq).(*queueItem)
		if item.node != expected {
			t.Errorf("Pop %d: expected node %d, got %d", i, expected, item.node)
		}
	}
}

func TestPriorityQueueDescending(t *testing.T) {
	pq := &priorityQueue{descending: true}
	heap.Init(pq)

	heap.Push(pq, &queueItem{node: 1, distance: 0.5})
	heap.Push(pq, &queueItem{node: 2, distance: 0.1})
	heap.Push(pq, &queueItem{node: 3, distance: 0.9})

	if top := pq.top(); top.node != 3 {
		t.Errorf("Expected worst candidate (node 3) on top, got %d", top.node)
	}

	want := []uint32{3, 1, 2}
	for i, expected := range want {
		item, _ := heap.Pop(pq).(*queueItem)
		if item.node != expected {
			t.Errorf("Pop %d: expected node %d, got %d", i, expected, item.node)
		}
	}
}

func TestPriorityQueuePopEmpty(t *testing.T) {
	pq := &priorityQueue{}
	if item := pq.Pop(); item != nil {
		t.Errorf("Expected nil from empty pop, got %v", item)
	}
}
