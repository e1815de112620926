package path

import (
	"container/heap"
)

func NewNode[T comparable](value T) *PqItem[T] {
	return &PqItem[T]{value: value, index: -1}
}

// A PqItem is something we manage in a priority queue.
type PqItem[T comparable] struct {
	value    T
	priority float64
	// The index is needed by update and is maintained by the heap.Interface methods.
	// -1 while the item is not queued.
	index int
}

func (item *PqItem[T]) GetPriority() float64 {
	return item.priority
}

func (item *PqItem[T]) GetValue() T {
	return item.value
}

func (item *PqItem[T]) IsQueued() bool {
	return item.index >= 0
}

// A PriorityQueue implements heap.Interface and holds Items, lowest priority first.
type PriorityQueue[T comparable] []*PqItem[T]

func NewPriorityQueue[T comparable](items ...*PqItem[T]) *PriorityQueue[T] {
	pq := make(PriorityQueue[T], len(items))
	for i, item := range items {
		item.index = i
		pq[i] = item
	}
	heap.Init(&pq)
	return &pq
}

func (pq PriorityQueue[T]) Len() int { return len(pq) }

func (pq PriorityQueue[T]) Less(i, j int) bool {
	return pq[i].priority < pq[j].priority
}

func (pq PriorityQueue[T]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *PriorityQueue[T]) Push(x any) {
	item := x.(*PqItem[T])
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *PriorityQueue[T]) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // avoid memory leak
	item.index = -1 // for safety
	*pq = old[0 : n-1]
	return item
}

func (pq *PriorityQueue[T]) IsEmpty() bool {
	return pq.Len() == 0
}

func (pq *PriorityQueue[T]) PopItem() *PqItem[T] {
	return heap.Pop(pq).(*PqItem[T])
}

// Update sets the priority of an item, queueing it if it is not queued.
func (pq *PriorityQueue[T]) Update(item *PqItem[T], priority float64) {
	item.priority = priority
	if item.IsQueued() {
		heap.Fix(pq, item.index)
		return
	}
	heap.Push(pq, item)
}
