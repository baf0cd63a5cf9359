package storage

import "container/heap"

// MergeSorted merges n sorted Word slices (each the Slice() view of a sorted
// MappedArray run) into dst using a min-heap priority queue keyed on each
// input's current head element. dst starts empty; values are appended to it,
// growing its capacity as needed, and it is then truncated to the number of
// elements actually written.
//
// If dedup is true, adjacent equal values across the merged stream are
// collapsed to one.
func MergeSorted(dst *MappedArray, runs [][]Word, dedup bool) error {
	pq := make(mergeHeap, 0, len(runs))
	for i, run := range runs {
		if len(run) > 0 {
			pq = append(pq, mergeItem{value: run[0], run: i, pos: 0})
		}
	}
	heap.Init(&pq)

	written := 0
	haveLast := false
	var last Word

	for pq.Len() > 0 {
		top := heap.Pop(&pq).(mergeItem)
		if !dedup || !haveLast || top.value != last {
			if err := dst.Append(top.value); err != nil {
				return err
			}
			written++
			last = top.value
			haveLast = true
		}

		nextPos := top.pos + 1
		if nextPos < len(runs[top.run]) {
			heap.Push(&pq, mergeItem{value: runs[top.run][nextPos], run: top.run, pos: nextPos})
		}
	}

	return dst.Truncate(written)
}

type mergeItem struct {
	value Word
	run   int
	pos   int
}

type mergeHeap []mergeItem

func (h mergeHeap) Len() int            { return len(h) }
func (h mergeHeap) Less(i, j int) bool  { return h[i].value < h[j].value }
func (h mergeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x interface{}) { *h = append(*h, x.(mergeItem)) }
func (h *mergeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
