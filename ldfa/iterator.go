package ldfa

import "github.com/ldfagames/solver/shape"

// Iterator walks every string over a Shape in colexicographic order: the
// first coordinate advances fastest, carrying into the next coordinate on
// overflow. It consults no LDFA, so it visits every string of the shape,
// not only the accepted ones; the package tests use it for brute-force
// comparisons.
type Iterator struct {
	shape shape.Shape
	cur   []int
	done  bool
}

// NewIterator returns an Iterator positioned at the all-zero string (cbegin).
// An iterator over the empty shape is immediately done.
func NewIterator(s shape.Shape) *Iterator {
	cur := make([]int, s.Dim())
	return &Iterator{shape: s, cur: cur, done: s.Dim() == 0}
}

// Done reports whether the walk has exhausted every string (cend).
func (it *Iterator) Done() bool {
	return it.done
}

// String returns the current N-tuple. The returned slice is owned by the
// iterator and must be copied before calling Next again if retained.
func (it *Iterator) String() String {
	return it.cur
}

// Next advances to the next string in colexicographic order via
// carry-propagation, analogous to incrementing an odometer least-significant
// digit first. Calling Next once Done is a no-op.
func (it *Iterator) Next() {
	if it.done {
		return
	}
	for k := 0; k < it.shape.Dim(); k++ {
		it.cur[k]++
		if it.cur[k] < it.shape[k] {
			return
		}
		it.cur[k] = 0
	}
	it.done = true
}

// Reset rewinds the iterator back to cbegin.
func (it *Iterator) Reset() {
	for k := range it.cur {
		it.cur[k] = 0
	}
	it.done = it.shape.Dim() == 0
}
