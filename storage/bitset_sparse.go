package storage

import "sort"

// SparseBitset is a map-backed occupancy set tuned for low cardinality:
// O(1) insertion/membership via a hash map, plus an ordered slice kept in
// sync for iteration and rank. Grounded on the sparse-index/dense-values
// split of a classic sparse set, adapted here from a known-universe
// integer set to an open-ended one (a plain Go map rather than a pre-sized
// sparse array, so the universe need not be known up front).
type SparseBitset struct {
	index   map[int]int // value -> position in ordered
	ordered []int       // ascending values; kept sorted lazily
	dirty   bool
}

// NewSparseBitset creates an empty sparse bitset.
func NewSparseBitset() *SparseBitset {
	return &SparseBitset{index: make(map[int]int)}
}

// Add inserts i, a no-op if already present.
func (s *SparseBitset) Add(i int) {
	if _, ok := s.index[i]; ok {
		return
	}
	s.index[i] = len(s.ordered)
	s.ordered = append(s.ordered, i)
	s.dirty = true
}

// Check reports whether i is present.
func (s *SparseBitset) Check(i int) bool {
	_, ok := s.index[i]
	return ok
}

// Count returns the number of elements.
func (s *SparseBitset) Count() int {
	return len(s.ordered)
}

func (s *SparseBitset) ensureSorted() {
	if !s.dirty {
		return
	}
	sort.Ints(s.ordered)
	for pos, v := range s.ordered {
		s.index[v] = pos
	}
	s.dirty = false
}

// Iterate calls f once per element in ascending order.
func (s *SparseBitset) Iterate(f func(int)) {
	s.ensureSorted()
	for _, v := range s.ordered {
		f(v)
	}
}

// Rank returns the number of elements strictly less than i, via binary
// search over the ordered slice.
func (s *SparseBitset) Rank(i int) int {
	s.ensureSorted()
	return sort.SearchInts(s.ordered, i)
}

// Values returns the ascending element slice. The caller must not mutate it.
func (s *SparseBitset) Values() []int {
	s.ensureSorted()
	return s.ordered
}
