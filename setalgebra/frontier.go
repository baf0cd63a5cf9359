package setalgebra

import (
	"github.com/ldfagames/solver/ldfa"
	"github.com/ldfagames/solver/storage"
)

// pair is a product state: one state from each operand LDFA, both local to
// the same layer.
type pair struct {
	l, r ldfa.StateID
}

// frontier is the set of reachable product pairs standing at one layer,
// stored as an adaptive bitset over the flattened id space
// (leftSize+2)*(rightSize+2) — sinks occupy ids 0 and 1 on each side,
// so the flattening needs no separate remapping. rank(p) gives p's position
// among the frontier's pairs in ascending flattened-id order; a backward
// rebuild gives the corresponding new state the id FirstRealState + rank.
type frontier struct {
	leftSize, rightSize int
	bitset              *storage.AdaptiveBitset
}

func newFrontier(leftSize, rightSize int) *frontier {
	universe := (leftSize + 2) * (rightSize + 2)
	return &frontier{leftSize: leftSize, rightSize: rightSize, bitset: storage.NewAdaptiveBitset(universe)}
}

func (f *frontier) flatten(p pair) int {
	return int(p.l)*(f.rightSize+2) + int(p.r)
}

func (f *frontier) unflatten(id int) pair {
	rSpan := f.rightSize + 2
	return pair{l: ldfa.StateID(id / rSpan), r: ldfa.StateID(id % rSpan)}
}

// add declares p reachable. Must be called before finalize; safe to repeat.
func (f *frontier) add(p pair) {
	f.bitset.Prepare(f.flatten(p))
}

// finalize fixes the reachable set so rank/orderedPairs can be queried.
func (f *frontier) finalize() {
	f.bitset.Allocate()
}

// rank returns p's 0-based position among this frontier's reachable pairs,
// used directly as the offset from ldfa.FirstRealState.
func (f *frontier) rank(p pair) int {
	return f.bitset.Rank(f.flatten(p))
}

// orderedPairs returns every reachable pair in ascending rank order.
func (f *frontier) orderedPairs() []pair {
	out := make([]pair, 0, f.bitset.Count())
	f.bitset.Iterate(func(id int) {
		out = append(out, f.unflatten(id))
	})
	return out
}

// Snapshot is a persistable description of one layer's reachable pair set,
// sufficient to resume a backward rebuild without redoing the forward pass
// — the ground for setalgebra's restart semantics.
type Snapshot struct {
	LeftSize, RightSize int
	Ids                 []int
}

func (f *frontier) snapshot() Snapshot {
	ids := make([]int, 0, f.bitset.Count())
	f.bitset.Iterate(func(id int) { ids = append(ids, id) })
	return Snapshot{LeftSize: f.leftSize, RightSize: f.rightSize, Ids: ids}
}

func restoreFrontier(s Snapshot) *frontier {
	f := newFrontier(s.LeftSize, s.RightSize)
	for _, id := range s.Ids {
		f.bitset.Prepare(id)
	}
	f.finalize()
	return f
}
