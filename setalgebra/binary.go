// Package setalgebra implements the two-pass binary set-algebra engine: a
// forward reachable-pair enumeration over the Cartesian product of two
// LDFAs' states, followed by a backward rebuild that materializes the
// combined LDFA, parametrized by a boolean leaf function. This is the
// shared machinery behind union, intersection, difference, and the
// restart-from-persisted-pairs recovery path.
package setalgebra

import (
	"github.com/ldfagames/solver/ldfa"
	"github.com/ldfagames/solver/shape"
)

// LeafFunc decides the terminal outcome for a pair of operand states once
// both sides have collapsed to a sink, given whether each side is its
// accept sink.
type LeafFunc func(leftAccept, rightAccept bool) bool

// Union, Intersection, and Difference are the standard leaf functions for
// the three non-unary binary set operations.
func Union(l, r bool) bool        { return l || r }
func Intersection(l, r bool) bool { return l && r }
func Difference(l, r bool) bool   { return l && !r }

func resolveLeaf(leaf LeafFunc, l, r ldfa.StateID) ldfa.StateID {
	if leaf(l == ldfa.Accept, r == ldfa.Accept) {
		return ldfa.Accept
	}
	return ldfa.Reject
}

// Frontiers is the complete forward-pass result: one frontier per variable
// layer (layer N's pairs are never tracked, since every transition out of
// layer N-1 necessarily lands on a sink — see resolveLeaf). It is the unit
// of restart persistence.
type Frontiers struct {
	shape   shape.Shape
	byLayer []*frontier
}

// Shape returns the shape the forward pass ran over.
func (f *Frontiers) Shape() shape.Shape {
	return f.shape
}

// Snapshot captures every layer's reachable pair set for persistence.
func (f *Frontiers) Snapshot() []Snapshot {
	out := make([]Snapshot, len(f.byLayer))
	for k, fr := range f.byLayer {
		out[k] = fr.snapshot()
	}
	return out
}

// RestoreFrontiers rebuilds a Frontiers from previously persisted snapshots
// (one per variable layer), without re-running the forward pass.
func RestoreFrontiers(s shape.Shape, snapshots []Snapshot) *Frontiers {
	byLayer := make([]*frontier, len(snapshots))
	for k, snap := range snapshots {
		byLayer[k] = restoreFrontier(snap)
	}
	return &Frontiers{shape: s, byLayer: byLayer}
}

// ForwardPass enumerates reachable product-state pairs layer by layer:
// layer 0 starts with the single pair (left.initial, right.initial); each
// subsequent layer's pairs are derived from the previous layer's by
// applying every character, skipping pairs that collapse directly to a
// sink (both sides constant).
func ForwardPass(left, right *ldfa.LDFA) (*Frontiers, error) {
	if !left.Shape().Equal(right.Shape()) {
		return nil, newError(ShapeMismatch, "ForwardPass: operand shapes differ")
	}
	s := left.Shape()
	n := s.Dim()

	byLayer := make([]*frontier, n)
	byLayer[0] = newFrontier(left.LayerSize(0), right.LayerSize(0))
	byLayer[0].add(pair{left.InitialState(), right.InitialState()})
	byLayer[0].finalize()

	for k := 0; k < n-1; k++ {
		next := newFrontier(left.LayerSize(k+1), right.LayerSize(k+1))
		for _, p := range byLayer[k].orderedPairs() {
			for c := 0; c < s[k]; c++ {
				l2 := left.Transition(k, p.l, c)
				r2 := right.Transition(k, p.r, c)
				if ldfa.IsSink(l2) && ldfa.IsSink(r2) {
					continue
				}
				next.add(pair{l2, r2})
			}
		}
		next.finalize()
		byLayer[k+1] = next
	}

	return &Frontiers{shape: s, byLayer: byLayer}, nil
}

// backwardRebuild materializes the combined LDFA from a completed forward
// pass by walking every layer's reachable pairs in rank order and
// appending their transition vectors, where each child either resolves
// directly through leaf (sink/sink) or through the next layer's rank
// (real/real, real/sink, sink/real). The rebuilt LDFA is then minimized, so
// an empty or full language comes back as the Reject or Accept sink.
func backwardRebuild(left, right *ldfa.LDFA, leaf LeafFunc, fr *Frontiers) (*ldfa.LDFA, error) {
	s := fr.shape
	n := s.Dim()

	if ldfa.IsSink(left.InitialState()) && ldfa.IsSink(right.InitialState()) {
		return ldfa.Constant(s, leaf(left.InitialState() == ldfa.Accept, right.InitialState() == ldfa.Accept)), nil
	}

	builder, err := ldfa.NewBuilder(s, "")
	if err != nil {
		return nil, wrapError(BuildFailure, "backwardRebuild: creating builder", err)
	}

	for k := n - 1; k >= 0; k-- {
		layerFrontier := fr.byLayer[k]
		for _, p := range layerFrontier.orderedPairs() {
			vec := make([]ldfa.StateID, s[k])
			for c := 0; c < s[k]; c++ {
				l2 := left.Transition(k, p.l, c)
				r2 := right.Transition(k, p.r, c)
				if ldfa.IsSink(l2) && ldfa.IsSink(r2) {
					vec[c] = resolveLeaf(leaf, l2, r2)
					continue
				}
				vec[c] = ldfa.FirstRealState + ldfa.StateID(fr.byLayer[k+1].rank(pair{l2, r2}))
			}
			if _, err := builder.AddStateNoDedup(k, vec); err != nil {
				builder.Abandon()
				return nil, wrapError(BuildFailure, "backwardRebuild: adding state", err)
			}
		}
	}

	// Layer 0's frontier contains exactly one pair (the product initial
	// state), so its rank is always 0.
	d, err := builder.Finalize(ldfa.FirstRealState)
	if err != nil {
		return nil, wrapError(BuildFailure, "backwardRebuild: finalizing", err)
	}
	m, err := ldfa.Minimize(d)
	if err != nil {
		return nil, wrapError(BuildFailure, "backwardRebuild: minimizing", err)
	}
	return m, nil
}

// Combine runs the full two-pass construction: forward reachable-pair
// enumeration followed by backward rebuild, parametrized by leaf.
func Combine(left, right *ldfa.LDFA, leaf LeafFunc) (*ldfa.LDFA, error) {
	fr, err := ForwardPass(left, right)
	if err != nil {
		return nil, err
	}
	return backwardRebuild(left, right, leaf, fr)
}

// Restart resumes a backward rebuild from previously persisted forward-pass
// frontiers, reproducing the same LDFA a from-scratch Combine would — a
// recovery path for resuming after a crash without redoing forward
// enumeration.
func Restart(left, right *ldfa.LDFA, leaf LeafFunc, fr *Frontiers) (*ldfa.LDFA, error) {
	return backwardRebuild(left, right, leaf, fr)
}

// CombineAll left-folds Combine across operands in order:
// ((a op b) op c) op d .... Panics if operands is empty; a single operand
// is returned unchanged.
func CombineAll(leaf LeafFunc, operands ...*ldfa.LDFA) (*ldfa.LDFA, error) {
	if len(operands) == 0 {
		panic("setalgebra: CombineAll requires at least one operand")
	}
	acc := operands[0]
	for _, next := range operands[1:] {
		combined, err := Combine(acc, next, leaf)
		if err != nil {
			return nil, err
		}
		acc = combined
	}
	return acc, nil
}

// Complement returns the LDFA accepting exactly the strings d rejects, by
// swapping the reject/accept sink at the initial state and at every
// transition target that lands on a sink. Complement is unary, but lives
// here alongside the other set operations since it belongs to the same
// family (union/intersection/difference/complement).
func Complement(d *ldfa.LDFA) (*ldfa.LDFA, error) {
	s := d.Shape()
	n := s.Dim()

	if ldfa.IsSink(d.InitialState()) {
		return ldfa.Constant(s, d.InitialState() == ldfa.Reject), nil
	}

	builder, err := ldfa.NewBuilder(s, "")
	if err != nil {
		return nil, wrapError(BuildFailure, "Complement: creating builder", err)
	}
	for k := 0; k < n; k++ {
		size := d.LayerSize(k)
		for i := 0; i < size; i++ {
			id := ldfa.StateID(i) + ldfa.FirstRealState
			vec := d.Transitions(k, id)
			for j, t := range vec {
				switch t {
				case ldfa.Reject:
					vec[j] = ldfa.Accept
				case ldfa.Accept:
					vec[j] = ldfa.Reject
				}
			}
			if _, err := builder.AddStateNoDedup(k, vec); err != nil {
				builder.Abandon()
				return nil, wrapError(BuildFailure, "Complement: adding state", err)
			}
		}
	}
	return builder.Finalize(d.InitialState())
}
