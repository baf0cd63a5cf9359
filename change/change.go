// Package change implements a per-layer rewrite primitive: given an LDFA D
// and a change vector c, produce the LDFA accepting every y reachable from
// some x in L(D) by swapping x's value at each changed layer from its
// "before" to its "after" character, leaving wildcard layers untouched.
package change

import (
	"github.com/ldfagames/solver/ldfa"
	"github.com/ldfagames/solver/shape"
)

// Descriptor is a single layer's optional (before, after) rewrite. A zero
// Descriptor (Active false) means "no change": the layer's character
// passes through unconstrained.
type Descriptor struct {
	Active        bool
	Before, After int
}

// Vector is a change descriptor for every layer of a shape, in layer order.
type Vector []Descriptor

// Reverse swaps every active descriptor's Before/After, the rewrite needed
// when a move graph is reversed.
func (v Vector) Reverse() Vector {
	out := make(Vector, len(v))
	for k, d := range v {
		if d.Active {
			d.Before, d.After = d.After, d.Before
		}
		out[k] = d
	}
	return out
}

// Validate checks v against s: its length must match s's dimension, and
// every active descriptor's before/after must be in range.
func (v Vector) Validate(s shape.Shape) error {
	if len(v) != s.Dim() {
		return newError(VectorLengthMismatch, "change vector length does not match shape dimension")
	}
	for k, d := range v {
		if !d.Active {
			continue
		}
		if d.Before < 0 || d.Before >= s[k] || d.After < 0 || d.After >= s[k] {
			return newError(DescriptorOutOfRange, "descriptor out of range for its layer's alphabet")
		}
	}
	return nil
}

func transitionOf(d *ldfa.LDFA, layer int, st ldfa.StateID, c int) ldfa.StateID {
	if ldfa.IsSink(st) {
		return st
	}
	return d.Transition(layer, st, c)
}

// hasFutureChange[k] reports whether any layer in [k, n) is active.
func hasFutureChange(v Vector) []bool {
	n := len(v)
	out := make([]bool, n+1)
	for k := n - 1; k >= 0; k-- {
		out[k] = out[k+1] || v[k].Active
	}
	return out
}

// Apply rewrites d according to v: a forward reachable-state pass along
// the paths v's descriptors actually permit, followed by a backward
// rebuild. Reject always passes straight through
// (no x exists through a rejecting branch, so nothing downstream matters);
// Accept only passes straight through once every remaining layer is a
// wildcard — once a future layer still constrains the after value, even an
// already-accepting branch must be rebuilt to enforce it.
func Apply(d *ldfa.LDFA, v Vector) (*ldfa.LDFA, error) {
	s := d.Shape()
	if err := v.Validate(s); err != nil {
		return nil, err
	}
	n := s.Dim()
	future := hasFutureChange(v)

	// Forward pass: the set of d-states reachable at each layer along
	// paths consistent with v (only through the forced "before" character
	// at active layers, through any character at wildcard layers).
	frontier := make([]map[ldfa.StateID]struct{}, n+1)
	for k := range frontier {
		frontier[k] = make(map[ldfa.StateID]struct{})
	}
	frontier[0][d.InitialState()] = struct{}{}
	for k := 0; k < n; k++ {
		desc := v[k]
		for st := range frontier[k] {
			if desc.Active {
				frontier[k+1][transitionOf(d, k, st, desc.Before)] = struct{}{}
				continue
			}
			for c := 0; c < s[k]; c++ {
				frontier[k+1][transitionOf(d, k, st, c)] = struct{}{}
			}
		}
	}

	builder, err := ldfa.NewBuilder(s, "")
	if err != nil {
		return nil, wrapError(BuildFailure, "Apply: creating builder", err)
	}

	// mapping[k][st] = the output id an old state st at layer k resolves
	// to: either a freshly built state, or (Reject always, Accept when no
	// layer k..n-1 is active) a direct sink passthrough.
	mapping := make([]map[ldfa.StateID]ldfa.StateID, n+1)
	for k := n; k >= 0; k-- {
		mapping[k] = make(map[ldfa.StateID]ldfa.StateID, len(frontier[k]))
		if k == n {
			for st := range frontier[k] {
				mapping[k][st] = st // terminal layer: old state is already the final sink value
			}
			continue
		}
		desc := v[k]
		for st := range frontier[k] {
			if st == ldfa.Reject || (st == ldfa.Accept && !future[k]) {
				mapping[k][st] = st
				continue
			}
			vec := make([]ldfa.StateID, s[k])
			if desc.Active {
				for i := range vec {
					vec[i] = ldfa.Reject
				}
				child := transitionOf(d, k, st, desc.Before)
				vec[desc.After] = mapping[k+1][child]
			} else {
				for c := 0; c < s[k]; c++ {
					child := transitionOf(d, k, st, c)
					vec[c] = mapping[k+1][child]
				}
			}
			id, err := builder.AddState(k, vec)
			if err != nil {
				builder.Abandon()
				return nil, wrapError(BuildFailure, "Apply: adding state", err)
			}
			mapping[k][st] = id
		}
	}

	return builder.Finalize(mapping[0][d.InitialState()])
}
