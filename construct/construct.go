// Package construct builds base LDFAs directly, without going through
// setalgebra or change: constant accept/reject, a single fixed-character
// constraint, an exact finite set of strings, and a character-count
// constraint. Accept/Reject/Fixed results are cheap enough, and reused
// often enough across a solver run, that they are interned process-wide
// instead of rebuilt on every call.
package construct

import (
	"fmt"
	"sync"

	"github.com/ldfagames/solver/ldfa"
	"github.com/ldfagames/solver/shape"
)

type internKey struct {
	shapeHash [32]byte
	kind      string
	layer     int
	character int
}

var internCache sync.Map // internKey -> *ldfa.LDFA

func intern(key internKey, build func() (*ldfa.LDFA, error)) (*ldfa.LDFA, error) {
	if v, ok := internCache.Load(key); ok {
		return v.(*ldfa.LDFA), nil
	}
	d, err := build()
	if err != nil {
		return nil, err
	}
	actual, _ := internCache.LoadOrStore(key, d)
	return actual.(*ldfa.LDFA), nil
}

// Accept returns the LDFA over s that accepts every string.
func Accept(s shape.Shape) *ldfa.LDFA {
	d, _ := intern(internKey{shapeHash: s.Hash(), kind: "accept"}, func() (*ldfa.LDFA, error) {
		return ldfa.Constant(s, true), nil
	})
	return d
}

// Reject returns the LDFA over s that accepts no string.
func Reject(s shape.Shape) *ldfa.LDFA {
	d, _ := intern(internKey{shapeHash: s.Hash(), kind: "reject"}, func() (*ldfa.LDFA, error) {
		return ldfa.Constant(s, false), nil
	})
	return d
}

// Fixed returns the LDFA over s that accepts exactly the strings whose
// character at layer equals character, leaving every other layer
// unconstrained.
func Fixed(s shape.Shape, layer, character int) (*ldfa.LDFA, error) {
	n := s.Dim()
	if layer < 0 || layer >= n {
		return nil, newError(InvalidArgument, fmt.Sprintf("Fixed: layer %d out of range", layer))
	}
	if character < 0 || character >= s[layer] {
		return nil, newError(InvalidArgument, fmt.Sprintf("Fixed: character %d out of range for layer %d", character, layer))
	}
	return intern(internKey{shapeHash: s.Hash(), kind: "fixed", layer: layer, character: character}, func() (*ldfa.LDFA, error) {
		b, err := ldfa.NewBuilder(s, "")
		if err != nil {
			return nil, wrapError(BuildFailure, "Fixed: creating builder", err)
		}
		next := ldfa.Accept
		for k := n - 1; k >= 0; k-- {
			vec := make([]ldfa.StateID, s[k])
			if k == layer {
				for i := range vec {
					vec[i] = ldfa.Reject
				}
				vec[character] = next
			} else {
				for i := range vec {
					vec[i] = next
				}
			}
			id, err := b.AddState(k, vec)
			if err != nil {
				b.Abandon()
				return nil, wrapError(BuildFailure, "Fixed: adding state", err)
			}
			next = id
		}
		return b.Finalize(next)
	})
}

// FromStrings returns the LDFA over s that accepts exactly the given
// strings (each must have length s.Dim(), with every character in range).
// Shared suffixes across strings collapse automatically: Builder.AddState
// interns identical transition vectors within a layer, so strings
// differing only in an early layer end up sharing every layer below their
// point of divergence.
func FromStrings(s shape.Shape, strs [][]int) (*ldfa.LDFA, error) {
	n := s.Dim()
	for _, x := range strs {
		if len(x) != n {
			return nil, newError(InvalidArgument, fmt.Sprintf("FromStrings: string length %d != shape dimension %d", len(x), n))
		}
		for k, c := range x {
			if c < 0 || c >= s[k] {
				return nil, newError(InvalidArgument, fmt.Sprintf("FromStrings: character %d out of range at layer %d", c, k))
			}
		}
	}
	if len(strs) == 0 {
		return ldfa.Constant(s, false), nil
	}

	b, err := ldfa.NewBuilder(s, "")
	if err != nil {
		return nil, wrapError(BuildFailure, "FromStrings: creating builder", err)
	}
	init, err := buildTrieNode(b, s, 0, strs)
	if err != nil {
		b.Abandon()
		return nil, err
	}
	return b.Finalize(init)
}

func buildTrieNode(b *ldfa.Builder, s shape.Shape, k int, group [][]int) (ldfa.StateID, error) {
	if k == s.Dim() {
		return ldfa.Accept, nil
	}
	buckets := make(map[int][][]int)
	for _, x := range group {
		buckets[x[k]] = append(buckets[x[k]], x)
	}
	vec := make([]ldfa.StateID, s[k])
	for c := range vec {
		vec[c] = ldfa.Reject
	}
	for c, sub := range buckets {
		child, err := buildTrieNode(b, s, k+1, sub)
		if err != nil {
			return 0, err
		}
		vec[c] = child
	}
	return b.AddState(k, vec)
}

// Count returns the LDFA over s that accepts exactly the strings with
// exactly target layers whose character equals character. A running count
// clamped to [0, s.Dim()] is threaded through the layers as automaton
// state, resolved against target only at the virtual terminal layer.
func Count(s shape.Shape, character, target int) (*ldfa.LDFA, error) {
	n := s.Dim()
	if target < 0 || target > n {
		return nil, newError(InvalidArgument, fmt.Sprintf("Count: target %d out of range [0,%d]", target, n))
	}

	b, err := ldfa.NewBuilder(s, "")
	if err != nil {
		return nil, wrapError(BuildFailure, "Count: creating builder", err)
	}

	terminal := func(c int) ldfa.StateID {
		if c == target {
			return ldfa.Accept
		}
		return ldfa.Reject
	}

	next := make(map[int]ldfa.StateID, n+1)
	for c := 0; c <= n; c++ {
		next[c] = terminal(c)
	}

	for k := n - 1; k >= 0; k-- {
		cur := make(map[int]ldfa.StateID, k+1)
		for c := 0; c <= k; c++ {
			vec := make([]ldfa.StateID, s[k])
			for ch := 0; ch < s[k]; ch++ {
				nc := c
				if ch == character {
					nc = c + 1
				}
				vec[ch] = next[nc]
			}
			id, err := b.AddState(k, vec)
			if err != nil {
				b.Abandon()
				return nil, wrapError(BuildFailure, "Count: adding state", err)
			}
			cur[c] = id
		}
		next = cur
	}

	return b.Finalize(next[0])
}
