package movegraph

import (
	"github.com/ldfagames/solver/ldfa"
	"github.com/ldfagames/solver/setalgebra"
)

// intersectionManager is a short-lived, per-node prefix trie over pre-guard
// sequences, so that edges sharing a long prefix of pre-guards reuse the
// already-computed intersection instead of recomputing it from the node's
// base LDFA. Grounded on the original source's IntersectionManager.
type intersectionManager struct {
	root *intersectionNode
}

type intersectionNode struct {
	result   *ldfa.LDFA
	children map[*ldfa.LDFA]*intersectionNode
}

func newIntersectionManager(base *ldfa.LDFA) *intersectionManager {
	return &intersectionManager{root: &intersectionNode{result: base, children: make(map[*ldfa.LDFA]*intersectionNode)}}
}

// intersectPrefix returns base intersected with guards in order,
// short-circuiting as soon as the running result is a constant reject
// (nothing further can make it non-reject).
func (m *intersectionManager) intersectPrefix(guards []*ldfa.LDFA) (*ldfa.LDFA, error) {
	cur := m.root
	for _, g := range guards {
		if cur.result.InitialState() == ldfa.Reject {
			return cur.result, nil
		}
		child, ok := cur.children[g]
		if !ok {
			combined, err := setalgebra.Combine(cur.result, g, setalgebra.Intersection)
			if err != nil {
				return nil, err
			}
			child = &intersectionNode{result: combined, children: make(map[*ldfa.LDFA]*intersectionNode)}
			cur.children[g] = child
		}
		cur = child
	}
	return cur.result, nil
}
