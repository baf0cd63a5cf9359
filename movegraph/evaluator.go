package movegraph

import (
	"sort"

	"github.com/ldfagames/solver/change"
	"github.com/ldfagames/solver/ldfa"
)

// sortEdgesByGuardPrefix orders edges so that edges whose pre-guard
// sequences share a long common prefix sit next to each other, maximizing
// intersectionManager cache hits. Pointer identity gives each distinct
// guard LDFA a stable first-seen rank; edges are then ordered
// lexicographically by their guards' rank sequence.
func sortEdgesByGuardPrefix(edges []Edge) []Edge {
	rank := make(map[*ldfa.LDFA]int)
	nextRank := 0
	rankOf := func(g *ldfa.LDFA) int {
		if r, ok := rank[g]; ok {
			return r
		}
		rank[g] = nextRank
		nextRank++
		return rank[g]
	}

	type keyedEdge struct {
		edge Edge
		key  []int
	}
	keyed := make([]keyedEdge, len(edges))
	for i, e := range edges {
		k := make([]int, len(e.Pre))
		for j, g := range e.Pre {
			k[j] = rankOf(g)
		}
		keyed[i] = keyedEdge{edge: e, key: k}
	}
	sort.SliceStable(keyed, func(i, j int) bool {
		a, b := keyed[i].key, keyed[j].key
		for x := 0; x < len(a) && x < len(b); x++ {
			if a[x] != b[x] {
				return a[x] < b[x]
			}
		}
		return len(a) < len(b)
	})

	out := make([]Edge, len(keyed))
	for i, k := range keyed {
		out[i] = k.edge
	}
	return out
}

// Evaluate compiles graph and applies it to positionsIn: seed the begin
// node's accumulator with [positionsIn], walk nodes in topological (id)
// order realizing each node's accumulator and pushing guarded, changed
// images into downstream accumulators, and realize the end node's
// accumulator as the result.
func Evaluate(g *Graph, positionsIn *ldfa.LDFA) (*ldfa.LDFA, error) {
	begin, err := g.Begin()
	if err != nil {
		return nil, err
	}
	end, err := g.End()
	if err != nil {
		return nil, err
	}

	accs := make([]*dnfAccumulator, g.NumNodes())
	for i := range accs {
		accs[i] = newAccumulator(g.Shape())
	}
	if err := accs[begin].Append([]*ldfa.LDFA{positionsIn}); err != nil {
		return nil, wrapError(EvalFailure, "Evaluate: seeding begin node", err)
	}

	for node := NodeID(0); int(node) < g.NumNodes(); node++ {
		cur, err := accs[node].Realize()
		if err != nil {
			return nil, wrapError(EvalFailure, "Evaluate: realizing node accumulator", err)
		}
		if cur.InitialState() == ldfa.Reject {
			continue // nothing reaches this node; no outgoing edge can produce anything either
		}

		im := newIntersectionManager(cur)
		for _, e := range sortEdgesByGuardPrefix(g.Edges(node)) {
			guarded, err := im.intersectPrefix(e.Pre)
			if err != nil {
				return nil, wrapError(EvalFailure, "Evaluate: applying pre-guards", err)
			}
			if guarded.InitialState() == ldfa.Reject {
				continue
			}
			image, err := change.Apply(guarded, e.Change)
			if err != nil {
				return nil, wrapError(EvalFailure, "Evaluate: applying change vector", err)
			}
			clause := append(append([]*ldfa.LDFA{}, e.Post...), image)
			if err := accs[e.To].Append(clause); err != nil {
				return nil, wrapError(EvalFailure, "Evaluate: pushing clause", err)
			}
		}
	}

	return accs[end].Realize()
}
