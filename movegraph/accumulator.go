package movegraph

import (
	"github.com/ldfagames/solver/ldfa"
	"github.com/ldfagames/solver/setalgebra"
	"github.com/ldfagames/solver/shape"
)

// dnfAccumulator represents a disjunction of AND-clauses:
// ⋃_i ⋂_j clauses[i][j], built up incrementally by Append and compacted
// into a single LDFA on demand by Realize. Clauses are kept in an order
// such that neighboring clauses tend to share a long common prefix, which
// both bounds how large any one clause grows (the prefix invariant) and
// bounds how many same-length clauses can coexist (the logarithmic merge).
type dnfAccumulator struct {
	shape   shape.Shape
	clauses [][]*ldfa.LDFA
}

func newAccumulator(s shape.Shape) *dnfAccumulator {
	return &dnfAccumulator{shape: s}
}

// sharedPrefixLen counts how many leading elements a and b have in common,
// comparing LDFA identity (the same *ldfa.LDFA guard/image reused across
// edges is exactly the sharing this accumulator exploits).
func sharedPrefixLen(a, b []*ldfa.LDFA) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// intersectTail folds clause[from:] down to a single LDFA via pairwise
// intersection, replacing that suffix with the single result.
func intersectTail(clause []*ldfa.LDFA, from int) ([]*ldfa.LDFA, error) {
	if len(clause)-from <= 1 {
		return clause, nil
	}
	acc := clause[from]
	for _, next := range clause[from+1:] {
		merged, err := setalgebra.Combine(acc, next, setalgebra.Intersection)
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	out := append(append([]*ldfa.LDFA{}, clause[:from]...), acc)
	return out, nil
}

// Append pushes a new AND-clause into the accumulator, enforcing the
// prefix invariant and the logarithmic same-length bound.
func (acc *dnfAccumulator) Append(clause []*ldfa.LDFA) error {
	for i := len(acc.clauses) - 1; i >= 0; i-- {
		shared := sharedPrefixLen(acc.clauses[i], clause)
		if len(acc.clauses[i]) > shared+1 {
			compacted, err := intersectTail(acc.clauses[i], shared)
			if err != nil {
				return err
			}
			acc.clauses[i] = compacted
		}
	}

	acc.clauses = append(acc.clauses, clause)

	for len(acc.clauses) >= 2 {
		a := acc.clauses[len(acc.clauses)-2]
		b := acc.clauses[len(acc.clauses)-1]
		if len(a) != len(b) {
			break
		}
		tailA := a[len(a)-1]
		tailB := b[len(b)-1]
		if tailB.States() > tailA.States() {
			break
		}
		merged, err := setalgebra.Combine(tailA, tailB, setalgebra.Union)
		if err != nil {
			return err
		}
		newClause := append(append([]*ldfa.LDFA{}, a[:len(a)-1]...), merged)
		acc.clauses = acc.clauses[:len(acc.clauses)-2]
		acc.clauses = append(acc.clauses, newClause)
	}
	return nil
}

// Realize compacts every clause to a single LDFA and unions them all
// together. An empty accumulator realizes to reject: if no edge's
// pre-guards are ever satisfied, nothing is ever pushed downstream.
func (acc *dnfAccumulator) Realize() (*ldfa.LDFA, error) {
	if len(acc.clauses) == 0 {
		return ldfa.Constant(acc.shape, false), nil
	}
	singles := make([]*ldfa.LDFA, len(acc.clauses))
	for i, c := range acc.clauses {
		reduced, err := intersectTail(c, 0)
		if err != nil {
			return nil, err
		}
		singles[i] = reduced[0]
	}
	return setalgebra.CombineAll(setalgebra.Union, singles...)
}
