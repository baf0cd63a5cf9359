package storage

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDenseBitset_RankAndIterate(t *testing.T) {
	const size = 1000
	b := NewDenseBitset(size)
	members := []int{0, 1, 63, 64, 65, 127, 500, 999}
	for _, m := range members {
		b.Add(m)
	}
	require.Equal(t, len(members), b.Count())

	var iterated []int
	b.Iterate(func(i int) { iterated = append(iterated, i) })
	require.Equal(t, members, iterated)

	rank := BuildRankIndex(b)
	for _, m := range members {
		// rank(m) should equal the count of members strictly less than m
		want := 0
		for _, o := range members {
			if o < m {
				want++
			}
		}
		require.Equal(t, want, rank.Rank(m), "rank mismatch at %d", m)
	}
	require.Equal(t, len(members), rank.Rank(size))
}

func TestSparseBitset_MatchesBruteForce(t *testing.T) {
	s := NewSparseBitset()
	present := map[int]bool{}
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		v := r.Intn(1000)
		s.Add(v)
		present[v] = true
	}

	for v := 0; v < 1000; v++ {
		require.Equal(t, present[v], s.Check(v))
	}

	sorted := s.Values()
	want := 0
	for i := 1; i < len(sorted); i++ {
		require.Less(t, sorted[i-1], sorted[i])
	}
	_ = want
}

func TestAdaptiveBitset_SparsePath(t *testing.T) {
	a := NewAdaptiveBitset(10000).WithThreshold(1 << 20)
	for _, v := range []int{3, 1, 9999, 42} {
		a.Prepare(v)
	}
	a.Allocate()

	require.Equal(t, 4, a.Count())
	require.True(t, a.Contains(42))
	require.False(t, a.Contains(5))
	require.Equal(t, 1, a.Rank(3)) // elements < 3: just {1}

	var got []int
	a.Iterate(func(i int) { got = append(got, i) })
	require.Equal(t, []int{1, 3, 42, 9999}, got)
}

func TestAdaptiveBitset_DensePathMatchesSparseSemantics(t *testing.T) {
	const universe = 1 << 16
	values := map[int]bool{}
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 5000; i++ {
		values[r.Intn(universe)] = true
	}

	dense := NewAdaptiveBitset(universe).WithThreshold(1) // force dense path
	sparse := NewAdaptiveBitset(universe).WithThreshold(1 << 20)
	for v := range values {
		dense.Prepare(v)
		sparse.Prepare(v)
	}
	dense.Allocate()
	sparse.Allocate()

	require.Equal(t, sparse.Count(), dense.Count())
	for v := 0; v < universe; v += 37 {
		require.Equal(t, sparse.Contains(v), dense.Contains(v), "contains mismatch at %d", v)
		require.Equal(t, sparse.Rank(v), dense.Rank(v), "rank mismatch at %d", v)
	}

	var sparseOut, denseOut []int
	sparse.Iterate(func(i int) { sparseOut = append(sparseOut, i) })
	dense.Iterate(func(i int) { denseOut = append(denseOut, i) })
	require.Equal(t, sparseOut, denseOut)
}

func TestAdaptiveBitset_PrepareAfterAllocatePanics(t *testing.T) {
	a := NewAdaptiveBitset(10)
	a.Prepare(1)
	a.Allocate()
	require.Panics(t, func() { a.Prepare(2) })
}
