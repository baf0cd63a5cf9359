package movegraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ldfagames/solver/change"
	"github.com/ldfagames/solver/ldfa"
	"github.com/ldfagames/solver/shape"
)

func allStrings(s shape.Shape) [][]int {
	var out [][]int
	it := ldfa.NewIterator(s)
	for !it.Done() {
		out = append(out, append([]int(nil), it.String()...))
		it.Next()
	}
	return out
}

// buildSingleBit returns an LDFA over a binary shape accepting exactly the
// strings whose value at position target equals want.
func buildSingleBit(t *testing.T, s shape.Shape, target, want int) *ldfa.LDFA {
	t.Helper()
	dim := s.Dim()
	b, err := ldfa.NewBuilder(s, t.TempDir())
	require.NoError(t, err)

	next := ldfa.Accept
	for k := dim - 1; k >= 0; k-- {
		if k == target {
			vec := make([]ldfa.StateID, s[k])
			vec[want] = next
			for i := range vec {
				if i != want {
					vec[i] = ldfa.Reject
				}
			}
			id, err := b.AddState(k, vec)
			require.NoError(t, err)
			next = id
		} else {
			vec := make([]ldfa.StateID, s[k])
			for i := range vec {
				vec[i] = next
			}
			id, err := b.AddState(k, vec)
			require.NoError(t, err)
			next = id
		}
	}
	d, err := b.Finalize(next)
	require.NoError(t, err)
	return d
}

// chain graph: begin -e1-> end, where e1 flips bit 0 (0<->1) unconditionally.
func buildFlipGraph(t *testing.T, s shape.Shape) *Graph {
	t.Helper()
	g := NewGraph(s)
	begin, err := g.AddNode("begin")
	require.NoError(t, err)
	end, err := g.AddNode("end")
	require.NoError(t, err)

	vec := make(change.Vector, s.Dim())
	vec[0] = change.Descriptor{Active: true, Before: 0, After: 1}
	require.NoError(t, g.AddEdge("flip0to1", begin, end, nil, vec, nil))

	vec2 := make(change.Vector, s.Dim())
	vec2[0] = change.Descriptor{Active: true, Before: 1, After: 0}
	require.NoError(t, g.AddEdge("flip1to0", begin, end, nil, vec2, nil))

	return g
}

func TestEvaluate_FlipGraphMatchesExpectedImage(t *testing.T) {
	s := shape.Shape{2, 2, 2}
	g := buildFlipGraph(t, s)

	in := buildSingleBit(t, s, 1, 1) // bit1==1, bits 0,2 free
	out, err := Evaluate(g, in)
	require.NoError(t, err)

	for _, y := range allStrings(s) {
		x := append([]int(nil), y...)
		x[0] = 1 - y[0]
		want := in.Contains(x)
		require.Equal(t, want, out.Contains(y), "y=%v", y)
	}
}

func TestEvaluate_RejectInputYieldsReject(t *testing.T) {
	s := shape.Shape{2, 2}
	g := buildFlipGraph(t, s)

	out, err := Evaluate(g, ldfa.Constant(s, false))
	require.NoError(t, err)
	require.Equal(t, ldfa.Reject, out.InitialState())
}

func TestEvaluate_UnsatisfiedPreGuardYieldsReject(t *testing.T) {
	s := shape.Shape{2, 2}
	g := NewGraph(s)
	begin, err := g.AddNode("begin")
	require.NoError(t, err)
	end, err := g.AddNode("end")
	require.NoError(t, err)

	// pre-guard requires bit1==1, but all inputs will have bit1==0.
	guard := buildSingleBit(t, s, 1, 1)
	vec := make(change.Vector, s.Dim())
	require.NoError(t, g.AddEdge("guarded", begin, end, []*ldfa.LDFA{guard}, vec, nil))

	in := buildSingleBit(t, s, 1, 0) // bit1==0 always
	out, err := Evaluate(g, in)
	require.NoError(t, err)
	require.Equal(t, ldfa.Reject, out.InitialState())
}

func TestGraph_AddEdgeRejectsOutOfOrder(t *testing.T) {
	s := shape.Shape{2}
	g := NewGraph(s)
	a, err := g.AddNode("a")
	require.NoError(t, err)
	b, err := g.AddNode("b")
	require.NoError(t, err)

	vec := make(change.Vector, s.Dim())
	err = g.AddEdge("backwards", b, a, nil, vec, nil)
	require.Error(t, err)

	var e *Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, OutOfOrder, e.Kind)
}

func TestGraph_Reverse(t *testing.T) {
	s := shape.Shape{2, 2, 2}
	g := buildFlipGraph(t, s)
	rev := g.Reverse()

	_, err := rev.Begin()
	require.NoError(t, err)
	_, err = rev.End()
	require.NoError(t, err)

	begin, err := rev.Begin()
	require.NoError(t, err)
	edges := rev.Edges(begin)
	require.Len(t, edges, 2)
	// The reversed edge's change descriptor should have before/after swapped.
	for _, e := range edges {
		require.True(t, e.Change[0].Active)
		switch e.Name {
		case "flip0to1":
			require.Equal(t, change.Descriptor{Active: true, Before: 1, After: 0}, e.Change[0])
		case "flip1to0":
			require.Equal(t, change.Descriptor{Active: true, Before: 0, After: 1}, e.Change[0])
		}
	}
}
