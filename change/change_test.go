package change

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ldfagames/solver/ldfa"
	"github.com/ldfagames/solver/shape"
)

// buildEvenOnes builds an LDFA over a binary shape that accepts
// strings with an even number of 1s, used as a nontrivial fixture for the
// change operator's forward/backward rewrite.
func buildEvenOnes(t *testing.T, dim int) *ldfa.LDFA {
	t.Helper()
	s := make(shape.Shape, dim)
	for i := range s {
		s[i] = 2
	}
	b, err := ldfa.NewBuilder(s, t.TempDir())
	require.NoError(t, err)

	nextEven, nextOdd := ldfa.Accept, ldfa.Reject
	for k := dim - 1; k >= 0; k-- {
		even, err := b.AddState(k, []ldfa.StateID{nextEven, nextOdd})
		require.NoError(t, err)
		odd, err := b.AddState(k, []ldfa.StateID{nextOdd, nextEven})
		require.NoError(t, err)
		nextEven, nextOdd = even, odd
	}
	d, err := b.Finalize(nextEven)
	require.NoError(t, err)
	return d
}

func allStrings(s shape.Shape) [][]int {
	var out [][]int
	it := ldfa.NewIterator(s)
	for !it.Done() {
		out = append(out, append([]int(nil), it.String()...))
		it.Next()
	}
	return out
}

// TestApply_SingleLayerChangeMatchesDeclaration checks the defining
// property of a single-layer change directly: change(A,c).Contains(y) iff
// y_k = after and A.Contains(y with y_k replaced by before).
func TestApply_SingleLayerChangeMatchesDeclaration(t *testing.T) {
	const dim = 4
	d := buildEvenOnes(t, dim)
	s := d.Shape()

	for k := 0; k < dim; k++ {
		for before := 0; before < 2; before++ {
			for after := 0; after < 2; after++ {
				vec := make(Vector, dim)
				vec[k] = Descriptor{Active: true, Before: before, After: after}

				changed, err := Apply(d, vec)
				require.NoError(t, err)

				for _, y := range allStrings(s) {
					x := append([]int(nil), y...)
					x[k] = before
					want := y[k] == after && d.Contains(x)
					require.Equal(t, want, changed.Contains(y), "k=%d before=%d after=%d y=%v", k, before, after, y)
				}
			}
		}
	}
}

func TestApply_AllWildcardIsIdentity(t *testing.T) {
	d := buildEvenOnes(t, 3)
	s := d.Shape()
	vec := make(Vector, s.Dim())

	changed, err := Apply(d, vec)
	require.NoError(t, err)
	for _, y := range allStrings(s) {
		require.Equal(t, d.Contains(y), changed.Contains(y))
	}
}

func TestApply_MultiLayerChange(t *testing.T) {
	d := buildEvenOnes(t, 3)
	s := d.Shape()
	vec := Vector{
		{Active: true, Before: 0, After: 1},
		{},
		{Active: true, Before: 1, After: 0},
	}

	changed, err := Apply(d, vec)
	require.NoError(t, err)
	for _, y := range allStrings(s) {
		x := append([]int(nil), y...)
		x[0] = 0
		x[2] = 1
		want := y[0] == 1 && y[2] == 0 && d.Contains(x)
		require.Equal(t, want, changed.Contains(y), "y=%v", y)
	}
}

func TestApply_OnConstantAcceptWithFutureChange(t *testing.T) {
	s := shape.Shape{2, 2}
	allAccept := ldfa.Constant(s, true)
	vec := Vector{{Active: true, Before: 0, After: 1}, {}}

	changed, err := Apply(allAccept, vec)
	require.NoError(t, err)
	for _, y := range allStrings(s) {
		want := y[0] == 1
		require.Equal(t, want, changed.Contains(y), "y=%v", y)
	}
}

func TestApply_OnConstantReject(t *testing.T) {
	s := shape.Shape{2, 2}
	allReject := ldfa.Constant(s, false)
	vec := Vector{{Active: true, Before: 0, After: 1}, {}}

	changed, err := Apply(allReject, vec)
	require.NoError(t, err)
	require.Equal(t, ldfa.Reject, changed.InitialState())
}

func TestVector_ValidateRejectsWrongLength(t *testing.T) {
	s := shape.Shape{2, 2, 2}
	var vec Vector = make(Vector, 2)
	err := vec.Validate(s)
	require.Error(t, err)

	var e *Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, VectorLengthMismatch, e.Kind)
}
