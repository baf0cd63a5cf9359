package construct

import (
	"testing"

	"github.com/stretchr/testify/require"

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

func TestAcceptRejectAreConstant(t *testing.T) {
	s := shape.Shape{2, 3}
	for _, y := range allStrings(s) {
		require.True(t, Accept(s).Contains(y))
		require.False(t, Reject(s).Contains(y))
	}
}

func TestAcceptRejectAreInterned(t *testing.T) {
	s := shape.Shape{2, 2}
	require.Same(t, Accept(s), Accept(s))
	require.Same(t, Reject(s), Reject(s))
}

func TestFixed_MatchesExactlyTargetCharacter(t *testing.T) {
	s := shape.Shape{2, 3, 2}
	d, err := Fixed(s, 1, 2)
	require.NoError(t, err)
	for _, y := range allStrings(s) {
		require.Equal(t, y[1] == 2, d.Contains(y))
	}
}

func TestFixed_RejectsOutOfRange(t *testing.T) {
	s := shape.Shape{2, 2}
	_, err := Fixed(s, 5, 0)
	require.Error(t, err)
	_, err = Fixed(s, 0, 9)
	require.Error(t, err)
}

func TestFromStrings_AcceptsExactlyGivenSet(t *testing.T) {
	s := shape.Shape{2, 2, 2}
	want := [][]int{{0, 0, 0}, {1, 1, 0}, {1, 0, 1}}
	d, err := FromStrings(s, want)
	require.NoError(t, err)

	wantSet := make(map[string]bool)
	for _, x := range want {
		wantSet[fmtStr(x)] = true
	}
	for _, y := range allStrings(s) {
		require.Equal(t, wantSet[fmtStr(y)], d.Contains(y), "y=%v", y)
	}
}

func TestFromStrings_EmptySetRejectsAll(t *testing.T) {
	s := shape.Shape{2, 2}
	d, err := FromStrings(s, nil)
	require.NoError(t, err)
	for _, y := range allStrings(s) {
		require.False(t, d.Contains(y))
	}
}

func TestFromStrings_RejectsWrongLength(t *testing.T) {
	s := shape.Shape{2, 2}
	_, err := FromStrings(s, [][]int{{0, 0, 0}})
	require.Error(t, err)
}

func TestCount_MatchesBruteForce(t *testing.T) {
	s := shape.Shape{2, 2, 2, 2}
	for target := 0; target <= s.Dim(); target++ {
		d, err := Count(s, 1, target)
		require.NoError(t, err)
		for _, y := range allStrings(s) {
			n := 0
			for _, c := range y {
				if c == 1 {
					n++
				}
			}
			require.Equal(t, n == target, d.Contains(y), "target=%d y=%v", target, y)
		}
	}
}

func TestCount_RejectsOutOfRangeTarget(t *testing.T) {
	s := shape.Shape{2, 2}
	_, err := Count(s, 1, 5)
	require.Error(t, err)
}

func fmtStr(x []int) string {
	out := make([]byte, len(x))
	for i, c := range x {
		out[i] = byte('0' + c)
	}
	return string(out)
}
