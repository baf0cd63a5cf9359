package solver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ldfagames/solver/change"
	"github.com/ldfagames/solver/construct"
	"github.com/ldfagames/solver/ldfa"
	"github.com/ldfagames/solver/movegraph"
	"github.com/ldfagames/solver/shape"
)

// subtractionGame is a single-heap subtraction game {1,2}: each player to
// move removes one or two tokens from the heap, and a player with no move
// (empty heap) loses under the normal-play convention. Both sides share the
// same move graph since the game is impartial. A heap of size up to max is
// encoded as a thermometer of max binary layers: height h is the string with
// layers 0..h-1 set to 1 and the rest 0.
type subtractionGame struct {
	max int
}

func (g *subtractionGame) Name() string { return "subtraction-test" }

func (g *subtractionGame) Shape() shape.Shape {
	s := make(shape.Shape, g.max)
	for i := range s {
		s[i] = 2
	}
	return s
}

func (g *subtractionGame) InitialPosition() []int {
	pos := make([]int, g.max)
	for i := range pos {
		pos[i] = 1
	}
	return pos
}

func (g *subtractionGame) PositionToString(pos []int) string {
	out := make([]byte, len(pos))
	for i, c := range pos {
		out[i] = byte('0' + c)
	}
	return string(out)
}

// heightGuard returns the LDFA matching exactly the thermometer string for
// height h: within the reachable canonical positions this game ever visits,
// "exactly h ones" identifies that string uniquely, so construct.Count
// doubles as an exact-height guard.
func (g *subtractionGame) heightGuard(h int) (*ldfa.LDFA, error) {
	return construct.Count(g.Shape(), 1, h)
}

func (g *subtractionGame) MoveGraph(side int) (*movegraph.Graph, error) {
	s := g.Shape()
	mg := movegraph.NewGraph(s)
	begin, err := mg.AddNode("begin")
	if err != nil {
		return nil, err
	}
	end, err := mg.AddNode("end")
	if err != nil {
		return nil, err
	}

	addMove := func(name string, h, removed int) error {
		guard, err := g.heightGuard(h)
		if err != nil {
			return err
		}
		v := make(change.Vector, g.max)
		for i := h - removed; i < h; i++ {
			v[i] = change.Descriptor{Active: true, Before: 1, After: 0}
		}
		return mg.AddEdge(name, begin, end, []*ldfa.LDFA{guard}, v, nil)
	}

	for h := 1; h <= g.max; h++ {
		if err := addMove(namef("remove1", h), h, 1); err != nil {
			return nil, err
		}
	}
	for h := 2; h <= g.max; h++ {
		if err := addMove(namef("remove2", h), h, 2); err != nil {
			return nil, err
		}
	}
	return mg, nil
}

func namef(prefix string, h int) string {
	return prefix + "-" + string(rune('0'+h))
}

func newSubtractionSolver(t *testing.T, max int) *Solver {
	t.Helper()
	enc := &subtractionGame{max: max}
	cfg := DefaultConfig().WithStoreDir(t.TempDir())
	s, err := New(enc, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func heightString(max, h int) []int {
	out := make([]int, max)
	for i := 0; i < h; i++ {
		out[i] = 1
	}
	return out
}

func TestSolver_GetPositionsInitial(t *testing.T) {
	s := newSubtractionSolver(t, 3)
	d, err := s.GetPositionsInitial()
	require.NoError(t, err)
	require.True(t, d.Contains(heightString(3, 3)))
	require.False(t, d.Contains(heightString(3, 2)))
}

func TestSolver_GetMovesForward_OnePlyFromFull(t *testing.T) {
	s := newSubtractionSolver(t, 3)
	initial, err := s.GetPositionsInitial()
	require.NoError(t, err)

	moves, err := s.GetMovesForward(0, initial)
	require.NoError(t, err)
	require.True(t, moves.Contains(heightString(3, 2)), "remove 1 from 3 reaches 2")
	require.True(t, moves.Contains(heightString(3, 1)), "remove 2 from 3 reaches 1")
	require.False(t, moves.Contains(heightString(3, 3)))
	require.False(t, moves.Contains(heightString(3, 0)))
}

func TestSolver_GetHasMoves(t *testing.T) {
	s := newSubtractionSolver(t, 3)
	d, err := s.GetHasMoves(0)
	require.NoError(t, err)
	require.False(t, d.Contains(heightString(3, 0)), "empty heap has no move")
	for h := 1; h <= 3; h++ {
		require.True(t, d.Contains(heightString(3, h)), "height %d has a move", h)
	}
}

// TestSolver_SubtractionGameWinLoss checks the classic subtraction-game
// {1,2} result: heap sizes that are multiples of 3 are losing for the side
// to move, everything else is winning.
func TestSolver_SubtractionGameWinLoss(t *testing.T) {
	s := newSubtractionSolver(t, 3)

	losing, err := s.GetPositionsLosing(0, 6)
	require.NoError(t, err)
	winning, err := s.GetPositionsWinning(0, 6)
	require.NoError(t, err)

	for h := 0; h <= 3; h++ {
		str := heightString(3, h)
		wantLosing := h%3 == 0
		require.Equal(t, wantLosing, losing.Contains(str), "height %d losing", h)
		require.Equal(t, !wantLosing, winning.Contains(str), "height %d winning", h)
	}
}

func TestSolver_GetPositionsLost_IsHeightZero(t *testing.T) {
	s := newSubtractionSolver(t, 3)
	lost, err := s.GetPositionsLost(0)
	require.NoError(t, err)
	require.True(t, lost.Contains(heightString(3, 0)))
	for h := 1; h <= 3; h++ {
		require.False(t, lost.Contains(heightString(3, h)))
	}
}

func TestSolver_GetPositionsReachable(t *testing.T) {
	s := newSubtractionSolver(t, 3)

	r0, err := s.GetPositionsReachable(0)
	require.NoError(t, err)
	require.True(t, r0.Contains(heightString(3, 3)))

	r1, err := s.GetPositionsReachable(1)
	require.NoError(t, err)
	require.True(t, r1.Contains(heightString(3, 2)))
	require.True(t, r1.Contains(heightString(3, 1)))
	require.False(t, r1.Contains(heightString(3, 3)))

	r3, err := s.GetPositionsReachable(3)
	require.NoError(t, err)
	require.True(t, r3.Contains(heightString(3, 0)))
}

func TestSolver_InvalidSideRejected(t *testing.T) {
	s := newSubtractionSolver(t, 3)
	_, err := s.GetMovesForward(2, nil)
	require.Error(t, err)
}
