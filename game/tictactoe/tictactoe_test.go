package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGame_InitialPosition(t *testing.T) {
	g := New(3)
	pos := g.InitialPosition()
	require.Len(t, pos, 9)
	for _, c := range pos {
		require.Equal(t, 0, c)
	}
}

func TestGame_Shape(t *testing.T) {
	g := New(2)
	s := g.Shape()
	require.Len(t, s, 4)
	for _, width := range s {
		require.Equal(t, 3, width)
	}
}

func TestGame_Lost_DetectsHorizontalRow(t *testing.T) {
	g := New(2)
	lost0, err := g.Lost(0)
	require.NoError(t, err)

	// side 0 is lost when side 1 (piece 2) has filled a full line. Top row
	// of a 2x2 board: cells 0,1.
	require.True(t, lost0.Contains([]int{2, 2, 0, 0}))
	require.False(t, lost0.Contains([]int{2, 1, 0, 0}))
	require.False(t, lost0.Contains([]int{0, 0, 0, 0}))
}

func TestGame_Lost_DetectsDiagonal(t *testing.T) {
	g := New(2)
	lost1, err := g.Lost(1)
	require.NoError(t, err)

	// side 1 is lost when side 0 (piece 1) has filled the main diagonal:
	// cells 0 and 3 on a 2x2 board.
	require.True(t, lost1.Contains([]int{1, 0, 0, 1}))
	require.False(t, lost1.Contains([]int{1, 0, 0, 2}))
}

func TestGame_MoveGraph_NoMovesOntoOccupiedCell(t *testing.T) {
	g := New(2)
	mg, err := g.MoveGraph(0)
	require.NoError(t, err)
	begin, err := mg.Begin()
	require.NoError(t, err)
	require.Len(t, mg.Edges(begin), 4) // one candidate move per cell
}
