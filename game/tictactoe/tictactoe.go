// Package tictactoe implements n-by-n tic-tac-toe as a game.LostConditionEncoder
// test fixture: every cell is one layer with alphabet {blank, side0, side1},
// and the lost condition is "the opponent already has n in a row" rather than
// "no legal move remains" — a full board with no line can still be a draw.
// Grounded on TicTacToeGame.h/TicTacToeGame.cpp.
package tictactoe

import (
	"fmt"
	"strings"

	"github.com/ldfagames/solver/change"
	"github.com/ldfagames/solver/construct"
	"github.com/ldfagames/solver/ldfa"
	"github.com/ldfagames/solver/movegraph"
	"github.com/ldfagames/solver/setalgebra"
	"github.com/ldfagames/solver/shape"
)

// Game is n-by-n tic-tac-toe. Cell (x, y) is encoded at layer y*n+x, with
// character 0 for blank, 1 for side 0's mark, 2 for side 1's mark.
type Game struct {
	n int
}

// New returns an n-by-n tic-tac-toe game.
func New(n int) *Game {
	return &Game{n: n}
}

func (g *Game) Name() string { return fmt.Sprintf("tictactoe%d", g.n) }

func (g *Game) Shape() shape.Shape {
	s := make(shape.Shape, g.n*g.n)
	for i := range s {
		s[i] = 3
	}
	return s
}

func (g *Game) InitialPosition() []int {
	return make([]int, g.n*g.n)
}

func (g *Game) PositionToString(pos []int) string {
	var b strings.Builder
	for y := 0; y < g.n; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < g.n; x++ {
			switch pos[y*g.n+x] {
			case 0:
				b.WriteByte('.')
			case 1:
				b.WriteByte('X')
			case 2:
				b.WriteByte('O')
			}
		}
	}
	return b.String()
}

// lostCondition is the LDFA requiring every cell on the line starting at
// (xStart, yStart) and stepping by (xDelta, yDelta) for n cells to already
// hold the opponent's mark.
func (g *Game) lostCondition(side, xStart, yStart, xDelta, yDelta int) (*ldfa.LDFA, error) {
	s := g.Shape()
	opponentPiece := 2 - side
	cond := construct.Accept(s)
	for i := 0; i < g.n; i++ {
		x := xStart + xDelta*i
		y := yStart + yDelta*i
		index := y*g.n + x
		fixed, err := construct.Fixed(s, index, opponentPiece)
		if err != nil {
			return nil, err
		}
		cond, err = setalgebra.Combine(cond, fixed, setalgebra.Intersection)
		if err != nil {
			return nil, err
		}
	}
	return cond, nil
}

// Lost returns the positions where side has already lost: the opponent
// holds a full line (n verticals, n horizontals, 2 diagonals), regardless
// of whether side still has a legal move. Implements
// game.LostConditionEncoder.
func (g *Game) Lost(side int) (*ldfa.LDFA, error) {
	s := g.Shape()
	lost := construct.Reject(s)

	addLine := func(xStart, yStart, xDelta, yDelta int) error {
		line, err := g.lostCondition(side, xStart, yStart, xDelta, yDelta)
		if err != nil {
			return err
		}
		lost, err = setalgebra.Combine(lost, line, setalgebra.Union)
		return err
	}

	for x := 0; x < g.n; x++ {
		if err := addLine(x, 0, 0, 1); err != nil {
			return nil, err
		}
	}
	for y := 0; y < g.n; y++ {
		if err := addLine(0, y, 1, 0); err != nil {
			return nil, err
		}
	}
	if err := addLine(0, 0, 1, 1); err != nil {
		return nil, err
	}
	if err := addLine(0, g.n-1, 1, -1); err != nil {
		return nil, err
	}

	return lost, nil
}

// MoveGraph returns side's one-ply move graph: one edge per blank cell,
// guarded by "side has not already lost" both before and after the move
// (matching the original's not_lost_positions pre/post guard, carried
// through the move rather than re-derived once the game is already over).
func (g *Game) MoveGraph(side int) (*movegraph.Graph, error) {
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

	lost, err := g.Lost(side)
	if err != nil {
		return nil, err
	}
	notLost, err := setalgebra.Complement(lost)
	if err != nil {
		return nil, err
	}

	piece := 1 + side
	for cell := 0; cell < g.n*g.n; cell++ {
		blank, err := construct.Fixed(s, cell, 0)
		if err != nil {
			return nil, err
		}
		pre, err := setalgebra.Combine(notLost, blank, setalgebra.Intersection)
		if err != nil {
			return nil, err
		}
		marked, err := construct.Fixed(s, cell, piece)
		if err != nil {
			return nil, err
		}
		post, err := setalgebra.Combine(notLost, marked, setalgebra.Intersection)
		if err != nil {
			return nil, err
		}

		v := make(change.Vector, g.n*g.n)
		v[cell] = change.Descriptor{Active: true, Before: 0, After: piece}

		name := fmt.Sprintf("mark-%d-side%d", cell, side)
		if err := mg.AddEdge(name, begin, end, []*ldfa.LDFA{pre}, v, []*ldfa.LDFA{post}); err != nil {
			return nil, err
		}
	}
	return mg, nil
}
