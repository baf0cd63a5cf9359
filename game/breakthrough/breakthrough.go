// Package breakthrough implements Breakthrough on a width-by-height board
// as a normal-play game.Encoder test fixture: pawns advance one row per
// move, straight ahead only onto an empty square or diagonally onto an
// empty square or a capture, and a side wins by marching a pawn onto the
// opponent's back row. Grounded on BreakthroughGame.h/BreakthroughGame.cpp.
//
// Breakthrough has no pluggable lost condition of its own: reaching the
// back row is folded into the move graph itself as a guard that starves
// the side to move of any further legal move once the opponent has
// already won, so the normal-play convention ("no legal move" means lost)
// solver gives every Encoder for free is exactly right here.
package breakthrough

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

// Game is Breakthrough on a board width cells wide and height cells tall.
// Cell (row, col) is encoded at layer row*width+col, with character 0 for
// blank, 1 for side 0's pawn, 2 for side 1's pawn. Side 0 advances toward
// the last row; side 1 advances toward row 0.
type Game struct {
	width, height int
}

// New returns a Breakthrough game on the given board dimensions.
func New(width, height int) *Game {
	return &Game{width: width, height: height}
}

func (g *Game) Name() string { return fmt.Sprintf("breakthrough_%dx%d", g.width, g.height) }

func (g *Game) Shape() shape.Shape {
	s := make(shape.Shape, g.width*g.height)
	for i := range s {
		s[i] = 3
	}
	return s
}

func (g *Game) index(row, col int) int { return row*g.width + col }

// InitialPosition places side 0's pawns on the first two rows and side 1's
// pawns on the last two rows.
func (g *Game) InitialPosition() []int {
	pos := make([]int, g.width*g.height)
	for row := 0; row < 2; row++ {
		for col := 0; col < g.width; col++ {
			pos[g.index(row, col)] = 1
		}
	}
	for row := g.height - 2; row < g.height; row++ {
		for col := 0; col < g.width; col++ {
			pos[g.index(row, col)] = 2
		}
	}
	return pos
}

func (g *Game) PositionToString(pos []int) string {
	var b strings.Builder
	for row := 0; row < g.height; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < g.width; col++ {
			switch pos[g.index(row, col)] {
			case 0:
				b.WriteByte('.')
			case 1:
				b.WriteByte('x')
			case 2:
				b.WriteByte('o')
			}
		}
	}
	return b.String()
}

// cellNotEqual returns the LDFA requiring the cell at index to not equal
// character.
func cellNotEqual(s shape.Shape, index, character int) (*ldfa.LDFA, error) {
	fixed, err := construct.Fixed(s, index, character)
	if err != nil {
		return nil, err
	}
	return setalgebra.Complement(fixed)
}

// notDone is the guard that starves the move graph once the opponent of
// sideToMove has already reached its target row: side 0's opponent (side
// 1) wins by reaching row 0, side 1's opponent (side 0) wins by reaching
// the last row. Requiring none of the opponent's pawns sit on that row is
// equivalent to the original's "count of opponent pawns on that row is 0".
func (g *Game) notDone(sideToMove int) (*ldfa.LDFA, error) {
	s := g.Shape()
	var row, opponentPiece int
	if sideToMove == 0 {
		row, opponentPiece = 0, 2
	} else {
		row, opponentPiece = g.height-1, 1
	}

	cond := construct.Accept(s)
	for col := 0; col < g.width; col++ {
		cell, err := cellNotEqual(s, g.index(row, col), opponentPiece)
		if err != nil {
			return nil, err
		}
		cond, err = setalgebra.Combine(cond, cell, setalgebra.Intersection)
		if err != nil {
			return nil, err
		}
	}
	return cond, nil
}

// MoveGraph returns side's one-ply move graph: one edge per (pawn,
// destination) pair, each a straight push onto an empty square or a
// diagonal push onto an empty square or capture of an opponent pawn, all
// gated by notDone so that a side with no legal move (including a side
// whose opponent has already reached the back row) is correctly "lost"
// under the normal-play convention.
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

	done, err := g.notDone(side)
	if err != nil {
		return nil, err
	}

	piece := 1 + side
	opponentPiece := 2 - side
	deltaRow := 1
	if side == 1 {
		deltaRow = -1
	}

	addMove := func(fromRow, fromCol, toRow, toCol int, requiredBefore int) error {
		fromIdx := g.index(fromRow, fromCol)
		toIdx := g.index(toRow, toCol)

		fromPiece, err := construct.Fixed(s, fromIdx, piece)
		if err != nil {
			return err
		}
		toBefore, err := construct.Fixed(s, toIdx, requiredBefore)
		if err != nil {
			return err
		}
		pre, err := setalgebra.Combine(done, fromPiece, setalgebra.Intersection)
		if err != nil {
			return err
		}
		pre, err = setalgebra.Combine(pre, toBefore, setalgebra.Intersection)
		if err != nil {
			return err
		}

		v := make(change.Vector, g.width*g.height)
		v[fromIdx] = change.Descriptor{Active: true, Before: piece, After: 0}
		v[toIdx] = change.Descriptor{Active: true, Before: requiredBefore, After: piece}

		kind := "push"
		if requiredBefore == opponentPiece {
			kind = "capture"
		}
		name := fmt.Sprintf("%s-%d,%d->%d,%d-side%d", kind, fromRow, fromCol, toRow, toCol, side)
		return mg.AddEdge(name, begin, end, []*ldfa.LDFA{pre}, v, []*ldfa.LDFA{done})
	}

	for fromRow := 0; fromRow < g.height; fromRow++ {
		toRow := fromRow + deltaRow
		if toRow < 0 || toRow >= g.height {
			continue
		}
		for fromCol := 0; fromCol < g.width; fromCol++ {
			if err := addMove(fromRow, fromCol, toRow, fromCol, 0); err != nil {
				return nil, err
			}
			if fromCol > 0 {
				if err := addMove(fromRow, fromCol, toRow, fromCol-1, 0); err != nil {
					return nil, err
				}
				if err := addMove(fromRow, fromCol, toRow, fromCol-1, opponentPiece); err != nil {
					return nil, err
				}
			}
			if fromCol < g.width-1 {
				if err := addMove(fromRow, fromCol, toRow, fromCol+1, 0); err != nil {
					return nil, err
				}
				if err := addMove(fromRow, fromCol, toRow, fromCol+1, opponentPiece); err != nil {
					return nil, err
				}
			}
		}
	}

	return mg, nil
}
