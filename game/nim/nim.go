// Package nim implements normal-play multi-heap Nim as a game.Encoder test
// fixture: one layer per heap, the layer's character is the heap's current
// size, and a move decreases exactly one heap to any smaller size. Grounded
// on NormalNimGame.cpp.
package nim

import (
	"fmt"
	"strings"

	"github.com/ldfagames/solver/change"
	"github.com/ldfagames/solver/movegraph"
	"github.com/ldfagames/solver/shape"
)

// Game is normal-play Nim with the given starting heap sizes. Piles[k] is
// both the starting size and the maximum size of heap k.
type Game struct {
	Piles []int
}

// New returns a Nim game with the given starting heap sizes.
func New(piles []int) *Game {
	return &Game{Piles: append([]int(nil), piles...)}
}

func (g *Game) Name() string { return fmt.Sprintf("nim%d", len(g.Piles)) }

// Shape gives heap k an alphabet of size Piles[k]+1: the values 0..Piles[k].
func (g *Game) Shape() shape.Shape {
	s := make(shape.Shape, len(g.Piles))
	for k, p := range g.Piles {
		s[k] = p + 1
	}
	return s
}

func (g *Game) InitialPosition() []int {
	return append([]int(nil), g.Piles...)
}

func (g *Game) PositionToString(pos []int) string {
	parts := make([]string, len(pos))
	for k, c := range pos {
		parts[k] = fmt.Sprintf("%d", c)
	}
	return strings.Join(parts, ",")
}

// MoveGraph is identical for both sides: Nim is impartial, so either side
// to move has the same legal moves from a given position. For every heap
// and every (before, after) pair with before > after, one edge removes
// before-after tokens from that heap and leaves every other heap
// untouched; no guard is needed since change.Apply only rewrites states
// actually reachable via the fixed "before" character.
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

	for layer, size := range s {
		for before := 1; before < size; before++ {
			for after := 0; after < before; after++ {
				name := fmt.Sprintf("%d:%d->%d", layer, before, after)
				v := make(change.Vector, len(s))
				v[layer] = change.Descriptor{Active: true, Before: before, After: after}
				if err := mg.AddEdge(name, begin, end, nil, v, nil); err != nil {
					return nil, err
				}
			}
		}
	}
	return mg, nil
}
