// Package game declares the interface a game's rules must implement for
// solver to build its reachable/winning/losing position sets. Concrete
// rule encoders (board layout, legal-move generation) are external
// collaborators in spirit; this module ships only the minimal test-fixture
// encoders under game/tictactoe, game/nim, and game/breakthrough.
package game

import (
	"github.com/ldfagames/solver/ldfa"
	"github.com/ldfagames/solver/movegraph"
	"github.com/ldfagames/solver/shape"
)

// Encoder maps a game's rules onto the shape/move-graph vocabulary solver
// operates on. Side is 0 or 1; games alternate turns between the two.
type Encoder interface {
	// Name identifies the game, used as the store namespace for its cached
	// position sets.
	Name() string

	// Shape returns the fixed-length string shape positions are encoded as.
	Shape() shape.Shape

	// InitialPosition returns the single starting position, as a string
	// over Shape().
	InitialPosition() []int

	// MoveGraph returns the one-ply move graph for the side to move. Built
	// once per side and reused; MoveGraph may be called more than once and
	// must return an equivalent graph each time.
	MoveGraph(side int) (*movegraph.Graph, error)

	// PositionToString renders a position for diagnostics.
	PositionToString(pos []int) string
}

// LostConditionEncoder is implemented by games whose lost positions are not
// simply "no legal move for the side to move" — the normal-play convention
// solver gives every Encoder for free by deriving lost positions from
// GetHasMoves. Tic-tac-toe's three-in-a-row-for-the-opponent condition is
// the standing example: a player can be lost with legal moves still on
// the board, and a full board with no three-in-a-row is a draw rather than
// a loss for whoever is stuck moving.
//
// solver checks for this interface and, when present, runs the more
// general losing/winning recursion that unions each side's own lost
// condition into the move-graph-derived terms instead of deriving it from
// move availability alone. Won positions are always derived as the
// opponent's lost positions: side has won exactly when its opponent has
// lost.
type LostConditionEncoder interface {
	Encoder

	// Lost returns the positions where side has already lost, independent
	// of whether side has a legal move.
	Lost(side int) (*ldfa.LDFA, error)
}
