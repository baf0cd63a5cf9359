// Package solver orchestrates a game's move graphs into reachable,
// winning, and losing position sets, caching every intermediate LDFA in a
// content-addressed store.Store keyed by a human-readable name. Games get
// the normal-play convention (the side with no legal move loses) for free;
// games with their own lost condition implement game.LostConditionEncoder
// instead.
package solver

import (
	"fmt"

	"github.com/ldfagames/solver/construct"
	"github.com/ldfagames/solver/game"
	"github.com/ldfagames/solver/ldfa"
	"github.com/ldfagames/solver/movegraph"
	"github.com/ldfagames/solver/setalgebra"
	"github.com/ldfagames/solver/shape"
	"github.com/ldfagames/solver/store"
)

// Solver answers reachability and win/loss queries for a single game.Encoder.
type Solver struct {
	enc   game.Encoder
	cfg   Config
	store *store.Store
	stats BuildStats

	forward  [2]*movegraph.Graph
	backward [2]*movegraph.Graph
	built    [2]bool

	hasMoves [2]*ldfa.LDFA
}

// New creates a Solver for enc, opening (or creating) its store under
// cfg.StoreDir.
func New(enc game.Encoder, cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.StoreDir)
	if err != nil {
		return nil, wrapError(BuildFailure, "New: opening store", err)
	}
	return &Solver{enc: enc, cfg: cfg, store: st}, nil
}

// Close releases the Solver's store handle.
func (s *Solver) Close() error {
	return s.store.Close()
}

// Stats returns a snapshot of the Solver's build/cache counters.
func (s *Solver) Stats() BuildStats {
	return s.stats
}

func checkSide(side int) error {
	if side != 0 && side != 1 {
		return newError(InvalidSide, fmt.Sprintf("side must be 0 or 1, got %d", side))
	}
	return nil
}

func (s *Solver) shape() shape.Shape {
	return s.enc.Shape()
}

// ensureMoveGraphs builds and caches side's forward and reversed move
// graphs on first use, mirroring the original build_move_graphs's
// build-once-then-reuse behavior.
func (s *Solver) ensureMoveGraphs(side int) error {
	if s.built[side] {
		return nil
	}
	g, err := s.enc.MoveGraph(side)
	if err != nil {
		return wrapError(BuildFailure, fmt.Sprintf("ensureMoveGraphs: building side %d", side), err)
	}
	s.forward[side] = g
	s.backward[side] = g.Reverse()
	s.built[side] = true
	return nil
}

// Load returns the position set previously saved under name.
func (s *Solver) Load(name string) (*ldfa.LDFA, error) {
	d, err := s.store.Load(name)
	if err == nil {
		s.stats.recordLoad()
	}
	return d, err
}

// LoadByHash loads a position set directly by content hash, bypassing the
// name alias index.
func (s *Solver) LoadByHash(hash [32]byte) (*ldfa.LDFA, error) {
	return s.store.LoadByHash(hash)
}

// loadOrBuild wraps store.LoadOrBuild with BuildStats bookkeeping.
func (s *Solver) loadOrBuild(name string, build func() (*ldfa.LDFA, error)) (*ldfa.LDFA, error) {
	built := false
	d, err := s.store.LoadOrBuild(name, func() (*ldfa.LDFA, error) {
		built = true
		return build()
	})
	if err != nil {
		return nil, err
	}
	if built {
		s.stats.recordBuild()
		s.stats.recordSave()
	} else {
		s.stats.recordLoad()
	}
	return d, nil
}

// GetPositionsInitial returns the single-position LDFA for the game's
// starting position.
func (s *Solver) GetPositionsInitial() (*ldfa.LDFA, error) {
	return construct.FromStrings(s.shape(), [][]int{s.enc.InitialPosition()})
}

// GetMovesForward applies side's forward move graph to positions, returning
// the minimized image.
func (s *Solver) GetMovesForward(side int, positions *ldfa.LDFA) (*ldfa.LDFA, error) {
	if err := checkSide(side); err != nil {
		return nil, err
	}
	if err := s.ensureMoveGraphs(side); err != nil {
		return nil, err
	}
	out, err := movegraph.Evaluate(s.forward[side], positions)
	if err != nil {
		return nil, wrapError(BuildFailure, "GetMovesForward: evaluating", err)
	}
	return ldfa.Minimize(out)
}

// GetMovesBackward applies side's reversed move graph to positions,
// returning the minimized preimage.
func (s *Solver) GetMovesBackward(side int, positions *ldfa.LDFA) (*ldfa.LDFA, error) {
	if err := checkSide(side); err != nil {
		return nil, err
	}
	if err := s.ensureMoveGraphs(side); err != nil {
		return nil, err
	}
	out, err := movegraph.Evaluate(s.backward[side], positions)
	if err != nil {
		return nil, wrapError(BuildFailure, "GetMovesBackward: evaluating", err)
	}
	return ldfa.Minimize(out)
}

// GetPositionsReachable returns the positions reached in exactly ply plies
// from the initial position, alternating sides to move starting with side 0.
func (s *Solver) GetPositionsReachable(ply int) (*ldfa.LDFA, error) {
	if ply < 0 {
		return nil, newError(InvalidConfig, "ply must be >= 0")
	}
	if ply == 0 {
		return s.GetPositionsInitial()
	}
	name := fmt.Sprintf("reachable,ply=%d", ply)
	return s.loadOrBuild(name, func() (*ldfa.LDFA, error) {
		previous, err := s.GetPositionsReachable(ply - 1)
		if err != nil {
			return nil, err
		}
		return s.GetMovesForward((ply-1)%2, previous)
	})
}

// GetHasMoves returns the positions from which side has at least one legal
// move, computed once and cached.
func (s *Solver) GetHasMoves(side int) (*ldfa.LDFA, error) {
	if err := checkSide(side); err != nil {
		return nil, err
	}
	if s.hasMoves[side] != nil {
		return s.hasMoves[side], nil
	}
	name := fmt.Sprintf("has_moves,side=%d", side)
	d, err := s.loadOrBuild(name, func() (*ldfa.LDFA, error) {
		return s.GetMovesBackward(side, construct.Accept(s.shape()))
	})
	if err != nil {
		return nil, err
	}
	s.hasMoves[side] = d
	return d, nil
}

// GetPositionsLost returns the positions where side to move has already
// lost.
func (s *Solver) GetPositionsLost(side int) (*ldfa.LDFA, error) {
	if err := checkSide(side); err != nil {
		return nil, err
	}
	if lw, ok := s.enc.(game.LostConditionEncoder); ok {
		return lw.Lost(side)
	}
	return s.GetPositionsLosing(side, 0)
}

// GetPositionsWon returns the positions where side to move has already won.
func (s *Solver) GetPositionsWon(side int) (*ldfa.LDFA, error) {
	if err := checkSide(side); err != nil {
		return nil, err
	}
	if lw, ok := s.enc.(game.LostConditionEncoder); ok {
		return lw.Lost(1 - side)
	}
	return s.GetPositionsWinning(side, 0)
}

// isEmpty reports whether d denotes the empty language: the LDFA resolves
// straight to the reject sink. Every set-algebra and move-graph operation
// in this module collapses an empty result to the literal Reject sink, so
// this identity check is reliable for the positions solver ever hands it.
func isEmpty(d *ldfa.LDFA) bool {
	return d.InitialState() == ldfa.Reject
}

// GetPositionsLosing returns the positions from which side to move loses in
// at most plyMax of its own plies.
//
// Games without an explicit LostConditionEncoder get the normal-play convention
// for free: losing is derived purely from move availability (no legal move
// is a loss), wins always land on an odd ply and losses on an even one, so
// plyMax's parity is forced unconditionally. Games with an explicit lost
// condition (e.g. tic-tac-toe's three-in-a-row) instead union their own
// lost positions into the move-graph-derived term, and only force parity
// when that condition can never hold at zero plies remaining.
func (s *Solver) GetPositionsLosing(side, plyMax int) (*ldfa.LDFA, error) {
	if err := checkSide(side); err != nil {
		return nil, err
	}
	if plyMax < 0 {
		return nil, newError(InvalidConfig, "plyMax must be >= 0")
	}

	lw, hasLostCondition := s.enc.(game.LostConditionEncoder)
	if !hasLostCondition {
		if plyMax%2 != 0 {
			plyMax--
		}
		name := fmt.Sprintf("losing,side=%d,ply_max=%03d", side, plyMax)
		return s.loadOrBuild(name, func() (*ldfa.LDFA, error) {
			var winningSoon *ldfa.LDFA
			var err error
			if plyMax <= 0 {
				winningSoon = construct.Reject(s.shape())
			} else {
				winningSoon, err = s.GetPositionsWinning(1-side, plyMax-1)
				if err != nil {
					return nil, err
				}
			}
			notWinningSoon, err := setalgebra.Complement(winningSoon)
			if err != nil {
				return nil, err
			}
			notLosingSoon, err := s.GetMovesBackward(side, notWinningSoon)
			if err != nil {
				return nil, err
			}
			return setalgebra.Complement(notLosingSoon)
		})
	}

	lost, err := lw.Lost(side)
	if err != nil {
		return nil, err
	}
	if isEmpty(lost) && plyMax%2 != 0 {
		plyMax--
	}
	if plyMax <= 0 {
		return lost, nil
	}

	name := fmt.Sprintf("losing,side=%d,ply_max=%03d", side, plyMax)
	return s.loadOrBuild(name, func() (*ldfa.LDFA, error) {
		opponentWinningSooner, err := s.GetPositionsWinning(1-side, plyMax-1)
		if err != nil {
			return nil, err
		}
		opponentNotWinningSooner, err := setalgebra.Complement(opponentWinningSooner)
		if err != nil {
			return nil, err
		}
		notLosingSoon, err := s.GetMovesBackward(side, opponentNotWinningSooner)
		if err != nil {
			return nil, err
		}
		hasMoves, err := s.GetHasMoves(side)
		if err != nil {
			return nil, err
		}
		losingSoon, err := setalgebra.Combine(hasMoves, notLosingSoon, setalgebra.Difference)
		if err != nil {
			return nil, err
		}
		return setalgebra.Combine(losingSoon, lost, setalgebra.Union)
	})
}

// GetPositionsWinning returns the positions from which side to move wins in
// at most plyMax of its own plies. See GetPositionsLosing for the two
// algorithms this dispatches between.
func (s *Solver) GetPositionsWinning(side, plyMax int) (*ldfa.LDFA, error) {
	if err := checkSide(side); err != nil {
		return nil, err
	}
	if plyMax < 0 {
		return nil, newError(InvalidConfig, "plyMax must be >= 0")
	}

	lw, hasLostCondition := s.enc.(game.LostConditionEncoder)
	if !hasLostCondition {
		if plyMax <= 0 {
			return construct.Reject(s.shape()), nil
		}
		if plyMax%2 == 0 {
			plyMax--
		}
		name := fmt.Sprintf("winning,side=%d,ply_max=%03d", side, plyMax)
		return s.loadOrBuild(name, func() (*ldfa.LDFA, error) {
			losingSoon, err := s.GetPositionsLosing(1-side, plyMax-1)
			if err != nil {
				return nil, err
			}
			return s.GetMovesBackward(side, losingSoon)
		})
	}

	won, err := lw.Lost(1 - side)
	if err != nil {
		return nil, err
	}
	if plyMax <= 0 {
		return won, nil
	}
	if isEmpty(won) && plyMax%2 == 0 {
		plyMax--
	}

	name := fmt.Sprintf("winning,side=%d,ply_max=%03d", side, plyMax)
	return s.loadOrBuild(name, func() (*ldfa.LDFA, error) {
		losingSoon, err := s.GetPositionsLosing(1-side, plyMax-1)
		if err != nil {
			return nil, err
		}
		winningSoon, err := s.GetMovesBackward(side, losingSoon)
		if err != nil {
			return nil, err
		}
		return setalgebra.Combine(won, winningSoon, setalgebra.Union)
	})
}
