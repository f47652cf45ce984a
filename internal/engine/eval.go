// Package engine implements the chess AI: a handcrafted evaluator and an
// alpha-beta search over a transposition table.
package engine

import (
	"golang.org/x/exp/constraints"

	"github.com/hailam/chesscore/internal/board"
)

// Game phase weights. A full board has phase maxPhase.
const (
	maxPhase     = 24
	phaseMinor   = 1
	phaseRook    = 2
	phaseQueen   = 4
	tempoMg      = 20
	tempoEg      = 8
	spaceNonPawn = 4400 // both sides' non-pawn material needed for the space term
)

// DefaultLazyThreshold is the material+placement margin beyond which the
// remaining terms are skipped.
const DefaultLazyThreshold = 1200

// Evaluator scores positions statically. It holds no per-position state,
// so one Evaluator can be shared by any number of searches.
type Evaluator struct {
	// LazyThreshold disables the early exit when zero or negative.
	LazyThreshold int
}

// NewEvaluator returns an evaluator using lazyThreshold for the early exit.
func NewEvaluator(lazyThreshold int) *Evaluator {
	return &Evaluator{LazyThreshold: lazyThreshold}
}

// evalInfo carries the attack maps and running totals of one evaluation.
// Arrays are indexed by the color owning the attacks.
type evalInfo struct {
	pos    *board.Position
	mg, eg int

	attackedBy   [2][6]board.Bitboard
	attacked     [2]board.Bitboard
	attackedBy2  [2]board.Bitboard
	mobilityArea [2]board.Bitboard
	kingRing     [2]board.Bitboard

	// Attacks on the enemy king ring.
	kingAttackers    [2]int
	kingAttackWeight [2]int
	kingRingHits     [2]int
}

// add credits mg/eg to color c (White positive).
func (ei *evalInfo) add(c board.Color, mg, eg int) {
	if c == board.White {
		ei.mg += mg
		ei.eg += eg
	} else {
		ei.mg -= mg
		ei.eg -= eg
	}
}

// Evaluate returns the score of pos in centipawns from the side to move's
// point of view.
func (e *Evaluator) Evaluate(pos *board.Position) int {
	score := e.EvaluateWhite(pos)
	if pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// EvaluateWhite returns the score of pos from White's point of view. The
// score of a position is exactly the negation of the score of its mirror.
func (e *Evaluator) EvaluateWhite(pos *board.Position) int {
	ei := evalInfo{pos: pos}
	phase := gamePhase(pos)

	for c := board.White; c <= board.Black; c++ {
		ei.evaluateMaterial(c)
		ei.evaluatePlacement(c)
	}
	if e.LazyThreshold > 0 {
		if score := taper(ei.mg, ei.eg, phase); abs(score) > e.LazyThreshold {
			return score
		}
	}

	ei.initAttacks()
	for c := board.White; c <= board.Black; c++ {
		ei.evaluateMobility(c)
	}
	for c := board.White; c <= board.Black; c++ {
		ei.evaluateKingSafety(c)
		ei.evaluateThreats(c)
		ei.evaluatePassedPawns(c)
	}
	if nonPawnMaterial(pos, board.White)+nonPawnMaterial(pos, board.Black) >= spaceNonPawn {
		for c := board.White; c <= board.Black; c++ {
			ei.evaluateSpace(c)
		}
	}

	ei.add(pos.SideToMove, tempoMg, tempoEg)
	return taper(ei.mg, ei.eg, phase)
}

// gamePhase counts minor pieces 1, rooks 2 and queens 4, capped at maxPhase.
func gamePhase(pos *board.Position) int {
	phase := 0
	for c := board.White; c <= board.Black; c++ {
		phase += phaseMinor * (pos.Pieces[c][board.Knight] | pos.Pieces[c][board.Bishop]).PopCount()
		phase += phaseRook * pos.Pieces[c][board.Rook].PopCount()
		phase += phaseQueen * pos.Pieces[c][board.Queen].PopCount()
	}
	return clamp(phase, 0, maxPhase)
}

// taper blends the middlegame and endgame scores by phase.
func taper(mg, eg, phase int) int {
	return (mg*phase + eg*(maxPhase-phase)) / maxPhase
}

func nonPawnMaterial(pos *board.Position, c board.Color) int {
	total := 0
	for pt := board.Knight; pt <= board.Queen; pt++ {
		total += pos.Pieces[c][pt].PopCount() * pieceValueMg[pt]
	}
	return total
}

// PieceValue returns the middlegame material value of pt.
func PieceValue(pt board.PieceType) int {
	if pt >= board.King {
		return 0
	}
	return pieceValueMg[pt]
}

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// relativeRanks returns the ranks lo..hi as seen from c's side.
func relativeRanks(c board.Color, lo, hi int) board.Bitboard {
	var bb board.Bitboard
	for r := lo; r <= hi; r++ {
		if c == board.White {
			bb |= board.RankMask[r]
		} else {
			bb |= board.RankMask[7-r]
		}
	}
	return bb
}
