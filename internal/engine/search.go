package engine

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/hailam/chesscore/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// Searcher performs a fixed-depth alpha-beta search. It is not safe for
// concurrent use: the position it searches is mutated in place and
// restored before FindBestMove returns.
type Searcher struct {
	tt      *TranspositionTable
	eval    *Evaluator
	orderer *MoveOrderer
	log     logr.Logger

	pos   *board.Position
	nodes uint64
}

// NewSearcher creates a searcher over tt, scoring leaves with eval.
func NewSearcher(tt *TranspositionTable, eval *Evaluator, log logr.Logger) *Searcher {
	return &Searcher{
		tt:      tt,
		eval:    eval,
		orderer: NewMoveOrderer(),
		log:     log,
	}
}

// Nodes returns the number of nodes visited by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// TT returns the searcher's transposition table.
func (s *Searcher) TT() *TranspositionTable {
	return s.tt
}

// FindBestMove searches depth plies and returns the best move for color
// with its score from color's point of view. It returns NoMove when color
// has no legal move; the caller tells mate from stalemate with InCheck.
// color must be the side to move.
func (s *Searcher) FindBestMove(pos *board.Position, depth int, color board.Color) (board.Move, int) {
	if color != pos.SideToMove {
		panic(fmt.Sprintf("engine: FindBestMove(%s) with %s to play", color, pos.SideToMove))
	}
	start := time.Now()
	s.pos = pos
	s.nodes = 0
	s.orderer.Clear()
	depth = clamp(depth, 1, MaxPly-1)

	var ml board.MoveList
	pos.LegalMoves(color, &ml)
	if ml.Len() == 0 {
		if pos.InCheck(color) {
			return board.NoMove, -MateScore
		}
		return board.NoMove, 0
	}

	ttMove := board.NoMove
	if e, ok := s.tt.Probe(pos.Hash); ok {
		ttMove = e.BestMove
	}
	SortMoves(&ml, s.orderer.ScoreMoves(&ml, 0, ttMove))

	bestMove, bestScore := board.NoMove, -Infinity
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		pos.Apply(m)
		score := -s.negamax(depth-1, -Infinity, Infinity, 1, color.Other())
		pos.Undo()
		if score > bestScore {
			bestMove, bestScore = m, score
		}
	}
	s.tt.Store(pos.Hash, depth, bestScore, BoundExact, bestMove)

	s.log.V(1).Info("search complete",
		"depth", depth,
		"move", bestMove.String(),
		"score", bestScore,
		"nodes", s.nodes,
		"ttEntries", s.tt.Len(),
		"ttHitRate", s.tt.HitRate(),
		"elapsed", time.Since(start))
	return bestMove, bestScore
}

// Negamax returns the score of pos for color searched to depth within the
// window (alpha, beta).
func (s *Searcher) Negamax(pos *board.Position, depth, alpha, beta int, color board.Color) int {
	s.pos = pos
	return s.negamax(depth, alpha, beta, 0, color)
}

func (s *Searcher) negamax(depth, alpha, beta, ply int, color board.Color) int {
	s.nodes++
	pos := s.pos
	alphaOrig := alpha

	ttMove := board.NoMove
	if e, ok := s.tt.Probe(pos.Hash); ok {
		ttMove = e.BestMove
		e.Score = AdjustScoreFromTT(e.Score, ply)
		if e.usable(depth, alpha, beta) {
			return e.Score
		}
	}

	if depth <= 0 {
		return s.evaluate(color)
	}

	var ml board.MoveList
	pos.LegalMoves(color, &ml)
	if ml.Len() == 0 {
		if pos.InCheck(color) {
			return -MateScore + ply
		}
		return 0
	}
	SortMoves(&ml, s.orderer.ScoreMoves(&ml, ply, ttMove))

	best, bestMove := -Infinity, board.NoMove
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		pos.Apply(m)
		score := -s.negamax(depth-1, -beta, -alpha, ply+1, color.Other())
		pos.Undo()

		if score > best {
			best, bestMove = score, m
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			if m.IsQuiet() {
				s.orderer.UpdateKillers(m, ply)
				s.orderer.UpdateHistory(m, depth)
			}
			break
		}
	}

	bound := BoundExact
	if best <= alphaOrig {
		bound = BoundUpper
	} else if best >= beta {
		bound = BoundLower
	}
	s.tt.Store(pos.Hash, depth, AdjustScoreToTT(best, ply), bound, bestMove)
	return best
}

// evaluate scores the current position from color's point of view.
func (s *Searcher) evaluate(color board.Color) int {
	score := s.eval.EvaluateWhite(s.pos)
	if color == board.Black {
		return -score
	}
	return score
}
