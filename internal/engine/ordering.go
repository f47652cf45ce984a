package engine

import (
	"github.com/hailam/chesscore/internal/board"
)

// Move ordering priorities
const (
	TTMoveScore     = 10000000 // TT move gets highest priority
	GoodCaptureBase = 1000000  // Base score for captures
	PromotionBase   = 950000
	KillerScore1    = 900000 // First killer move
	KillerScore2    = 800000 // Second killer move
)

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores
// Higher score = search first
var mvvLva = [6][6]int{
	//       P    N    B    R    Q    K  (attacker)
	/* P */ {15, 14, 14, 13, 12, 11},
	/* N */ {25, 24, 24, 23, 22, 21},
	/* B */ {35, 34, 34, 33, 32, 31},
	/* R */ {45, 44, 44, 43, 42, 41},
	/* Q */ {55, 54, 54, 53, 52, 51},
	/* K */ {0, 0, 0, 0, 0, 0},
}

// MoveOrderer holds the quiet-move heuristics of one search.
type MoveOrderer struct {
	// Killer moves (quiet moves that caused beta cutoffs)
	killers [MaxPly][2]board.Move

	// History heuristic (indexed by [from][to])
	history [64][64]int
}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear resets killers and ages history for a new search.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i] = [2]board.Move{}
	}
	for i := range mo.history {
		for j := range mo.history[i] {
			mo.history[i][j] /= 2
		}
	}
}

// ScoreMoves assigns an ordering score to each move of ml.
func (mo *MoveOrderer) ScoreMoves(ml *board.MoveList, ply int, ttMove board.Move) []int {
	scores := make([]int, ml.Len())
	for i := range scores {
		scores[i] = mo.scoreMove(ml.Get(i), ply, ttMove)
	}
	return scores
}

func (mo *MoveOrderer) scoreMove(m board.Move, ply int, ttMove board.Move) int {
	if m == ttMove {
		return TTMoveScore
	}
	if m.IsCapture() {
		score := GoodCaptureBase + mvvLva[m.Captured()][m.Piece()]*1000
		if m.IsPromotion() {
			score += PieceValue(m.Promotion())
		}
		return score
	}
	if m.IsPromotion() {
		return PromotionBase + PieceValue(m.Promotion())
	}
	if ply < MaxPly {
		if m == mo.killers[ply][0] {
			return KillerScore1
		}
		if m == mo.killers[ply][1] {
			return KillerScore2
		}
	}
	return mo.history[m.From()][m.To()]
}

// UpdateKillers records a quiet move that caused a cutoff at ply.
func (mo *MoveOrderer) UpdateKillers(m board.Move, ply int) {
	if ply >= MaxPly || mo.killers[ply][0] == m {
		return
	}
	mo.killers[ply][1] = mo.killers[ply][0]
	mo.killers[ply][0] = m
}

// UpdateHistory rewards a quiet move that caused a cutoff.
func (mo *MoveOrderer) UpdateHistory(m board.Move, depth int) {
	h := &mo.history[m.From()][m.To()]
	*h += depth * depth
	// Stay below the killer band.
	if *h > 400000 {
		for i := range mo.history {
			for j := range mo.history[i] {
				mo.history[i][j] /= 2
			}
		}
	}
}

// SortMoves sorts moves by their scores (descending). Equal scores keep
// their generation order.
func SortMoves(moves *board.MoveList, scores []int) {
	for i := 1; i < moves.Len(); i++ {
		m, s := moves.Get(i), scores[i]
		j := i - 1
		for j >= 0 && scores[j] < s {
			moves.Set(j+1, moves.Get(j))
			scores[j+1] = scores[j]
			j--
		}
		moves.Set(j+1, m)
		scores[j+1] = s
	}
}

// OrderMoves sorts ml best first: the TT move, captures by MVV-LVA,
// promotions, then quiet moves.
func OrderMoves(ml *board.MoveList, ttMove board.Move) {
	var mo MoveOrderer
	SortMoves(ml, mo.ScoreMoves(ml, MaxPly, ttMove))
}
