package engine

import "github.com/hailam/chesscore/internal/board"

// Piece values, indexed by piece type. Kings carry no material value.
var (
	pieceValueMg = [6]int{100, 320, 330, 500, 900, 0}
	pieceValueEg = [6]int{120, 290, 320, 540, 940, 0}
)

// Piece-square tables, drawn with rank 8 on top as seen by White.
// pstIndex maps a board square onto them.

var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var kingMidgamePST = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndgamePST = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var psts = [5]*[64]int{&pawnPST, &knightPST, &bishopPST, &rookPST, &queenPST}

// pstIndex converts a square of color c to an index into the drawn tables.
func pstIndex(c board.Color, sq board.Square) board.Square {
	if c == board.White {
		return sq.Mirror()
	}
	return sq
}

// Mobility bonuses indexed by the number of safe squares attacked. The
// queen table covers all 28 possible counts (0..27).
var (
	knightMobility = [2][9]int{
		{-31, -26, -6, -2, 2, 6, 11, 14, 16},
		{-40, -28, -15, -8, 2, 5, 8, 10, 12},
	}
	bishopMobility = [2][14]int{
		{-24, -10, 8, 13, 19, 25, 27, 31, 31, 34, 40, 40, 45, 49},
		{-29, -11, -1, 6, 12, 21, 27, 28, 32, 36, 39, 43, 44, 48},
	}
	rookMobility = [2][15]int{
		{-30, -10, 1, 1, 1, 5, 11, 15, 20, 20, 20, 24, 28, 28, 31},
		{-39, -8, 11, 19, 35, 49, 51, 60, 67, 69, 79, 82, 84, 84, 86},
	}
	queenMobility = [2][28]int{
		{-15, -6, -4, -4, 10, 11, 11, 17, 19, 26, 32, 32, 32, 33,
			33, 33, 36, 36, 38, 39, 46, 54, 54, 54, 55, 57, 57, 58},
		{-24, -15, -3, 9, 20, 27, 29, 37, 39, 48, 48, 50, 60, 63,
			65, 66, 68, 70, 73, 75, 75, 84, 84, 85, 91, 91, 96, 109},
	}
)

// mobilityBonus returns the (mg, eg) bonus for a piece of kind pt with n
// safe squares, capping n at the last table entry.
func mobilityBonus(pt board.PieceType, n int) (int, int) {
	switch pt {
	case board.Knight:
		n = clamp(n, 0, len(knightMobility[0])-1)
		return knightMobility[0][n], knightMobility[1][n]
	case board.Bishop:
		n = clamp(n, 0, len(bishopMobility[0])-1)
		return bishopMobility[0][n], bishopMobility[1][n]
	case board.Rook:
		n = clamp(n, 0, len(rookMobility[0])-1)
		return rookMobility[0][n], rookMobility[1][n]
	case board.Queen:
		n = clamp(n, 0, len(queenMobility[0])-1)
		return queenMobility[0][n], queenMobility[1][n]
	}
	return 0, 0
}

// Passed pawn bonus by relative rank.
var (
	passedPawnMg = [8]int{0, 5, 10, 15, 30, 55, 90, 0}
	passedPawnEg = [8]int{0, 10, 15, 25, 45, 80, 130, 0}
)

// Pawn shelter by file distance of the nearest own pawn in front of the
// king (index 0 = no pawn), and pawn storm penalty by distance of the
// nearest enemy pawn.
var (
	shelterBonus = [8]int{-20, 25, 15, 5, 0, -5, -10, -15}
	stormPenalty = [8]int{0, -35, -25, -15, -5, 0, 0, 0}
)

// Weight each attacking piece kind adds to king danger.
var kingAttackWeight = [6]int{0, 20, 20, 40, 80, 0}

// Bonus for threatening a weak enemy piece, by victim kind.
var (
	threatByMinor = [2][6]int{{0, 30, 30, 45, 40, 0}, {15, 20, 25, 60, 60, 0}}
	threatByRook  = [2][6]int{{0, 20, 25, 0, 45, 0}, {20, 30, 30, 15, 30, 0}}
)
