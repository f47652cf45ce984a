package board

// Precomputed attack tables. All of them are built once in init and only
// read afterwards.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard

	betweenBB [64][64]Bitboard // squares strictly between two aligned squares
	lineBB    [64][64]Bitboard // whole board line through two aligned squares
)

func init() {
	initLeaperAttacks()
	initMagics()
	initLines()
	initZobrist()
}

func initLeaperAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		knightAttacks[sq] = (bb<<17)&NotFileA | (bb<<15)&NotFileH |
			(bb>>15)&NotFileA | (bb>>17)&NotFileH |
			(bb<<10)&NotFileAB | (bb<<6)&NotFileGH |
			(bb>>6)&NotFileAB | (bb>>10)&NotFileGH

		kingAttacks[sq] = bb.North() | bb.South() | bb.East() | bb.West() |
			bb.NorthEast() | bb.NorthWest() | bb.SouthEast() | bb.SouthWest()

		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

func initLines() {
	for a := A1; a <= H8; a++ {
		for _, dirs := range [][]direction{bishopDirections[:], rookDirections[:]} {
			empty := slidingAttacks(a, 0, dirs)
			for b := A1; b <= H8; b++ {
				if !empty.IsSet(b) {
					continue
				}
				betweenBB[a][b] = slidingAttacks(a, SquareBB(b), dirs) & slidingAttacks(b, SquareBB(a), dirs)
				lineBB[a][b] = (empty & slidingAttacks(b, 0, dirs)) | SquareBB(a) | SquareBB(b)
			}
		}
	}
}

// KnightAttacks returns the knight attack set from sq.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack set from sq.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// Attacks dispatches on piece kind. Color is only consulted for pawns and
// occupancy only for sliders.
func Attacks(pt PieceType, c Color, sq Square, occupied Bitboard) Bitboard {
	switch pt {
	case Pawn:
		return pawnAttacks[c][sq]
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacks(sq, occupied)
	case Rook:
		return RookAttacks(sq, occupied)
	case Queen:
		return QueenAttacks(sq, occupied)
	case King:
		return kingAttacks[sq]
	}
	return Empty
}

// Between returns the squares strictly between a and b, empty if they do
// not share a rank, file or diagonal.
func Between(a, b Square) Bitboard {
	return betweenBB[a][b]
}

// Line returns the full line through a and b, empty if not aligned.
func Line(a, b Square) Bitboard {
	return lineBB[a][b]
}

// Aligned reports whether c lies on the line through a and b.
func Aligned(a, b, c Square) bool {
	return lineBB[a][b].IsSet(c)
}

// AttackersByColor returns the pieces of color c attacking sq under occupied.
func (p *Position) AttackersByColor(sq Square, c Color, occupied Bitboard) Bitboard {
	pc := &p.Pieces[c]
	return (pawnAttacks[c.Other()][sq] & pc[Pawn]) |
		(knightAttacks[sq] & pc[Knight]) |
		(kingAttacks[sq] & pc[King]) |
		(BishopAttacks(sq, occupied) & (pc[Bishop] | pc[Queen])) |
		(RookAttacks(sq, occupied) & (pc[Rook] | pc[Queen]))
}

// AttackersTo returns attackers of both colors.
func (p *Position) AttackersTo(sq Square, occupied Bitboard) Bitboard {
	return p.AttackersByColor(sq, White, occupied) | p.AttackersByColor(sq, Black, occupied)
}

// IsSquareAttacked reports whether color by attacks sq. Cheap attackers are
// tested first and the first hit returns.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	pc := &p.Pieces[by]
	if pawnAttacks[by.Other()][sq]&pc[Pawn] != 0 ||
		knightAttacks[sq]&pc[Knight] != 0 ||
		kingAttacks[sq]&pc[King] != 0 {
		return true
	}
	if BishopAttacks(sq, p.AllOccupied)&(pc[Bishop]|pc[Queen]) != 0 {
		return true
	}
	return RookAttacks(sq, p.AllOccupied)&(pc[Rook]|pc[Queen]) != 0
}
