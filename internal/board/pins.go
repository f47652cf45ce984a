package board

// PinSet records which of one side's pieces are pinned to their king and
// the line each may still move along.
type PinSet struct {
	Pinned Bitboard
	line   [64]Bitboard
}

// Restriction returns the squares the piece on sq may move to as far as
// pins are concerned: its pin line, or Universe if it is not pinned.
func (ps *PinSet) Restriction(sq Square) Bitboard {
	if !ps.Pinned.IsSet(sq) {
		return Universe
	}
	return ps.line[sq]
}

// Pins finds c's pinned pieces by x-ray: every enemy slider that would see
// the king on an empty board pins the piece standing alone between them,
// if that piece is c's. The pin line is the between squares plus the
// slider, so capturing the pinner stays allowed. A piece pinned along two
// rays keeps only the intersection of both lines.
func (p *Position) Pins(c Color) PinSet {
	var ps PinSet
	them := c.Other()
	ksq := p.KingSquare(c)

	snipers := (RookAttacks(ksq, 0) & (p.Pieces[them][Rook] | p.Pieces[them][Queen])) |
		(BishopAttacks(ksq, 0) & (p.Pieces[them][Bishop] | p.Pieces[them][Queen]))

	for snipers != 0 {
		sniper := snipers.PopLSB()
		between := Between(sniper, ksq)
		blockers := between & p.AllOccupied
		if blockers == 0 || blockers.Several() || blockers&p.Occupied[c] == 0 {
			continue
		}
		sq := blockers.LSB()
		line := between | SquareBB(sniper)
		if ps.Pinned.IsSet(sq) {
			ps.line[sq] &= line
		} else {
			ps.Pinned |= blockers
			ps.line[sq] = line
		}
	}
	return ps
}
