package board

import "fmt"

// toggle flips one piece on or off, keeping occupancy and hash in step.
func (p *Position) toggle(c Color, pt PieceType, sq Square) {
	bb := SquareBB(sq)
	p.Pieces[c][pt] ^= bb
	p.Occupied[c] ^= bb
	p.AllOccupied ^= bb
	p.Hash ^= zobristPiece[c][pt][sq]
}

func castlingRookSquares(kingTo Square) (from, to Square) {
	if kingTo.File() == 6 {
		return NewSquare(7, kingTo.Rank()), NewSquare(5, kingTo.Rank())
	}
	return NewSquare(0, kingTo.Rank()), NewSquare(3, kingTo.Rank())
}

func epVictim(to Square, us Color) Square {
	if us == White {
		return to - 8
	}
	return to + 8
}

// Apply plays m, which must come from the move generator for this exact
// position. No legality check is made; a move that does not fit the board
// panics instead of corrupting state.
func (p *Position) Apply(m Move) {
	p.checkApplicable(m)

	us, them := p.SideToMove, p.SideToMove.Other()
	from, to, pt := m.From(), m.To(), m.Piece()

	p.undo = append(p.undo, UndoRecord{
		Move:           m,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
	})

	switch {
	case m.IsEnPassant():
		p.toggle(them, Pawn, epVictim(to, us))
	case m.IsCapture():
		p.toggle(them, m.Captured(), to)
	}

	p.toggle(us, pt, from)
	if m.IsPromotion() {
		p.toggle(us, m.Promotion(), to)
	} else {
		p.toggle(us, pt, to)
	}

	if m.IsCastling() {
		rf, rt := castlingRookSquares(to)
		p.toggle(us, Rook, rf)
		p.toggle(us, Rook, rt)
	}

	p.CastlingRights &^= castleMask[from] | castleMask[to]

	p.EnPassant = NoSquare
	if pt == Pawn && (to-from == 16 || from-to == 16) {
		p.EnPassant = Square((int(from) + int(to)) / 2)
	}

	if pt == Pawn || m.IsCapture() {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.Hash ^= zobristSideToMove
}

// Undo reverses the last Apply exactly. Undo with an empty log panics.
func (p *Position) Undo() {
	n := len(p.undo)
	if n == 0 {
		panic("board: Undo with empty undo log")
	}
	rec := p.undo[n-1]
	p.undo = p.undo[:n-1]

	m := rec.Move
	us := m.Color()
	them := us.Other()
	from, to, pt := m.From(), m.To(), m.Piece()

	if m.IsCastling() {
		rf, rt := castlingRookSquares(to)
		p.toggle(us, Rook, rt)
		p.toggle(us, Rook, rf)
	}

	if m.IsPromotion() {
		p.toggle(us, m.Promotion(), to)
	} else {
		p.toggle(us, pt, to)
	}
	p.toggle(us, pt, from)

	switch {
	case m.IsEnPassant():
		p.toggle(them, Pawn, epVictim(to, us))
	case m.IsCapture():
		p.toggle(them, m.Captured(), to)
	}

	if us == Black {
		p.FullMoveNumber--
	}
	p.SideToMove = us
	p.CastlingRights = rec.CastlingRights
	p.EnPassant = rec.EnPassant
	p.HalfMoveClock = rec.HalfMoveClock
	p.Hash = rec.Hash
}

func (p *Position) checkApplicable(m Move) {
	if m == NoMove {
		panic("board: Apply(NoMove)")
	}
	us := p.SideToMove
	if m.Color() != us {
		panic(fmt.Sprintf("board: Apply(%s): %s move with %s to play", m, m.Color(), us))
	}
	if !p.Pieces[us][m.Piece()].IsSet(m.From()) {
		panic(fmt.Sprintf("board: Apply(%s): no %s %s on %s", m, us, m.Piece(), m.From()))
	}
	to := m.To()
	if p.Occupied[us].IsSet(to) {
		panic(fmt.Sprintf("board: Apply(%s): destination holds an own piece", m))
	}
	switch {
	case m.IsEnPassant():
		if to != p.EnPassant || !p.Pieces[us.Other()][Pawn].IsSet(epVictim(to, us)) {
			panic(fmt.Sprintf("board: Apply(%s): en passant not available", m))
		}
	case m.IsCapture():
		if m.Captured() == King || !p.Pieces[us.Other()][m.Captured()].IsSet(to) {
			panic(fmt.Sprintf("board: Apply(%s): no capturable %s on %s", m, m.Captured(), to))
		}
	default:
		if !p.IsEmpty(to) {
			panic(fmt.Sprintf("board: Apply(%s): destination occupied by %s", m, p.PieceAt(to)))
		}
	}
}
