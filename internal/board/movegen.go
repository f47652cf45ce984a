package board

import "fmt"

// PseudoLegalMoves appends the moves of the piece on sq to ml. Destinations
// of a pinned piece are limited to its pin line; moves that leave the own
// king in check for other reasons are not removed. An empty square adds
// nothing.
func (p *Position) PseudoLegalMoves(sq Square, ml *MoveList) {
	pc := p.PieceAt(sq)
	if pc == NoPiece {
		return
	}
	restrict := Universe
	if pc.Type() != King {
		pins := p.Pins(pc.Color())
		restrict = pins.Restriction(sq)
	}
	p.pieceMoves(sq, pc.Type(), pc.Color(), restrict, ml)
}

// LegalMoves appends every legal move of color c to ml. c must be the side
// to move; asking for the other color panics.
func (p *Position) LegalMoves(c Color, ml *MoveList) {
	if c != p.SideToMove {
		panic(fmt.Sprintf("board: LegalMoves(%s) with %s to play", c, p.SideToMove))
	}
	start := ml.Len()
	pins := p.Pins(c)

	for pt := Pawn; pt <= King; pt++ {
		bb := p.Pieces[c][pt]
		for bb != 0 {
			sq := bb.PopLSB()
			restrict := Universe
			if pt != King {
				restrict = pins.Restriction(sq)
			}
			p.pieceMoves(sq, pt, c, restrict, ml)
		}
	}

	// Keep only moves that do not leave the own king attacked.
	n := start
	for i := start; i < ml.Len(); i++ {
		m := ml.Get(i)
		p.Apply(m)
		legal := !p.InCheck(c)
		p.Undo()
		if legal {
			ml.Set(n, m)
			n++
		}
	}
	ml.count = n
}

// LegalDestinations returns the destination squares of the legal moves of
// the piece on sq.
func (p *Position) LegalDestinations(sq Square) Bitboard {
	pc := p.PieceAt(sq)
	if pc == NoPiece || pc.Color() != p.SideToMove {
		return Empty
	}
	var ml MoveList
	p.PseudoLegalMoves(sq, &ml)

	var dests Bitboard
	for _, m := range ml.Slice() {
		if dests.IsSet(m.To()) {
			continue // other promotion pieces
		}
		p.Apply(m)
		if !p.InCheck(pc.Color()) {
			dests |= SquareBB(m.To())
		}
		p.Undo()
	}
	return dests
}

// InCheck reports whether c's king is attacked. It panics if c has no king.
func (p *Position) InCheck(c Color) bool {
	return p.IsSquareAttacked(p.KingSquare(c), c.Other())
}

func (p *Position) pieceMoves(sq Square, pt PieceType, c Color, restrict Bitboard, ml *MoveList) {
	switch pt {
	case Pawn:
		p.pawnMoves(sq, c, restrict, ml)
	case King:
		p.addMoves(sq, King, c, KingAttacks(sq)&^p.Occupied[c], ml)
		p.castlingMoves(sq, c, ml)
	default:
		targets := Attacks(pt, c, sq, p.AllOccupied) &^ p.Occupied[c] & restrict
		p.addMoves(sq, pt, c, targets, ml)
	}
}

func (p *Position) addMoves(from Square, pt PieceType, c Color, targets Bitboard, ml *MoveList) {
	them := c.Other()
	for targets != 0 {
		to := targets.PopLSB()
		ml.Add(NewMove(from, to, pt, c, p.kindAt(them, to)))
	}
}

// kindAt returns the kind of c's piece on sq, NoPieceType if none.
func (p *Position) kindAt(c Color, sq Square) PieceType {
	if !p.Occupied[c].IsSet(sq) {
		return NoPieceType
	}
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt].IsSet(sq) {
			return pt
		}
	}
	return NoPieceType
}

func (p *Position) pawnMoves(from Square, c Color, restrict Bitboard, ml *MoveList) {
	them := c.Other()
	bb := SquareBB(from)
	empty := ^p.AllOccupied
	lastRank := Rank8
	startRank := Rank2
	if c == Black {
		lastRank, startRank = Rank1, Rank7
	}

	push := bb.Forward(c) & empty
	var double Bitboard
	if bb&startRank != 0 {
		double = push.Forward(c) & empty
	}
	captures := PawnAttacks(from, c) & p.Occupied[them]

	targets := (push | double | captures) & restrict
	for targets != 0 {
		to := targets.PopLSB()
		captured := p.kindAt(them, to)
		if SquareBB(to)&lastRank != 0 {
			for _, promo := range [4]PieceType{Queen, Rook, Bishop, Knight} {
				ml.Add(NewPromotion(from, to, c, captured, promo))
			}
			continue
		}
		ml.Add(NewMove(from, to, Pawn, c, captured))
	}

	ep := p.EnPassant
	if ep != NoSquare && PawnAttacks(from, c).IsSet(ep) && restrict.IsSet(ep) &&
		p.Pieces[them][Pawn].IsSet(epVictim(ep, c)) {
		ml.Add(NewEnPassant(from, ep, c))
	}
}

// castlingMoves adds castling when the right remains, the king and rook
// stand on their home squares, every square between them is empty, and
// the king's start, transit and landing squares are not attacked.
func (p *Position) castlingMoves(from Square, c Color, ml *MoveList) {
	home := RelativeSquare(c, E1)
	if from != home || p.CastlingRights&(castleRight(c, true)|castleRight(c, false)) == 0 {
		return
	}
	them := c.Other()
	if p.IsSquareAttacked(home, them) {
		return
	}
	for _, kingSide := range [2]bool{true, false} {
		if !p.CastlingRights.CanCastle(c, kingSide) {
			continue
		}
		rookSq, transit, landing := RelativeSquare(c, A1), RelativeSquare(c, D1), RelativeSquare(c, C1)
		if kingSide {
			rookSq, transit, landing = RelativeSquare(c, H1), RelativeSquare(c, F1), RelativeSquare(c, G1)
		}
		if !p.Pieces[c][Rook].IsSet(rookSq) || Between(home, rookSq)&p.AllOccupied != 0 {
			continue
		}
		if p.IsSquareAttacked(transit, them) || p.IsSquareAttacked(landing, them) {
			continue
		}
		ml.Add(NewCastling(home, landing, c))
	}
}

// HasLegalMoves returns true if the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	var ml MoveList
	p.LegalMoves(p.SideToMove, &ml)
	return ml.Len() > 0
}

// IsCheckmate returns true if the side to move is mated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck(p.SideToMove) && !p.HasLegalMoves()
}

// IsStalemate returns true if the side to move has no move and is not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck(p.SideToMove) && !p.HasLegalMoves()
}

// IsInsufficientMaterial returns true if neither side can checkmate:
// bare kings, a single minor piece against a bare king, or bishops only
// with every bishop on squares of one color.
func (p *Position) IsInsufficientMaterial() bool {
	for c := White; c <= Black; c++ {
		if p.Pieces[c][Pawn]|p.Pieces[c][Rook]|p.Pieces[c][Queen] != 0 {
			return false
		}
	}
	knights := p.Pieces[White][Knight] | p.Pieces[Black][Knight]
	bishops := p.Pieces[White][Bishop] | p.Pieces[Black][Bishop]
	if (knights | bishops).PopCount() <= 1 {
		return true
	}
	return knights == 0 && (bishops&LightSquares == 0 || bishops&DarkSquares == 0)
}
