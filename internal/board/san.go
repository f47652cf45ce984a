package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMove is returned when a move string matches no legal move.
var ErrUnknownMove = errors.New("no legal move matches")

// SAN renders a legal move of the side to move in standard algebraic
// notation, including the check or mate suffix.
func (p *Position) SAN(m Move) string {
	if m == NoMove {
		return "-"
	}

	var sb strings.Builder
	from, to, pt := m.From(), m.To(), m.Piece()

	switch {
	case m.IsCastling() && to.File() == 6:
		sb.WriteString("O-O")
	case m.IsCastling():
		sb.WriteString("O-O-O")
	default:
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(p.disambiguation(m))
		}
		if m.IsCapture() {
			if pt == Pawn {
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[m.Promotion()])
		}
	}

	p.Apply(m)
	switch {
	case p.IsCheckmate():
		sb.WriteByte('#')
	case p.InCheck(p.SideToMove):
		sb.WriteByte('+')
	}
	p.Undo()

	return sb.String()
}

// disambiguation returns the file, rank or square needed to tell m apart
// from another piece of the same kind reaching the same square.
func (p *Position) disambiguation(m Move) string {
	var ml MoveList
	p.LegalMoves(p.SideToMove, &ml)

	from := m.From()
	var rivals Bitboard
	for _, o := range ml.Slice() {
		if o.To() == m.To() && o.Piece() == m.Piece() && o.From() != from {
			rivals |= SquareBB(o.From())
		}
	}

	switch {
	case rivals == 0:
		return ""
	case rivals&FileMask[from.File()] == 0:
		return string(rune('a' + from.File()))
	case rivals&RankMask[from.Rank()] == 0:
		return string(rune('1' + from.Rank()))
	default:
		return from.String()
	}
}

// SANLine renders a sequence of moves starting from the current position.
// The position is left unchanged.
func (p *Position) SANLine(moves []Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = p.SAN(m)
		p.Apply(m)
	}
	for range moves {
		p.Undo()
	}
	return out
}

// ParseMove resolves a move string against the legal moves of the side to
// move. Both coordinate notation ("e2e4", "e7e8q") and SAN ("Nf3", "exd5",
// "O-O", "e8=Q+") are accepted.
func (p *Position) ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	var ml MoveList
	p.LegalMoves(p.SideToMove, &ml)

	if m, ok := matchCoordinate(s, &ml); ok {
		return m, nil
	}
	if m, ok := matchSAN(s, &ml); ok {
		return m, nil
	}
	return NoMove, fmt.Errorf("%w: %q", ErrUnknownMove, s)
}

func matchCoordinate(s string, ml *MoveList) (Move, bool) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, false
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, false
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, false
	}
	promo := NoPieceType
	if len(s) == 5 {
		promo = PieceFromChar(s[4]).Type()
	}
	for _, m := range ml.Slice() {
		if m.From() != from || m.To() != to {
			continue
		}
		if m.IsPromotion() != (promo != NoPieceType) {
			continue
		}
		if m.IsPromotion() && m.Promotion() != promo {
			continue
		}
		return m, true
	}
	return NoMove, false
}

func matchSAN(s string, ml *MoveList) (Move, bool) {
	s = strings.TrimRight(s, "+#!?")
	s = strings.ReplaceAll(s, "0", "O")

	if s == "O-O" || s == "O-O-O" {
		for _, m := range ml.Slice() {
			if m.IsCastling() && (m.To().File() == 6) == (s == "O-O") {
				return m, true
			}
		}
		return NoMove, false
	}

	promo := NoPieceType
	if i := strings.IndexByte(s, '='); i >= 0 && i+1 < len(s) {
		promo = PieceFromChar(s[i+1]).Type()
		s = s[:i]
	}
	capture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && strings.IndexByte("NBRQK", s[0]) >= 0 {
		pt = PieceFromChar(s[0]).Type()
		s = s[1:]
	}
	if len(s) < 2 {
		return NoMove, false
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, false
	}

	file, rank := -1, -1
	for _, c := range s[:len(s)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c - 'a')
		case c >= '1' && c <= '8':
			rank = int(c - '1')
		}
	}

	for _, m := range ml.Slice() {
		if m.To() != dest || m.Piece() != pt || m.IsCastling() {
			continue
		}
		if file >= 0 && m.From().File() != file || rank >= 0 && m.From().Rank() != rank {
			continue
		}
		if capture && !m.IsCapture() {
			continue
		}
		if m.IsPromotion() && m.Promotion() != promo || !m.IsPromotion() && promo != NoPieceType {
			continue
		}
		return m, true
	}
	return NoMove, false
}
