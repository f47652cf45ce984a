package board

import (
	"errors"
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, ch := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	r := WhiteQueenSideCastle
	if kingSide {
		r = WhiteKingSideCastle
	}
	if c == Black {
		r <<= 2
	}
	return r
}

// castleMask[sq] is the set of rights lost when a move starts or ends on sq.
var castleMask = func() (m [64]CastlingRights) {
	m[E1] = WhiteKingSideCastle | WhiteQueenSideCastle
	m[H1] = WhiteKingSideCastle
	m[A1] = WhiteQueenSideCastle
	m[E8] = BlackKingSideCastle | BlackQueenSideCastle
	m[H8] = BlackKingSideCastle
	m[A8] = BlackQueenSideCastle
	return m
}()

// Position is a mutable chess position. Apply and Undo change it in place
// and keep an undo log, so a single instance serves a whole search tree.
// It is not safe for concurrent use; give each goroutine its own Copy.
type Position struct {
	// Piece bitboards: [Color][PieceType]
	Pieces [2][6]Bitboard

	// Occupancy bitboards (cached for efficiency)
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int

	Hash uint64

	undo []UndoRecord
}

// NewPosition creates the standard starting position.
func NewPosition() *Position {
	p := &Position{
		SideToMove:     White,
		CastlingRights: AllCastling,
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
		undo:           make([]UndoRecord, 0, 256),
	}
	back := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for f, pt := range back {
		p.Pieces[White][pt] |= SquareBB(NewSquare(f, 0))
		p.Pieces[Black][pt] |= SquareBB(NewSquare(f, 7))
	}
	p.Pieces[White][Pawn] = Rank2
	p.Pieces[Black][Pawn] = Rank7
	p.updateOccupied()
	p.Hash = p.ComputeHash()
	return p
}

// Copy returns an independent deep copy, undo log included.
func (p *Position) Copy() *Position {
	np := *p
	np.undo = make([]UndoRecord, len(p.undo), max(cap(p.undo), 256))
	copy(np.undo, p.undo)
	return &np
}

// Ply is the number of moves on the undo log.
func (p *Position) Ply() int {
	return len(p.undo)
}

// LastMove returns the most recently applied move, NoMove if none.
func (p *Position) LastMove() Move {
	if len(p.undo) == 0 {
		return NoMove
	}
	return p.undo[len(p.undo)-1].Move
}

// Moves returns the applied moves in order, oldest first.
func (p *Position) Moves() []Move {
	ms := make([]Move, len(p.undo))
	for i, u := range p.undo {
		ms[i] = u.Move
	}
	return ms
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if p.AllOccupied&bb == 0 {
		return NoPiece
	}
	c := White
	if p.Occupied[Black]&bb != 0 {
		c = Black
	}
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt]&bb != 0 {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.AllOccupied&SquareBB(sq) == 0
}

// KingSquare returns the square of c's king. A missing king means the
// position was corrupted and panics.
func (p *Position) KingSquare(c Color) Square {
	k := p.Pieces[c][King]
	if k == 0 {
		panic(fmt.Sprintf("board: no %s king on the board", c))
	}
	return k.LSB()
}

func (p *Position) updateOccupied() {
	p.Occupied[White] = Empty
	p.Occupied[Black] = Empty
	for pt := Pawn; pt <= King; pt++ {
		p.Occupied[White] |= p.Pieces[White][pt]
		p.Occupied[Black] |= p.Pieces[Black][pt]
	}
	p.AllOccupied = p.Occupied[White] | p.Occupied[Black]
}

// Errors returned by Validate.
var (
	ErrKingCount    = errors.New("each side needs exactly one king")
	ErrPawnRank     = errors.New("pawns cannot stand on the first or last rank")
	ErrOverlap      = errors.New("a square holds more than one piece")
	ErrHashMismatch = errors.New("hash does not match piece placement")
	ErrOpponentKing = errors.New("side not to move is in check")
)

// Validate checks the structural invariants of the position.
func (p *Position) Validate() error {
	var seen Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			if seen&p.Pieces[c][pt] != 0 {
				return ErrOverlap
			}
			seen |= p.Pieces[c][pt]
		}
	}
	if seen != p.AllOccupied {
		return ErrOverlap
	}
	if p.Pieces[White][King].PopCount() != 1 || p.Pieces[Black][King].PopCount() != 1 {
		return ErrKingCount
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return ErrPawnRank
	}
	if p.Hash != p.ComputeHash() {
		return ErrHashMismatch
	}
	if p.InCheck(p.SideToMove.Other()) {
		return ErrOpponentKing
	}
	return nil
}

// Mirror returns the position flipped rank-wise with colors swapped: a
// white piece on e2 becomes a black piece on e7, the side to move changes
// and castling rights follow their owners. The undo log is not carried.
func (p *Position) Mirror() *Position {
	m := &Position{
		SideToMove:     p.SideToMove.Other(),
		EnPassant:      NoSquare,
		HalfMoveClock:  p.HalfMoveClock,
		FullMoveNumber: p.FullMoveNumber,
		undo:           make([]UndoRecord, 0, 256),
	}
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			m.Pieces[c.Other()][pt] = p.Pieces[c][pt].Mirror()
		}
	}
	if p.EnPassant != NoSquare {
		m.EnPassant = p.EnPassant.Mirror()
	}
	m.CastlingRights = (p.CastlingRights&0x3)<<2 | (p.CastlingRights>>2)&0x3
	m.updateOccupied()
	m.Hash = m.ComputeHash()
	return m
}

// HasNonPawnMaterial returns true if c has a knight, bishop, rook or queen.
func (p *Position) HasNonPawnMaterial(c Color) bool {
	return p.Pieces[c][Knight]|p.Pieces[c][Bishop]|p.Pieces[c][Rook]|p.Pieces[c][Queen] != 0
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(p.PieceAt(NewSquare(file, rank)).String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash)
	return sb.String()
}
