package board

// Move packs everything Apply and Undo need into 32 bits:
//
//	bits 0-5:   from square
//	bits 6-11:  to square
//	bits 12-14: moving piece kind
//	bit  15:    moving color
//	bits 16-18: captured piece kind (NoPieceType if none)
//	bits 19-20: flag (none, castle, en passant, promotion)
//	bits 21-23: promotion piece kind
type Move uint32

// MoveFlag marks the special moves.
type MoveFlag uint8

const (
	FlagNone MoveFlag = iota
	FlagCastle
	FlagEnPassant
	FlagPromotion
)

// NoMove is the null move; no generated move encodes to zero because a
// real move always has from != to.
const NoMove Move = 0

func packMove(from, to Square, pt PieceType, c Color, captured PieceType, flag MoveFlag, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(pt)<<12 | Move(c)<<15 |
		Move(captured)<<16 | Move(flag)<<19 | Move(promo)<<21
}

// NewMove creates an ordinary move. captured is NoPieceType for a quiet move.
func NewMove(from, to Square, pt PieceType, c Color, captured PieceType) Move {
	return packMove(from, to, pt, c, captured, FlagNone, Pawn)
}

// NewPromotion creates a pawn promotion, capturing or not.
func NewPromotion(from, to Square, c Color, captured, promo PieceType) Move {
	return packMove(from, to, Pawn, c, captured, FlagPromotion, promo)
}

// NewEnPassant creates an en-passant capture.
func NewEnPassant(from, to Square, c Color) Move {
	return packMove(from, to, Pawn, c, Pawn, FlagEnPassant, Pawn)
}

// NewCastling creates a castling move, encoded as the king's two-square step.
func NewCastling(from, to Square, c Color) Move {
	return packMove(from, to, King, c, NoPieceType, FlagCastle, Pawn)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Piece returns the kind of the moving piece.
func (m Move) Piece() PieceType {
	return PieceType((m >> 12) & 7)
}

// Color returns the color of the moving piece.
func (m Move) Color() Color {
	return Color((m >> 15) & 1)
}

// Captured returns the kind of the captured piece, NoPieceType if none.
func (m Move) Captured() PieceType {
	return PieceType((m >> 16) & 7)
}

// Flag returns the special-move flag.
func (m Move) Flag() MoveFlag {
	return MoveFlag((m >> 19) & 3)
}

// Promotion returns the promotion kind; only meaningful for promotions.
func (m Move) Promotion() PieceType {
	return PieceType((m >> 21) & 7)
}

func (m Move) IsCapture() bool   { return m.Captured() != NoPieceType }
func (m Move) IsPromotion() bool { return m.Flag() == FlagPromotion }
func (m Move) IsCastling() bool  { return m.Flag() == FlagCastle }
func (m Move) IsEnPassant() bool { return m.Flag() == FlagEnPassant }

// IsQuiet reports a move that neither captures nor promotes.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// String returns coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// Add appends a move.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

func (ml *MoveList) Len() int          { return ml.count }
func (ml *MoveList) Get(i int) Move    { return ml.moves[i] }
func (ml *MoveList) Set(i int, m Move) { ml.moves[i] = m }
func (ml *MoveList) Swap(i, j int)     { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }
func (ml *MoveList) Clear()            { ml.count = 0 }

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoRecord holds what Apply overwrote, enough to reverse one move exactly.
type UndoRecord struct {
	Move           Move
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
}
