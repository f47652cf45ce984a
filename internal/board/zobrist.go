package board

// Zobrist keys. The position hash covers piece placement and side to move
// only; castling rights and the en-passant target are not part of it.
var (
	zobristPiece      [2][6][64]uint64 // [Color][PieceType][Square]
	zobristSideToMove uint64           // XOR when black to move
)

// prng is a xorshift64* generator. Seeds are fixed so keys and any searched
// magics are identical from run to run.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

// sparse returns a value with few bits set, the usual shape of a magic.
func (p *prng) sparse() uint64 {
	return p.next() & p.next() & p.next()
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}
	zobristSideToMove = rng.next()
}

// ZobristPiece returns the key of a piece on a square.
func ZobristPiece(c Color, pt PieceType, sq Square) uint64 {
	return zobristPiece[c][pt][sq]
}

// ZobristSideToMove returns the key XORed in when Black is to move.
func ZobristSideToMove() uint64 {
	return zobristSideToMove
}

// ComputeHash rebuilds the hash from scratch. Apply and Undo keep Hash
// equal to this value incrementally.
func (p *Position) ComputeHash() uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			for bb != 0 {
				h ^= zobristPiece[c][pt][bb.PopLSB()]
			}
		}
	}
	if p.SideToMove == Black {
		h ^= zobristSideToMove
	}
	return h
}
