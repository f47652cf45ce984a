package board

// Sliding-piece attacks through fancy magic bitboards. Every square owns a
// slice of one shared table; the slice index for an occupancy is
// ((occ & mask) * magic) >> shift.

// Magic holds the lookup parameters of one square for one slider.
type Magic struct {
	Mask   Bitboard
	Magic  uint64
	Shift  uint8
	Offset uint32
}

const (
	bishopTableSize = 5248
	rookTableSize   = 102400
)

var (
	bishopMagics [64]Magic
	rookMagics   [64]Magic

	bishopTable [bishopTableSize]Bitboard
	rookTable   [rookTableSize]Bitboard
)

type direction struct{ df, dr int }

var (
	bishopDirections = [4]direction{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	rookDirections   = [4]direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
)

var bishopMagicNumbers = [64]uint64{
	0x0002020202020200, 0x0002020202020000, 0x0004010202000000, 0x0004040080000000,
	0x0001104000000000, 0x0000821040000000, 0x0000410410400000, 0x0000104104104000,
	0x0000040404040400, 0x0000020202020200, 0x0000040102020000, 0x0000040400800000,
	0x0000011040000000, 0x0000008210400000, 0x0000004104104000, 0x0000002082082000,
	0x0004000808080800, 0x0002000404040400, 0x0001000202020200, 0x0000800802004000,
	0x0000800400A00000, 0x0000200100884000, 0x0000400082082000, 0x0000200041041000,
	0x0002080010101000, 0x0001040008080800, 0x0000208004010400, 0x0000404004010200,
	0x0000840000802000, 0x0000404002011000, 0x0000808001041000, 0x0000404000820800,
	0x0001041000202000, 0x0000820800101000, 0x0000104400080800, 0x0000020080080080,
	0x0000404040040100, 0x0000808100020100, 0x0001010100020800, 0x0000808080010400,
	0x0000820820004000, 0x0000410410002000, 0x0000082088001000, 0x0000002011000800,
	0x0000080100400400, 0x0001010101000200, 0x0002020202000400, 0x0001010101000200,
	0x0000410410400000, 0x0000208208200000, 0x0000002084100000, 0x0000000020880000,
	0x0000001002020000, 0x0000040408020000, 0x0004040404040000, 0x0002020202020000,
	0x0000104104104000, 0x0000002082082000, 0x0000000020841000, 0x0000000000208800,
	0x0000000010020200, 0x0000000404080200, 0x0000040404040400, 0x0002020202020200,
}

var rookMagicNumbers = [64]uint64{
	0x0080001020400080, 0x0040001000200040, 0x0080081000200080, 0x0080040800100080,
	0x0080020400080080, 0x0080010200040080, 0x0080008001000200, 0x0080002040800100,
	0x0000800020400080, 0x0000400020005000, 0x0000801000200080, 0x0000800800100080,
	0x0000800400080080, 0x0000800200040080, 0x0000800100020080, 0x0000800040800100,
	0x0000208000400080, 0x0000404000201000, 0x0000808010002000, 0x0000808008001000,
	0x0000808004000800, 0x0000808002000400, 0x0000010100020004, 0x0000020000408104,
	0x0000208080004000, 0x0000200040005000, 0x0000100080200080, 0x0000080080100080,
	0x0000040080080080, 0x0000020080040080, 0x0000010080800200, 0x0000800080004100,
	0x0000204000800080, 0x0000200040401000, 0x0000100080802000, 0x0000080080801000,
	0x0000040080800800, 0x0000020080800400, 0x0000020001010004, 0x0000800040800100,
	0x0000204000808000, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000010002008080, 0x0000004081020004,
	0x0000204000800080, 0x0000200040008080, 0x0000100020008080, 0x0000080010008080,
	0x0000040008008080, 0x0000020004008080, 0x0000800100020080, 0x0000800041000080,
	0x00FFFCDDFCED714A, 0x007FFCDDFCED714A, 0x003FFFCDFFD88096, 0x0000040810002101,
	0x0001000204080011, 0x0001000204000801, 0x0001000082000401, 0x0001FFFAABFAD1A2,
}

func initMagics() {
	rng := newPRNG(0x2F6B3C91D04E8A57)
	initSliderMagics(bishopMagics[:], bishopTable[:], bishopMagicNumbers[:], bishopDirections[:], rng)
	initSliderMagics(rookMagics[:], rookTable[:], rookMagicNumbers[:], rookDirections[:], rng)
}

// initSliderMagics fills one slider's table. A precomputed magic that maps
// two occupancies with different attack sets to one slot is replaced by a
// searched one, so the table is correct whatever the constants.
func initSliderMagics(magics []Magic, table []Bitboard, numbers []uint64, dirs []direction, rng *prng) {
	var offset uint32
	var occs, attacks [4096]Bitboard

	for sq := A1; sq <= H8; sq++ {
		mask := relevantMask(sq, dirs)
		n := mask.PopCount()
		size := 1 << n

		// Carry-rippler enumeration of every subset of the mask.
		var sub Bitboard
		for i := 0; i < size; i++ {
			occs[i] = sub
			attacks[i] = slidingAttacks(sq, sub, dirs)
			sub = (sub - mask) & mask
		}

		m := Magic{Mask: mask, Magic: numbers[sq], Shift: uint8(64 - n), Offset: offset}
		slots := table[offset : offset+uint32(size)]
		for !fillSlots(&m, slots, occs[:size], attacks[:size]) {
			m.Magic = rng.sparse()
		}
		magics[sq] = m
		offset += uint32(size)
	}
}

func fillSlots(m *Magic, slots []Bitboard, occs, attacks []Bitboard) bool {
	for i := range slots {
		slots[i] = 0
	}
	filled := make([]bool, len(slots))
	for i, occ := range occs {
		idx := (uint64(occ) * m.Magic) >> m.Shift
		if filled[idx] && slots[idx] != attacks[i] {
			return false
		}
		filled[idx] = true
		slots[idx] = attacks[i]
	}
	return true
}

// relevantMask is the set of squares whose occupancy can change the slider's
// attacks from sq: every ray square except the last one on the board edge.
func relevantMask(sq Square, dirs []direction) Bitboard {
	var mask Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d.df, sq.Rank()+d.dr
		for onBoard(f+d.df, r+d.dr) {
			mask |= SquareBB(NewSquare(f, r))
			f, r = f+d.df, r+d.dr
		}
	}
	return mask
}

// slidingAttacks ray-traces from sq, stopping each ray at the first blocker
// (which is included).
func slidingAttacks(sq Square, occupied Bitboard, dirs []direction) Bitboard {
	var attacks Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d.df, sq.Rank()+d.dr
		for onBoard(f, r) {
			s := SquareBB(NewSquare(f, r))
			attacks |= s
			if occupied&s != 0 {
				break
			}
			f, r = f+d.df, r+d.dr
		}
	}
	return attacks
}

func onBoard(f, r int) bool {
	return f >= 0 && f <= 7 && r >= 0 && r <= 7
}

// BishopAttacks returns the bishop attack set from sq under occupied.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &bishopMagics[sq]
	idx := (uint64(occupied&m.Mask) * m.Magic) >> m.Shift
	return bishopTable[m.Offset+uint32(idx)]
}

// RookAttacks returns the rook attack set from sq under occupied.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	m := &rookMagics[sq]
	idx := (uint64(occupied&m.Mask) * m.Magic) >> m.Shift
	return rookTable[m.Offset+uint32(idx)]
}

// QueenAttacks is the union of bishop and rook attacks.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}
