package board

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

const (
	kiwipeteFEN  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	position3FEN = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	position4FEN = "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"
	position5FEN = "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8"
	epPinFEN     = "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1"
)

func mustParseFEN(t testing.TB, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestPerft(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		nodes []uint64 // indexed by depth-1
	}{
		{"start", StartFEN, []uint64{20, 400, 8902, 197281}},
		{"kiwipete", kiwipeteFEN, []uint64{48, 2039, 97862}},
		{"position3", position3FEN, []uint64{14, 191, 2812, 43238}},
		{"position4", position4FEN, []uint64{6, 264, 9467}},
		{"position5", position5FEN, []uint64{44, 1486, 62379}},
		{"ep pin", epPinFEN, []uint64{6, 94}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParseFEN(t, tc.fen)
			for i, want := range tc.nodes {
				depth := i + 1
				if testing.Short() && want > 50000 {
					continue
				}
				if got := pos.Perft(depth); got != want {
					t.Errorf("perft(%d) = %d, want %d", depth, got, want)
				}
			}
			if got := pos.ToFEN(); got != mustParseFEN(t, tc.fen).ToFEN() {
				t.Errorf("position changed by perft: %s", got)
			}
		})
	}
}

func TestPerftFromNewPosition(t *testing.T) {
	pos := NewPosition()
	want := []uint64{1, 20, 400, 8902}
	for depth, n := range want {
		if got := pos.Perft(depth); got != n {
			t.Errorf("perft(%d) = %d, want %d", depth, got, n)
		}
	}
}

func TestPerftEnPassantPinExcluded(t *testing.T) {
	pos := mustParseFEN(t, epPinFEN)
	var ml MoveList
	pos.LegalMoves(Black, &ml)
	for _, m := range ml.Slice() {
		if m.IsEnPassant() {
			t.Errorf("en passant %v exposes the king along the rank", m)
		}
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	pos := mustParseFEN(t, kiwipeteFEN)
	var sum uint64
	entries := pos.PerftDivide(2)
	for _, e := range entries {
		sum += e.Nodes
	}
	if len(entries) != 48 {
		t.Errorf("divide has %d root moves, want 48", len(entries))
	}
	if sum != 2039 {
		t.Errorf("divide sum = %d, want 2039", sum)
	}
}

// oraclePerft counts the same tree with an independent move generator.
func oraclePerft(b *dragontoothmg.Board, depth int) uint64 {
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += oraclePerft(b, depth-1)
		unapply()
	}
	return nodes
}

func TestPerftMatchesOracle(t *testing.T) {
	fens := []string{
		StartFEN,
		kiwipeteFEN,
		position3FEN,
		position4FEN,
		position5FEN,
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		"8/P1k5/K7/8/8/8/8/8 w - - 0 1",
		"4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1",
	}
	depth := 3
	if testing.Short() {
		depth = 2
	}

	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			pos := mustParseFEN(t, fen)
			oracle := dragontoothmg.ParseFen(fen)
			want := oraclePerft(&oracle, depth)
			if got := pos.Perft(depth); got != want {
				t.Errorf("perft(%d) = %d, oracle says %d", depth, got, want)
			}
		})
	}
}

func BenchmarkPerftStart(b *testing.B) {
	pos := NewPosition()
	for i := 0; i < b.N; i++ {
		pos.Perft(4)
	}
}
