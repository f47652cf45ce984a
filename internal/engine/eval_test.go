package engine

import (
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

var evalFENs = []string{
	board.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	"6k1/5ppp/8/8/8/8/5PPP/R5K1 b - - 0 1",
	"4k3/8/4P3/8/8/8/8/4K3 w - - 0 1",
	"2kr3r/pp1q1ppp/2n1b3/3p4/3P4/2NBB3/PP1Q1PPP/2KR3R w - - 4 14",
}

func mustParseFEN(t testing.TB, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestEvaluateMirrorSymmetry(t *testing.T) {
	for _, threshold := range []int{0, DefaultLazyThreshold, 150} {
		ev := NewEvaluator(threshold)
		for _, fen := range evalFENs {
			pos := mustParseFEN(t, fen)
			mirror := pos.Mirror()
			if a, b := ev.EvaluateWhite(pos), ev.EvaluateWhite(mirror); a != -b {
				t.Errorf("lazy %d, %s: white score %d, mirrored %d", threshold, fen, a, b)
			}
			if a, b := ev.Evaluate(pos), ev.Evaluate(mirror); a != b {
				t.Errorf("lazy %d, %s: side to move score %d, mirrored %d", threshold, fen, a, b)
			}
		}
	}
}

func TestEvaluateStartIsTempo(t *testing.T) {
	ev := NewEvaluator(DefaultLazyThreshold)
	pos := board.NewPosition()
	if got := ev.Evaluate(pos); got != tempoMg {
		t.Errorf("start position = %d, want tempo %d", got, tempoMg)
	}
	pos.Apply(board.NewMove(board.G1, board.F3, board.Knight, board.White, board.NoPieceType))
	pos.Apply(board.NewMove(board.G8, board.F6, board.Knight, board.Black, board.NoPieceType))
	if got := ev.Evaluate(pos); got != tempoMg {
		t.Errorf("symmetric position = %d, want tempo %d", got, tempoMg)
	}
}

func TestEvaluateMaterial(t *testing.T) {
	ev := NewEvaluator(0)
	white := mustParseFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if got := ev.Evaluate(white); got < 700 {
		t.Errorf("queen up = %d, want > 700", got)
	}
	black := mustParseFEN(t, "4k3/8/8/8/8/8/8/3QK3 b - - 0 1")
	if got := ev.Evaluate(black); got > -700 {
		t.Errorf("queen down = %d, want < -700", got)
	}
}

func TestLazyExitReturnsSubtotal(t *testing.T) {
	pos := mustParseFEN(t, "4k3/8/8/8/8/8/8/RR1QK3 w - - 0 1")
	ei := evalInfo{pos: pos}
	for c := board.White; c <= board.Black; c++ {
		ei.evaluateMaterial(c)
		ei.evaluatePlacement(c)
	}
	want := taper(ei.mg, ei.eg, gamePhase(pos))

	if got := NewEvaluator(500).EvaluateWhite(pos); got != want {
		t.Errorf("lazy score = %d, want subtotal %d", got, want)
	}
	if got := NewEvaluator(0).EvaluateWhite(pos); got == want {
		t.Errorf("full score %d equals the lazy subtotal", got)
	}
}

func TestGamePhase(t *testing.T) {
	tests := []struct {
		fen  string
		want int
	}{
		{board.StartFEN, maxPhase},
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", 0},
		{"4k3/8/8/8/8/8/8/R2QK3 w - - 0 1", 6},
		{"rnbqkbnr/8/8/8/8/8/8/QQQQK3 w - - 0 1", maxPhase},
	}
	for _, tc := range tests {
		if got := gamePhase(mustParseFEN(t, tc.fen)); got != tc.want {
			t.Errorf("%s: phase %d, want %d", tc.fen, got, tc.want)
		}
	}
}

func TestMobilityBonus(t *testing.T) {
	tests := []struct {
		pt     board.PieceType
		n      int
		mg, eg int
	}{
		{board.Knight, 0, knightMobility[0][0], knightMobility[1][0]},
		{board.Knight, 8, knightMobility[0][8], knightMobility[1][8]},
		{board.Bishop, 20, bishopMobility[0][13], bishopMobility[1][13]},
		{board.Queen, 27, queenMobility[0][27], queenMobility[1][27]},
		{board.Queen, 14, queenMobility[0][14], queenMobility[1][14]},
		{board.Pawn, 3, 0, 0},
	}
	for _, tc := range tests {
		mg, eg := mobilityBonus(tc.pt, tc.n)
		if mg != tc.mg || eg != tc.eg {
			t.Errorf("mobilityBonus(%v, %d) = (%d, %d), want (%d, %d)", tc.pt, tc.n, mg, eg, tc.mg, tc.eg)
		}
	}
	if queenMobility[0][27] <= queenMobility[0][14] {
		t.Error("a queen seeing 27 squares scores no better than one seeing 14")
	}
}

// terms runs the attack pass and then term on White.
func terms(t *testing.T, fen string, term func(*evalInfo, board.Color)) (int, int) {
	t.Helper()
	ei := evalInfo{pos: mustParseFEN(t, fen)}
	ei.initAttacks()
	for c := board.White; c <= board.Black; c++ {
		ei.evaluateMobility(c)
	}
	ei.mg, ei.eg = 0, 0
	term(&ei, board.White)
	return ei.mg, ei.eg
}

func TestPassedPawns(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		passed bool
	}{
		{"free", "4k3/8/4P3/8/8/8/8/4K3 w - - 0 1", true},
		{"blocked on file", "4k3/4p3/4P3/8/8/8/8/4K3 w - - 0 1", false},
		{"guarded by neighbour", "4k3/3p4/8/4P3/8/8/8/4K3 w - - 0 1", false},
		{"enemy pawn behind", "4k3/8/8/4P3/3p4/8/8/4K3 w - - 0 1", true},
	}
	for _, tc := range tests {
		_, eg := terms(t, tc.fen, (*evalInfo).evaluatePassedPawns)
		if got := eg > 0; got != tc.passed {
			t.Errorf("%s: passed pawn eg bonus %d", tc.name, eg)
		}
	}

	_, far := terms(t, "4k3/8/8/8/8/4P3/8/4K3 w - - 0 1", (*evalInfo).evaluatePassedPawns)
	_, near := terms(t, "4k3/8/4P3/8/8/8/8/4K3 w - - 0 1", (*evalInfo).evaluatePassedPawns)
	if near <= far {
		t.Errorf("pawn on e6 scores %d, pawn on e3 scores %d", near, far)
	}
}

func TestKingShelter(t *testing.T) {
	sheltered, _ := terms(t, "r3k3/8/8/8/8/8/5PPP/6K1 w - - 0 1", (*evalInfo).evaluateKingSafety)
	bare, _ := terms(t, "r3k3/5ppp/8/8/8/8/8/6K1 w - - 0 1", (*evalInfo).evaluateKingSafety)
	if sheltered <= bare {
		t.Errorf("sheltered king %d, bare king %d", sheltered, bare)
	}
}

func TestKingDanger(t *testing.T) {
	quiet, _ := terms(t, "q5k1/8/8/8/8/8/5PPP/6K1 w - - 0 1", (*evalInfo).evaluateKingSafety)
	attacked, _ := terms(t, "6k1/8/8/8/6n1/7q/5PPP/6K1 w - - 0 1", (*evalInfo).evaluateKingSafety)
	if attacked >= quiet {
		t.Errorf("king under attack %d, quiet king %d", attacked, quiet)
	}
}

func TestThreats(t *testing.T) {
	hanging, _ := terms(t, "4k3/8/8/3n4/8/8/8/3RK3 w - - 0 1", (*evalInfo).evaluateThreats)
	defended, _ := terms(t, "4k3/8/4p3/3n4/8/8/8/3RK3 w - - 0 1", (*evalInfo).evaluateThreats)
	if hanging <= 0 {
		t.Errorf("hanging knight threat %d, want > 0", hanging)
	}
	if defended >= hanging {
		t.Errorf("pawn-defended knight threat %d, hanging %d", defended, hanging)
	}

	pawnHit, _ := terms(t, "4k3/8/8/3r4/4P3/8/8/4K3 w - - 0 1", (*evalInfo).evaluateThreats)
	if pawnHit < safePawnThreatMg {
		t.Errorf("pawn attacking rook %d, want at least %d", pawnHit, safePawnThreatMg)
	}
}

func TestRookFiles(t *testing.T) {
	pos := mustParseFEN(t, "4k3/p7/8/8/8/8/1P6/R3K2R w - - 0 1")
	ei := evalInfo{pos: pos}
	ei.evaluateRooks(board.White)
	// a1 is semi-open, h1 open.
	if want := rookSemiOpenFileMg + rookOpenFileMg; ei.mg != want {
		t.Errorf("rook file bonus %d, want %d", ei.mg, want)
	}
}

func TestBishopPlacement(t *testing.T) {
	fianchetto := evalInfo{pos: mustParseFEN(t, "4k3/8/8/8/8/6P1/6B1/6K1 w - - 0 1")}
	fianchetto.evaluateBishops(board.White)
	if fianchetto.mg < fianchettoBonus {
		t.Errorf("fianchetto bishop %d, want at least %d", fianchetto.mg, fianchettoBonus)
	}

	blocked := evalInfo{pos: mustParseFEN(t, "4k3/8/8/8/8/3N4/3P4/2B1K3 w - - 0 1")}
	blocked.evaluateBishops(board.White)
	if blocked.mg != blockedBishopMg {
		t.Errorf("blocked bishop %d, want %d", blocked.mg, blockedBishopMg)
	}
}

func BenchmarkEvaluate(b *testing.B) {
	pos := mustParseFEN(b, evalFENs[1])
	ev := NewEvaluator(0)
	for i := 0; i < b.N; i++ {
		ev.Evaluate(pos)
	}
}
