package game

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

func mustFromFEN(t *testing.T, fen string, opts ...Option) *Session {
	t.Helper()
	s, err := FromFEN(fen, opts...)
	if err != nil {
		t.Fatalf("FromFEN(%q): %v", fen, err)
	}
	return s
}

func TestPlayAndUndo(t *testing.T) {
	s := New()
	if _, err := s.Play(board.E2, board.E4, board.NoPieceType); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Play(board.E7, board.E5, board.NoPieceType); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Play(board.E4, board.E5, board.NoPieceType); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("blocked pawn push err = %v, want ErrIllegalMove", err)
	}
	if diff := cmp.Diff([]string{"e4", "e5"}, s.SANHistory()); diff != "" {
		t.Errorf("SAN history (-want +got):\n%s", diff)
	}

	for i := 0; i < 2; i++ {
		if err := s.Undo(); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo on a fresh game err = %v", err)
	}
	if got := s.Position().ToFEN(); got != board.StartFEN {
		t.Errorf("after undoing everything: %s", got)
	}
}

func TestPlayText(t *testing.T) {
	s := New()
	for _, text := range []string{"e4", "c7c5", "Nf3"} {
		if _, err := s.PlayText(text); err != nil {
			t.Fatalf("PlayText(%q): %v", text, err)
		}
	}
	_, err := s.PlayText("Ke3")
	if !errors.Is(err, ErrIllegalMove) || !errors.Is(err, board.ErrUnknownMove) {
		t.Errorf("PlayText(Ke3) err = %v", err)
	}
}

func TestPlayCastlingOntoRook(t *testing.T) {
	s := mustFromFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	m, err := s.Play(board.E1, board.H1, board.NoPieceType)
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsCastling() || m.To() != board.G1 {
		t.Errorf("king onto rook played %v", m)
	}
	if _, err := s.Play(board.E8, board.C8, board.NoPieceType); err != nil {
		t.Fatal(err)
	}
	pos := s.Position()
	if pos.PieceAt(board.F1) != board.WhiteRook || pos.PieceAt(board.D8) != board.BlackRook {
		t.Errorf("rooks not moved:\n%v", pos)
	}
}

func TestPlayPromotion(t *testing.T) {
	const fen = "4k3/P7/8/8/8/8/8/4K3 w - - 0 1"
	tests := []struct {
		promo board.PieceType
		want  board.PieceType
	}{
		{board.NoPieceType, board.Queen},
		{board.Knight, board.Knight},
		{board.Rook, board.Rook},
	}
	for _, tc := range tests {
		s := mustFromFEN(t, fen)
		m, err := s.Play(board.A7, board.A8, tc.promo)
		if err != nil {
			t.Fatal(err)
		}
		if m.Promotion() != tc.want {
			t.Errorf("promo %v: promoted to %v", tc.promo, m.Promotion())
		}
	}
}

func TestApplyValidates(t *testing.T) {
	s := New()
	bad := board.NewMove(board.E2, board.E5, board.Pawn, board.White, board.NoPieceType)
	if err := s.Apply(bad); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Apply(e2e5) err = %v", err)
	}
	good := board.NewMove(board.G1, board.F3, board.Knight, board.White, board.NoPieceType)
	if err := s.Apply(good); err != nil {
		t.Errorf("Apply(g1f3) err = %v", err)
	}
	if len(s.Moves()) != 1 {
		t.Errorf("%d moves recorded", len(s.Moves()))
	}
}

func TestQueries(t *testing.T) {
	s := New()
	if got, want := s.LegalDestinations(board.G1), board.SquareBB(board.F3)|board.SquareBB(board.H3); got != want {
		t.Errorf("g1 destinations:\n%v", got)
	}
	if s.LegalDestinations(board.E7) != board.Empty {
		t.Error("black piece has destinations with White to move")
	}
	if s.InCheck(board.White) || s.InCheck(board.Black) {
		t.Error("check in the initial position")
	}

	s = mustFromFEN(t, "4k3/8/8/8/8/5n2/8/4K3 w - - 0 1")
	if !s.InCheck(board.White) {
		t.Error("knight check not seen")
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		want   Status
		result string
	}{
		{"ongoing", board.StartFEN, Ongoing, "*"},
		{"checkmate", "R5k1/5ppp/8/8/8/8/8/4K3 b - - 0 1", Checkmate, "1-0"},
		{"black mates", "6k1/8/8/8/8/8/5PPP/r5K1 w - - 0 1", Checkmate, "0-1"},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", Stalemate, "1/2-1/2"},
		{"insufficient", "4k3/8/8/8/8/8/8/4KN2 w - - 0 1", DrawInsufficientMaterial, "1/2-1/2"},
		{"fifty moves", "4k3/8/8/8/8/8/8/R3K3 w - - 100 80", DrawFiftyMoves, "1/2-1/2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := mustFromFEN(t, tc.fen)
			if got := s.Status(); got != tc.want {
				t.Errorf("Status = %v, want %v", got, tc.want)
			}
			if got := s.Result(); got != tc.result {
				t.Errorf("Result = %q, want %q", got, tc.result)
			}
			if tc.want.IsOver() {
				if _, err := s.PlayText("Kh1"); !errors.Is(err, ErrGameOver) {
					t.Errorf("move after the end err = %v", err)
				}
				if _, err := s.RequestEngineMove(); !errors.Is(err, ErrGameOver) {
					t.Errorf("engine move after the end err = %v", err)
				}
			}
		})
	}
}

func TestThreefoldRepetition(t *testing.T) {
	s := New()
	shuffle := []string{"Nf3", "Nf6", "Ng1", "Ng8"}
	for round := 0; round < 2; round++ {
		if got := s.Status(); got != Ongoing {
			t.Fatalf("round %d: Status = %v", round, got)
		}
		for _, san := range shuffle {
			if _, err := s.PlayText(san); err != nil {
				t.Fatalf("round %d: %s: %v", round, san, err)
			}
		}
	}
	if got := s.Status(); got != DrawRepetition {
		t.Errorf("Status = %v, want DrawRepetition", got)
	}
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := s.Status(); got != Ongoing {
		t.Errorf("after undo Status = %v", got)
	}
}

func TestRequestEngineMove(t *testing.T) {
	eng := engine.NewEngine(engine.Config{Depth: 2})
	s := mustFromFEN(t, "6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1", WithEngine(eng))

	ch, err := s.RequestEngineMove()
	if err != nil {
		t.Fatal(err)
	}
	res := <-ch
	if res.Err != nil || res.Move.String() != "a1a8" {
		t.Fatalf("engine result %+v, want a1a8", res)
	}
	if _, ok := <-ch; ok {
		t.Error("result channel not closed")
	}
	if s.Searching() {
		t.Error("still searching after the result")
	}
	if got := s.Status(); got != Checkmate {
		t.Errorf("Status = %v, want Checkmate", got)
	}
	if diff := cmp.Diff([]string{"Ra8#"}, s.SANHistory()); diff != "" {
		t.Errorf("SAN history (-want +got):\n%s", diff)
	}
}

func TestSearchInProgressRefusesChanges(t *testing.T) {
	s := New()
	s.searching = true

	if _, err := s.Play(board.E2, board.E4, board.NoPieceType); !errors.Is(err, ErrSearchInProgress) {
		t.Errorf("Play err = %v", err)
	}
	if err := s.Undo(); !errors.Is(err, ErrSearchInProgress) {
		t.Errorf("Undo err = %v", err)
	}
	if _, err := s.RequestEngineMove(); !errors.Is(err, ErrSearchInProgress) {
		t.Errorf("RequestEngineMove err = %v", err)
	}
	if _, _, err := s.FindBestMove(1); !errors.Is(err, ErrSearchInProgress) {
		t.Errorf("FindBestMove err = %v", err)
	}
}

func TestFindBestMoveDoesNotPlay(t *testing.T) {
	s := mustFromFEN(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	m, _, err := s.FindBestMove(2)
	if err != nil {
		t.Fatal(err)
	}
	if m.String() != "d2d5" {
		t.Errorf("best move %v, want d2d5", m)
	}
	if len(s.Moves()) != 0 || s.Searching() {
		t.Error("FindBestMove changed the game")
	}
}

func TestSaveAndRestore(t *testing.T) {
	s := New()
	for _, san := range []string{"d4", "d5", "c4", "dxc4", "e3"} {
		if _, err := s.PlayText(san); err != nil {
			t.Fatal(err)
		}
	}
	saved := s.Save("qga")
	if saved.Result != "*" || len(saved.Moves) != 5 {
		t.Errorf("saved %+v", saved)
	}

	restored, err := Restore(saved)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := restored.Position().ToFEN(), s.Position().ToFEN(); got != want {
		t.Errorf("restored %s, want %s", got, want)
	}
	if diff := cmp.Diff(s.SANHistory(), restored.SANHistory()); diff != "" {
		t.Errorf("SAN history (-want +got):\n%s", diff)
	}

	saved.Moves = append(saved.Moves, "c4c5")
	if _, err := Restore(saved); !errors.Is(err, board.ErrUnknownMove) {
		t.Errorf("restore with an illegal move err = %v", err)
	}
}
