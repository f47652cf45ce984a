package storage

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hailam/chesscore/internal/board"
)

func openTest(t *testing.T) *Storage {
	t.Helper()
	s, err := OpenInMemory(logr.Discard())
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestDefaults(t *testing.T) {
	prefs := DefaultPreferences()
	if prefs.Username != "Player" || prefs.Difficulty != DifficultyMedium || prefs.PlayerColor != ColorWhite {
		t.Errorf("unexpected defaults: %+v", prefs)
	}
	stats := NewGameStats()
	if stats.GamesPlayed != 0 || stats.GetWinRate() != 0 {
		t.Errorf("unexpected empty stats: %+v", stats)
	}
	stats = &GameStats{GamesPlayed: 10, Wins: 5, Losses: 3, Draws: 2}
	if rate := stats.GetWinRate(); rate != 50 {
		t.Errorf("win rate %.2f%%, want 50%%", rate)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	s := openTest(t)

	got, err := s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultPreferences(), got); diff != "" {
		t.Errorf("empty database preferences (-want +got):\n%s", diff)
	}

	want := &UserPreferences{
		Username:    "kasparov",
		Difficulty:  DifficultyHard,
		Depth:       6,
		GameMode:    ModeHumanVsHuman,
		PlayerColor: ColorBlack,
	}
	if err := s.SavePreferences(want); err != nil {
		t.Fatal(err)
	}
	got, err = s.LoadPreferences()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Errorf("preferences mismatch (-want +got):\n%s", diff)
	}
}

func TestFirstLaunch(t *testing.T) {
	s := openTest(t)
	first, err := s.IsFirstLaunch()
	if err != nil || !first {
		t.Fatalf("IsFirstLaunch = %v, %v; want true", first, err)
	}
	if err := s.MarkFirstLaunchComplete(); err != nil {
		t.Fatal(err)
	}
	if first, _ := s.IsFirstLaunch(); first {
		t.Error("still first launch after marking complete")
	}
}

func TestRecordGame(t *testing.T) {
	s := openTest(t)
	results := []GameResult{
		{Won: true, Mode: ModeHumanVsComputer, Difficulty: DifficultyHard, Duration: time.Minute},
		{Won: true, Mode: ModeHumanVsComputer, Difficulty: DifficultyEasy, Duration: time.Minute},
		{Draw: true, Mode: ModeHumanVsHuman, Duration: time.Minute},
		{Mode: ModeHumanVsComputer, Difficulty: DifficultyMedium, Duration: time.Minute},
	}
	for _, r := range results {
		if err := s.RecordGame(r); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	want := &GameStats{
		GamesPlayed:    4,
		Wins:           2,
		Losses:         1,
		Draws:          1,
		WinsByMode:     map[string]int{"hvc": 2},
		WinsByDiff:     map[string]int{"hard": 1, "easy": 1},
		TotalPlayTime:  4 * time.Minute,
		LongestWinStrk: 2,
		CurrentStreak:  0,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestSavedGames(t *testing.T) {
	s := openTest(t)

	if _, err := s.LoadGame("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadGame(missing) err = %v, want ErrNotFound", err)
	}
	if err := s.DeleteGame("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteGame(missing) err = %v, want ErrNotFound", err)
	}
	if err := s.SaveGame(&SavedGame{Name: "a/b"}); err == nil {
		t.Error("saved a game with a slash in its name")
	}

	pos := board.NewPosition()
	for _, san := range []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "O-O"} {
		m, err := pos.ParseMove(san)
		if err != nil {
			t.Fatal(err)
		}
		pos.Apply(m)
	}
	want := NewSavedGame("ruy", board.StartFEN, pos.Moves(), "*")
	if err := s.SaveGame(want); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveGame(NewSavedGame("empty", "", nil, "*")); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadGame("ruy")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Errorf("saved game mismatch (-want +got):\n%s", diff)
	}

	replayed, err := got.Replay()
	if err != nil {
		t.Fatal(err)
	}
	if replayed.ToFEN() != pos.ToFEN() || replayed.Hash != pos.Hash || replayed.Ply() != 7 {
		t.Errorf("replay reached %s, want %s", replayed.ToFEN(), pos.ToFEN())
	}

	names, err := s.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"empty", "ruy"}, names); diff != "" {
		t.Errorf("ListGames (-want +got):\n%s", diff)
	}

	if err := s.DeleteGame("ruy"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadGame("ruy"); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted game still loads: %v", err)
	}
}

func TestReplayRejectsIllegalMove(t *testing.T) {
	g := &SavedGame{Name: "bad", Moves: []string{"e2e4", "e7e5", "e4e5"}}
	if _, err := g.Replay(); !errors.Is(err, board.ErrUnknownMove) {
		t.Errorf("Replay err = %v, want ErrUnknownMove", err)
	}
	g = &SavedGame{Name: "bad fen", StartFEN: "not a fen"}
	if _, err := g.Replay(); !errors.Is(err, board.ErrInvalidFEN) {
		t.Errorf("Replay err = %v, want ErrInvalidFEN", err)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	dbDir, err := GetDatabaseDir()
	if err != nil {
		t.Fatalf("GetDatabaseDir failed: %v", err)
	}
	if _, err := os.Stat(dbDir); err != nil {
		t.Errorf("database directory was not created: %v", err)
	}
}
