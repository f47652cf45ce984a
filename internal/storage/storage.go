package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-logr/logr"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	prefixGame     = "game/"
)

// ErrNotFound is returned when a saved game does not exist.
var ErrNotFound = errors.New("storage: not found")

// GameMode represents the game mode
type GameMode int

const (
	ModeHumanVsHuman GameMode = iota
	ModeHumanVsComputer
)

// Difficulty represents AI difficulty level
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

func (d Difficulty) key() string {
	switch d {
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	}
	return "easy"
}

// PlayerColor represents which color the human plays
type PlayerColor int

const (
	ColorWhite PlayerColor = iota
	ColorBlack
)

// UserPreferences stores user settings
type UserPreferences struct {
	Username    string      `json:"username"`
	Difficulty  Difficulty  `json:"difficulty"`
	Depth       int         `json:"depth,omitempty"` // overrides Difficulty when set
	GameMode    GameMode    `json:"game_mode"`
	PlayerColor PlayerColor `json:"player_color"`
	LastPlayed  time.Time   `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:    "Player",
		Difficulty:  DifficultyMedium,
		GameMode:    ModeHumanVsComputer,
		PlayerColor: ColorWhite,
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByMode     map[string]int `json:"wins_by_mode"`
	WinsByDiff     map[string]int `json:"wins_by_difficulty"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsByMode: make(map[string]int),
		WinsByDiff: make(map[string]int),
	}
}

// GameResult represents the result of a completed game
type GameResult struct {
	Won        bool
	Draw       bool
	Mode       GameMode
	Difficulty Difficulty
	Duration   time.Duration
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db  *badger.DB
	log logr.Logger
}

// NewStorage opens the database in the user's data directory.
func NewStorage(log logr.Logger) (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(badger.DefaultOptions(dbDir), log)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory(log logr.Logger) (*Storage, error) {
	return Open(badger.DefaultOptions("").WithInMemory(true), log)
}

// Open opens a database with opts, routing badger's own logging to log.
func Open(opts badger.Options, log logr.Logger) (*Storage, error) {
	log = log.WithName("storage")
	db, err := badger.Open(opts.WithLogger(newBadgerLogger(log)))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Storage{db: db, log: log}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})
	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// putJSON stores v under key.
func (s *Storage) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON decodes the value under key into v, reporting whether it existed.
func (s *Storage) getJSON(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if err != nil {
		return found, fmt.Errorf("load %s: %w", key, err)
	}
	return found, nil
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	_, err := s.getJSON(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	_, err := s.getJSON(keyStats, stats)
	return stats, err
}

// RecordGame records a completed game and updates statistics
func (s *Storage) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	modeKey := "hvh"
	if result.Mode == ModeHumanVsComputer {
		modeKey = "hvc"
	}

	switch {
	case result.Draw:
		stats.Draws++
		stats.CurrentStreak = 0
	case result.Won:
		stats.Wins++
		stats.CurrentStreak++
		stats.LongestWinStrk = max(stats.LongestWinStrk, stats.CurrentStreak)
		stats.WinsByMode[modeKey]++
		stats.WinsByDiff[result.Difficulty.key()]++
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	s.log.V(1).Info("recorded game", "won", result.Won, "draw", result.Draw, "played", stats.GamesPlayed)
	return s.SaveStats(stats)
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// SaveGame stores g under its name, replacing any game of the same name.
func (s *Storage) SaveGame(g *SavedGame) error {
	if g.Name == "" || strings.ContainsRune(g.Name, '/') {
		return fmt.Errorf("save game %q: invalid name", g.Name)
	}
	if g.SavedAt.IsZero() {
		g.SavedAt = time.Now()
	}
	return s.putJSON(prefixGame+g.Name, g)
}

// LoadGame returns the game saved under name.
func (s *Storage) LoadGame(name string) (*SavedGame, error) {
	var g SavedGame
	found, err := s.getJSON(prefixGame+name, &g)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("load game %q: %w", name, ErrNotFound)
	}
	return &g, nil
}

// DeleteGame removes the game saved under name.
func (s *Storage) DeleteGame(name string) error {
	key := []byte(prefixGame + name)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete game %q: %w", name, ErrNotFound)
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// ListGames returns the names of all saved games in sorted order.
func (s *Storage) ListGames() ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixGame)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), prefixGame))
		}
		return nil
	})
	sort.Strings(names)
	return names, err
}
