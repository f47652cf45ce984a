package engine

import (
	"strconv"

	"github.com/go-logr/logr"

	"github.com/hailam/chesscore/internal/board"
)

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 2 ply
	Medium                   // 4 ply
	Hard                     // 5 ply
)

// DifficultySettings maps difficulty to search depth.
var DifficultySettings = map[Difficulty]int{
	Easy:   2,
	Medium: 4,
	Hard:   5,
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return "difficulty(" + strconv.Itoa(int(d)) + ")"
}

// ParseDifficulty converts a name produced by Difficulty.String.
func ParseDifficulty(s string) (Difficulty, bool) {
	for d := range DifficultySettings {
		if d.String() == s {
			return d, true
		}
	}
	return Medium, false
}

// Config holds engine settings.
type Config struct {
	Depth         int // search depth in plies
	TTCapacity    int // maximum transposition table entries
	LazyThreshold int // see Evaluator.LazyThreshold
	Logger        logr.Logger
}

// DefaultConfig returns the settings used for a Medium game.
func DefaultConfig() Config {
	return Config{
		Depth:         DifficultySettings[Medium],
		TTCapacity:    DefaultTTCapacity,
		LazyThreshold: DefaultLazyThreshold,
		Logger:        logr.Discard(),
	}
}

// Engine is the chess AI engine.
type Engine struct {
	cfg      Config
	eval     *Evaluator
	tt       *TranspositionTable
	searcher *Searcher
}

// NewEngine creates an engine from cfg. Zero fields fall back to the
// defaults.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.Depth <= 0 {
		cfg.Depth = def.Depth
	}
	if cfg.TTCapacity <= 0 {
		cfg.TTCapacity = def.TTCapacity
	}
	if cfg.Logger.GetSink() == nil {
		cfg.Logger = def.Logger
	}
	log := cfg.Logger.WithName("engine")

	eval := NewEvaluator(cfg.LazyThreshold)
	tt := NewTranspositionTable(cfg.TTCapacity, log)
	return &Engine{
		cfg:      cfg,
		eval:     eval,
		tt:       tt,
		searcher: NewSearcher(tt, eval, log),
	}
}

// SetDifficulty sets the search depth from d.
func (e *Engine) SetDifficulty(d Difficulty) {
	if depth, ok := DifficultySettings[d]; ok {
		e.cfg.Depth = depth
	}
}

// Depth returns the configured search depth.
func (e *Engine) Depth() int {
	return e.cfg.Depth
}

// Search finds the best move for the side to move at the configured depth.
func (e *Engine) Search(pos *board.Position) board.Move {
	m, _ := e.FindBestMove(pos, e.cfg.Depth)
	return m
}

// FindBestMove searches pos to depth for the side to move.
func (e *Engine) FindBestMove(pos *board.Position, depth int) (board.Move, int) {
	return e.searcher.FindBestMove(pos, depth, pos.SideToMove)
}

// Nodes returns the node count of the last search.
func (e *Engine) Nodes() uint64 {
	return e.searcher.Nodes()
}

// TTStats returns the transposition table counters.
func (e *Engine) TTStats() TTStats {
	return e.tt.Stats()
}

// Clear clears the transposition table.
func (e *Engine) Clear() {
	e.tt.Clear()
}

// Evaluate returns the static evaluation of a position for the side to move.
func (e *Engine) Evaluate(pos *board.Position) int {
	return e.eval.Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-MaxPly {
		return "Mate in " + strconv.Itoa((MateScore-score+1)/2)
	}
	if score < -MateScore+MaxPly {
		return "Mated in " + strconv.Itoa((MateScore+score+1)/2)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	cp := strconv.Itoa(score % 100)
	if len(cp) == 1 {
		cp = "0" + cp
	}
	return sign + strconv.Itoa(score/100) + "." + cp
}
