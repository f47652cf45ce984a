package storage

import (
	"fmt"
	"time"

	"github.com/hailam/chesscore/internal/board"
)

// SavedGame is a game stored as its starting position and the moves
// played from it in coordinate notation.
type SavedGame struct {
	Name     string    `json:"name"`
	StartFEN string    `json:"start_fen"`
	Moves    []string  `json:"moves"`
	Result   string    `json:"result"`
	SavedAt  time.Time `json:"saved_at"`
}

// NewSavedGame records moves played from startFEN.
func NewSavedGame(name, startFEN string, moves []board.Move, result string) *SavedGame {
	g := &SavedGame{Name: name, StartFEN: startFEN, Result: result}
	for _, m := range moves {
		g.Moves = append(g.Moves, m.String())
	}
	return g
}

// Replay rebuilds the final position by applying every move to the start
// position. Each move must be legal where it is played.
func (g *SavedGame) Replay() (*board.Position, error) {
	start := g.StartFEN
	if start == "" {
		start = board.StartFEN
	}
	pos, err := board.ParseFEN(start)
	if err != nil {
		return nil, fmt.Errorf("replay %q: %w", g.Name, err)
	}
	for i, s := range g.Moves {
		m, err := pos.ParseMove(s)
		if err != nil {
			return nil, fmt.Errorf("replay %q: ply %d: %w", g.Name, i+1, err)
		}
		pos.Apply(m)
	}
	return pos, nil
}
