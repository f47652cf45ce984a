// Package game drives a single chess game for a front end: it validates
// player moves, tracks draw conditions and runs engine searches in the
// background.
package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	ErrIllegalMove      = errors.New("game: illegal move")
	ErrGameOver         = errors.New("game: game is over")
	ErrSearchInProgress = errors.New("game: engine search in progress")
	ErrNothingToUndo    = errors.New("game: no move to undo")
)

// Status describes whether and how a game has ended.
type Status int

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	DrawFiftyMoves
	DrawInsufficientMaterial
	DrawRepetition
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawFiftyMoves:
		return "draw by 50-move rule"
	case DrawInsufficientMaterial:
		return "draw by insufficient material"
	case DrawRepetition:
		return "draw by threefold repetition"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// IsOver reports a finished game.
func (s Status) IsOver() bool { return s != Ongoing }

// IsDraw reports a game that ended without a winner.
func (s Status) IsDraw() bool { return s.IsOver() && s != Checkmate }

// EngineResult is delivered when a background search finishes.
type EngineResult struct {
	Move  board.Move
	Score int
	Err   error
}

// Option configures a Session.
type Option func(*Session)

// WithEngine sets the engine used for computer moves.
func WithEngine(e *engine.Engine) Option {
	return func(s *Session) { s.eng = e }
}

// WithLogger sets the session logger.
func WithLogger(log logr.Logger) Option {
	return func(s *Session) { s.log = log }
}

// Session is one game. All methods are safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	pos       *board.Position
	startFEN  string
	hashes    []uint64
	sans      []string
	eng       *engine.Engine
	log       logr.Logger
	searching bool
}

// New starts a game from the standard initial position.
func New(opts ...Option) *Session {
	return newSession(board.NewPosition(), opts)
}

// FromFEN starts a game from a FEN position.
func FromFEN(fen string, opts ...Option) (*Session, error) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return newSession(pos, opts), nil
}

// Restore rebuilds a saved game, replaying its moves from the start.
func Restore(g *storage.SavedGame, opts ...Option) (*Session, error) {
	start := g.StartFEN
	if start == "" {
		start = board.StartFEN
	}
	s, err := FromFEN(start, opts...)
	if err != nil {
		return nil, fmt.Errorf("restore %q: %w", g.Name, err)
	}
	for i, text := range g.Moves {
		m, err := s.pos.ParseMove(text)
		if err != nil {
			return nil, fmt.Errorf("restore %q: ply %d: %w", g.Name, i+1, err)
		}
		s.apply(m)
	}
	return s, nil
}

func newSession(pos *board.Position, opts []Option) *Session {
	s := &Session{
		pos:      pos,
		startFEN: pos.ToFEN(),
		hashes:   []uint64{pos.Hash},
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.eng == nil {
		cfg := engine.DefaultConfig()
		cfg.Logger = s.log
		s.eng = engine.NewEngine(cfg)
	}
	s.log = s.log.WithName("game")
	return s
}

// Position returns a copy of the current position.
func (s *Session) Position() *board.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos.Copy()
}

// Engine returns the engine used for computer moves.
func (s *Session) Engine() *engine.Engine {
	return s.eng
}

// Moves returns the moves played so far.
func (s *Session) Moves() []board.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos.Moves()
}

// SANHistory returns the moves played so far in SAN.
func (s *Session) SANHistory() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sans...)
}

// Play makes the move of the piece on from to to. promo selects the
// promotion piece and defaults to a queen. Moving the king onto its own
// rook castles on that side.
func (s *Session) Play(from, to board.Square, promo board.PieceType) (board.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkPlayable(); err != nil {
		return board.NoMove, err
	}

	if promo == board.NoPieceType {
		promo = board.Queen
	}
	var ml board.MoveList
	s.pos.LegalMoves(s.pos.SideToMove, &ml)
	for _, m := range ml.Slice() {
		if m.From() != from {
			continue
		}
		if m.To() == to && (!m.IsPromotion() || m.Promotion() == promo) {
			s.apply(m)
			return m, nil
		}
		if m.IsCastling() && castlesOnto(m, to) {
			s.apply(m)
			return m, nil
		}
	}
	return board.NoMove, fmt.Errorf("%v%v: %w", from, to, ErrIllegalMove)
}

// castlesOnto reports whether rook is the home square of the rook that
// castling move m uses.
func castlesOnto(m board.Move, rook board.Square) bool {
	switch m.To() {
	case board.G1:
		return rook == board.H1
	case board.C1:
		return rook == board.A1
	case board.G8:
		return rook == board.H8
	case board.C8:
		return rook == board.A8
	}
	return false
}

// PlayText makes a move given in SAN or coordinate notation.
func (s *Session) PlayText(text string) (board.Move, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkPlayable(); err != nil {
		return board.NoMove, err
	}
	m, err := s.pos.ParseMove(text)
	if err != nil {
		return board.NoMove, fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}
	s.apply(m)
	return m, nil
}

// Apply makes move m, which must be legal in the current position.
func (s *Session) Apply(m board.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkPlayable(); err != nil {
		return err
	}
	var ml board.MoveList
	s.pos.LegalMoves(s.pos.SideToMove, &ml)
	if !ml.Contains(m) {
		return fmt.Errorf("%v: %w", m, ErrIllegalMove)
	}
	s.apply(m)
	return nil
}

// Undo takes back the last move.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.searching {
		return ErrSearchInProgress
	}
	if len(s.sans) == 0 {
		return ErrNothingToUndo
	}
	s.pos.Undo()
	s.hashes = s.hashes[:len(s.hashes)-1]
	s.sans = s.sans[:len(s.sans)-1]
	return nil
}

func (s *Session) checkPlayable() error {
	if s.searching {
		return ErrSearchInProgress
	}
	if s.status().IsOver() {
		return ErrGameOver
	}
	return nil
}

// apply makes a move already known to be legal.
func (s *Session) apply(m board.Move) {
	san := s.pos.SAN(m)
	s.pos.Apply(m)
	s.sans = append(s.sans, san)
	s.hashes = append(s.hashes, s.pos.Hash)
	s.log.V(1).Info("move", "ply", len(s.sans), "san", san, "fen", s.pos.ToFEN())
}

// LegalDestinations returns where the piece on sq may move.
func (s *Session) LegalDestinations(sq board.Square) board.Bitboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos.LegalDestinations(sq)
}

// InCheck reports whether c's king is attacked.
func (s *Session) InCheck(c board.Color) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos.InCheck(c)
}

// FindBestMove searches the current position to depth without playing
// the result.
func (s *Session) FindBestMove(depth int) (board.Move, int, error) {
	s.mu.Lock()
	if s.searching {
		s.mu.Unlock()
		return board.NoMove, 0, ErrSearchInProgress
	}
	s.searching = true
	pos := s.pos.Copy()
	s.mu.Unlock()

	m, score := s.eng.FindBestMove(pos, depth)

	s.mu.Lock()
	s.searching = false
	s.mu.Unlock()
	return m, score, nil
}

// RequestEngineMove searches the current position in the background and
// plays the best move found. The result is delivered on the returned
// channel, which is closed afterwards. Moves and undos are refused until
// the search finishes.
func (s *Session) RequestEngineMove() (<-chan EngineResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkPlayable(); err != nil {
		return nil, err
	}
	s.searching = true
	pos := s.pos.Copy()
	s.log.V(1).Info("engine thinking", "side", pos.SideToMove.String(), "depth", s.eng.Depth())

	ch := make(chan EngineResult, 1)
	go func() {
		defer close(ch)
		m, score := s.eng.FindBestMove(pos, s.eng.Depth())

		s.mu.Lock()
		s.searching = false
		res := EngineResult{Move: m, Score: score}
		if m == board.NoMove {
			res.Err = ErrGameOver
		} else {
			s.apply(m)
		}
		s.mu.Unlock()
		ch <- res
	}()
	return ch, nil
}

// Searching reports whether a background search is running.
func (s *Session) Searching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searching
}

// Status reports whether the game has ended.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status()
}

func (s *Session) status() Status {
	switch {
	case s.pos.IsCheckmate():
		return Checkmate
	case s.pos.IsStalemate():
		return Stalemate
	case s.pos.IsInsufficientMaterial():
		return DrawInsufficientMaterial
	case s.pos.HalfMoveClock >= 100:
		return DrawFiftyMoves
	case s.repetitions() >= 3:
		return DrawRepetition
	}
	return Ongoing
}

// repetitions counts occurrences of the current position in the game.
func (s *Session) repetitions() int {
	n := 0
	current := s.pos.Hash
	for _, h := range s.hashes {
		if h == current {
			n++
		}
	}
	return n
}

// Result returns the PGN result tag: "1-0", "0-1", "1/2-1/2" or "*".
func (s *Session) Result() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch st := s.status(); {
	case st == Checkmate && s.pos.SideToMove == board.Black:
		return "1-0"
	case st == Checkmate:
		return "0-1"
	case st.IsDraw():
		return "1/2-1/2"
	}
	return "*"
}

// Save captures the game for storage under name.
func (s *Session) Save(name string) *storage.SavedGame {
	result := s.Result()
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.NewSavedGame(name, s.startFEN, s.pos.Moves(), result)
}
