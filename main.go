// Chesscore - play chess against the engine in a terminal
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/game"
	"github.com/hailam/chesscore/internal/storage"
)

const help = `commands:
  <move>        play a move in SAN (Nf3, exd5, O-O) or coordinates (g1f3, e7e8q)
  go            let the engine move for the side to move
  hint          show the engine's choice without playing it
  undo          take back one move (two against the engine)
  eval          static evaluation for the side to move
  board | fen   show the position
  new           start a new game
  save NAME     save the current game
  load NAME     load a saved game
  games         list saved games
  stats         show your results
  quit`

type app struct {
	log     logr.Logger
	store   *storage.Storage
	prefs   *storage.UserPreferences
	eng     *engine.Engine
	session *game.Session
	player  board.Color
	started time.Time
	out     io.Writer
}

func main() {
	difficulty := flag.String("difficulty", "", "engine difficulty: easy, medium or hard")
	depth := flag.Int("depth", 0, "search depth in plies (overrides difficulty)")
	color := flag.String("color", "", "color you play: white or black")
	hvh := flag.Bool("hvh", false, "two humans at one terminal, no engine moves")
	fen := flag.String("fen", "", "start from this position")
	memory := flag.Bool("memory", false, "keep preferences and games in memory only")
	verbose := flag.Int("v", 0, "log verbosity")
	flag.Parse()

	stdr.SetVerbosity(*verbose)
	log := stdr.New(nil).WithName("chesscore")

	a := &app{log: log, out: os.Stdout}
	a.openStorage(*memory)
	defer a.close()

	if *difficulty != "" {
		d, ok := engine.ParseDifficulty(*difficulty)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown difficulty %q\n", *difficulty)
			os.Exit(2)
		}
		a.prefs.Difficulty = storage.Difficulty(d)
		a.prefs.Depth = 0
	}
	if *depth > 0 {
		a.prefs.Depth = *depth
	}
	switch strings.ToLower(*color) {
	case "":
	case "white", "w":
		a.prefs.PlayerColor = storage.ColorWhite
	case "black", "b":
		a.prefs.PlayerColor = storage.ColorBlack
	default:
		fmt.Fprintf(os.Stderr, "unknown color %q\n", *color)
		os.Exit(2)
	}
	if *hvh {
		a.prefs.GameMode = storage.ModeHumanVsHuman
	}
	a.applyPreferences()

	if err := a.newGame(*fen); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	a.run(os.Stdin)
}

// openStorage opens the database, falling back to memory so the game is
// playable without a writable data directory.
func (a *app) openStorage(memory bool) {
	var err error
	if !memory {
		a.store, err = storage.NewStorage(a.log)
		if err != nil {
			a.log.Error(err, "failed to open storage, using memory")
		}
	}
	if a.store == nil {
		if a.store, err = storage.OpenInMemory(a.log); err != nil {
			a.log.Error(err, "failed to open in-memory storage")
			os.Exit(1)
		}
	}

	a.prefs = storage.DefaultPreferences()
	if prefs, err := a.store.LoadPreferences(); err != nil {
		a.log.Error(err, "failed to load preferences")
	} else {
		a.prefs = prefs
	}
	if first, err := a.store.IsFirstLaunch(); err == nil && first {
		fmt.Fprintf(a.out, "Welcome to chesscore. Type help for commands.\n")
		if err := a.store.MarkFirstLaunchComplete(); err != nil {
			a.log.Error(err, "failed to mark first launch complete")
		}
	}
}

func (a *app) applyPreferences() {
	cfg := engine.DefaultConfig()
	cfg.Logger = a.log
	cfg.Depth = engine.DifficultySettings[engine.Difficulty(a.prefs.Difficulty)]
	if a.prefs.Depth > 0 {
		cfg.Depth = a.prefs.Depth
	}
	a.eng = engine.NewEngine(cfg)

	a.player = board.White
	if a.prefs.PlayerColor == storage.ColorBlack {
		a.player = board.Black
	}
}

func (a *app) close() {
	a.prefs.LastPlayed = time.Now()
	if err := a.store.SavePreferences(a.prefs); err != nil {
		a.log.Error(err, "failed to save preferences")
	}
	if err := a.store.Close(); err != nil {
		a.log.Error(err, "failed to close storage")
	}
}

func (a *app) vsComputer() bool {
	return a.prefs.GameMode == storage.ModeHumanVsComputer
}

func (a *app) newGame(fen string) error {
	opts := []game.Option{game.WithEngine(a.eng), game.WithLogger(a.log)}
	if fen == "" {
		a.session = game.New(opts...)
	} else {
		s, err := game.FromFEN(fen, opts...)
		if err != nil {
			return err
		}
		a.session = s
	}
	a.eng.Clear()
	a.started = time.Now()
	fmt.Fprint(a.out, a.session.Position())
	return nil
}

func (a *app) run(in io.Reader) {
	sc := bufio.NewScanner(in)
	for {
		a.engineTurn()
		fmt.Fprintf(a.out, "%s> ", a.session.Position().SideToMove)
		if !sc.Scan() {
			return
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if quit := a.command(fields[0], fields[1:]); quit {
			return
		}
	}
}

// engineTurn lets the engine reply while it is its move.
func (a *app) engineTurn() {
	pos := a.session.Position()
	if !a.vsComputer() || pos.SideToMove == a.player || a.session.Status().IsOver() {
		return
	}
	a.engineMove()
}

func (a *app) engineMove() {
	ch, err := a.session.RequestEngineMove()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return
	}
	res := <-ch
	if res.Err != nil {
		fmt.Fprintln(a.out, res.Err)
		return
	}
	sans := a.session.SANHistory()
	fmt.Fprintf(a.out, "engine plays %s (%s, %s nodes)\n",
		sans[len(sans)-1], engine.ScoreToString(res.Score), humanize.Comma(int64(a.eng.Nodes())))
	a.afterMove()
}

func (a *app) command(cmd string, args []string) (quit bool) {
	switch cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(a.out, help)
	case "board":
		fmt.Fprint(a.out, a.session.Position())
	case "fen":
		fmt.Fprintln(a.out, a.session.Position().ToFEN())
	case "eval":
		fmt.Fprintln(a.out, engine.ScoreToString(a.eng.Evaluate(a.session.Position())))
	case "go":
		a.engineMove()
	case "hint":
		m, score, err := a.session.FindBestMove(a.eng.Depth())
		if err != nil {
			fmt.Fprintln(a.out, err)
			break
		}
		fmt.Fprintf(a.out, "hint: %s (%s)\n", a.session.Position().SAN(m), engine.ScoreToString(score))
	case "undo":
		plies := 1
		if a.vsComputer() && a.session.Position().SideToMove == a.player {
			plies = 2
		}
		for i := 0; i < plies; i++ {
			if err := a.session.Undo(); err != nil {
				fmt.Fprintln(a.out, err)
				break
			}
		}
	case "new":
		if err := a.newGame(""); err != nil {
			fmt.Fprintln(a.out, err)
		}
	case "save":
		if len(args) != 1 {
			fmt.Fprintln(a.out, "usage: save NAME")
			break
		}
		if err := a.store.SaveGame(a.session.Save(args[0])); err != nil {
			fmt.Fprintln(a.out, err)
		}
	case "load":
		if len(args) != 1 {
			fmt.Fprintln(a.out, "usage: load NAME")
			break
		}
		a.load(args[0])
	case "games":
		a.listGames()
	case "stats":
		a.showStats()
	default:
		a.play(cmd)
	}
	return false
}

func (a *app) play(text string) {
	if a.vsComputer() && a.session.Position().SideToMove != a.player {
		fmt.Fprintln(a.out, "it is the engine's move (type go)")
		return
	}
	if _, err := a.session.PlayText(text); err != nil {
		if errors.Is(err, game.ErrIllegalMove) {
			fmt.Fprintf(a.out, "illegal move %q\n", text)
		} else {
			fmt.Fprintln(a.out, err)
		}
		return
	}
	a.afterMove()
}

// afterMove reports check and the end of the game, recording the result
// of a finished game against the engine.
func (a *app) afterMove() {
	pos := a.session.Position()
	st := a.session.Status()
	if !st.IsOver() {
		if pos.InCheck(pos.SideToMove) {
			fmt.Fprintln(a.out, "check")
		}
		return
	}
	fmt.Fprint(a.out, pos)
	fmt.Fprintf(a.out, "%s: %s\n", st, a.session.Result())
	if !a.vsComputer() {
		return
	}

	result := storage.GameResult{
		Draw:       st.IsDraw(),
		Won:        st == game.Checkmate && pos.SideToMove != a.player,
		Mode:       a.prefs.GameMode,
		Difficulty: a.prefs.Difficulty,
		Duration:   time.Since(a.started),
	}
	if err := a.store.RecordGame(result); err != nil {
		a.log.Error(err, "failed to record game")
	}
}

func (a *app) load(name string) {
	g, err := a.store.LoadGame(name)
	if err != nil {
		fmt.Fprintln(a.out, err)
		return
	}
	s, err := game.Restore(g, game.WithEngine(a.eng), game.WithLogger(a.log))
	if err != nil {
		fmt.Fprintln(a.out, err)
		return
	}
	a.session = s
	a.started = time.Now()
	fmt.Fprintf(a.out, "%s\n", strings.Join(s.SANHistory(), " "))
	fmt.Fprint(a.out, s.Position())
}

func (a *app) listGames() {
	names, err := a.store.ListGames()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return
	}
	for _, name := range names {
		g, err := a.store.LoadGame(name)
		if err != nil {
			fmt.Fprintln(a.out, err)
			continue
		}
		fmt.Fprintf(a.out, "%-20s %3d plies  %-7s saved %s\n", name, len(g.Moves), g.Result, humanize.Time(g.SavedAt))
	}
}

func (a *app) showStats() {
	stats, err := a.store.LoadStats()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return
	}
	fmt.Fprintf(a.out, "%s: %d games, %d won, %d lost, %d drawn (%.0f%%), best streak %d, played %s\n",
		a.prefs.Username, stats.GamesPlayed, stats.Wins, stats.Losses, stats.Draws,
		stats.GetWinRate(), stats.LongestWinStrk, stats.TotalPlayTime.Round(time.Second))
}
